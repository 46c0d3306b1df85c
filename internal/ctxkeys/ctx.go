package ctxkeys

import (
	"context"

	"github.com/asistio/asistio/internal/config"
	"github.com/asistio/asistio/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	AccountKey contextKey = "account"
	ProfileKey contextKey = "profile"
	ConfigKey  contextKey = "config"
)

func Account(ctx context.Context) *model.Account {
	account, _ := ctx.Value(AccountKey).(*model.Account)
	return account
}

func WithAccount(ctx context.Context, account *model.Account) context.Context {
	return context.WithValue(ctx, AccountKey, account)
}

func Profile(ctx context.Context) *model.Profile {
	profile, _ := ctx.Value(ProfileKey).(*model.Profile)
	return profile
}

func WithProfile(ctx context.Context, profile *model.Profile) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}
