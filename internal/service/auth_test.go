package service

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asistio/asistio/internal/directory"
	"github.com/asistio/asistio/internal/model"
	"github.com/asistio/asistio/internal/repository"
)

type fakeAccounts struct {
	fakeDirectory
	account  *model.Account
	password string
}

func (f *fakeAccounts) Authenticate(_ context.Context, email, password string) (*model.Account, error) {
	if f.account == nil || f.account.Email != email || f.password != password {
		return nil, directory.ErrAccountNotFound
	}
	return f.account, nil
}

func (f *fakeAccounts) ByEmail(_ context.Context, email string) (*model.Account, error) {
	if f.account == nil || f.account.Email != email {
		return nil, directory.ErrAccountNotFound
	}
	return f.account, nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, accountID, password string) error {
	if f.account == nil || f.account.ID != accountID {
		return directory.ErrAccountNotFound
	}
	f.password = password
	return nil
}

type fakeTokens struct {
	tokens map[string]*model.Token
}

func (f *fakeTokens) Create(_ context.Context, token *model.Token) error {
	if f.tokens == nil {
		f.tokens = map[string]*model.Token{}
	}
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeTokens) ConsumeToken(_ context.Context, token string) (*model.Token, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	delete(f.tokens, token)
	return t, nil
}

func (f *fakeTokens) DeleteByUserAndType(_ context.Context, userID, tokenType string) error {
	for k, t := range f.tokens {
		if t.UserID == userID && t.Type == tokenType {
			delete(f.tokens, k)
		}
	}
	return nil
}

func newAuthFixture() (*AuthService, *fakeAccounts, *fakeTokens) {
	accounts := &fakeAccounts{
		account:  &model.Account{ID: "acc-1", Email: "ana@example.com"},
		password: "secret-password",
	}
	tokens := &fakeTokens{}
	email := NewEmailService("", "noreply@example.com", "http://localhost:8090", "Asistio", true)

	svc := NewAuthService(accounts, tokens, email, "test-secret", false, time.Hour, time.Hour)
	return svc, accounts, tokens
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()

	account, err := svc.Login(context.Background(), "  Ana@Example.com ", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()

	// Wrong password and unknown email map to the same error.
	_, err := svc.Login(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "secret-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestJWTRoundTrip(t *testing.T) {
	svc, accounts, _ := newAuthFixture()

	token, err := svc.GenerateJWT(accounts.account)
	require.NoError(t, err)

	claims, err := svc.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims["user_id"])
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	svc, accounts, _ := newAuthFixture()

	other := NewAuthService(accounts, &fakeTokens{}, nil, "other-secret", false, time.Hour, time.Hour)
	token, err := other.GenerateJWT(accounts.account)
	require.NoError(t, err)

	_, err = svc.VerifyJWT(token)
	assert.Error(t, err)
}

func TestJWTCookie(t *testing.T) {
	svc, accounts, _ := newAuthFixture()

	token, err := svc.GenerateJWT(accounts.account)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	svc.SetJWTCookie(w, token, time.Now().Add(time.Hour))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	w = httptest.NewRecorder()
	svc.ClearJWTCookie(w)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].Expires.Before(time.Now()))
}

func TestPasswordResetFlow(t *testing.T) {
	svc, accounts, tokens := newAuthFixture()

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ana@example.com"))
	require.Len(t, tokens.tokens, 1)

	var token string
	for k := range tokens.tokens {
		token = k
	}

	require.NoError(t, svc.ResetPassword(context.Background(), token, "new-password-1"))
	assert.Equal(t, "new-password-1", accounts.password)

	// Tokens are single use.
	err := svc.ResetPassword(context.Background(), token, "another-password")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetPasswordRejectsWeakPassword(t *testing.T) {
	svc, _, _ := newAuthFixture()

	err := svc.ResetPassword(context.Background(), "whatever", "short")
	assert.Error(t, err)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	// Unknown address reports success and issues nothing.
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
	assert.Empty(t, tokens.tokens)
}

func TestRequestPasswordResetInvalidatesOldTokens(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ana@example.com"))
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ana@example.com"))
	assert.Len(t, tokens.tokens, 1)
}

func TestGenerateToken(t *testing.T) {
	svc, _, _ := newAuthFixture()

	a, err := svc.GenerateToken()
	require.NoError(t, err)
	b, err := svc.GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
