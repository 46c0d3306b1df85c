package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/asistio/asistio/internal/directory"
	"github.com/asistio/asistio/internal/model"
	"github.com/asistio/asistio/internal/repository"
	"github.com/asistio/asistio/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type AuthService struct {
	directory        directory.Directory
	tokenRepository  repository.TokenRepository
	emailService     *EmailService
	jwtSecret        string
	isProduction     bool
	jwtExpiry        time.Duration
	tokenResetExpiry time.Duration
}

func NewAuthService(
	dir directory.Directory,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
	tokenResetExpiry time.Duration,
) *AuthService {
	return &AuthService{
		directory:        dir,
		tokenRepository:  tokenRepository,
		emailService:     emailService,
		jwtSecret:        jwtSecret,
		isProduction:     isProduction,
		jwtExpiry:        jwtExpiry,
		tokenResetExpiry: tokenResetExpiry,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	account, err := s.directory.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, directory.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return account, nil
}

func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(account *model.Account) (string, error) {
	claims := jwt.MapClaims{
		"user_id": account.ID,
		"email":   account.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) JWTExpiry() time.Duration {
	return s.jwtExpiry
}

// RequestPasswordReset issues a one-time token and mails it. An unknown
// email is reported as success to the caller so the endpoint cannot be
// used to probe which addresses exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return ErrInvalidEmail
	}

	account, err := s.directory.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, directory.ErrAccountNotFound) {
			slog.Info("password reset requested for unknown email", "email", email)
			return nil
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	// Invalidate earlier reset tokens before issuing a new one.
	err = s.tokenRepository.DeleteByUserAndType(ctx, account.ID, model.TokenTypePasswordReset)
	if err != nil {
		return fmt.Errorf("failed to clear old tokens: %w", err)
	}

	token, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.tokenRepository.Create(ctx, &model.Token{
		UserID:    account.ID,
		Type:      model.TokenTypePasswordReset,
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokenResetExpiry),
	})
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	return s.emailService.SendPasswordResetEmail(account.Email, token)
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	err := validation.ValidatePassword(newPassword)
	if err != nil {
		return err
	}

	t, err := s.tokenRepository.ConsumeToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to consume token: %w", err)
	}

	err = s.directory.UpdatePassword(ctx, t.UserID, newPassword)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password reset completed", "account_id", t.UserID)
	return nil
}
