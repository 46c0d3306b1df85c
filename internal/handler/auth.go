package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/asistio/asistio/internal/service"
)

type AuthHandler struct {
	authService    *service.AuthService
	profileService *service.ProfileService
}

func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(r, &req)
	if err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	account, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		slog.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, err := h.authService.GenerateJWT(account)
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	h.authService.SetJWTCookie(w, token, time.Now().Add(h.authService.JWTExpiry()))

	slog.Info("user logged in", "account_id", account.ID)
	writeJSON(w, http.StatusOK, loginResponse{UserID: account.ID, Email: account.Email})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword always acknowledges with 200 so the endpoint cannot be
// used to probe which emails exist.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	err := decodeJSON(r, &req)
	if err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	err = h.authService.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			writeError(w, http.StatusBadRequest, "Invalid email address")
			return
		}
		slog.Error("password reset request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process request")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If the email exists, a reset link has been sent",
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	err := decodeJSON(r, &req)
	if err != nil || req.Token == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "token and password are required")
		return
	}

	err = h.authService.ResetPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			writeError(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		slog.Error("password reset failed", "error", err)
		writeErrorDetails(w, http.StatusBadRequest, "Failed to reset password", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
