package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/asistio/asistio/internal/directory"
	"github.com/asistio/asistio/internal/repository"
	"github.com/asistio/asistio/internal/service"
)

// AdminHandler exposes the privileged user management operations the SPA
// admin pages call. The routing layer gates every endpoint behind the
// admin role; these handlers only implement the operations themselves.
type AdminHandler struct {
	provisionService *service.ProvisionService
	profileService   *service.ProfileService
}

func NewAdminHandler(provisionService *service.ProvisionService, profileService *service.ProfileService) *AdminHandler {
	return &AdminHandler{
		provisionService: provisionService,
		profileService:   profileService,
	}
}

type createUserRequest struct {
	Email              string  `json:"email"`
	Password           string  `json:"password"`
	GivenNames         string  `json:"nombres"`
	FamilyNames        string  `json:"apellidos"`
	InstitutionalEmail string  `json:"correo_institucional"`
	RoleID             *string `json:"id_rol"`
	FacultyID          *string `json:"id_facultad"`
	CareerID           *string `json:"id_carrera"`
	AvatarPath         *string `json:"avatar_url"`
}

type createUserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// CreateUser provisions a new account plus profile. Success is 201 with
// the fresh account id; every failure maps to 400 with the error message,
// matching what the admin form expects.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := h.provisionService.Provision(r.Context(), service.ProvisionInput{
		Email:              req.Email,
		Password:           req.Password,
		GivenNames:         req.GivenNames,
		FamilyNames:        req.FamilyNames,
		InstitutionalEmail: req.InstitutionalEmail,
		RoleID:             req.RoleID,
		FacultyID:          req.FacultyID,
		CareerID:           req.CareerID,
		AvatarPath:         req.AvatarPath,
	})
	if err != nil {
		slog.Warn("user creation failed", "email", req.Email, "error", err)

		switch {
		case errors.Is(err, service.ErrMissingField):
			writeError(w, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, directory.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "Email already exists")
		default:
			writeErrorDetails(w, http.StatusBadRequest, "Failed to create user", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, createUserResponse{
		Message: "User created successfully",
		UserID:  userID,
	})
}

type deleteUserRequest struct {
	UserID string `json:"userId"`
}

// DeleteUser removes the account; profile and attendance rows cascade.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req deleteUserRequest
	err := decodeJSON(r, &req)
	if err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	err = h.provisionService.Deprovision(r.Context(), req.UserID)
	if err != nil {
		slog.Warn("user deletion failed", "user_id", req.UserID, "error", err)

		if errors.Is(err, directory.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeErrorDetails(w, http.StatusBadRequest, "Failed to delete user", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListUsers returns every profile with its joined role for the admin
// users table.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.List(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

type updateUserRequest struct {
	GivenNames         string  `json:"nombres"`
	FamilyNames        string  `json:"apellidos"`
	InstitutionalEmail string  `json:"correo_institucional"`
	RoleID             *string `json:"id_rol"`
	FacultyID          *string `json:"id_facultad"`
	CareerID           *string `json:"id_carrera"`
	AvatarPath         *string `json:"avatar_url"`
}

// UpdateUser edits an existing profile. The QR code is preserved.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	profile, err := h.profileService.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("failed to get profile", "user_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	var req updateUserRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.profileService.Update(r.Context(), id, repository.ProfileFields{
		GivenNames:         req.GivenNames,
		FamilyNames:        req.FamilyNames,
		InstitutionalEmail: req.InstitutionalEmail,
		RoleID:             req.RoleID,
		FacultyID:          req.FacultyID,
		CareerID:           req.CareerID,
		QRCode:             profile.QRCode,
		AvatarPath:         req.AvatarPath,
	})
	if err != nil {
		slog.Error("failed to update profile", "user_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	updated, err := h.profileService.ByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load updated user")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
