package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/asistio/asistio/internal/ctxkeys"
	"github.com/asistio/asistio/internal/model"
	"github.com/asistio/asistio/internal/repository"
	"github.com/asistio/asistio/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	avatarService  *service.AvatarService
}

func NewProfileHandler(profileService *service.ProfileService, avatarService *service.AvatarService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		avatarService:  avatarService,
	}
}

type meResponse struct {
	*model.Profile
	AvatarURL string `json:"avatar_public_url,omitempty"`
}

// Me returns the signed-in user's profile with joined role, faculty and
// career, plus a resolved avatar URL when one is set.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile := ctxkeys.Profile(r.Context())

	resp := meResponse{Profile: profile}
	if profile.AvatarPath != nil {
		resp.AvatarURL = h.avatarService.URL(*profile.AvatarPath)
	}

	writeJSON(w, http.StatusOK, resp)
}

type updateMeRequest struct {
	GivenNames  string `json:"nombres"`
	FamilyNames string `json:"apellidos"`
}

// UpdateMe lets users edit their own names. Role and institutional fields
// stay admin-only.
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	account := ctxkeys.Account(r.Context())

	var req updateMeRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.profileService.UpdateNames(r.Context(), account.ID, req.GivenNames, req.FamilyNames)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.profileService.ByID(r.Context(), account.ID)
	if err != nil {
		slog.Error("failed to reload profile", "account_id", account.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UploadAvatar accepts a multipart image and stores it for the signed-in
// user.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	account := ctxkeys.Account(r.Context())

	err := r.ParseMultipartForm(10 << 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	_, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "avatar file is required")
		return
	}

	url, err := h.avatarService.Upload(r.Context(), account.ID, header)
	if err != nil {
		slog.Warn("avatar upload failed", "account_id", account.ID, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"avatar_public_url": url})
}

func (h *ProfileHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	account := ctxkeys.Account(r.Context())

	err := h.avatarService.Delete(r.Context(), account.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		slog.Error("avatar deletion failed", "account_id", account.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete avatar")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
