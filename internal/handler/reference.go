package handler

import (
	"log/slog"
	"net/http"

	"github.com/asistio/asistio/internal/service"
)

// ReferenceHandler serves the lookup tables the registration and filter
// forms are built from.
type ReferenceHandler struct {
	referenceService *service.ReferenceService
}

func NewReferenceHandler(referenceService *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{
		referenceService: referenceService,
	}
}

func (h *ReferenceHandler) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.referenceService.Roles(r.Context())
	if err != nil {
		slog.Error("failed to list roles", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list roles")
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *ReferenceHandler) Faculties(w http.ResponseWriter, r *http.Request) {
	faculties, err := h.referenceService.Faculties(r.Context())
	if err != nil {
		slog.Error("failed to list faculties", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list faculties")
		return
	}
	writeJSON(w, http.StatusOK, faculties)
}

func (h *ReferenceHandler) Careers(w http.ResponseWriter, r *http.Request) {
	careers, err := h.referenceService.Careers(r.Context())
	if err != nil {
		slog.Error("failed to list careers", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list careers")
		return
	}
	writeJSON(w, http.StatusOK, careers)
}
