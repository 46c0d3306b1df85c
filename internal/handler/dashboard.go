package handler

import (
	"log/slog"
	"net/http"

	"github.com/asistio/asistio/internal/service"
)

type DashboardHandler struct {
	attendanceService *service.AttendanceService
}

func NewDashboardHandler(attendanceService *service.AttendanceService) *DashboardHandler {
	return &DashboardHandler{
		attendanceService: attendanceService,
	}
}

// Stats serves the KPI cards and the latest-records table.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.attendanceService.Stats(r.Context())
	if err != nil {
		slog.Error("failed to load dashboard stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
