package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/asistio/asistio/internal/ctxkeys"
	"github.com/asistio/asistio/internal/repository"
	"github.com/asistio/asistio/internal/service"
)

type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

type scanRequest struct {
	Code string `json:"code"`
}

// Scan processes a QR code read by the admin scanner page.
func (h *AttendanceHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	err := decodeJSON(r, &req)
	if err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	result, err := h.attendanceService.Register(r.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQRCode):
			writeError(w, http.StatusBadRequest, "Invalid QR code")
		case errors.Is(err, service.ErrUnknownUser):
			writeError(w, http.StatusNotFound, "No user matches this QR code")
		case errors.Is(err, service.ErrDuplicateScan):
			writeError(w, http.StatusConflict, "Attendance already registered moments ago")
		default:
			slog.Error("attendance registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to register attendance")
		}
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// List serves the admin attendance table with optional filters.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list attendance", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list attendance")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// ListMine serves the signed-in user's own attendance history.
func (h *AttendanceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	account := ctxkeys.Account(r.Context())

	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.attendanceService.ListForUser(r.Context(), account.ID, filter)
	if err != nil {
		slog.Error("failed to list attendance", "account_id", account.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list attendance")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// filterFromQuery parses the shared filter query parameters. Dates use
// YYYY-MM-DD; the end date is inclusive.
func filterFromQuery(r *http.Request) (repository.AttendanceFilter, error) {
	q := r.URL.Query()
	filter := repository.AttendanceFilter{
		Session:   q.Get("session"),
		RoleID:    q.Get("id_rol"),
		FacultyID: q.Get("id_facultad"),
		CareerID:  q.Get("id_carrera"),
	}

	if start := q.Get("start"); start != "" {
		t, err := time.ParseInLocation("2006-01-02", start, time.Local)
		if err != nil {
			return filter, errors.New("invalid start date, expected YYYY-MM-DD")
		}
		filter.Start = t
	}

	if end := q.Get("end"); end != "" {
		t, err := time.ParseInLocation("2006-01-02", end, time.Local)
		if err != nil {
			return filter, errors.New("invalid end date, expected YYYY-MM-DD")
		}
		filter.End = t.AddDate(0, 0, 1)
	}

	return filter, nil
}
