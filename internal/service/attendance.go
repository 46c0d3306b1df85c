package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asistio/asistio/internal/model"
	"github.com/asistio/asistio/internal/repository"
)

var (
	ErrInvalidQRCode = errors.New("invalid QR code")
	ErrUnknownUser   = errors.New("no user matches this QR code")
	ErrDuplicateScan = errors.New("attendance already registered moments ago")
)

// qrPrefix is the payload scheme the badge QR codes carry.
const qrPrefix = "USER:"

// duplicateScanWindow rejects accidental double scans of the same badge.
const duplicateScanWindow = 5 * time.Minute

// ScanResult is what the scanner UI shows after processing a code.
type ScanResult struct {
	Record  *model.Attendance `json:"record"`
	User    string            `json:"user"`
	Message string            `json:"message"`
}

// DashboardStats backs the admin dashboard KPI cards.
type DashboardStats struct {
	Today  int                `json:"today"`
	Users  int                `json:"users"`
	Latest []model.Attendance `json:"latest"`
}

type AttendanceService struct {
	attendance repository.AttendanceRepository
	profiles   repository.ProfileRepository
	now        func() time.Time
}

func NewAttendanceService(attendance repository.AttendanceRepository, profiles repository.ProfileRepository) *AttendanceService {
	return &AttendanceService{
		attendance: attendance,
		profiles:   profiles,
		now:        time.Now,
	}
}

// Register logs an attendance record for the scanned badge code.
// The session follows the local hour of the scan; the type alternates
// between check-in and check-out across the user's scans that day.
func (s *AttendanceService) Register(ctx context.Context, code string) (*ScanResult, error) {
	if !strings.HasPrefix(code, qrPrefix) {
		return nil, ErrInvalidQRCode
	}
	userID := strings.TrimPrefix(code, qrPrefix)
	if userID == "" {
		return nil, ErrInvalidQRCode
	}

	profile, err := s.profiles.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	now := s.now()

	last, err := s.attendance.LastForUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrAttendanceNotFound) {
		return nil, fmt.Errorf("failed to get last record: %w", err)
	}
	if last != nil && now.Sub(last.CreatedAt) < duplicateScanWindow {
		return nil, ErrDuplicateScan
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayCount, err := s.attendance.CountForUserSince(ctx, userID, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's records: %w", err)
	}

	record := &model.Attendance{
		UserID:    userID,
		Session:   sessionForHour(now.Hour()),
		Type:      typeForCount(todayCount),
		CreatedAt: now,
	}

	err = s.attendance.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	verb := "Check-in"
	if record.Type == model.TypeCheckOut {
		verb = "Check-out"
	}

	return &ScanResult{
		Record:  record,
		User:    profile.FullName(),
		Message: fmt.Sprintf("%s registered for %s", verb, profile.FullName()),
	}, nil
}

func sessionForHour(hour int) string {
	switch {
	case hour < 12:
		return model.SessionMorning
	case hour < 18:
		return model.SessionAfternoon
	default:
		return model.SessionEvening
	}
}

// typeForCount alternates entrada/salida over the day's scans.
func typeForCount(todayCount int) string {
	if todayCount%2 == 0 {
		return model.TypeCheckIn
	}
	return model.TypeCheckOut
}

// List returns filtered records with joined profile fields, newest first.
func (s *AttendanceService) List(ctx context.Context, filter repository.AttendanceFilter) ([]model.Attendance, error) {
	return s.attendance.List(ctx, filter)
}

// ListForUser restricts the listing to one user's own records.
func (s *AttendanceService) ListForUser(ctx context.Context, userID string, filter repository.AttendanceFilter) ([]model.Attendance, error) {
	filter.UserID = userID
	return s.attendance.List(ctx, filter)
}

// Stats aggregates the dashboard numbers: today's scan count, registered
// users, and the five most recent records.
func (s *AttendanceService) Stats(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	today, err := s.attendance.CountSince(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's records: %w", err)
	}

	users, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	latest, err := s.attendance.List(ctx, repository.AttendanceFilter{Limit: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to list latest records: %w", err)
	}

	return &DashboardStats{
		Today:  today,
		Users:  users,
		Latest: latest,
	}, nil
}
