package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/asistio/asistio/internal/model"
)

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// AttendanceFilter narrows admin listings. Zero values mean "no filter".
type AttendanceFilter struct {
	Start     time.Time
	End       time.Time
	Session   string
	RoleID    string
	FacultyID string
	CareerID  string
	UserID    string
	Limit     int
}

type AttendanceRepository interface {
	Create(ctx context.Context, record *model.Attendance) error
	List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error)
	LastForUser(ctx context.Context, userID string) (*model.Attendance, error)
	CountForUserSince(ctx context.Context, userID string, since time.Time) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *model.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO asistencias (id, user_id, session, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, record.ID, record.UserID, record.Session, record.Type, record.CreatedAt)

	return err
}

func (r *attendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error) {
	query := `
		SELECT a.id, a.user_id, a.session, a.type, a.created_at,
		       p.nombres, p.apellidos, p.correo_institucional
		FROM asistencias a
		JOIN perfiles p ON p.id = a.user_id
		WHERE 1=1
	`
	args := []any{}
	n := 1

	add := func(clause string, value any) {
		query += clause
		args = append(args, value)
		n++
	}

	if !filter.Start.IsZero() {
		add(` AND a.created_at >= $`+strconv.Itoa(n), filter.Start)
	}
	if !filter.End.IsZero() {
		add(` AND a.created_at < $`+strconv.Itoa(n), filter.End)
	}
	if filter.Session != "" {
		add(` AND a.session = $`+strconv.Itoa(n), filter.Session)
	}
	if filter.RoleID != "" {
		add(` AND p.id_rol = $`+strconv.Itoa(n), filter.RoleID)
	}
	if filter.FacultyID != "" {
		add(` AND p.id_facultad = $`+strconv.Itoa(n), filter.FacultyID)
	}
	if filter.CareerID != "" {
		add(` AND p.id_carrera = $`+strconv.Itoa(n), filter.CareerID)
	}
	if filter.UserID != "" {
		add(` AND a.user_id = $`+strconv.Itoa(n), filter.UserID)
	}

	query += ` ORDER BY a.created_at DESC`
	if filter.Limit > 0 {
		add(` LIMIT $`+strconv.Itoa(n), filter.Limit)
	}

	var records []model.Attendance
	err := r.db.SelectContext(ctx, &records, query, args...)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepository) LastForUser(ctx context.Context, userID string) (*model.Attendance, error) {
	var record model.Attendance
	err := r.db.GetContext(ctx, &record, `
		SELECT id, user_id, session, type, created_at
		FROM asistencias
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrAttendanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepository) CountForUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM asistencias WHERE user_id = $1 AND created_at >= $2
	`, userID, since)
	return count, err
}

func (r *attendanceRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM asistencias WHERE created_at >= $1
	`, since)
	return count, err
}
