package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asistio/asistio/internal/model"
	"github.com/asistio/asistio/internal/repository"
)

type fakeAttendance struct {
	records []model.Attendance
}

func (f *fakeAttendance) Create(_ context.Context, record *model.Attendance) error {
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeAttendance) List(_ context.Context, filter repository.AttendanceFilter) ([]model.Attendance, error) {
	out := make([]model.Attendance, 0, len(f.records))
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		out = append(out, r)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeAttendance) LastForUser(_ context.Context, userID string) (*model.Attendance, error) {
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].UserID == userID {
			return &f.records[i], nil
		}
	}
	return nil, repository.ErrAttendanceNotFound
}

func (f *fakeAttendance) CountForUserSince(_ context.Context, userID string, since time.Time) (int, error) {
	n := 0
	for _, r := range f.records {
		if r.UserID == userID && !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAttendance) CountSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, r := range f.records {
		if !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeProfileLookup struct {
	fakeProfiles
	byID map[string]*model.Profile
}

func (f *fakeProfileLookup) ByID(_ context.Context, id string) (*model.Profile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileLookup) Count(context.Context) (int, error) {
	return len(f.byID), nil
}

func newAttendanceFixture(t *testing.T) (*AttendanceService, *fakeAttendance, *time.Time) {
	t.Helper()

	profiles := &fakeProfileLookup{byID: map[string]*model.Profile{
		"u1": {ID: "u1", GivenNames: "Ana", FamilyNames: "Lopez"},
	}}
	attendance := &fakeAttendance{}
	svc := NewAttendanceService(attendance, profiles)

	now := time.Date(2026, 3, 16, 9, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return now }
	return svc, attendance, &now
}

func TestRegisterChecksCodeFormat(t *testing.T) {
	svc, _, _ := newAttendanceFixture(t)

	for _, code := range []string{"", "u1", "user:u1", "USER:"} {
		_, err := svc.Register(context.Background(), code)
		assert.ErrorIs(t, err, ErrInvalidQRCode, "code %q", code)
	}
}

func TestRegisterUnknownUser(t *testing.T) {
	svc, _, _ := newAttendanceFixture(t)

	_, err := svc.Register(context.Background(), "USER:nobody")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestRegisterFirstScanIsMorningCheckIn(t *testing.T) {
	svc, attendance, _ := newAttendanceFixture(t)

	result, err := svc.Register(context.Background(), "USER:u1")
	require.NoError(t, err)

	require.Len(t, attendance.records, 1)
	assert.Equal(t, model.SessionMorning, result.Record.Session)
	assert.Equal(t, model.TypeCheckIn, result.Record.Type)
	assert.Equal(t, "Ana Lopez", result.User)
	assert.Contains(t, result.Message, "Check-in")
}

func TestRegisterAlternatesCheckInOut(t *testing.T) {
	svc, _, now := newAttendanceFixture(t)

	first, err := svc.Register(context.Background(), "USER:u1")
	require.NoError(t, err)
	assert.Equal(t, model.TypeCheckIn, first.Record.Type)

	*now = now.Add(6 * time.Hour)
	second, err := svc.Register(context.Background(), "USER:u1")
	require.NoError(t, err)
	assert.Equal(t, model.TypeCheckOut, second.Record.Type)
	assert.Equal(t, model.SessionAfternoon, second.Record.Session)

	*now = now.Add(5 * time.Hour)
	third, err := svc.Register(context.Background(), "USER:u1")
	require.NoError(t, err)
	assert.Equal(t, model.TypeCheckIn, third.Record.Type)
	assert.Equal(t, model.SessionEvening, third.Record.Session)
}

func TestRegisterRejectsDoubleScan(t *testing.T) {
	svc, attendance, now := newAttendanceFixture(t)

	_, err := svc.Register(context.Background(), "USER:u1")
	require.NoError(t, err)

	*now = now.Add(2 * time.Minute)
	_, err = svc.Register(context.Background(), "USER:u1")
	assert.ErrorIs(t, err, ErrDuplicateScan)
	assert.Len(t, attendance.records, 1)

	*now = now.Add(4 * time.Minute)
	_, err = svc.Register(context.Background(), "USER:u1")
	assert.NoError(t, err)
}

func TestRegisterTypeResetsNextDay(t *testing.T) {
	svc, _, now := newAttendanceFixture(t)

	_, err := svc.Register(context.Background(), "USER:u1")
	require.NoError(t, err)

	// Next morning: yesterday's scans no longer count toward alternation.
	*now = now.Add(24 * time.Hour)
	result, err := svc.Register(context.Background(), "USER:u1")
	require.NoError(t, err)
	assert.Equal(t, model.TypeCheckIn, result.Record.Type)
}

func TestSessionForHour(t *testing.T) {
	assert.Equal(t, model.SessionMorning, sessionForHour(0))
	assert.Equal(t, model.SessionMorning, sessionForHour(11))
	assert.Equal(t, model.SessionAfternoon, sessionForHour(12))
	assert.Equal(t, model.SessionAfternoon, sessionForHour(17))
	assert.Equal(t, model.SessionEvening, sessionForHour(18))
	assert.Equal(t, model.SessionEvening, sessionForHour(23))
}

func TestStats(t *testing.T) {
	svc, attendance, now := newAttendanceFixture(t)

	// One record yesterday, two today.
	attendance.records = append(attendance.records, model.Attendance{
		UserID: "u1", CreatedAt: now.Add(-24 * time.Hour),
	})
	_, err := svc.Register(context.Background(), "USER:u1")
	require.NoError(t, err)
	*now = now.Add(10 * time.Minute)
	_, err = svc.Register(context.Background(), "USER:u1")
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Today)
	assert.Equal(t, 1, stats.Users)
	assert.Len(t, stats.Latest, 3)
}
