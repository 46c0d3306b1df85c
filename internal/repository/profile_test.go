package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockProfiles(t *testing.T) (ProfileRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewProfileRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var profileColumns = []string{
	"id", "nombres", "apellidos", "correo_institucional",
	"id_rol", "id_facultad", "id_carrera", "codigo_qr", "avatar_url",
	"creado_en", "actualizado_en",
	"rol_nombre", "rol_creado_en",
	"facultad_nombre",
	"carrera_nombre", "carrera_id_facultad",
}

func TestProfileByID(t *testing.T) {
	repo, mock := newMockProfiles(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM perfiles p`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			"u1", "Ana", "Lopez", "ana@uni.edu",
			"r1", "f1", nil, "USER:u1", nil,
			now, now,
			"admin", now,
			"Ingenieria",
			nil, nil,
		))

	p, err := repo.ByID(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "Ana Lopez", p.FullName())
	require.NotNil(t, p.Role)
	assert.Equal(t, "admin", p.Role.Name)
	assert.Equal(t, "admin", p.RoleName())
	require.NotNil(t, p.Faculty)
	assert.Equal(t, "Ingenieria", p.Faculty.Name)
	// id_carrera was NULL, so no career relation is attached.
	assert.Nil(t, p.Career)
}

func TestProfileByIDNotFound(t *testing.T) {
	repo, mock := newMockProfiles(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM perfiles p`)).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(profileColumns))

	_, err := repo.ByID(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileUpdate(t *testing.T) {
	repo, mock := newMockProfiles(t)

	qr := "USER:u1"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE perfiles`)).
		WithArgs("Ana", "Lopez", "ana@uni.edu", nil, nil, nil, &qr, nil, sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "u1", ProfileFields{
		GivenNames:         "Ana",
		FamilyNames:        "Lopez",
		InstitutionalEmail: "ana@uni.edu",
		QRCode:             &qr,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileUpdateMissingRow(t *testing.T) {
	repo, mock := newMockProfiles(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE perfiles`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), "nobody", ProfileFields{})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
