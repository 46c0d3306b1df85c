package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/asistio/asistio/internal/model"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileFields are the admin-supplied attributes written into the blank
// trigger-created row. Nil pointers clear the corresponding reference.
type ProfileFields struct {
	GivenNames         string
	FamilyNames        string
	InstitutionalEmail string
	RoleID             *string
	FacultyID          *string
	CareerID           *string
	QRCode             *string
	AvatarPath         *string
}

type ProfileRepository interface {
	ByID(ctx context.Context, id string) (*model.Profile, error)
	Update(ctx context.Context, id string, fields ProfileFields) error
	UpdateNames(ctx context.Context, id, givenNames, familyNames string) error
	UpdateAvatar(ctx context.Context, id string, avatarPath *string) error
	List(ctx context.Context) ([]model.Profile, error)
	Count(ctx context.Context) (int, error)
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// profileRow flattens the LEFT JOINed lookup columns for sqlx scanning.
type profileRow struct {
	model.Profile
	RoleName      *string    `db:"rol_nombre"`
	RoleCreatedAt *time.Time `db:"rol_creado_en"`
	FacultyName   *string    `db:"facultad_nombre"`
	CareerName    *string    `db:"carrera_nombre"`
	CareerFaculty *string    `db:"carrera_id_facultad"`
}

func (row *profileRow) profile() *model.Profile {
	p := row.Profile
	if row.RoleID != nil && row.RoleName != nil {
		p.Role = &model.Role{ID: *row.RoleID, Name: *row.RoleName}
		if row.RoleCreatedAt != nil {
			p.Role.CreatedAt = *row.RoleCreatedAt
		}
	}
	if row.FacultyID != nil && row.FacultyName != nil {
		p.Faculty = &model.Faculty{ID: *row.FacultyID, Name: *row.FacultyName}
	}
	if row.CareerID != nil && row.CareerName != nil {
		p.Career = &model.Career{ID: *row.CareerID, Name: *row.CareerName}
		if row.CareerFaculty != nil {
			p.Career.FacultyID = *row.CareerFaculty
		}
	}
	return &p
}

const profileSelect = `
	SELECT p.*,
	       r.nombre AS rol_nombre, r.creado_en AS rol_creado_en,
	       f.nombre AS facultad_nombre,
	       c.nombre AS carrera_nombre, c.id_facultad AS carrera_id_facultad
	FROM perfiles p
	LEFT JOIN roles_usuarios r ON r.id = p.id_rol
	LEFT JOIN facultades f ON f.id = p.id_facultad
	LEFT JOIN carreras c ON c.id = p.id_carrera
`

func (r *profileRepository) ByID(ctx context.Context, id string) (*model.Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, profileSelect+` WHERE p.id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return row.profile(), nil
}

func (r *profileRepository) Update(ctx context.Context, id string, fields ProfileFields) error {
	query := `
		UPDATE perfiles
		SET nombres = $1, apellidos = $2, correo_institucional = $3,
		    id_rol = $4, id_facultad = $5, id_carrera = $6,
		    codigo_qr = $7, avatar_url = $8, actualizado_en = $9
		WHERE id = $10
	`

	result, err := r.db.ExecContext(ctx, query,
		fields.GivenNames,
		fields.FamilyNames,
		fields.InstitutionalEmail,
		fields.RoleID,
		fields.FacultyID,
		fields.CareerID,
		fields.QRCode,
		fields.AvatarPath,
		time.Now(),
		id,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *profileRepository) UpdateNames(ctx context.Context, id, givenNames, familyNames string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE perfiles
		SET nombres = $1, apellidos = $2, actualizado_en = $3
		WHERE id = $4
	`, givenNames, familyNames, time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *profileRepository) UpdateAvatar(ctx context.Context, id string, avatarPath *string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE perfiles
		SET avatar_url = $1, actualizado_en = $2
		WHERE id = $3
	`, avatarPath, time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *profileRepository) List(ctx context.Context) ([]model.Profile, error) {
	var rows []profileRow
	err := r.db.SelectContext(ctx, &rows, profileSelect+` ORDER BY p.apellidos, p.nombres`)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, *rows[i].profile())
	}
	return profiles, nil
}

func (r *profileRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM perfiles`)
	return count, err
}
