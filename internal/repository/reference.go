package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/asistio/asistio/internal/model"
)

// ReferenceRepository reads the lookup tables. They are seeded by a
// migration and never written by the application.
type ReferenceRepository interface {
	Roles(ctx context.Context) ([]model.Role, error)
	RoleByName(ctx context.Context, name string) (*model.Role, error)
	Faculties(ctx context.Context) ([]model.Faculty, error)
	Careers(ctx context.Context) ([]model.Career, error)
}

type referenceRepository struct {
	db *sqlx.DB
}

func NewReferenceRepository(db *sqlx.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) Roles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.SelectContext(ctx, &roles, `SELECT * FROM roles_usuarios ORDER BY nombre`)
	return roles, err
}

func (r *referenceRepository) RoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.GetContext(ctx, &role, `SELECT * FROM roles_usuarios WHERE nombre = $1`, name)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *referenceRepository) Faculties(ctx context.Context) ([]model.Faculty, error) {
	var faculties []model.Faculty
	err := r.db.SelectContext(ctx, &faculties, `SELECT * FROM facultades ORDER BY nombre`)
	return faculties, err
}

func (r *referenceRepository) Careers(ctx context.Context) ([]model.Career, error) {
	var careers []model.Career
	err := r.db.SelectContext(ctx, &careers, `SELECT * FROM carreras ORDER BY nombre`)
	return careers, err
}
