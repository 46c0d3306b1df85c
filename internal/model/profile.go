package model

import "time"

// Profile is the application-level user record. Column and JSON names keep
// the wire vocabulary the SPA already speaks (nombres, apellidos, ...).
//
// A blank row is created by a database trigger the moment an Account is
// inserted; the provisioning workflow fills it in afterwards.
type Profile struct {
	ID                 string    `db:"id" json:"id"`
	GivenNames         string    `db:"nombres" json:"nombres"`
	FamilyNames        string    `db:"apellidos" json:"apellidos"`
	InstitutionalEmail string    `db:"correo_institucional" json:"correo_institucional"`
	RoleID             *string   `db:"id_rol" json:"id_rol"`
	FacultyID          *string   `db:"id_facultad" json:"id_facultad"`
	CareerID           *string   `db:"id_carrera" json:"id_carrera"`
	QRCode             *string   `db:"codigo_qr" json:"codigo_qr"`
	AvatarPath         *string   `db:"avatar_url" json:"avatar_url"`
	CreatedAt          time.Time `db:"creado_en" json:"creado_en"`
	UpdatedAt          time.Time `db:"actualizado_en" json:"actualizado_en"`

	// Joined lookup rows, present only when the query asked for them.
	// Each relation is an explicit nullable field, never inferred from
	// the shape of the payload.
	Role    *Role    `db:"-" json:"roles_usuarios,omitempty"`
	Faculty *Faculty `db:"-" json:"facultades,omitempty"`
	Career  *Career  `db:"-" json:"carreras,omitempty"`
}

// RoleName returns the joined role name, or "" when the profile has no
// role assigned or the relation was not loaded.
func (p *Profile) RoleName() string {
	if p.Role == nil {
		return ""
	}
	return p.Role.Name
}

// FullName is the display name used in attendance listings.
func (p *Profile) FullName() string {
	if p.GivenNames == "" {
		return p.FamilyNames
	}
	if p.FamilyNames == "" {
		return p.GivenNames
	}
	return p.GivenNames + " " + p.FamilyNames
}
