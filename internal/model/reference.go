package model

import "time"

// Role, Faculty and Career are read-only lookup tables seeded by a
// migration. They have no lifecycle of their own in this service.

type Role struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"nombre" json:"nombre"`
	CreatedAt time.Time `db:"creado_en" json:"creado_en"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Faculty struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"nombre" json:"nombre"`
}

type Career struct {
	ID        string `db:"id" json:"id"`
	FacultyID string `db:"id_facultad" json:"id_facultad"`
	Name      string `db:"nombre" json:"nombre"`
}
