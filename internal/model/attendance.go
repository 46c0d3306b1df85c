package model

import "time"

// Attendance session and type values. Sessions follow the local time of
// day the scan happened; types alternate between check-in and check-out.
const (
	SessionMorning   = "manana"
	SessionAfternoon = "tarde"
	SessionEvening   = "noche"

	TypeCheckIn  = "entrada"
	TypeCheckOut = "salida"
)

type Attendance struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Session   string    `db:"session" json:"session"`
	Type      string    `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined profile fields for admin listings.
	GivenNames  *string `db:"nombres" json:"nombres,omitempty"`
	FamilyNames *string `db:"apellidos" json:"apellidos,omitempty"`
	Email       *string `db:"correo_institucional" json:"correo_institucional,omitempty"`
}
