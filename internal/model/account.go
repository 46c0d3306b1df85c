package model

import (
	"time"
)

// Account is the identity record in the auth directory. It carries the
// credential only; everything the application knows about a person lives
// in the Profile keyed by the same id.
type Account struct {
	ID             string    `db:"id"`
	Email          string    `db:"email"`
	PasswordHash   string    `db:"password_hash"`
	EmailConfirmed bool      `db:"email_confirmed"`
	CreatedAt      time.Time `db:"created_at"`
}
