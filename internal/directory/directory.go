package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/asistio/asistio/internal/model"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already exists")
)

// Directory is the auth subsystem: it owns identity records and their
// credentials, nothing else. A database trigger creates the blank profile
// row whenever CreateAccount succeeds, so callers can rely on the row
// existing the moment they get an account id back.
type Directory interface {
	// CreateAccount registers a new identity and returns its id.
	// confirmed=true skips email verification (an admin vouches for the
	// user). Duplicate emails fail with ErrDuplicateEmail.
	CreateAccount(ctx context.Context, email, password string, confirmed bool) (string, error)

	// DeleteAccount removes the identity. Dependent rows cascade via
	// foreign keys owned by the schema. A missing id fails with
	// ErrAccountNotFound.
	DeleteAccount(ctx context.Context, accountID string) error

	// Authenticate verifies the credential and returns the account.
	Authenticate(ctx context.Context, email, password string) (*model.Account, error)

	ByID(ctx context.Context, accountID string) (*model.Account, error)
	ByEmail(ctx context.Context, email string) (*model.Account, error)
	UpdatePassword(ctx context.Context, accountID, password string) error
}

type sqlDirectory struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Directory {
	return &sqlDirectory{db: db}
}

func (d *sqlDirectory) CreateAccount(ctx context.Context, email, password string, confirmed bool) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New().String()
	query := `INSERT INTO accounts (id, email, password_hash, email_confirmed, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err = d.db.ExecContext(ctx, query, id, email, string(hash), confirmed, time.Now())
	if err != nil {
		// Unique constraint wording differs between SQLite and PostgreSQL
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return "", ErrDuplicateEmail
		}
		return "", err
	}

	return id, nil
}

func (d *sqlDirectory) DeleteAccount(ctx context.Context, accountID string) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (d *sqlDirectory) Authenticate(ctx context.Context, email, password string) (*model.Account, error) {
	account, err := d.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrAccountNotFound
	}

	return account, nil
}

func (d *sqlDirectory) ByID(ctx context.Context, accountID string) (*model.Account, error) {
	account := &model.Account{}
	err := d.db.GetContext(ctx, account, `SELECT * FROM accounts WHERE id = $1`, accountID)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (d *sqlDirectory) ByEmail(ctx context.Context, email string) (*model.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	account := &model.Account{}
	err := d.db.GetContext(ctx, account, `SELECT * FROM accounts WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (d *sqlDirectory) UpdatePassword(ctx context.Context, accountID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := d.db.ExecContext(ctx, `UPDATE accounts SET password_hash = $1 WHERE id = $2`, string(hash), accountID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccountNotFound
	}

	return nil
}
