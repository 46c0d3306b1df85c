package directory

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMockDirectory(t *testing.T) (Directory, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreateAccount(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO accounts`)).
		WithArgs(sqlmock.AnyArg(), "ana@example.com", sqlmock.AnyArg(), true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := dir.CreateAccount(context.Background(), "  Ana@Example.com ", "secret-password", true)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	wordings := []string{
		"UNIQUE constraint failed: accounts.email",
		`duplicate key value violates unique constraint "accounts_email_key"`,
	}

	for _, wording := range wordings {
		dir, mock := newMockDirectory(t)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO accounts`)).
			WillReturnError(errors.New(wording))

		_, err := dir.CreateAccount(context.Background(), "dup@example.com", "secret-password", true)
		assert.ErrorIs(t, err, ErrDuplicateEmail, wording)
	}
}

func TestDeleteAccount(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM accounts WHERE id = $1`)).
		WithArgs("acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, dir.DeleteAccount(context.Background(), "acc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountMissing(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM accounts WHERE id = $1`)).
		WithArgs("nobody").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := dir.DeleteAccount(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func accountRows(t *testing.T, email, password string) *sqlmock.Rows {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return sqlmock.NewRows([]string{"id", "email", "password_hash", "email_confirmed", "created_at"}).
		AddRow("acc-1", email, string(hash), true, time.Now())
}

func TestAuthenticate(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM accounts WHERE email = $1`)).
		WithArgs("ana@example.com").
		WillReturnRows(accountRows(t, "ana@example.com", "secret-password"))

	account, err := dir.Authenticate(context.Background(), "Ana@Example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM accounts WHERE email = $1`)).
		WithArgs("ana@example.com").
		WillReturnRows(accountRows(t, "ana@example.com", "secret-password"))

	// Wrong password is indistinguishable from an unknown account.
	_, err := dir.Authenticate(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestByEmailUnknown(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM accounts WHERE email = $1`)).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "email_confirmed", "created_at"}))

	_, err := dir.ByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
