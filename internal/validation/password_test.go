package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("8chars!!"))
	assert.NoError(t, ValidatePassword(strings.Repeat("a", 72)))

	assert.ErrorIs(t, ValidatePassword(""), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("a", 73)), ErrPasswordTooLong)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ana@example.com"))
	assert.NoError(t, ValidateEmail("ana.lopez+tag@uni.edu"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@x.co"))
}
