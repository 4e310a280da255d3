package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputMessages(t *testing.T) {
	valid := RegistrationInput{
		Name: "Alice", StudentID: "1", Email: "alice@mail.com", ContactNumber: "0912345678",
		Course: "BSIT", Section: "A", Username: "alice", Password: "secret",
	}

	tests := []struct {
		name    string
		mutate  func(in *RegistrationInput)
		field   string
		message string
	}{
		{"missing name", func(in *RegistrationInput) { in.Name = "" }, "name", "is required"},
		{"bad email", func(in *RegistrationInput) { in.Email = "alice" }, "email", "must be a valid email address"},
		{"short phone", func(in *RegistrationInput) { in.ContactNumber = "12345" }, "contact_number", "must be a 10 digit number"},
		{"letters in phone", func(in *RegistrationInput) { in.ContactNumber = "09123456ab" }, "contact_number", "must be a 10 digit number"},
		{"short password", func(in *RegistrationInput) { in.Password = "abc" }, "password", "must be at least 6 characters"},
		{"comma in password", func(in *RegistrationInput) { in.Password = "abc,def" }, "password", "must not contain commas"},
	}

	require.NoError(t, validateInput(valid))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := validateInput(in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
			assert.Equal(t, tt.field+" "+tt.message, verr.Error())
		})
	}
}

func TestEmailAndPhonePatterns(t *testing.T) {
	assert.True(t, validEmail("a.b+c@d"))
	assert.False(t, validEmail("@d.com"))
	assert.False(t, validEmail("a b@d.com"))
	assert.True(t, validPhone("0912345678"))
	assert.False(t, validPhone("091234567"))
}
