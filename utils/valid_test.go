package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Recruiter@Example.COM ")
	assert.NoError(t, err)
	assert.Equal(t, "recruiter@example.com", email)

	_, err = SanitizeEmail("not-an-email")
	assert.Error(t, err)

	_, err = SanitizeEmail("")
	assert.Error(t, err)
}

func TestSanitizePhone(t *testing.T) {
	phone, err := SanitizePhone("(961) 3-123 456")
	assert.NoError(t, err)
	assert.Equal(t, "+9613123456", phone)

	// optional
	phone, err = SanitizePhone("  ")
	assert.NoError(t, err)
	assert.Empty(t, phone)

	_, err = SanitizePhone("12")
	assert.Error(t, err)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("agency2024x"))

	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("onlyletters"))
	assert.Error(t, ValidatePassword("12345678"))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", SanitizeInput(" <b>hi</b> "))
	assert.Equal(t, "plain", SanitizeInput("plain\x00"))
}
