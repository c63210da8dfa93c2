package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"a@b.com",
		"testuser@example.com",
		"First.Last@Sub.Example.ORG",
		"user+tag@example.co",
		"ops@[192.168.0.1]",
		`"quoted name"@example.com`,
	}
	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}

	invalid := []string{
		"",
		"alice_99",
		"alice@home",
		"alice@example.c",
		"@example.com",
		"a..b@example.com",
		"a b@example.com",
		"alice@@example.com",
	}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}

func TestIsValidUsername(t *testing.T) {
	for _, u := range []string{"abc", "alice_99", "A_B_C", "abcdefghijklmnopqrst"} {
		assert.True(t, IsValidUsername(u), u)
	}
	for _, u := range []string{"", "ab", "abcdefghijklmnopqrstu", "al ice", "alice-99", "a@b.com"} {
		assert.False(t, IsValidUsername(u), u)
	}
}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"abcdef", false},
		{"abc123!", true},
		{"a1!", false},
		{"password123", false},
		{"password123!", true},
		{"!!!!!!", false},
		{"123456", false},
		{"1!aaaa", true},
		{"abc123!abc123!abc", false},
		{"abc123!abc123!ab", true},
		{"abc 123!", false},
		{"abc123?", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPassword(tt.password))
		})
	}
}

func TestValidateStruct_FirstFieldError(t *testing.T) {
	type request struct {
		Email    string `validate:"required,email_address"`
		Username string `validate:"required,username"`
		Password string `validate:"required,password"`
	}

	require.NoError(t, ValidateStruct(&request{Email: "a@b.com", Username: "alice", Password: "abc123!"}))

	err := ValidateStruct(&request{Email: "nope", Username: "x", Password: "weak"})
	field, tag, ok := FirstFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "Email", field)
	assert.Equal(t, "email_address", tag)

	err = ValidateStruct(&request{Email: "a@b.com", Username: "alice", Password: "weak"})
	field, tag, ok = FirstFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "Password", field)
	assert.Equal(t, "password", tag)

	_, _, ok = FirstFieldError(nil)
	assert.False(t, ok)
}
