package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"simple address", "a@b.com", true},
		{"subdomain", "user@mail.example.org", true},
		{"plus tag", "user+tag@example.com", true},
		{"missing at", "userexample.com", false},
		{"missing dot after at", "user@example", false},
		{"empty", "", false},
		{"spaces inside", "us er@example.com", false},
		{"leading whitespace trimmed", "  a@b.com", true},
		{"missing local part", "@example.com", false},
		{"missing domain", "user@", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		minLength int
		want      bool
	}{
		{"below minimum", "short", 6, false},
		{"exactly minimum", "sixsix", 6, true},
		{"above minimum", "long-enough", 6, true},
		{"stricter policy rejects", "sixsix", 8, false},
		{"stricter policy accepts", "eightchr", 8, true},
		{"zero min uses default", "sixsix", 0, true},
		{"zero min still rejects short", "short", 0, false},
		{"empty", "", 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.password, tt.minLength))
		})
	}
}

func TestValidateConfirmation(t *testing.T) {
	assert.True(t, ValidateConfirmation("secret123", "secret123"))
	assert.False(t, ValidateConfirmation("secret123", "secret124"))
	assert.False(t, ValidateConfirmation("", ""))
	assert.False(t, ValidateConfirmation("secret123", ""))

	// A previously matching pair stops matching once either side changes
	password, confirm := "secret123", "secret123"
	assert.True(t, ValidateConfirmation(password, confirm))
	password = "changed456"
	assert.False(t, ValidateConfirmation(password, confirm))
}
