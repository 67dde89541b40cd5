package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"user.name+tag@sub.domain.io", true},
		{"no-at-sign", false},
		{"missing@dot", false},
		{"two@@signs.com", false},
		{"spaces in@local.com", false},
		{"@nodomain.com", false},
		{"", false},
	}

	for _, c := range cases {
		if got := ValidateEmail(c.email); got != c.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", c.email, got, c.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("short", 6) {
		t.Error("Expected password shorter than minimum to be rejected")
	}
	if !ValidatePassword("sixsix", 6) {
		t.Error("Expected password at exactly the minimum length to be accepted")
	}
	if ValidatePassword("sevench", 8) {
		t.Error("Expected 7-char password to be rejected under an 8-char policy")
	}
	if !ValidatePassword("eightchr", 8) {
		t.Error("Expected 8-char password to be accepted under an 8-char policy")
	}
}

func TestValidateDisplayName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Jo", true},
		{"  Jo  ", true},
		{"J", false},
		{"   ", false},
		{"", false},
	}

	for _, c := range cases {
		if got := ValidateDisplayName(c.name); got != c.want {
			t.Errorf("ValidateDisplayName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		username string
		want     bool
	}{
		{"abc", true},
		{"user_123", true},
		{"ab", false},
		{"has space", false},
		{"has-dash", false},
		{"", false},
	}

	for _, c := range cases {
		if got := ValidateUsername(c.username); got != c.want {
			t.Errorf("ValidateUsername(%q) = %v, want %v", c.username, got, c.want)
		}
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("SanitizeEmail = %q, want %q", got, "user@example.com")
	}
}
