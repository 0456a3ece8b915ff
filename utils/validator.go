package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks an institutional email address.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword enforces the account password policy.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput trims request text fields before they reach the store.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	// Strip null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
