package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// SanitizeEmail sanitizes email input
func SanitizeEmail(email string) string {
	// Convert to lowercase and trim
	email = strings.ToLower(strings.TrimSpace(email))

	// Remove any HTML tags
	email = stripHTML(email)

	// Remove any control characters
	email = removeControlChars(email)

	return email
}

// SanitizeIdentifier trims a login identifier. Identifiers that look like an
// email address are normalised the same way as emails.
func SanitizeIdentifier(identifier string) string {
	identifier = removeControlChars(strings.TrimSpace(identifier))
	if IsValidEmail(identifier) {
		return SanitizeEmail(identifier)
	}
	return identifier
}

// stripHTML removes HTML tags from string
func stripHTML(input string) string {
	return htmlTagRegex.ReplaceAllString(input, "")
}

// removeControlChars removes control characters from string
func removeControlChars(input string) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
