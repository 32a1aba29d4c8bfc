package ws

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mahendraputra/bisik/internal/domain"
)

// usernameRegex matches allowed usernames: letters, digits, underscore,
// dash and dot, no whitespace.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// controlCharRegex matches ASCII control characters
var controlCharRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

// SanitizeUsername trims whitespace and strips control characters.
func SanitizeUsername(name string) string {
	name = strings.TrimSpace(name)
	name = controlCharRegex.ReplaceAllString(name, "")
	return name
}

// IsValidUsername reports whether the name is usable as a username:
// non-empty, within the length bound and matching the allowed alphabet.
func IsValidUsername(name string) bool {
	if name == "" {
		return false
	}
	if utf8.RuneCountInString(name) > domain.MaxUsernameLength {
		return false
	}
	return usernameRegex.MatchString(name)
}

// SanitizeBody trims whitespace, strips control characters except newline
// and tab, and truncates overlong message bodies.
func SanitizeBody(body string) string {
	body = controlCharRegex.ReplaceAllString(body, "")
	body = strings.TrimSpace(body)

	if utf8.RuneCountInString(body) > domain.MaxMessageSize {
		runes := []rune(body)
		body = string(runes[:domain.MaxMessageSize])
	}

	return body
}
