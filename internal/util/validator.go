package util

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidateEmail checks a minimal address shape (local@domain.tld).
func ValidateEmail(email string) error {
	re := regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	if !re.MatchString(email) {
		return fmt.Errorf("invalid email: %s", email)
	}
	return nil
}

// AllowedFile reports whether the filename has one of the allowed
// extensions (compared case-insensitively, without the dot).
func AllowedFile(filename string, allowed []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename strips any path components and replaces characters
// that are unsafe in a stored filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	return name
}
