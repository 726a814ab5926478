package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

func ParseStringToUUID(s string) uuid.UUID {
	uid, err := uuid.Parse(s)
	if err != nil || s == "" {
		return uuid.Nil
	}
	return uid
}

var keyPartRe = regexp.MustCompile(`[^a-z0-9-]+`)

// SanitizeKeyPart normalizes a platform or variant name into a blob-key
// segment: lowercase, a-z 0-9 and hyphens only.
func SanitizeKeyPart(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = keyPartRe.ReplaceAllString(s, "")
	s = regexp.MustCompile(`-+`).ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValidUUID checks the canonical 36-char dashed format.
func IsValidUUID(u string) bool {
	if len(u) != 36 {
		return false
	}
	if u[8] != '-' || u[13] != '-' || u[18] != '-' || u[23] != '-' {
		return false
	}
	return true
}
