package util

import (
	"strings"
)

// NormalizeBaseURL ensures the base URL ends with a slash.
func NormalizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimRight(trimmed, "/")
	return trimmed + "/"
}

// JoinURL resolves ref against base. Absolute refs are returned unchanged.
func JoinURL(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	if strings.TrimSpace(base) == "" {
		return ref
	}

	return NormalizeBaseURL(base) + strings.TrimLeft(ref, "/")
}
