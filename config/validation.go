package config

import (
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

func ValidateLocalpath(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && filepath.IsLocal(s)
}

// ValidatePathPattern accepts relative, traversal-free object key patterns.
func ValidatePathPattern(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	if strings.ContainsRune(s, 0) {
		return false
	}

	if strings.HasPrefix(s, "/") || filepath.VolumeName(s) != "" || (len(s) > 1 && s[1] == ':') {
		return false
	}

	for _, segment := range strings.Split(s, "/") {
		if segment == ".." {
			return false
		}
	}

	return true
}
