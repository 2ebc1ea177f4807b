package media

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound         = errors.New("asset not found")
	ErrInvalidReference = errors.New("invalid asset reference")
	ErrMisconfigured    = errors.New("storage backend is misconfigured")
	ErrAuth             = errors.New("storage backend rejected credentials")
	ErrUploadFailed     = errors.New("upload failed")
	ErrDeleteFailed     = errors.New("delete failed")
)

// NotFoundError lists every location that was checked for ref.
type NotFoundError struct {
	Ref      string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q (searched %s)", ErrNotFound, e.Ref, strings.Join(e.Searched, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MisconfiguredError maps each credential name to whether it is present.
type MisconfiguredError struct {
	Credentials map[string]bool
}

func (e *MisconfiguredError) Missing() []string {
	var missing []string
	for name, present := range e.Credentials {
		if !present {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	return missing
}

func (e *MisconfiguredError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrMisconfigured, strings.Join(e.Missing(), ", "))
}

func (e *MisconfiguredError) Is(target error) bool {
	return target == ErrMisconfigured
}

type AuthErrorKind string

const (
	AuthSignature     AuthErrorKind = "signature"
	AuthAuthorization AuthErrorKind = "authorization"
)

type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrAuth, e.Kind, e.Err)
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
