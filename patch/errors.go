package patch

import "errors"

// ErrStructuralMismatch is matched by every error caused by a rendered
// document that does not follow the tagging conventions in names.go. It
// is never downgraded to a warning.
var ErrStructuralMismatch = errors.New("patch: structural mismatch")

// ErrFrameRange is returned for a frame index outside [0, Len()).
var ErrFrameRange = errors.New("patch: frame index out of range")

// MismatchError describes what was missing or malformed.
type MismatchError struct {
	What string
}

func (e *MismatchError) Error() string {
	return "patch: structural mismatch: " + e.What
}

// Unwrap returns ErrStructuralMismatch.
func (e *MismatchError) Unwrap() error { return ErrStructuralMismatch }

func mismatch(what string) error { return &MismatchError{What: what} }
