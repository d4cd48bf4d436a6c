package transform

import (
	"errors"
	"fmt"
)

// ErrInvalidUTF8 is the cause of an EncodingError for form values whose
// escapes decode to bytes that are not UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// EncodingError reports a captured value that cannot be decoded. It points
// at a corrupt archive rather than one bad record, so it aborts the whole
// conversion.
type EncodingError struct {
	// Field names what was being decoded, e.g. "form parameter name".
	Field string
	Value string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("decode %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
