package archive

import "fmt"

// MalformedArchiveError reports an archive that is not valid JSON or lacks a
// required field. No part of such an archive is converted.
type MalformedArchiveError struct {
	// Path locates the offending field, e.g. "log.entries[2].request.url".
	// It is empty when the document as a whole failed to decode.
	Path   string
	Reason string
	Err    error
}

func (e *MalformedArchiveError) Error() string {
	msg := "malformed archive"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedArchiveError) Unwrap() error {
	return e.Err
}

func missing(path string) error {
	return &MalformedArchiveError{Path: path, Reason: "required field is missing"}
}

func entryPath(i int, field string) string {
	if field == "" {
		return fmt.Sprintf("log.entries[%d]", i)
	}
	return fmt.Sprintf("log.entries[%d].%s", i, field)
}
