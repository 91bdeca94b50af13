// Package budgeterror defines the error taxonomy shared by the record source,
// the ledger, the config store and the output sinks.
package budgeterror

import (
	"errors"
	"fmt"
)

// FormatError reports an input file whose columns match no known naming scheme.
// The file is skipped; other files are still processed.
type FormatError struct {
	FilePath string
	Headers  []string
	Msg      string
}

func (e *FormatError) Error() string {
	if len(e.Headers) > 0 {
		return fmt.Sprintf("invalid format in file '%s': %s. Headers: %v", e.FilePath, e.Msg, e.Headers)
	}
	return fmt.Sprintf("invalid format in file '%s': %s", e.FilePath, e.Msg)
}

// NotFoundError reports a missing input directory, ledger or config file.
// Callers treat it as empty rather than fatal.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ValidationError represents a single bad value: a malformed row field or an
// invalid menu choice. It is recovered locally.
type ValidationError struct {
	Source string
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s row %d: invalid %s='%s': %s", e.Source, e.Row, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: invalid %s='%s': %s", e.Source, e.Field, e.Value, e.Reason)
}

// SinkError represents a failure writing a non-critical output such as the
// chart image or the category config.
type SinkError struct {
	Sink string
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s sink failed for '%s': %v", e.Sink, e.Path, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsFormat reports whether err is or wraps a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsSink reports whether err is or wraps a SinkError.
func IsSink(err error) bool {
	var se *SinkError
	return errors.As(err, &se)
}
