// Package errors defines the failure taxonomy of an index build. Every
// failure is fatal to the run; AppError records which stage failed and the
// offending document or lexicon row.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrLexiconUnavailable    = errors.New("lexicon unavailable")
	ErrMalformedLexiconEntry = errors.New("malformed lexicon entry")
	ErrCorpusUnavailable     = errors.New("corpus unavailable")
	ErrDocumentReadError     = errors.New("document read error")
	ErrOutputWriteError      = errors.New("output write error")
	ErrInvalidConfig         = errors.New("invalid configuration")
	ErrPublishFailed         = errors.New("publish failed")
	ErrLocked                = errors.New("output directory locked by another run")
)

// AppError ties a sentinel to the location that produced it, e.g. a
// document path or "lexicon.csv:12".
type AppError struct {
	Err      error
	Location string
	Message  string
}

func (e *AppError) Error() string {
	switch {
	case e.Location != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Err.Error(), e.Location, e.Message)
	case e.Location != "":
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Location)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	default:
		return e.Err.Error()
	}
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, location string, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Location: location,
		Message:  message,
	}
}

func Newf(sentinel error, location string, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Location: location,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a sentinel and location to an underlying cause. The cause
// text becomes the message; errors.Is matches the sentinel only.
func Wrap(sentinel error, location string, cause error) *AppError {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &AppError{
		Err:      sentinel,
		Location: location,
		Message:  msg,
	}
}

// Location returns the failing location recorded on err, if any.
func Location(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Location
	}
	return ""
}

// Kind returns the short name of the failure kind for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrLexiconUnavailable):
		return "LexiconUnavailable"
	case errors.Is(err, ErrMalformedLexiconEntry):
		return "MalformedLexiconEntry"
	case errors.Is(err, ErrCorpusUnavailable):
		return "CorpusUnavailable"
	case errors.Is(err, ErrDocumentReadError):
		return "DocumentReadError"
	case errors.Is(err, ErrOutputWriteError):
		return "OutputWriteError"
	case errors.Is(err, ErrInvalidConfig):
		return "InvalidConfig"
	case errors.Is(err, ErrPublishFailed):
		return "PublishFailed"
	case errors.Is(err, ErrLocked):
		return "Locked"
	default:
		return "Internal"
	}
}

// ExitCode maps err to a process exit status. Zero only for a nil error.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidConfig):
		return 2
	case errors.Is(err, ErrLexiconUnavailable):
		return 3
	case errors.Is(err, ErrMalformedLexiconEntry):
		return 4
	case errors.Is(err, ErrCorpusUnavailable):
		return 5
	case errors.Is(err, ErrDocumentReadError):
		return 6
	case errors.Is(err, ErrOutputWriteError):
		return 7
	case errors.Is(err, ErrPublishFailed):
		return 8
	case errors.Is(err, ErrLocked):
		return 9
	default:
		return 1
	}
}
