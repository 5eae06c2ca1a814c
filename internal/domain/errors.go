package domain

import "fmt"

// ErrorKind discriminates the failure classes the core can surface.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindValidation    ErrorKind = "validation"
	KindSelfReference ErrorKind = "self_reference"
	KindCycleDetected ErrorKind = "cycle_detected"
	KindConflict      ErrorKind = "conflict_detected"
	KindSerialization ErrorKind = "serialization"
	KindDatabase      ErrorKind = "database"
	KindIO            ErrorKind = "io"
	KindInternal      ErrorKind = "internal"
)

// Error is the tagged error returned by every core operation.
type Error struct {
	Kind ErrorKind
	Msg  string
	// Path names the store location for conflict and IO errors.
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Msg)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so callers can use errors.Is with the kind sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrSelfReference = &Error{Kind: KindSelfReference}
	ErrCycleDetected = &Error{Kind: KindCycleDetected}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrSerialization = &Error{Kind: KindSerialization}
	ErrDatabase      = &Error{Kind: KindDatabase}
	ErrIO            = &Error{Kind: KindIO}
	ErrInternal      = &Error{Kind: KindInternal}
)

// NotFoundf reports a failed lookup; the arguments form the qualified
// description, e.g. NotFoundf("Board %s", id).
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Validationf reports a violated semantic rule.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// SelfReference reports an edge whose endpoints are equal.
func SelfReference() *Error {
	return &Error{Kind: KindSelfReference, Msg: "edge endpoints are equal"}
}

// CycleDetected reports an edge that would close a cycle.
func CycleDetected(source, target string) *Error {
	return &Error{Kind: KindCycleDetected, Msg: fmt.Sprintf("edge %s -> %s would create a cycle", source, target)}
}

// Conflict reports that persisted metadata changed under the process.
func Conflict(path string, err error) *Error {
	return &Error{Kind: KindConflict, Path: path, Msg: "state modified by another instance", Err: err}
}

// Serializationf reports an encode or decode failure.
func Serializationf(err error, format string, args ...any) *Error {
	return &Error{Kind: KindSerialization, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Databasef reports a storage driver failure.
func Databasef(err error, format string, args ...any) *Error {
	return &Error{Kind: KindDatabase, Msg: fmt.Sprintf(format, args...), Err: err}
}

// IOf reports a file-system failure.
func IOf(err error, format string, args ...any) *Error {
	return &Error{Kind: KindIO, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Internalf reports an invariant failure.
func Internalf(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Msg: fmt.Sprintf(format, args...)}
}
