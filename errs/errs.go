// Package errs defines the enumerated failure taxonomy for the keyed array
// store, so callers (CLIs, language bindings) can map failures to localized
// messages without string matching on error text.
package errs

import "errors"

// Kind classifies why an operation failed.
type Kind uint8

const (
	// Generic is unreachable except as a defensive fallback.
	Generic Kind = iota
	IO
	BadMode
	NoMemory
	BadFileFormat
	VersionTooOld
	VersionTooNew
	BadType
	DuplicateKey
	EmptyKey
	KeyNotFound
)

func (k Kind) String() string {
	switch k {
	case Generic:
		return "generic"
	case IO:
		return "io"
	case BadMode:
		return "bad_mode"
	case NoMemory:
		return "no_memory"
	case BadFileFormat:
		return "bad_file_format"
	case VersionTooOld:
		return "version_too_old"
	case VersionTooNew:
		return "version_too_new"
	case BadType:
		return "bad_type"
	case DuplicateKey:
		return "duplicate_key"
	case EmptyKey:
		return "empty_key"
	case KeyNotFound:
		return "key_not_found"
	default:
		return "unknown"
	}
}

// Error pairs a Kind with a human-readable message. It implements the error
// interface and supports errors.Is against the package-level sentinels.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, errs.ErrKeyNotFound) instead of comparing pointers.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

// Sentinel errors, one per Kind, usable with errors.Is.
var (
	ErrGeneric       = newErr(Generic, "kas: generic error")
	ErrIO            = newErr(IO, "kas: i/o error")
	ErrBadMode       = newErr(BadMode, "kas: open mode must be \"r\" or \"w\"")
	ErrNoMemory      = newErr(NoMemory, "kas: allocation failed")
	ErrBadFileFormat = newErr(BadFileFormat, "kas: bad file format")
	ErrVersionTooOld = newErr(VersionTooOld, "kas: file format version too old")
	ErrVersionTooNew = newErr(VersionTooNew, "kas: file format version too new")
	ErrBadType       = newErr(BadType, "kas: invalid type tag")
	ErrDuplicateKey  = newErr(DuplicateKey, "kas: duplicate key")
	ErrEmptyKey      = newErr(EmptyKey, "kas: empty key")
	ErrKeyNotFound   = newErr(KeyNotFound, "kas: key not found")
)

// Wrap builds a new *Error of the given Kind carrying msg, distinct from
// (but matching via errors.Is) the package sentinel of the same Kind.
func Wrap(k Kind, msg string) *Error { return newErr(k, msg) }

// KindOf returns the Kind of err if it is (or wraps) an *Error, or Generic
// otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Generic
}
