// Package internalerr defines the structured error shared by every
// operation: a kind from a closed taxonomy, a human-readable message,
// and an optional field name. Operations return exactly one of these
// per failure; partial results are never emitted alongside an error.
package internalerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The set is closed; frontends may rely on it.
type Kind string

const (
	KindInvalidInput Kind = "invalid-input"
	KindFieldMissing Kind = "field-missing"
	KindTaxonomyLoad Kind = "taxonomy-load"
	KindNumeric      Kind = "numeric"
	KindIO           Kind = "io"
)

// Sentinel errors for kind matching with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrFieldMissing = errors.New("field missing")
	ErrTaxonomyLoad = errors.New("taxonomy load failed")
	ErrNumeric      = errors.New("numeric failure")
	ErrIO           = errors.New("io failure")
)

// Error is the single structured error value of the engine.
type Error struct {
	Kind    Kind
	Message string
	Field   string // optional: the record field involved, if any
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %q)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports kind equality against the package sentinels, so callers can
// write errors.Is(err, internalerr.ErrInvalidInput) without unwrapping.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrFieldMissing:
		return e.Kind == KindFieldMissing
	case ErrTaxonomyLoad:
		return e.Kind == KindTaxonomyLoad
	case ErrNumeric:
		return e.Kind == KindNumeric
	case ErrIO:
		return e.Kind == KindIO
	}
	return false
}

// Invalid builds an invalid-input error.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// InvalidField builds an invalid-input error tied to a field.
func InvalidField(field, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...), Field: field}
}

// FieldMissing builds a field-missing error for the named field.
func FieldMissing(field string) *Error {
	return &Error{Kind: KindFieldMissing, Message: "required field is absent", Field: field}
}

// TaxonomyLoad builds a taxonomy-load error.
func TaxonomyLoad(format string, args ...any) *Error {
	return &Error{Kind: KindTaxonomyLoad, Message: fmt.Sprintf(format, args...)}
}

// Numeric builds a numeric error.
func Numeric(format string, args ...any) *Error {
	return &Error{Kind: KindNumeric, Message: fmt.Sprintf(format, args...)}
}

// IO wraps an io failure.
func IO(err error) *Error {
	return &Error{Kind: KindIO, Message: err.Error()}
}
