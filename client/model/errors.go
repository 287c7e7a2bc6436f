package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDecode is wrapped by every DecodeError, letting callers tell an
	// unparseable response apart from transport and status failures.
	ErrDecode = errors.New("decode failure")
	// ErrMissingField indicates a required field is absent or null.
	ErrMissingField = errors.New("missing field")
	// ErrWrongType indicates a field holds a value of an unexpected type.
	ErrWrongType = errors.New("wrong type")
)

// DecodeError reports a payload that does not match the expected shape.
// Field is a dotted path into the payload, empty for whole-payload errors.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %v", ErrDecode, e.Err)
	}
	return fmt.Sprintf("%v: field %q: %v", ErrDecode, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

func missing(field string) error {
	return &DecodeError{Field: field, Err: ErrMissingField}
}

func wrongType(field, want string, got any) error {
	return &DecodeError{
		Field: field,
		Err:   fmt.Errorf("%w: want %s, got %T", ErrWrongType, want, got),
	}
}

// nest prefixes the field path of a DecodeError so nested failures read as
// "results[3].name". Other errors are wrapped as-is.
func nest(prefix string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		field := prefix
		switch {
		case de.Field == "":
		case strings.HasPrefix(de.Field, "["):
			field += de.Field
		default:
			field += "." + de.Field
		}
		return &DecodeError{Field: field, Err: de.Err}
	}
	return &DecodeError{Field: prefix, Err: err}
}

// FieldError represents a single validation failure for a decoded field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors is a collection of validation failures.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return strings.Join(parts, "; ")
}

// Fields returns the failures keyed by field name.
func (fe FieldErrors) Fields() map[string]string {
	m := make(map[string]string, len(fe))
	for _, f := range fe {
		m[f.Field] = f.Err
	}
	return m
}
