package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Object is a decoded JSON object. Numbers are kept as json.Number so large
// ids survive without float rounding.
//
// Getters come in two flavours: the plain form requires the field to be
// present and non-null, the Opt form returns the zero value for absent or
// null fields. Both fail with a DecodeError on a type mismatch.
type Object map[string]any

// Parse decodes data into an Object. The payload must be a single JSON object.
func Parse(data []byte) (Object, error) {
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()

	var raw any
	if err := d.Decode(&raw); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("parsing payload: %w", err)}
	}
	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Err: errors.New("parsing payload: trailing data")}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, wrongType("", "object", raw)
	}

	return Object(obj), nil
}

// Has reports whether name is present and non-null.
func (o Object) Has(name string) bool {
	v, ok := o[name]
	return ok && v != nil
}

func (o Object) lookup(name string) (any, bool) {
	v, ok := o[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns a required string field.
func (o Object) String(name string) (string, error) {
	v, ok := o.lookup(name)
	if !ok {
		return "", missing(name)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(name, "string", v)
	}
	return s, nil
}

// OptString returns an optional string field.
func (o Object) OptString(name string) (string, error) {
	if !o.Has(name) {
		return "", nil
	}
	return o.String(name)
}

// Int returns a required integer field.
func (o Object) Int(name string) (int, error) {
	v, ok := o.lookup(name)
	if !ok {
		return 0, missing(name)
	}

	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, wrongType(name, "integer", v)
		}
		return int(i), nil
	case float64:
		if n != float64(int(n)) {
			return 0, wrongType(name, "integer", v)
		}
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, wrongType(name, "integer", v)
	}
}

// OptInt returns an optional integer field.
func (o Object) OptInt(name string) (int, error) {
	if !o.Has(name) {
		return 0, nil
	}
	return o.Int(name)
}

// Float returns a required numeric field.
func (o Object) Float(name string) (float64, error) {
	v, ok := o.lookup(name)
	if !ok {
		return 0, missing(name)
	}

	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, wrongType(name, "number", v)
		}
		return f, nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, wrongType(name, "number", v)
	}
}

// OptFloat returns an optional numeric field.
func (o Object) OptFloat(name string) (float64, error) {
	if !o.Has(name) {
		return 0, nil
	}
	return o.Float(name)
}

// Bool returns a required boolean field.
func (o Object) Bool(name string) (bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return false, missing(name)
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(name, "boolean", v)
	}
	return b, nil
}

// Time returns a required timestamp field. The API reports times without a
// zone; those are read as UTC.
func (o Object) Time(name string) (time.Time, error) {
	s, err := o.String(name)
	if err != nil {
		return time.Time{}, err
	}

	t, err := ParseTime(s)
	if err != nil {
		return time.Time{}, &DecodeError{Field: name, Err: fmt.Errorf("%w: %w", ErrWrongType, err)}
	}
	return t, nil
}

// OptTime returns an optional timestamp field.
func (o Object) OptTime(name string) (time.Time, error) {
	if !o.Has(name) {
		return time.Time{}, nil
	}
	return o.Time(name)
}

// OptStrings returns an optional array of strings.
func (o Object) OptStrings(name string) ([]string, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, wrongType(name, "array", v)
	}

	out := make([]string, len(arr))
	for i, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, wrongType(fmt.Sprintf("%s[%d]", name, i), "string", e)
		}
		out[i] = s
	}
	return out, nil
}

// OptStringMap returns an optional object whose values are all strings.
func (o Object) OptStringMap(name string) (map[string]string, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, wrongType(name, "object", v)
	}

	out := make(map[string]string, len(m))
	for k, e := range m {
		s, ok := e.(string)
		if !ok {
			return nil, wrongType(name+"."+k, "string", e)
		}
		out[k] = s
	}
	return out, nil
}

// Object returns a required nested object.
func (o Object) Object(name string) (Object, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, missing(name)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, wrongType(name, "object", v)
	}
	return Object(m), nil
}

// Objects returns a required array of objects.
func (o Object) Objects(name string) ([]Object, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, missing(name)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, wrongType(name, "array", v)
	}

	out := make([]Object, len(arr))
	for i, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, wrongType(fmt.Sprintf("%s[%d]", name, i), "object", e)
		}
		out[i] = Object(m)
	}
	return out, nil
}

var timeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// ParseTime parses the timestamp formats the API emits. Fractional seconds
// are optional; zone-less values are UTC.
func ParseTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
