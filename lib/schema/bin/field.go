// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bin

import (
	"bytes"
	"encoding/json"
)

// Field is an optional JSON value that remembers whether the key was
// present and whether it was an explicit null.
//
// Struct fields of type Field must not carry omitempty-style
// assumptions: encoding/json only calls UnmarshalJSON for keys that
// appear in the input, so a zero Field means "absent".
type Field[T any] struct {
	// Set is true when the key appeared in the decoded object.
	Set bool

	// Null is true when the key appeared with a JSON null value.
	// Value is the zero value in that case.
	Null bool

	// Value holds the decoded value when Set && !Null.
	Value T
}

// Some returns a Field holding value.
func Some[T any](value T) Field[T] {
	return Field[T]{Set: true, Value: value}
}

// Null returns a Field that is present with an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Present reports whether the key appeared, null or not.
func (f Field[T]) Present() bool { return f.Set }

// Get returns the value and whether a non-null value is available.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set && !f.Null
}

var nullLiteral = []byte("null")

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON implements json.Marshaler. An unset Field marshals as
// null; use the omitzero tag option on the containing struct field to
// drop it entirely.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return nullLiteral, nil
	}
	return json.Marshal(f.Value)
}

// IsZero reports whether the Field is absent. Used by the omitzero
// tag option.
func (f Field[T]) IsZero() bool { return !f.Set }
