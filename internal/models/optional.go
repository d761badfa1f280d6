package models

import (
	"bytes"
	"encoding/json"
)

// Optional carries a PATCH field that may be absent, explicitly null, or set.
//
// Set is true whenever the key appeared in the request body. Null is true
// when it appeared with a JSON null. Value is meaningful only when Set and
// not Null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns an Optional that was explicitly set to null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked by encoding/json when the key is present,
// which is what lets absent and null be told apart.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns nil for null, otherwise a pointer to a copy of Value.
// Callers must check Set first.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}
