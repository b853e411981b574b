package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a patch field with three states: absent from the JSON body,
// explicit null, and a concrete value. The zero value means absent, so
// `omitzero` keeps untouched fields out of serialized patches.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a present Optional holding an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// IsZero reports absence; encoding/json's omitzero relies on it.
func (o Optional[T]) IsZero() bool { return !o.Set }
