package pii

import (
	"bytes"
	"encoding/json"
)

// Annotated is the universal field wrapper: an optional value paired with
// its Meta. A nil Value with a non-empty Meta signals "validated and
// redacted/rejected"; that state is legal input and must not re-emit an
// error on re-deserialization (see Meta.AddError).
type Annotated[T any] struct {
	Value *T
	Meta  Meta
}

// NewAnnotated wraps v with empty meta.
func NewAnnotated[T any](v T) Annotated[T] {
	return Annotated[T]{Value: &v}
}

// Empty returns an Annotated with no value and no meta.
func Empty[T any]() Annotated[T] {
	return Annotated[T]{}
}

// WithError returns an Annotated with no value and a single soft error.
func WithError[T any](msg string) Annotated[T] {
	a := Annotated[T]{}
	a.Meta.AddError(msg)
	return a
}

// HasValue reports whether a carries a Some value.
func (a Annotated[T]) HasValue() bool { return a.Value != nil }

// Get returns the wrapped value and whether it is present.
func (a Annotated[T]) Get() (T, bool) {
	if a.Value == nil {
		var zero T
		return zero, false
	}
	return *a.Value, true
}

// Set replaces the value, leaving meta untouched.
func (a *Annotated[T]) Set(v T) { a.Value = &v }

// Clear removes the value, leaving meta untouched (callers typically then
// add a Removed remark).
func (a *Annotated[T]) Clear() { a.Value = nil }

// FromJSON decodes a root document of type T plus its "" meta sidecar, per
// spec.md §4.2's two-pass protocol: extractSidecar then a path-tracking
// decode. The caller supplies the root decode function (for example
// event.DecodeEvent for event.Event); FromJSON is the generic library-
// surface entry point for any type that has such a decoder.
func FromJSON[T any](data []byte, decode func(raw any, path string, sidecar map[string]Meta) Annotated[T]) (Annotated[T], error) {
	var root any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&root); err != nil {
		return Annotated[T]{}, err
	}
	sidecar := extractSidecar(root)
	return decode(root, ".", sidecar), nil
}

// ToJSON re-serializes a, emitting a trailing "" sidecar key when any
// field carries non-empty meta, per spec.md §4.2's serialization protocol.
func ToJSON[T any](a Annotated[T], encode func(a Annotated[T], path string, sc *SidecarBuilder) any, pretty bool) ([]byte, error) {
	sc := NewSidecarBuilder()
	data := encode(a, ".", sc)
	if m, ok := data.(map[string]any); ok {
		if tree := sc.Tree(); tree != nil {
			m[""] = tree
		}
	}
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}
