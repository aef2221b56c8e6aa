package event

import (
	"fmt"
	"strconv"

	"eventscrub/pii"
)

// Values is a tolerant list wrapper: it decodes a JSON array normally, but
// also accepts a single bare object as if it were a one-element array, a
// pattern hand-written crash reporters rely on. Grounded on
// original_source/src/common.rs's Values<T>.
type Values[T any] struct {
	Items []pii.Annotated[T]
}

type decodeItemFunc[T any] func(raw any, present bool, path string, sidecar map[string]pii.Meta) pii.Annotated[T]
type encodeItemFunc[T any] func(a pii.Annotated[T], path string, sc *pii.SidecarBuilder) any

// DecodeValues decodes an Annotated[Values[T]] field at path using
// decodeItem for each element.
func DecodeValues[T any](raw any, present bool, path string, sidecar map[string]pii.Meta, decodeItem decodeItemFunc[T]) pii.Annotated[Values[T]] {
	a := pii.Annotated[Values[T]]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	switch t := raw.(type) {
	case []any:
		items := make([]pii.Annotated[T], len(t))
		for i, elem := range t {
			items[i] = decodeItem(elem, true, pii.JoinPath(path, strconv.Itoa(i)), sidecar)
		}
		a.Set(Values[T]{Items: items})
	case map[string]any:
		items := []pii.Annotated[T]{decodeItem(t, true, pii.JoinPath(path, "0"), sidecar)}
		a.Set(Values[T]{Items: items})
	default:
		a.Meta.AddError(fmt.Sprintf("expected array or object, got %T", raw))
	}
	return a
}

// EncodeValues renders an Annotated[Values[T]] back to a JSON array using
// encodeItem for each element.
func EncodeValues[T any](a pii.Annotated[Values[T]], path string, sc *pii.SidecarBuilder, encodeItem encodeItemFunc[T]) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return pii.SkipField{}
		}
		return nil
	}
	out := make([]any, 0, len(a.Value.Items))
	for i, item := range a.Value.Items {
		enc := encodeItem(item, pii.JoinPath(path, strconv.Itoa(i)), sc)
		if _, skip := enc.(pii.SkipField); skip {
			continue
		}
		out = append(out, enc)
	}
	return out
}

// itemProcessor is satisfied by *T for any T with a Process method; used
// to recurse into each Values[T] element without per-type boilerplate.
type itemProcessor[T any] interface {
	*T
	Process(p pii.Processor)
}

// ProcessValues recurses into every present element of v.
func ProcessValues[T any, PT itemProcessor[T]](v *Values[T], p pii.Processor) {
	if v == nil {
		return
	}
	for i := range v.Items {
		if v.Items[i].Value == nil {
			continue
		}
		PT(v.Items[i].Value).Process(p)
	}
}
