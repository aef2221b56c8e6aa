package pii

import (
	"encoding/json"
	"fmt"
)

// extractSidecar walks the raw decoded JSON tree (maps/slices/json.Number/
// string/bool/nil, as produced by a json.Decoder with UseNumber) and pulls
// out the "" sidecar subtree into a flat path -> Meta map, per spec.md
// §4.2 step 1. The root's own "" entry, if present, is keyed by ".".
func extractSidecar(root any) map[string]Meta {
	out := map[string]Meta{}
	m, ok := root.(map[string]any)
	if !ok {
		return out
	}
	sidecar, ok := m[""]
	if !ok {
		return out
	}
	walkSidecar(sidecar, ".", out)
	return out
}

// walkSidecar recurses into one node of the "" sidecar tree. A node is a
// JSON object where the "" key (if present) decodes to a metaWire and
// every other key names a child (or a decimal array index).
func walkSidecar(node any, path string, out map[string]Meta) {
	m, ok := node.(map[string]any)
	if !ok {
		return
	}
	if raw, ok := m[""]; ok {
		out[path] = decodeMetaWire(raw)
	}
	for k, v := range m {
		if k == "" {
			continue
		}
		walkSidecar(v, JoinPath(path, k), out)
	}
}

// decodeMetaWire converts a generic-decoded {"rem":[...],"err":[...],
// "len":n} node into a Meta. It re-marshals and unmarshals through
// metaWire/Remark's custom (Un)MarshalJSON rather than hand-walking the
// generic tree, so the wire format stays defined in exactly one place.
func decodeMetaWire(raw any) Meta {
	data, err := json.Marshal(raw)
	if err != nil {
		return Meta{}
	}
	var w metaWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Meta{}
	}
	return w.toMeta()
}

// SidecarBuilder accumulates path -> Meta entries during encoding and
// renders them back into the nested "" tree shape on demand, per spec.md
// §4.2's meta-mode serialization.
type SidecarBuilder struct {
	entries map[string]Meta
}

func NewSidecarBuilder() *SidecarBuilder {
	return &SidecarBuilder{entries: map[string]Meta{}}
}

// Record stores meta at path if it carries any content; empty subtrees are
// pruned by simply never being recorded.
func (b *SidecarBuilder) Record(path string, meta Meta) {
	if meta.IsEmpty() {
		return
	}
	b.entries[path] = meta
}

// Tree renders the flat path -> Meta map back into the nested sidecar
// shape, or nil if no entries were recorded.
func (b *SidecarBuilder) Tree() any {
	if len(b.entries) == 0 {
		return nil
	}
	root := map[string]any{}
	for path, meta := range b.entries {
		node := root
		segments := splitPath(path)
		for _, seg := range segments {
			next, ok := node[seg].(map[string]any)
			if !ok {
				next = map[string]any{}
				node[seg] = next
			}
			node = next
		}
		node[""] = meta.toWire()
	}
	return root
}

// splitPath splits a dot-joined path (as produced by Path.String/JoinPath)
// back into its segments; the root path "." splits to no segments.
func splitPath(path string) []string {
	if path == "." || path == "" {
		return nil
	}
	var segs []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			segs = append(segs, path[start:i])
			start = i + 1
		}
	}
	segs = append(segs, path[start:])
	return segs
}

// DecodeString decodes the Annotated[string] at path from raw,
// attaching sidecar meta and pushing a soft error (per spec.md §7) if raw
// is present but not a string.
func DecodeString(raw any, present bool, path string, sidecar map[string]Meta) Annotated[string] {
	a := Annotated[string]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	s, ok := raw.(string)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected string, got %T", raw))
		return a
	}
	a.Set(s)
	return a
}

// DecodeBool mirrors DecodeString for bool fields.
func DecodeBool(raw any, present bool, path string, sidecar map[string]Meta) Annotated[bool] {
	a := Annotated[bool]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	b, ok := raw.(bool)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected bool, got %T", raw))
		return a
	}
	a.Set(b)
	return a
}

// DecodeDatabag decodes the Annotated[Value] (databag) field at
// path.
func DecodeDatabag(raw any, present bool, path string, sidecar map[string]Meta) Annotated[Value] {
	if !present {
		return Annotated[Value]{Meta: sidecar[path]}
	}
	return DecodeValue(raw, path, sidecar)
}

func EncodeString(a Annotated[string], path string, sc *SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return SkipField{}
		}
		return nil
	}
	return *a.Value
}

func EncodeBool(a Annotated[bool], path string, sc *SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return SkipField{}
		}
		return nil
	}
	return *a.Value
}

// DecodeI64 decodes the Annotated[int64] at path from raw.
func DecodeI64(raw any, present bool, path string, sidecar map[string]Meta) Annotated[int64] {
	a := Annotated[int64]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	n, ok := raw.(json.Number)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected integer, got %T", raw))
		return a
	}
	i, err := n.Int64()
	if err != nil {
		a.Meta.AddError(fmt.Sprintf("invalid integer: %v", err))
		return a
	}
	a.Set(i)
	return a
}

// EncodeI64 mirrors EncodeString for int64 fields.
func EncodeI64(a Annotated[int64], path string, sc *SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return SkipField{}
		}
		return nil
	}
	return *a.Value
}

// DecodeF64 decodes the Annotated[float64] at path from raw.
func DecodeF64(raw any, present bool, path string, sidecar map[string]Meta) Annotated[float64] {
	a := Annotated[float64]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	n, ok := raw.(json.Number)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected number, got %T", raw))
		return a
	}
	f, err := n.Float64()
	if err != nil {
		a.Meta.AddError(fmt.Sprintf("invalid number: %v", err))
		return a
	}
	a.Set(f)
	return a
}

// EncodeF64 mirrors EncodeString for float64 fields.
func EncodeF64(a Annotated[float64], path string, sc *SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return SkipField{}
		}
		return nil
	}
	return *a.Value
}
