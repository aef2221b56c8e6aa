package pii

import "strconv"

// Path is a deserialization-path handle: a chain of segments built while
// walking the input JSON, used to match the meta sidecar and for
// RedactPair key tests. Grounded on original_source/src/tracked.rs's
// `Path` enum (Root | Seq{parent, idx} | Map{parent, key} | ...), but
// re-expressed as an explicit linked chain rather than ported through
// Rust's generic deserializer-wrapping machinery: Go's encoding/json
// offers no hook equivalent to serde's Deserializer trait, so this module
// tracks path the idiomatic Go way, by threading a string down a manual
// recursive decode, and builds this chain alongside it purely so
// RedactPair and debugging consumers retain a structured handle rather
// than only the flattened dotted string.
type Path struct {
	parent *Path
	key    string
	index  int
	isSeq  bool
}

// RootPath is the path of the document root.
var RootPath = &Path{}

// Child returns the path of a named map field.
func (p *Path) Child(key string) *Path {
	return &Path{parent: p, key: key}
}

// Index returns the path of a sequence element.
func (p *Path) Index(i int) *Path {
	return &Path{parent: p, index: i, isSeq: true}
}

// LastSegment returns the final path component: the map key, or the
// decimal index for a sequence element, or "" at the root. Used by
// RedactPair to test the current field's key against its pattern.
func (p *Path) LastSegment() string {
	if p == nil || p.parent == nil {
		return ""
	}
	if p.isSeq {
		return strconv.Itoa(p.index)
	}
	return p.key
}

// String renders the dot-joined path used as a sidecar key: "." at the
// root, dotted segments otherwise, array indices as decimal numbers.
func (p *Path) String() string {
	if p == nil || p.parent == nil {
		return "."
	}
	return JoinPath(p.parent.String(), p.LastSegment())
}

// JoinPath dot-joins a parent path string (as produced by Path.String, or
// "." for the root) with one segment.
func JoinPath(parent, segment string) string {
	if parent == "." || parent == "" {
		return segment
	}
	return parent + "." + segment
}
