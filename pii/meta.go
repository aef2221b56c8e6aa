package pii

import (
	"encoding/json"
	"fmt"
)

// RemarkType identifies what kind of modification a Remark records.
type RemarkType string

// Remark type / wire type-code pairs.
const (
	RemarkAnnotated     RemarkType = "a"
	RemarkRemoved       RemarkType = "x"
	RemarkSubstituted   RemarkType = "s"
	RemarkMasked        RemarkType = "m"
	RemarkPseudonymized RemarkType = "p"
	RemarkEncrypted     RemarkType = "e"
)

// Range is a byte range [Start, End) into the scrubbed string a Remark
// applies to. A nil *Range means the remark has no associated range (e.g.
// a value-level Removed remark).
type Range struct {
	Start, End int
}

// Remark records one redaction event: which rule fired, what kind of
// change it made, and (for string-level redactions) the byte range in the
// scrubbed output it affected.
type Remark struct {
	Type   RemarkType
	RuleID string
	Range  *Range
}

// MarshalJSON renders the wire format [rule_id, type_code] or
// [rule_id, type_code, start, end].
func (r Remark) MarshalJSON() ([]byte, error) {
	if r.Range != nil {
		return json.Marshal([]any{r.RuleID, string(r.Type), r.Range.Start, r.Range.End})
	}
	return json.Marshal([]any{r.RuleID, string(r.Type)})
}

// UnmarshalJSON parses either wire form; extra trailing elements are
// ignored.
func (r *Remark) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 2 {
		return fmt.Errorf("remark: expected at least 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &r.RuleID); err != nil {
		return fmt.Errorf("remark: rule_id: %w", err)
	}
	var ty string
	if err := json.Unmarshal(raw[1], &ty); err != nil {
		return fmt.Errorf("remark: type: %w", err)
	}
	r.Type = RemarkType(ty)
	r.Range = nil
	if len(raw) >= 4 {
		var start, end int
		if err := json.Unmarshal(raw[2], &start); err == nil {
			if err := json.Unmarshal(raw[3], &end); err == nil {
				r.Range = &Range{Start: start, End: end}
			}
		}
	}
	return nil
}

// Meta is the per-field sidecar: an ordered, possibly-duplicated sequence
// of remarks, a sequence of soft-error messages, and the original length
// recorded the first time a redaction changes a string's length.
type Meta struct {
	Remarks        []Remark
	Errors         []string
	OriginalLength *int
	path           *Path
}

// IsEmpty reports whether m carries no observable content (no remarks, no
// errors, no original_length). An empty Meta is omitted entirely from the
// sidecar and, for a None value, causes the field to be omitted from the
// data tree too.
func (m Meta) IsEmpty() bool {
	return len(m.Remarks) == 0 && len(m.Errors) == 0 && m.OriginalLength == nil
}

// AddRemark appends a remark, preserving insertion order.
func (m *Meta) AddRemark(r Remark) { m.Remarks = append(m.Remarks, r) }

// AddError pushes a soft-error message, unless the meta already carries
// remarks or errors for this field (idempotence across re-processing: see
// spec.md §7).
func (m *Meta) AddError(msg string) {
	if len(m.Remarks) > 0 || len(m.Errors) > 0 {
		return
	}
	m.Errors = append(m.Errors, msg)
}

// SetOriginalLength records origLen unless an earlier original_length was
// already recorded. PiiProcessorAdapter calls it whenever a redaction
// changes a string's length.
func (m *Meta) SetOriginalLength(origLen int) {
	if m.OriginalLength == nil {
		n := origLen
		m.OriginalLength = &n
	}
}

// Path returns the deserialization-path handle attached to this field, or
// nil if the value was not produced through the path-tracking decoder.
func (m Meta) Path() *Path { return m.path }

// metaWire is the `{rem, err, len}` JSON shape used in the `_meta` sidecar
// tree, per spec.md §4.2.
type metaWire struct {
	Remarks []Remark `json:"rem,omitempty"`
	Errors  []string `json:"err,omitempty"`
	Len     *int     `json:"len,omitempty"`
}

func (m Meta) toWire() metaWire {
	return metaWire{Remarks: m.Remarks, Errors: m.Errors, Len: m.OriginalLength}
}

func (w metaWire) toMeta() Meta {
	return Meta{Remarks: w.Remarks, Errors: w.Errors, OriginalLength: w.Len}
}
