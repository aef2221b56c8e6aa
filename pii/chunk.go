package pii

// ChunkKind tags a Chunk as plain text or a previously-applied redaction.
type ChunkKind int

const (
	ChunkText ChunkKind = iota
	ChunkRedaction
)

// Chunk is either a Text segment or a Redaction segment of a string: the
// representation used while rules fire (spec.md §4.1, grounded on
// original_source/src/chunk.rs's Chunk enum).
type Chunk struct {
	Kind ChunkKind
	Text string

	// Only meaningful when Kind == ChunkRedaction.
	RuleID string
	Type   RemarkType
}

func textChunk(s string) Chunk       { return Chunk{Kind: ChunkText, Text: s} }
func redactionChunk(s, ruleID string, ty RemarkType) Chunk {
	return Chunk{Kind: ChunkRedaction, Text: s, RuleID: ruleID, Type: ty}
}

// SplitChunks splits text into interleaved Text/Redaction chunks using its
// current remarks, preserving already-redacted regions. Remarks without a
// range, or whose range falls outside text (or out of order / overlapping
// with a previous one), are ignored from that point on: the remainder of
// the text becomes a single trailing Text chunk. Ranges are byte offsets
// into text.
func SplitChunks(text string, remarks []Remark) []Chunk {
	var rv []Chunk
	pos := 0
	for _, r := range remarks {
		if r.Range == nil {
			break
		}
		start, end := r.Range.Start, r.Range.End
		if start < pos || start > len(text) || end < start || end > len(text) {
			break
		}
		if start > pos {
			rv = append(rv, textChunk(text[pos:start]))
		}
		rv = append(rv, redactionChunk(text[start:end], r.RuleID, r.Type))
		pos = end
	}
	if pos < len(text) {
		rv = append(rv, textChunk(text[pos:]))
	}
	return rv
}

// JoinChunks concatenates chunk texts and returns the joined text plus the
// remarks reconstructed from the Redaction chunks, each remark's range
// measured in bytes of the concatenated output. JoinChunks(SplitChunks(t,
// r)) is the identity on (t, r) restricted to the remarks that survived
// splitting.
func JoinChunks(chunks []Chunk) (string, []Remark) {
	var sb []byte
	var remarks []Remark
	pos := 0
	for _, c := range chunks {
		start := pos
		sb = append(sb, c.Text...)
		pos += len(c.Text)
		if c.Kind == ChunkRedaction {
			remarks = append(remarks, Remark{
				Type:   c.Type,
				RuleID: c.RuleID,
				Range:  &Range{Start: start, End: pos},
			})
		}
	}
	return string(sb), remarks
}

// chunksText returns the concatenated text of chunks without rebuilding
// remarks, used internally where only the string is needed.
func chunksText(chunks []Chunk) string {
	var sb []byte
	for _, c := range chunks {
		sb = append(sb, c.Text...)
	}
	return string(sb)
}
