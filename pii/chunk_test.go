package pii

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitChunks_NoRemarks(t *testing.T) {
	chunks := SplitChunks("hello world", nil)
	assert.Equal(t, []Chunk{textChunk("hello world")}, chunks)
}

func TestSplitChunks_SingleRemark(t *testing.T) {
	remarks := []Remark{{Type: RemarkMasked, RuleID: "r1", Range: &Range{6, 11}}}
	chunks := SplitChunks("hello world", remarks)
	assert.Equal(t, []Chunk{
		textChunk("hello "),
		redactionChunk("world", "r1", RemarkMasked),
	}, chunks)
}

func TestSplitChunks_OutOfRangeRemarkStopsProcessing(t *testing.T) {
	remarks := []Remark{{Type: RemarkMasked, RuleID: "r1", Range: &Range{6, 100}}}
	chunks := SplitChunks("hello world", remarks)
	assert.Equal(t, []Chunk{textChunk("hello world")}, chunks)
}

func TestJoinChunks_RoundTripsSplit(t *testing.T) {
	remarks := []Remark{{Type: RemarkMasked, RuleID: "r1", Range: &Range{6, 11}}}
	chunks := SplitChunks("hello world", remarks)
	text, gotRemarks := JoinChunks(chunks)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, remarks, gotRemarks)
}

func TestJoinChunks_NoRedactionsYieldsNilRemarks(t *testing.T) {
	_, remarks := JoinChunks([]Chunk{textChunk("plain")})
	assert.Nil(t, remarks)
}

func TestJoinChunks_MultipleRedactionsRebuildByteRanges(t *testing.T) {
	chunks := []Chunk{
		textChunk("a "),
		redactionChunk("XX", "r1", RemarkMasked),
		textChunk(" b "),
		redactionChunk("YYY", "r2", RemarkSubstituted),
	}
	text, remarks := JoinChunks(chunks)
	assert.Equal(t, "a XX b YYY", text)
	require := assert.New(t)
	require.Len(remarks, 2)
	require.Equal(Range{2, 4}, *remarks[0].Range)
	require.Equal(Range{7, 10}, *remarks[1].Range)
}
