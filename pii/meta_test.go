package pii

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemark_MarshalJSON_WithoutRange(t *testing.T) {
	r := Remark{Type: RemarkRemoved, RuleID: "remove_ip"}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `["remove_ip", "x"]`, string(data))
}

func TestRemark_MarshalJSON_WithRange(t *testing.T) {
	r := Remark{Type: RemarkMasked, RuleID: "email_address", Range: &Range{6, 21}}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `["email_address", "m", 6, 21]`, string(data))
}

func TestRemark_UnmarshalJSON_WithRange(t *testing.T) {
	var r Remark
	require.NoError(t, json.Unmarshal([]byte(`["hash_ip", "p", 137, 201]`), &r))
	assert.Equal(t, Remark{Type: RemarkPseudonymized, RuleID: "hash_ip", Range: &Range{137, 201}}, r)
}

func TestRemark_UnmarshalJSON_WithoutRange(t *testing.T) {
	var r Remark
	require.NoError(t, json.Unmarshal([]byte(`["remove_foo", "x"]`), &r))
	assert.Equal(t, Remark{Type: RemarkRemoved, RuleID: "remove_foo"}, r)
}

func TestRemark_UnmarshalJSON_TooFewElements(t *testing.T) {
	var r Remark
	err := json.Unmarshal([]byte(`["only_one"]`), &r)
	assert.Error(t, err)
}

func TestMeta_IsEmpty(t *testing.T) {
	assert.True(t, Meta{}.IsEmpty())
	assert.False(t, (&Meta{Remarks: []Remark{{Type: RemarkRemoved, RuleID: "r"}}}).IsEmpty())
	assert.False(t, (&Meta{Errors: []string{"bad"}}).IsEmpty())
	n := 5
	assert.False(t, (&Meta{OriginalLength: &n}).IsEmpty())
}

func TestMeta_AddError_Idempotent(t *testing.T) {
	var m Meta
	m.AddError("first")
	m.AddError("second")
	assert.Equal(t, []string{"first"}, m.Errors)
}

func TestMeta_AddError_SkippedWhenRemarksPresent(t *testing.T) {
	m := Meta{Remarks: []Remark{{Type: RemarkRemoved, RuleID: "r"}}}
	m.AddError("should not be added")
	assert.Empty(t, m.Errors)
}

func TestMeta_SetOriginalLength_FirstWriteWins(t *testing.T) {
	var m Meta
	m.SetOriginalLength(10)
	m.SetOriginalLength(20)
	require.NotNil(t, m.OriginalLength)
	assert.Equal(t, 10, *m.OriginalLength)
}

func TestMetaWire_RoundTrip(t *testing.T) {
	n := 42
	m := Meta{
		Remarks:        []Remark{{Type: RemarkSubstituted, RuleID: "r1", Range: &Range{0, 4}}},
		Errors:         []string{"oops"},
		OriginalLength: &n,
	}
	data, err := json.Marshal(m.toWire())
	require.NoError(t, err)
	var w metaWire
	require.NoError(t, json.Unmarshal(data, &w))
	got := w.toMeta()
	assert.Equal(t, m.Remarks, got.Remarks)
	assert.Equal(t, m.Errors, got.Errors)
	require.NotNil(t, got.OriginalLength)
	assert.Equal(t, 42, *got.OriginalLength)
}
