package pii

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSidecar_FlattensNestedTree(t *testing.T) {
	raw := decodeAny(t, `{
		"message": "[ip]",
		"extra": {"foo": null},
		"": {
			"message": {"": {"rem": [["@ip", "s"]]}},
			"extra": {"foo": {"": {"rem": [["remove_foo", "x"]]}}}
		}
	}`)
	sidecar := extractSidecar(raw)
	require.Contains(t, sidecar, "message")
	require.Contains(t, sidecar, "extra.foo")
	assert.Equal(t, "@ip", sidecar["message"].Remarks[0].RuleID)
	assert.Equal(t, "remove_foo", sidecar["extra.foo"].Remarks[0].RuleID)
}

func TestExtractSidecar_RootEntryKeyedByDot(t *testing.T) {
	raw := decodeAny(t, `{"": {"": {"err": ["expected object"]}}}`)
	sidecar := extractSidecar(raw)
	require.Contains(t, sidecar, ".")
	assert.Equal(t, []string{"expected object"}, sidecar["."].Errors)
}

func TestExtractSidecar_NoSidecarKeyReturnsEmptyMap(t *testing.T) {
	raw := decodeAny(t, `{"message": "hi"}`)
	assert.Empty(t, extractSidecar(raw))
}

func TestExtractSidecar_NonObjectRootReturnsEmptyMap(t *testing.T) {
	raw := decodeAny(t, `[1, 2, 3]`)
	assert.Empty(t, extractSidecar(raw))
}

func TestDecodeMetaWire_RoundTripsRemarksErrorsLength(t *testing.T) {
	n := 10
	wire := metaWire{
		Remarks: []Remark{{Type: RemarkRemoved, RuleID: "r"}},
		Errors:  []string{"bad"},
		Len:     &n,
	}
	data, err := json.Marshal(wire)
	require.NoError(t, err)
	var raw any
	require.NoError(t, json.Unmarshal(data, &raw))

	meta := decodeMetaWire(raw)
	assert.Equal(t, wire.Remarks, meta.Remarks)
	assert.Equal(t, wire.Errors, meta.Errors)
	require.NotNil(t, meta.OriginalLength)
	assert.Equal(t, 10, *meta.OriginalLength)
}

func TestSidecarBuilder_RecordSkipsEmptyMeta(t *testing.T) {
	sc := NewSidecarBuilder()
	sc.Record("message", Meta{})
	assert.Nil(t, sc.Tree())
}

func TestSidecarBuilder_TreeNestsByPath(t *testing.T) {
	sc := NewSidecarBuilder()
	sc.Record("extra.foo", Meta{Remarks: []Remark{{Type: RemarkRemoved, RuleID: "remove_foo"}}})
	sc.Record("message", Meta{Remarks: []Remark{{Type: RemarkSubstituted, RuleID: "@ip", Range: &Range{0, 4}}}})

	tree := sc.Tree()
	root, ok := tree.(map[string]any)
	require.True(t, ok)

	msgNode, ok := root["message"].(map[string]any)
	require.True(t, ok)
	msgWire, ok := msgNode[""].(metaWire)
	require.True(t, ok)
	assert.Equal(t, "@ip", msgWire.Remarks[0].RuleID)

	extraNode, ok := root["extra"].(map[string]any)
	require.True(t, ok)
	fooNode, ok := extraNode["foo"].(map[string]any)
	require.True(t, ok)
	fooWire, ok := fooNode[""].(metaWire)
	require.True(t, ok)
	assert.Equal(t, "remove_foo", fooWire.Remarks[0].RuleID)
}

func TestSidecarBuilder_TreeEmptyReturnsNil(t *testing.T) {
	assert.Nil(t, NewSidecarBuilder().Tree())
}

func TestSplitPath_RootHasNoSegments(t *testing.T) {
	assert.Nil(t, splitPath("."))
	assert.Nil(t, splitPath(""))
}

func TestSplitPath_NestedPathSegments(t *testing.T) {
	assert.Equal(t, []string{"extra", "foo", "0"}, splitPath("extra.foo.0"))
}

func TestDecodeString_AbsentVsWrongType(t *testing.T) {
	absent := DecodeString(nil, false, "message", nil)
	assert.Nil(t, absent.Value)
	assert.True(t, absent.Meta.IsEmpty())

	wrongType := DecodeString(float64(1), true, "message", map[string]Meta{})
	assert.Nil(t, wrongType.Value)
	require.Len(t, wrongType.Meta.Errors, 1)
}

func TestDecodeBool_RoundTrips(t *testing.T) {
	a := DecodeBool(true, true, "flag", map[string]Meta{})
	require.NotNil(t, a.Value)
	assert.True(t, *a.Value)
}

func TestDecodeI64_ParsesJSONNumber(t *testing.T) {
	a := DecodeI64(json.Number("42"), true, "count", map[string]Meta{})
	require.NotNil(t, a.Value)
	assert.Equal(t, int64(42), *a.Value)
}

func TestDecodeI64_NonNumberAddsError(t *testing.T) {
	a := DecodeI64("not a number", true, "count", map[string]Meta{})
	assert.Nil(t, a.Value)
	require.Len(t, a.Meta.Errors, 1)
}

func TestDecodeF64_ParsesJSONNumber(t *testing.T) {
	a := DecodeF64(json.Number("3.5"), true, "score", map[string]Meta{})
	require.NotNil(t, a.Value)
	assert.InDelta(t, 3.5, *a.Value, 1e-9)
}

func TestEncodeString_NilValueEmptyMetaSkips(t *testing.T) {
	out := EncodeString(Annotated[string]{}, "message", NewSidecarBuilder())
	_, skip := out.(SkipField)
	assert.True(t, skip)
}

func TestEncodeString_NilValueWithMetaEncodesNull(t *testing.T) {
	meta := Meta{Remarks: []Remark{{Type: RemarkRemoved, RuleID: "remove_foo"}}}
	out := EncodeString(Annotated[string]{Meta: meta}, "message", NewSidecarBuilder())
	assert.Nil(t, out)
}

func TestEncodeBool_ReturnsUnderlyingValue(t *testing.T) {
	b := true
	out := EncodeBool(Annotated[bool]{Value: &b}, "flag", NewSidecarBuilder())
	assert.Equal(t, true, out)
}

func TestEncodeI64AndF64_ReturnUnderlyingValues(t *testing.T) {
	i := int64(7)
	assert.Equal(t, int64(7), EncodeI64(Annotated[int64]{Value: &i}, "count", NewSidecarBuilder()))
	f := 2.5
	assert.Equal(t, 2.5, EncodeF64(Annotated[float64]{Value: &f}, "score", NewSidecarBuilder()))
}

func TestDecodeDatabag_AbsentFieldIsEmpty(t *testing.T) {
	a := DecodeDatabag(nil, false, "extra", map[string]Meta{})
	assert.Nil(t, a.Value)
	assert.True(t, a.Meta.IsEmpty())
}
