package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventscrub/pii"
)

func TestDecodeValues_Array(t *testing.T) {
	sidecar := map[string]pii.Meta{}
	raw := []any{
		map[string]any{"type": "http", "category": "", "message": "", "timestamp": nil},
		map[string]any{"type": "nav", "category": "", "message": "", "timestamp": nil},
	}
	a := DecodeValues(raw, true, "breadcrumbs", sidecar, decodeBreadcrumb)
	require.NotNil(t, a.Value)
	require.Len(t, a.Value.Items, 2)
	assert.Equal(t, "http", *a.Value.Items[0].Value.Type.Value)
	assert.Equal(t, "nav", *a.Value.Items[1].Value.Type.Value)
}

func TestDecodeValues_BareObjectTreatedAsSingletonArray(t *testing.T) {
	sidecar := map[string]pii.Meta{}
	raw := map[string]any{"type": "http", "category": "", "message": "", "timestamp": nil}
	a := DecodeValues(raw, true, "breadcrumbs", sidecar, decodeBreadcrumb)
	require.NotNil(t, a.Value)
	require.Len(t, a.Value.Items, 1)
	assert.Equal(t, "http", *a.Value.Items[0].Value.Type.Value)
}

func TestDecodeValues_WrongTypeAddsError(t *testing.T) {
	a := DecodeValues("not a list", true, "breadcrumbs", map[string]pii.Meta{}, decodeBreadcrumb)
	assert.Nil(t, a.Value)
	require.Len(t, a.Meta.Errors, 1)
}

func TestDecodeValues_AbsentFieldIsEmpty(t *testing.T) {
	a := DecodeValues(nil, false, "breadcrumbs", map[string]pii.Meta{}, decodeBreadcrumb)
	assert.Nil(t, a.Value)
	assert.True(t, a.Meta.IsEmpty())
}

func TestEncodeValues_RoundTripsArray(t *testing.T) {
	sidecar := map[string]pii.Meta{}
	decoded := DecodeValues([]any{
		map[string]any{"type": "http", "category": "", "message": "", "timestamp": nil},
	}, true, "breadcrumbs", sidecar, decodeBreadcrumb)

	sc := pii.NewSidecarBuilder()
	out := EncodeValues(decoded, "breadcrumbs", sc, encodeBreadcrumb)
	arr, ok := out.([]any)
	require.True(t, ok)
	require.Len(t, arr, 1)
	m, ok := arr[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "http", m["type"])
}

func TestEncodeValues_NilValueEmptyMetaSkips(t *testing.T) {
	out := EncodeValues(pii.Annotated[Values[Breadcrumb]]{}, "breadcrumbs", pii.NewSidecarBuilder(), encodeBreadcrumb)
	_, skip := out.(pii.SkipField)
	assert.True(t, skip)
}

func TestProcessValues_RecursesIntoEachElement(t *testing.T) {
	b1 := Breadcrumb{Message: pii.NewAnnotated("contact peter@gmail.com")}
	b2 := Breadcrumb{Message: pii.NewAnnotated("no pii here")}
	v := &Values[Breadcrumb]{Items: []pii.Annotated[Breadcrumb]{
		{Value: &b1}, {Value: &b2}, {Value: nil},
	}}

	cfg := &pii.PiiConfig{
		Rules:        map[string]pii.RuleSpec{},
		Applications: map[pii.PiiKind][]string{pii.PiiFreeform: {"@email"}},
	}
	processor := pii.PiiProcessorAdapter{Inner: pii.NewRuleProcessor(cfg, nil)}
	ProcessValues[Breadcrumb, *Breadcrumb](v, processor)

	assert.Contains(t, *v.Items[0].Value.Message.Value, "[email]")
	assert.Equal(t, "no pii here", *v.Items[1].Value.Message.Value)
}
