package pii

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTime_UnixTimestamp(t *testing.T) {
	a := DecodeTime(json.Number("1609459200"), true, "ts", nil)
	require.NotNil(t, a.Value)
	assert.True(t, a.Value.Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDecodeTime_UnixTimestampFractional(t *testing.T) {
	a := DecodeTime(json.Number("1609459200.5"), true, "ts", nil)
	require.NotNil(t, a.Value)
	assert.Equal(t, int64(1609459200), a.Value.Unix())
	assert.Equal(t, 500000000, a.Value.Nanosecond())
}

func TestDecodeTime_RFC3339String(t *testing.T) {
	a := DecodeTime("2021-01-01T00:00:00Z", true, "ts", nil)
	require.NotNil(t, a.Value)
	assert.True(t, a.Value.Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDecodeTime_NaiveDatetimeTreatedAsUTC(t *testing.T) {
	a := DecodeTime("2021-01-01 12:30:00", true, "ts", nil)
	require.NotNil(t, a.Value)
	assert.Equal(t, time.Date(2021, 1, 1, 12, 30, 0, 0, time.UTC), *a.Value)
}

func TestDecodeTime_InvalidStringAddsError(t *testing.T) {
	a := DecodeTime("not a date", true, "ts", nil)
	assert.Nil(t, a.Value)
	require.Len(t, a.Meta.Errors, 1)
}

func TestDecodeTime_AbsentFieldIsEmpty(t *testing.T) {
	a := DecodeTime(nil, false, "ts", nil)
	assert.Nil(t, a.Value)
	assert.True(t, a.Meta.IsEmpty())
}

func TestEncodeTime_WholeSecondsEncodesAsInt(t *testing.T) {
	ts := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	out := EncodeTime(Annotated[time.Time]{Value: &ts}, "ts", NewSidecarBuilder())
	assert.Equal(t, ts.Unix(), out)
}

func TestEncodeTime_FractionalEncodesAsFloat(t *testing.T) {
	ts := time.Date(2021, 1, 1, 0, 0, 0, 500000000, time.UTC)
	out := EncodeTime(Annotated[time.Time]{Value: &ts}, "ts", NewSidecarBuilder())
	f, ok := out.(float64)
	require.True(t, ok)
	assert.InDelta(t, float64(ts.Unix())+0.5, f, 1e-9)
}

func TestEncodeTime_NilValueEmptyMetaSkipsField(t *testing.T) {
	out := EncodeTime(Annotated[time.Time]{}, "ts", NewSidecarBuilder())
	_, skip := out.(SkipField)
	assert.True(t, skip)
}

func TestTimeRoundTrip_UnixSeconds(t *testing.T) {
	a := DecodeTime(json.Number("1700000000"), true, "ts", nil)
	out := EncodeTime(a, "ts", NewSidecarBuilder())
	assert.Equal(t, int64(1700000000), out)
}
