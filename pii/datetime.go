package pii

import (
	"encoding/json"
	"fmt"
	"time"
)

// DecodeTime decodes an Annotated[time.Time] field at path,
// accepting either a Unix timestamp (int/float seconds) or an RFC3339-ish
// string, grounded on
// original_source/src/protocol/serde_chrono.rs's SecondsTimestampVisitor.
// A naive datetime string with no zone offset is treated as UTC, matching
// the grounding source's NaiveDateTime fallback.
func DecodeTime(raw any, present bool, path string, sidecar map[string]Meta) Annotated[time.Time] {
	a := Annotated[time.Time]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	switch t := raw.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			a.Meta.AddError(fmt.Sprintf("invalid timestamp: %v", err))
			return a
		}
		a.Set(timestampToTime(f))
	case string:
		ts, err := parseFlexibleTime(t)
		if err != nil {
			a.Meta.AddError(fmt.Sprintf("invalid date: %v", err))
			return a
		}
		a.Set(ts)
	default:
		a.Meta.AddError(fmt.Sprintf("expected a unix timestamp, got %T", raw))
	}
	return a
}

// timestampToTime converts a float Unix timestamp (fractional seconds) to
// a UTC time.Time.
func timestampToTime(ts float64) time.Time {
	secs := int64(ts)
	frac := ts - float64(secs)
	nanos := int64(frac * 1e9)
	return time.Unix(secs, nanos).UTC()
}

// parseFlexibleTime accepts RFC3339 (with offset) first, then falls back
// to a naive "2006-01-02T15:04:05[.999999]" layout treated as UTC.
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	layouts := []string{
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("input contains invalid characters")
}

// EncodeTime renders an Annotated[time.Time] back to a Unix
// timestamp: an integer number of seconds when there's no sub-second
// component, otherwise a float, matching SerdeDateTime's serializer.
func EncodeTime(a Annotated[time.Time], path string, sc *SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return SkipField{}
		}
		return nil
	}
	t := *a.Value
	if t.Nanosecond() == 0 {
		return t.Unix()
	}
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}
