package event

import (
	"fmt"
	"time"

	"eventscrub/pii"
)

// Event is the example crash-report schema the core pii engine scrubs: a
// Sentry-like structured error event. This schema is explicitly out of
// scope for the engine itself (spec.md §1) but is required as a concrete
// consumer of the processing traversal.
type Event struct {
	EventID     pii.Annotated[string]
	Timestamp   pii.Annotated[time.Time]
	Message     pii.Annotated[string]
	Logger      pii.Annotated[string]
	Level       pii.Annotated[string]
	Platform    pii.Annotated[string]
	ServerName  pii.Annotated[string]
	Release     pii.Annotated[string]
	Environment pii.Annotated[string]
	User        pii.Annotated[User]
	Request     pii.Annotated[Request]
	Tags        pii.Annotated[pii.Value]
	Extra       pii.Annotated[pii.Value]
	Contexts    pii.Annotated[pii.Value]
	Breadcrumbs pii.Annotated[Values[Breadcrumb]]
	Exception   pii.Annotated[Values[ExceptionValue]]
}

// Process walks every declared field of e, dispatching by its PII kind,
// per spec.md §4.3's traversal (scalar fields call the matching
// processor hook; sub-structs recurse; databag fields go through
// ProcessValue).
func (e *Event) Process(p pii.Processor) {
	p.ProcessString(&e.EventID, pii.Info(pii.Ptr(pii.PiiId), nil))
	p.ProcessString(&e.Message, pii.Info(pii.Ptr(pii.PiiFreeform), pii.Ptr(pii.CapMessage)))
	p.ProcessString(&e.Logger, pii.Info(nil, nil))
	p.ProcessString(&e.Level, pii.Info(nil, nil))
	p.ProcessString(&e.Platform, pii.Info(nil, nil))
	p.ProcessString(&e.ServerName, pii.Info(pii.Ptr(pii.PiiHostname), nil))
	p.ProcessString(&e.Release, pii.Info(nil, nil))
	p.ProcessString(&e.Environment, pii.Info(nil, nil))
	if e.User.Value != nil {
		e.User.Value.Process(p)
	}
	if e.Request.Value != nil {
		e.Request.Value.Process(p)
	}
	p.ProcessValue(&e.Tags, pii.Info(pii.Ptr(pii.PiiDatabag), pii.Ptr(pii.CapDatabag)))
	p.ProcessValue(&e.Extra, pii.Info(pii.Ptr(pii.PiiDatabag), pii.Ptr(pii.CapDatabag)))
	p.ProcessValue(&e.Contexts, pii.Info(pii.Ptr(pii.PiiDatabag), pii.Ptr(pii.CapDatabag)))
	if e.Breadcrumbs.Value != nil {
		ProcessValues[Breadcrumb, *Breadcrumb](e.Breadcrumbs.Value, p)
	}
	if e.Exception.Value != nil {
		ProcessValues[ExceptionValue, *ExceptionValue](e.Exception.Value, p)
	}
}

// DecodeEvent is the root decode function passed to pii.FromJSON[Event].
func DecodeEvent(raw any, path string, sidecar map[string]pii.Meta) pii.Annotated[Event] {
	a := pii.Annotated[Event]{Meta: sidecar[path]}
	m, ok := asMap(raw)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected object, got %T", raw))
		return a
	}
	a.Set(Event{
		EventID:     pii.DecodeString(m["event_id"], has(m, "event_id"), pii.JoinPath(path, "event_id"), sidecar),
		Timestamp:   pii.DecodeTime(m["timestamp"], has(m, "timestamp"), pii.JoinPath(path, "timestamp"), sidecar),
		Message:     pii.DecodeString(m["message"], has(m, "message"), pii.JoinPath(path, "message"), sidecar),
		Logger:      pii.DecodeString(m["logger"], has(m, "logger"), pii.JoinPath(path, "logger"), sidecar),
		Level:       pii.DecodeString(m["level"], has(m, "level"), pii.JoinPath(path, "level"), sidecar),
		Platform:    pii.DecodeString(m["platform"], has(m, "platform"), pii.JoinPath(path, "platform"), sidecar),
		ServerName:  pii.DecodeString(m["server_name"], has(m, "server_name"), pii.JoinPath(path, "server_name"), sidecar),
		Release:     pii.DecodeString(m["release"], has(m, "release"), pii.JoinPath(path, "release"), sidecar),
		Environment: pii.DecodeString(m["environment"], has(m, "environment"), pii.JoinPath(path, "environment"), sidecar),
		User:        decodeUser(m["user"], has(m, "user"), pii.JoinPath(path, "user"), sidecar),
		Request:     decodeRequest(m["request"], has(m, "request"), pii.JoinPath(path, "request"), sidecar),
		Tags:        pii.DecodeDatabag(m["tags"], has(m, "tags"), pii.JoinPath(path, "tags"), sidecar),
		Extra:       pii.DecodeDatabag(m["extra"], has(m, "extra"), pii.JoinPath(path, "extra"), sidecar),
		Contexts:    pii.DecodeDatabag(m["contexts"], has(m, "contexts"), pii.JoinPath(path, "contexts"), sidecar),
		Breadcrumbs: DecodeValues(m["breadcrumbs"], has(m, "breadcrumbs"), pii.JoinPath(path, "breadcrumbs"), sidecar, decodeBreadcrumb),
		Exception:   DecodeValues(m["exception"], has(m, "exception"), pii.JoinPath(path, "exception"), sidecar, decodeExceptionValue),
	})
	return a
}

// EncodeEvent is the root encode function passed to pii.ToJSON[Event].
func EncodeEvent(a pii.Annotated[Event], path string, sc *pii.SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		return map[string]any{}
	}
	e := *a.Value
	out := map[string]any{}
	setField(out, "event_id", pii.EncodeString(e.EventID, pii.JoinPath(path, "event_id"), sc))
	setField(out, "timestamp", pii.EncodeTime(e.Timestamp, pii.JoinPath(path, "timestamp"), sc))
	setField(out, "message", pii.EncodeString(e.Message, pii.JoinPath(path, "message"), sc))
	setField(out, "logger", pii.EncodeString(e.Logger, pii.JoinPath(path, "logger"), sc))
	setField(out, "level", pii.EncodeString(e.Level, pii.JoinPath(path, "level"), sc))
	setField(out, "platform", pii.EncodeString(e.Platform, pii.JoinPath(path, "platform"), sc))
	setField(out, "server_name", pii.EncodeString(e.ServerName, pii.JoinPath(path, "server_name"), sc))
	setField(out, "release", pii.EncodeString(e.Release, pii.JoinPath(path, "release"), sc))
	setField(out, "environment", pii.EncodeString(e.Environment, pii.JoinPath(path, "environment"), sc))
	setField(out, "user", encodeUser(e.User, pii.JoinPath(path, "user"), sc))
	setField(out, "request", encodeRequest(e.Request, pii.JoinPath(path, "request"), sc))
	setField(out, "tags", pii.EncodeValue(e.Tags, pii.JoinPath(path, "tags"), sc))
	setField(out, "extra", pii.EncodeValue(e.Extra, pii.JoinPath(path, "extra"), sc))
	setField(out, "contexts", pii.EncodeValue(e.Contexts, pii.JoinPath(path, "contexts"), sc))
	setField(out, "breadcrumbs", EncodeValues(e.Breadcrumbs, pii.JoinPath(path, "breadcrumbs"), sc, encodeBreadcrumb))
	setField(out, "exception", EncodeValues(e.Exception, pii.JoinPath(path, "exception"), sc, encodeExceptionValue))
	return out
}

// FromJSON decodes a root event document plus its meta sidecar.
func FromJSON(data []byte) (pii.Annotated[Event], error) {
	return pii.FromJSON(data, DecodeEvent)
}

// ToJSON re-serializes an annotated event, emitting the "" sidecar key
// when any field carries non-empty meta.
func ToJSON(a pii.Annotated[Event], pretty bool) ([]byte, error) {
	return pii.ToJSON(a, EncodeEvent, pretty)
}
