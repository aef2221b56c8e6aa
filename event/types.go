package event

import (
	"fmt"
	"time"

	"eventscrub/pii"
)

// Geo is a coarse location attached to a User, grounded on the original
// protocol's geo/location context fields (spec.md §9 supplemented
// feature: Location PiiKind).
type Geo struct {
	City    pii.Annotated[string]
	Region  pii.Annotated[string]
	Country pii.Annotated[string]
}

func (g *Geo) Process(p pii.Processor) {
	loc := pii.Ptr(pii.PiiLocation)
	p.ProcessString(&g.City, pii.Info(loc, nil))
	p.ProcessString(&g.Region, pii.Info(loc, nil))
	p.ProcessString(&g.Country, pii.Info(loc, nil))
}

func decodeGeo(raw any, present bool, path string, sidecar map[string]pii.Meta) pii.Annotated[Geo] {
	a := pii.Annotated[Geo]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	m, ok := asMap(raw)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected object, got %T", raw))
		return a
	}
	a.Set(Geo{
		City:    pii.DecodeString(m["city"], has(m, "city"), pii.JoinPath(path, "city"), sidecar),
		Region:  pii.DecodeString(m["region"], has(m, "region"), pii.JoinPath(path, "region"), sidecar),
		Country: pii.DecodeString(m["country"], has(m, "country"), pii.JoinPath(path, "country"), sidecar),
	})
	return a
}

func encodeGeo(a pii.Annotated[Geo], path string, sc *pii.SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return pii.SkipField{}
		}
		return nil
	}
	g := *a.Value
	out := map[string]any{}
	setField(out, "city", pii.EncodeString(g.City, pii.JoinPath(path, "city"), sc))
	setField(out, "region", pii.EncodeString(g.Region, pii.JoinPath(path, "region"), sc))
	setField(out, "country", pii.EncodeString(g.Country, pii.JoinPath(path, "country"), sc))
	return out
}

// User carries the subject of an event: identifiers, contact info, and a
// coarse location, plus arbitrary extra data.
type User struct {
	ID        pii.Annotated[string]
	Username  pii.Annotated[string]
	Email     pii.Annotated[string]
	IPAddress pii.Annotated[string]
	Geo       pii.Annotated[Geo]
	Extra     pii.Annotated[pii.Value]
}

func (u *User) Process(p pii.Processor) {
	p.ProcessString(&u.ID, pii.Info(pii.Ptr(pii.PiiId), nil))
	p.ProcessString(&u.Username, pii.Info(pii.Ptr(pii.PiiUsername), nil))
	p.ProcessString(&u.Email, pii.Info(pii.Ptr(pii.PiiEmail), nil))
	p.ProcessString(&u.IPAddress, pii.Info(pii.Ptr(pii.PiiIp), nil))
	if u.Geo.Value != nil {
		u.Geo.Value.Process(p)
	}
	p.ProcessValue(&u.Extra, pii.Info(pii.Ptr(pii.PiiDatabag), pii.Ptr(pii.CapDatabag)))
}

func decodeUser(raw any, present bool, path string, sidecar map[string]pii.Meta) pii.Annotated[User] {
	a := pii.Annotated[User]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	m, ok := asMap(raw)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected object, got %T", raw))
		return a
	}
	a.Set(User{
		ID:        pii.DecodeString(m["id"], has(m, "id"), pii.JoinPath(path, "id"), sidecar),
		Username:  pii.DecodeString(m["username"], has(m, "username"), pii.JoinPath(path, "username"), sidecar),
		Email:     pii.DecodeString(m["email"], has(m, "email"), pii.JoinPath(path, "email"), sidecar),
		IPAddress: pii.DecodeString(m["ip_address"], has(m, "ip_address"), pii.JoinPath(path, "ip_address"), sidecar),
		Geo:       decodeGeo(m["geo"], has(m, "geo"), pii.JoinPath(path, "geo"), sidecar),
		Extra:     pii.DecodeDatabag(m["extra"], has(m, "extra"), pii.JoinPath(path, "extra"), sidecar),
	})
	return a
}

func encodeUser(a pii.Annotated[User], path string, sc *pii.SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return pii.SkipField{}
		}
		return nil
	}
	u := *a.Value
	out := map[string]any{}
	setField(out, "id", pii.EncodeString(u.ID, pii.JoinPath(path, "id"), sc))
	setField(out, "username", pii.EncodeString(u.Username, pii.JoinPath(path, "username"), sc))
	setField(out, "email", pii.EncodeString(u.Email, pii.JoinPath(path, "email"), sc))
	setField(out, "ip_address", pii.EncodeString(u.IPAddress, pii.JoinPath(path, "ip_address"), sc))
	setField(out, "geo", encodeGeo(u.Geo, pii.JoinPath(path, "geo"), sc))
	setField(out, "extra", pii.EncodeValue(u.Extra, pii.JoinPath(path, "extra"), sc))
	return out
}

// Request carries the HTTP request an error occurred during, if any.
type Request struct {
	URL         pii.Annotated[string]
	Method      pii.Annotated[string]
	QueryString pii.Annotated[string]
	Cookies     pii.Annotated[string]
	Headers     pii.Annotated[pii.Value]
	Data        pii.Annotated[pii.Value]
}

func (r *Request) Process(p pii.Processor) {
	p.ProcessString(&r.URL, pii.Info(pii.Ptr(pii.PiiFreeform), nil))
	p.ProcessString(&r.Method, pii.Info(nil, nil))
	p.ProcessString(&r.QueryString, pii.Info(pii.Ptr(pii.PiiFreeform), nil))
	p.ProcessString(&r.Cookies, pii.Info(pii.Ptr(pii.PiiSensitive), nil))
	p.ProcessValue(&r.Headers, pii.Info(pii.Ptr(pii.PiiDatabag), pii.Ptr(pii.CapDatabag)))
	p.ProcessValue(&r.Data, pii.Info(pii.Ptr(pii.PiiDatabag), pii.Ptr(pii.CapDatabag)))
}

func decodeRequest(raw any, present bool, path string, sidecar map[string]pii.Meta) pii.Annotated[Request] {
	a := pii.Annotated[Request]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	m, ok := asMap(raw)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected object, got %T", raw))
		return a
	}
	a.Set(Request{
		URL:         pii.DecodeString(m["url"], has(m, "url"), pii.JoinPath(path, "url"), sidecar),
		Method:      pii.DecodeString(m["method"], has(m, "method"), pii.JoinPath(path, "method"), sidecar),
		QueryString: pii.DecodeString(m["query_string"], has(m, "query_string"), pii.JoinPath(path, "query_string"), sidecar),
		Cookies:     pii.DecodeString(m["cookies"], has(m, "cookies"), pii.JoinPath(path, "cookies"), sidecar),
		Headers:     pii.DecodeDatabag(m["headers"], has(m, "headers"), pii.JoinPath(path, "headers"), sidecar),
		Data:        pii.DecodeDatabag(m["data"], has(m, "data"), pii.JoinPath(path, "data"), sidecar),
	})
	return a
}

func encodeRequest(a pii.Annotated[Request], path string, sc *pii.SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return pii.SkipField{}
		}
		return nil
	}
	r := *a.Value
	out := map[string]any{}
	setField(out, "url", pii.EncodeString(r.URL, pii.JoinPath(path, "url"), sc))
	setField(out, "method", pii.EncodeString(r.Method, pii.JoinPath(path, "method"), sc))
	setField(out, "query_string", pii.EncodeString(r.QueryString, pii.JoinPath(path, "query_string"), sc))
	setField(out, "cookies", pii.EncodeString(r.Cookies, pii.JoinPath(path, "cookies"), sc))
	setField(out, "headers", pii.EncodeValue(r.Headers, pii.JoinPath(path, "headers"), sc))
	setField(out, "data", pii.EncodeValue(r.Data, pii.JoinPath(path, "data"), sc))
	return out
}

// Breadcrumb is one entry in the trail of events leading up to an error.
type Breadcrumb struct {
	Timestamp pii.Annotated[time.Time]
	Type      pii.Annotated[string]
	Category  pii.Annotated[string]
	Message   pii.Annotated[string]
	Data      pii.Annotated[pii.Value]
}

func (b *Breadcrumb) Process(p pii.Processor) {
	p.ProcessString(&b.Type, pii.Info(nil, nil))
	p.ProcessString(&b.Category, pii.Info(nil, nil))
	p.ProcessString(&b.Message, pii.Info(pii.Ptr(pii.PiiFreeform), pii.Ptr(pii.CapMessage)))
	p.ProcessValue(&b.Data, pii.Info(pii.Ptr(pii.PiiDatabag), pii.Ptr(pii.CapDatabag)))
}

func decodeBreadcrumb(raw any, present bool, path string, sidecar map[string]pii.Meta) pii.Annotated[Breadcrumb] {
	a := pii.Annotated[Breadcrumb]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	m, ok := asMap(raw)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected object, got %T", raw))
		return a
	}
	a.Set(Breadcrumb{
		Timestamp: pii.DecodeTime(m["timestamp"], has(m, "timestamp"), pii.JoinPath(path, "timestamp"), sidecar),
		Type:      pii.DecodeString(m["type"], has(m, "type"), pii.JoinPath(path, "type"), sidecar),
		Category:  pii.DecodeString(m["category"], has(m, "category"), pii.JoinPath(path, "category"), sidecar),
		Message:   pii.DecodeString(m["message"], has(m, "message"), pii.JoinPath(path, "message"), sidecar),
		Data:      pii.DecodeDatabag(m["data"], has(m, "data"), pii.JoinPath(path, "data"), sidecar),
	})
	return a
}

func encodeBreadcrumb(a pii.Annotated[Breadcrumb], path string, sc *pii.SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return pii.SkipField{}
		}
		return nil
	}
	b := *a.Value
	out := map[string]any{}
	setField(out, "timestamp", pii.EncodeTime(b.Timestamp, pii.JoinPath(path, "timestamp"), sc))
	setField(out, "type", pii.EncodeString(b.Type, pii.JoinPath(path, "type"), sc))
	setField(out, "category", pii.EncodeString(b.Category, pii.JoinPath(path, "category"), sc))
	setField(out, "message", pii.EncodeString(b.Message, pii.JoinPath(path, "message"), sc))
	setField(out, "data", pii.EncodeValue(b.Data, pii.JoinPath(path, "data"), sc))
	return out
}

// Frame is one stack frame of an exception's stacktrace.
type Frame struct {
	Filename pii.Annotated[string]
	Function pii.Annotated[string]
	Module   pii.Annotated[string]
	Lineno   pii.Annotated[int64]
	Vars     pii.Annotated[pii.Value]
}

func (f *Frame) Process(p pii.Processor) {
	p.ProcessString(&f.Filename, pii.Info(pii.Ptr(pii.PiiFreeform), pii.Ptr(pii.CapPath)))
	p.ProcessString(&f.Function, pii.Info(nil, nil))
	p.ProcessString(&f.Module, pii.Info(nil, nil))
	p.ProcessI64(&f.Lineno, pii.Info(nil, nil))
	p.ProcessValue(&f.Vars, pii.Info(pii.Ptr(pii.PiiDatabag), pii.Ptr(pii.CapDatabag)))
}

func decodeFrame(raw any, present bool, path string, sidecar map[string]pii.Meta) pii.Annotated[Frame] {
	a := pii.Annotated[Frame]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	m, ok := asMap(raw)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected object, got %T", raw))
		return a
	}
	a.Set(Frame{
		Filename: pii.DecodeString(m["filename"], has(m, "filename"), pii.JoinPath(path, "filename"), sidecar),
		Function: pii.DecodeString(m["function"], has(m, "function"), pii.JoinPath(path, "function"), sidecar),
		Module:   pii.DecodeString(m["module"], has(m, "module"), pii.JoinPath(path, "module"), sidecar),
		Lineno:   pii.DecodeI64(m["lineno"], has(m, "lineno"), pii.JoinPath(path, "lineno"), sidecar),
		Vars:     pii.DecodeDatabag(m["vars"], has(m, "vars"), pii.JoinPath(path, "vars"), sidecar),
	})
	return a
}

func encodeFrame(a pii.Annotated[Frame], path string, sc *pii.SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return pii.SkipField{}
		}
		return nil
	}
	f := *a.Value
	out := map[string]any{}
	setField(out, "filename", pii.EncodeString(f.Filename, pii.JoinPath(path, "filename"), sc))
	setField(out, "function", pii.EncodeString(f.Function, pii.JoinPath(path, "function"), sc))
	setField(out, "module", pii.EncodeString(f.Module, pii.JoinPath(path, "module"), sc))
	setField(out, "lineno", pii.EncodeI64(f.Lineno, pii.JoinPath(path, "lineno"), sc))
	setField(out, "vars", pii.EncodeValue(f.Vars, pii.JoinPath(path, "vars"), sc))
	return out
}

// Stacktrace is an ordered list of frames, innermost last.
type Stacktrace struct {
	Frames []pii.Annotated[Frame]
}

func (s *Stacktrace) Process(p pii.Processor) {
	for i := range s.Frames {
		if s.Frames[i].Value != nil {
			s.Frames[i].Value.Process(p)
		}
	}
}

func decodeStacktrace(raw any, present bool, path string, sidecar map[string]pii.Meta) pii.Annotated[Stacktrace] {
	a := pii.Annotated[Stacktrace]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	m, ok := asMap(raw)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected object, got %T", raw))
		return a
	}
	framesRaw, _ := m["frames"].([]any)
	framesPath := pii.JoinPath(path, "frames")
	frames := make([]pii.Annotated[Frame], len(framesRaw))
	for i, elem := range framesRaw {
		frames[i] = decodeFrame(elem, true, pii.JoinPath(framesPath, fmt.Sprintf("%d", i)), sidecar)
	}
	a.Set(Stacktrace{Frames: frames})
	return a
}

func encodeStacktrace(a pii.Annotated[Stacktrace], path string, sc *pii.SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return pii.SkipField{}
		}
		return nil
	}
	framesPath := pii.JoinPath(path, "frames")
	frames := make([]any, 0, len(a.Value.Frames))
	for i, fr := range a.Value.Frames {
		frames = append(frames, encodeFrame(fr, pii.JoinPath(framesPath, fmt.Sprintf("%d", i)), sc))
	}
	return map[string]any{"frames": frames}
}

// ExceptionValue describes one raised exception.
type ExceptionValue struct {
	Type       pii.Annotated[string]
	Value      pii.Annotated[string]
	Module     pii.Annotated[string]
	Stacktrace pii.Annotated[Stacktrace]
}

func (e *ExceptionValue) Process(p pii.Processor) {
	p.ProcessString(&e.Type, pii.Info(nil, nil))
	p.ProcessString(&e.Value, pii.Info(pii.Ptr(pii.PiiFreeform), pii.Ptr(pii.CapMessage)))
	p.ProcessString(&e.Module, pii.Info(nil, nil))
	if e.Stacktrace.Value != nil {
		e.Stacktrace.Value.Process(p)
	}
}

func decodeExceptionValue(raw any, present bool, path string, sidecar map[string]pii.Meta) pii.Annotated[ExceptionValue] {
	a := pii.Annotated[ExceptionValue]{Meta: sidecar[path]}
	if !present || raw == nil {
		return a
	}
	m, ok := asMap(raw)
	if !ok {
		a.Meta.AddError(fmt.Sprintf("expected object, got %T", raw))
		return a
	}
	a.Set(ExceptionValue{
		Type:       pii.DecodeString(m["type"], has(m, "type"), pii.JoinPath(path, "type"), sidecar),
		Value:      pii.DecodeString(m["value"], has(m, "value"), pii.JoinPath(path, "value"), sidecar),
		Module:     pii.DecodeString(m["module"], has(m, "module"), pii.JoinPath(path, "module"), sidecar),
		Stacktrace: decodeStacktrace(m["stacktrace"], has(m, "stacktrace"), pii.JoinPath(path, "stacktrace"), sidecar),
	})
	return a
}

func encodeExceptionValue(a pii.Annotated[ExceptionValue], path string, sc *pii.SidecarBuilder) any {
	sc.Record(path, a.Meta)
	if a.Value == nil {
		if a.Meta.IsEmpty() {
			return pii.SkipField{}
		}
		return nil
	}
	e := *a.Value
	out := map[string]any{}
	setField(out, "type", pii.EncodeString(e.Type, pii.JoinPath(path, "type"), sc))
	setField(out, "value", pii.EncodeString(e.Value, pii.JoinPath(path, "value"), sc))
	setField(out, "module", pii.EncodeString(e.Module, pii.JoinPath(path, "module"), sc))
	setField(out, "stacktrace", encodeStacktrace(e.Stacktrace, pii.JoinPath(path, "stacktrace"), sc))
	return out
}
