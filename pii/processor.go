package pii

import "unicode/utf8"

// PiiKind is the semantic tag attached to a schema field declaring what
// sort of PII it may hold. Grounded on
// original_source/src/processor/pii.rs's define_pii_kind! macro output.
type PiiKind int

const (
	PiiFreeform PiiKind = iota
	PiiIp
	PiiId
	PiiUsername
	PiiHostname
	PiiSensitive
	PiiName
	PiiEmail
	PiiLocation
	PiiDatabag
)

var piiKindNames = map[PiiKind]string{
	PiiFreeform:  "freeform",
	PiiIp:        "ip",
	PiiId:        "id",
	PiiUsername:  "username",
	PiiHostname:  "hostname",
	PiiSensitive: "sensitive",
	PiiName:      "name",
	PiiEmail:     "email",
	PiiLocation:  "location",
	PiiDatabag:   "databag",
}

func (k PiiKind) String() string {
	if s, ok := piiKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Cap is a semantic tag suggesting a size/shape cap for a field.
type Cap int

const (
	CapSummary Cap = iota
	CapMessage
	CapPath
	CapShortPath
	CapDatabag
)

// ValueInfo carries the declared PiiKind/Cap for the field currently being
// processed.
type ValueInfo struct {
	PiiKind *PiiKind
	Cap     *Cap
}

// Info builds a ValueInfo from a kind/cap pair; pass nil for either to
// leave it unset.
func Info(kind *PiiKind, cap *Cap) ValueInfo { return ValueInfo{PiiKind: kind, Cap: cap} }

func kindPtr(k PiiKind) *PiiKind { return &k }
func capPtr(c Cap) *Cap          { return &c }

// Derive returns the ValueInfo propagated to a container's children:
// only PiiDatabag (kind or cap) survives; any more specific tag is
// cleared.
func (v ValueInfo) Derive() ValueInfo {
	out := ValueInfo{}
	if v.PiiKind != nil && *v.PiiKind == PiiDatabag {
		out.PiiKind = kindPtr(PiiDatabag)
	}
	if v.Cap != nil && *v.Cap == CapDatabag {
		out.Cap = capPtr(CapDatabag)
	}
	return out
}

// Processor is the traversal dispatch interface: one method per scalar
// type plus one for the dynamic Value tree, default implementations are
// identity (see BaseProcessor).
type Processor interface {
	ProcessString(a *Annotated[string], info ValueInfo)
	ProcessBool(a *Annotated[bool], info ValueInfo)
	ProcessU64(a *Annotated[uint64], info ValueInfo)
	ProcessI64(a *Annotated[int64], info ValueInfo)
	ProcessF64(a *Annotated[float64], info ValueInfo)
	ProcessValue(a *Annotated[Value], info ValueInfo)
}

// BaseProcessor implements Processor with identity behavior on every
// method; embed it in a concrete processor to get default no-ops for free,
// the Go substitute for Rust's default trait methods (Go interfaces carry
// no default implementations).
type BaseProcessor struct{}

func (BaseProcessor) ProcessString(*Annotated[string], ValueInfo) {}
func (BaseProcessor) ProcessBool(*Annotated[bool], ValueInfo)     {}
func (BaseProcessor) ProcessU64(*Annotated[uint64], ValueInfo)    {}
func (BaseProcessor) ProcessI64(*Annotated[int64], ValueInfo)     {}
func (BaseProcessor) ProcessF64(*Annotated[float64], ValueInfo)   {}
func (BaseProcessor) ProcessValue(*Annotated[Value], ValueInfo)   {}

// PiiProcessor is the two-hook specialization used by the rule engine:
// ProcessChunks handles strings (via chunk split/join), ProcessPIIValue
// handles everything else. ok reports whether any rule applicable to that
// hook ran (whether or not it matched anything); when false the caller
// discards that hook's result.
type PiiProcessor interface {
	ProcessChunks(chunks []Chunk, meta Meta, kind *PiiKind) (newChunks []Chunk, newMeta Meta, ok bool)
	ProcessPIIValue(a Annotated[Value], kind *PiiKind) (Annotated[Value], bool)
}

// PiiProcessorAdapter implements Processor by wiring a PiiProcessor
// through the canonical chunk split/join path for strings (setting
// original_length when the scrubbed text's length differs from the
// original's) and through
// ProcessPIIValue for every other scalar type and for Value, matching
// original_source/src/processor/pii.rs's blanket `impl<T: PiiProcessor>
// Processor for T`. Go has no blanket trait impls, so this is an explicit
// adapter type embedding the PiiProcessor instead.
type PiiProcessorAdapter struct {
	Inner PiiProcessor
}

// ProcessString first runs the value-level hook (treating the string as a
// Value::String, so rule types like Remove/RedactPair that only know how
// to replace a whole value can fire), then splits whatever string survives
// that pass into chunks and runs the chunk-level hook on top of it. A rule
// type that pii_process_chunks doesn't support (it reports ok=false)
// leaves the value-level result untouched rather than reverting to the
// original string. Mirrors original_source/src/processor/pii.rs's blanket
// `impl<T: PiiProcessor> Processor for T`'s process_string.
func (p PiiProcessorAdapter) ProcessString(a *Annotated[string], info ValueInfo) {
	if a.Value == nil || info.PiiKind == nil {
		return
	}
	origLen := utf8.RuneCountInString(*a.Value)

	valueIn := Annotated[Value]{Value: Ptr(StringValue(*a.Value)), Meta: a.Meta}
	valueOut, ok := p.Inner.ProcessPIIValue(valueIn, info.PiiKind)
	if !ok {
		valueOut = valueIn
	}
	s, isString := "", false
	if valueOut.Value != nil {
		s, isString = valueOut.Value.AsString()
	}
	if !isString {
		a.Meta = valueOut.Meta
		a.Clear()
		return
	}

	chunks := SplitChunks(s, valueOut.Meta.Remarks)
	newChunks, newMeta, chunkOk := p.Inner.ProcessChunks(chunks, valueOut.Meta, info.PiiKind)
	text := s
	if chunkOk {
		var remarks []Remark
		text, remarks = JoinChunks(newChunks)
		newMeta.Remarks = remarks
	} else {
		newMeta = valueOut.Meta
	}

	if utf8.RuneCountInString(text) != origLen {
		newMeta.SetOriginalLength(origLen)
	}
	a.Meta = newMeta
	a.Set(text)
}

func (p PiiProcessorAdapter) ProcessBool(a *Annotated[bool], info ValueInfo) {
	if a.Value == nil || info.PiiKind == nil {
		return
	}
	in := Annotated[Value]{Value: Ptr(BoolValue(*a.Value)), Meta: a.Meta}
	out, ok := p.Inner.ProcessPIIValue(in, info.PiiKind)
	if !ok {
		return
	}
	a.Meta = out.Meta
	if out.Value == nil {
		a.Clear()
		return
	}
	if b, isBool := out.Value.AsBool(); isBool {
		a.Set(b)
	}
}

func (p PiiProcessorAdapter) ProcessU64(a *Annotated[uint64], info ValueInfo) {
	if a.Value == nil || info.PiiKind == nil {
		return
	}
	in := Annotated[Value]{Value: Ptr(U64Value(*a.Value)), Meta: a.Meta}
	out, ok := p.Inner.ProcessPIIValue(in, info.PiiKind)
	if !ok {
		return
	}
	a.Meta = out.Meta
	if out.Value == nil {
		a.Clear()
		return
	}
	if u, isU := out.Value.AsU64(); isU {
		a.Set(u)
	}
}

func (p PiiProcessorAdapter) ProcessI64(a *Annotated[int64], info ValueInfo) {
	if a.Value == nil || info.PiiKind == nil {
		return
	}
	in := Annotated[Value]{Value: Ptr(I64Value(*a.Value)), Meta: a.Meta}
	out, ok := p.Inner.ProcessPIIValue(in, info.PiiKind)
	if !ok {
		return
	}
	a.Meta = out.Meta
	if out.Value == nil {
		a.Clear()
		return
	}
	if i, isI := out.Value.AsI64(); isI {
		a.Set(i)
	}
}

func (p PiiProcessorAdapter) ProcessF64(a *Annotated[float64], info ValueInfo) {
	if a.Value == nil || info.PiiKind == nil {
		return
	}
	in := Annotated[Value]{Value: Ptr(F64Value(*a.Value)), Meta: a.Meta}
	out, ok := p.Inner.ProcessPIIValue(in, info.PiiKind)
	if !ok {
		return
	}
	a.Meta = out.Meta
	if out.Value == nil {
		a.Clear()
		return
	}
	if f, isF := out.Value.AsF64(); isF {
		a.Set(f)
	}
}

// ProcessValue dispatches on the dynamic Value's variant: strings go
// through the chunk path (kind derived as-is, since a Value doesn't carry
// its own ValueInfo), arrays/maps recurse into each child with
// info.Derive(), everything else goes through ProcessPIIValue directly.
func (p PiiProcessorAdapter) ProcessValue(a *Annotated[Value], info ValueInfo) {
	if a.Value == nil {
		return
	}
	switch a.Value.typ {
	case TypeString:
		s := a.Value.s
		strAnn := Annotated[string]{Value: &s, Meta: a.Meta}
		p.ProcessString(&strAnn, info)
		a.Meta = strAnn.Meta
		if strAnn.Value == nil {
			a.Clear()
		} else {
			a.Set(StringValue(*strAnn.Value))
		}
	case TypeArray:
		derived := info.Derive()
		items := a.Value.arr
		for i := range items {
			p.ProcessValue(&items[i], derived)
		}
		a.Value.arr = items
	case TypeMap:
		derived := info.Derive()
		for _, k := range a.Value.SortedKeys() {
			elem := a.Value.m[k]
			p.processMapEntry(a.Value, k, &elem, derived)
			a.Value.m[k] = elem
		}
	case TypeNull:
		// nothing to do
	default:
		if info.PiiKind == nil {
			return
		}
		out, ok := p.Inner.ProcessPIIValue(*a, info.PiiKind)
		if ok {
			*a = out
		}
	}
}

// processMapEntry gives RedactPair rules access to the map key (the
// current field's last path segment) by constructing a temporary path on
// elem.Meta pointing at key before recursing.
func (p PiiProcessorAdapter) processMapEntry(parent *Value, key string, elem *Annotated[Value], info ValueInfo) {
	if elem.Meta.path == nil {
		elem.Meta.path = RootPath.Child(key)
	}
	p.ProcessValue(elem, info)
}
