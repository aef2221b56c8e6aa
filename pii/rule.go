package pii

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxPatternSize bounds user-supplied regex source length. Go's RE2 engine
// has no catastrophic-backtracking blowup, so this is a declared guardrail
// for fidelity rather than a safety necessity; see regexes.go.
const maxPatternSize = 262144

// RuleTypeKind discriminates a RuleSpec's behavior (the "type" field).
type RuleTypeKind string

const (
	RuleTypePattern    RuleTypeKind = "pattern"
	RuleTypeImei       RuleTypeKind = "imei"
	RuleTypeMac        RuleTypeKind = "mac"
	RuleTypeEmail      RuleTypeKind = "email"
	RuleTypeIp         RuleTypeKind = "ip"
	RuleTypeCreditcard RuleTypeKind = "creditcard"
	RuleTypeUserpath   RuleTypeKind = "userpath"
	RuleTypeRemove     RuleTypeKind = "remove"
	RuleTypeMultiple   RuleTypeKind = "multiple"
	RuleTypeAlias      RuleTypeKind = "alias"
	RuleTypeRedactPair RuleTypeKind = "redactPair"
)

// RuleType is the tagged union of rule behaviors (spec.md §3's RuleType).
// Go has no sum types, so this is one struct carrying every variant's
// fields, discriminated by Kind and decoded/encoded by custom (Un)MarshalJSON
// on RuleSpec.
type RuleType struct {
	Kind RuleTypeKind

	// Pattern
	Pattern       *regexp.Regexp
	PatternSrc    string
	ReplaceGroups map[int]bool // nil: redact group 0; non-nil: redact these groups

	// Multiple
	Rules    []string
	HideRule bool

	// Alias
	Rule string

	// RedactPair
	KeyPattern    *regexp.Regexp
	KeyPatternSrc string
}

// RedactionMethod discriminates a Redaction's behavior (the "method" field).
type RedactionMethod string

const (
	RedactDefault RedactionMethod = "default"
	RedactRemove  RedactionMethod = "remove"
	RedactReplace RedactionMethod = "replace"
	RedactMask    RedactionMethod = "mask"
	RedactHash    RedactionMethod = "hash"
)

// Redaction is spec.md §3's Redaction variant set, discriminated by Method.
type Redaction struct {
	Method RedactionMethod

	// Replace
	Text string

	// Mask
	MaskChar      rune
	CharsToIgnore string
	RangeStart    *int
	RangeEnd      *int

	// Hash
	Algorithm HashAlgorithm
	Key       *string
}

// RuleSpec pairs a RuleType with the Redaction it applies on match.
type RuleSpec struct {
	Type      RuleType
	Redaction Redaction
}

// Vars holds PiiConfig-wide variables; currently just the default hash key.
type Vars struct {
	HashKey *string
}

// PiiConfig is the immutable, loaded rule configuration (spec.md §3/§6).
type PiiConfig struct {
	Rules        map[string]RuleSpec
	Vars         Vars
	Applications map[PiiKind][]string
}

// --- JSON decoding ---

type ruleSpecWire struct {
	Type          string          `json:"type"`
	Pattern       string          `json:"pattern,omitempty"`
	ReplaceGroups []int           `json:"replaceGroups,omitempty"`
	Rules         []string        `json:"rules,omitempty"`
	HideRule      bool            `json:"hide_rule,omitempty"`
	Rule          string          `json:"rule,omitempty"`
	KeyPattern    string          `json:"keyPattern,omitempty"`
	Redaction     json.RawMessage `json:"redaction,omitempty"`
}

type redactionWire struct {
	Method        string  `json:"method"`
	Text          string  `json:"text,omitempty"`
	MaskChar      string  `json:"maskChar,omitempty"`
	CharsToIgnore string  `json:"charsToIgnore,omitempty"`
	Range         [2]*int `json:"range,omitempty"`
	Algorithm     string  `json:"algorithm,omitempty"`
	Key           *string `json:"key,omitempty"`
}

// UnmarshalJSON decodes a rule spec object: the flattened type-discriminated
// fields plus a nested "redaction" object, per spec.md §6.
func (rs *RuleSpec) UnmarshalJSON(data []byte) error {
	var w ruleSpecWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("rule spec: %w", err)
	}
	ty, err := decodeRuleType(w)
	if err != nil {
		return err
	}
	rs.Type = ty

	if len(w.Redaction) == 0 {
		rs.Redaction = Redaction{Method: RedactDefault}
		return nil
	}
	red, err := decodeRedaction(w.Redaction)
	if err != nil {
		return err
	}
	rs.Redaction = red
	return nil
}

func decodeRuleType(w ruleSpecWire) (RuleType, error) {
	kind := RuleTypeKind(w.Type)
	ty := RuleType{Kind: kind, Rules: w.Rules, HideRule: w.HideRule, Rule: w.Rule}
	switch kind {
	case RuleTypePattern:
		if len(w.Pattern) > maxPatternSize {
			return ty, fmt.Errorf("rule pattern exceeds maximum size of %d bytes", maxPatternSize)
		}
		re, err := regexp.Compile(w.Pattern)
		if err != nil {
			return ty, fmt.Errorf("bad pattern regex: %w", err)
		}
		ty.Pattern = re
		ty.PatternSrc = w.Pattern
		if w.ReplaceGroups != nil {
			groups := make(map[int]bool, len(w.ReplaceGroups))
			for _, g := range w.ReplaceGroups {
				groups[g] = true
			}
			ty.ReplaceGroups = groups
		}
	case RuleTypeRedactPair:
		if len(w.KeyPattern) > maxPatternSize {
			return ty, fmt.Errorf("rule keyPattern exceeds maximum size of %d bytes", maxPatternSize)
		}
		re, err := regexp.Compile(w.KeyPattern)
		if err != nil {
			return ty, fmt.Errorf("bad keyPattern regex: %w", err)
		}
		ty.KeyPattern = re
		ty.KeyPatternSrc = w.KeyPattern
	case RuleTypeImei, RuleTypeMac, RuleTypeEmail, RuleTypeIp, RuleTypeCreditcard,
		RuleTypeUserpath, RuleTypeRemove, RuleTypeMultiple, RuleTypeAlias:
		// no type-specific fields beyond what's already copied
	default:
		return ty, fmt.Errorf("unknown rule type %q", w.Type)
	}
	return ty, nil
}

func decodeRedaction(data []byte) (Redaction, error) {
	var w redactionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Redaction{}, fmt.Errorf("redaction: %w", err)
	}
	red := Redaction{Method: RedactionMethod(w.Method), Text: w.Text, CharsToIgnore: w.CharsToIgnore, Key: w.Key}
	red.MaskChar = '*'
	if w.MaskChar != "" {
		runes := []rune(w.MaskChar)
		red.MaskChar = runes[0]
	}
	red.RangeStart = w.Range[0]
	red.RangeEnd = w.Range[1]
	if w.Algorithm != "" {
		alg, ok := hashAlgorithmByName[w.Algorithm]
		if !ok {
			return red, fmt.Errorf("unknown hash algorithm %q", w.Algorithm)
		}
		red.Algorithm = alg
	}
	if red.Method == "" {
		red.Method = RedactDefault
	}
	return red, nil
}

type piiConfigWire struct {
	Rules        map[string]RuleSpec `json:"rules"`
	Vars         struct {
		HashKey *string `json:"hashKey"`
	} `json:"vars"`
	Applications map[string][]string `json:"applications"`
}

var piiKindByName = map[string]PiiKind{
	"freeform":  PiiFreeform,
	"ip":        PiiIp,
	"id":        PiiId,
	"username":  PiiUsername,
	"hostname":  PiiHostname,
	"sensitive": PiiSensitive,
	"name":      PiiName,
	"email":     PiiEmail,
	"location":  PiiLocation,
	"databag":   PiiDatabag,
}

// LoadPiiConfig parses a PII configuration document, per spec.md §6: object
// with "rules" (id -> rule spec), "vars" (recognizes "hashKey"), and
// "applications" (snake_case PII-kind name -> ordered rule-id list). This
// is a hard error per spec.md §7: syntax errors, unknown discriminants, and
// bad regexes abort the load.
func LoadPiiConfig(data []byte) (*PiiConfig, error) {
	var w piiConfigWire
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("pii config: %w", err)
	}
	cfg := &PiiConfig{
		Rules:        w.Rules,
		Vars:         Vars{HashKey: w.Vars.HashKey},
		Applications: map[PiiKind][]string{},
	}
	if cfg.Rules == nil {
		cfg.Rules = map[string]RuleSpec{}
	}
	for name, ids := range w.Applications {
		kind, ok := piiKindByName[name]
		if !ok {
			return nil, fmt.Errorf("pii config: unknown pii kind %q in applications", name)
		}
		cfg.Applications[kind] = ids
	}
	return cfg, nil
}

// PiiConfigFromJSON is an alias for LoadPiiConfig matching the
// `PiiConfig::from_json` name on the library surface (spec.md §6).
func PiiConfigFromJSON(data []byte) (*PiiConfig, error) { return LoadPiiConfig(data) }

// ToJSONPretty serializes the config with indentation.
func (cfg *PiiConfig) ToJSONPretty() ([]byte, error) { return cfg.ToJSON(true) }

// ToJSON serializes the config back to its wire form.
func (cfg *PiiConfig) ToJSON(pretty bool) ([]byte, error) {
	w := piiConfigWire{Rules: cfg.Rules, Applications: map[string][]string{}}
	w.Vars.HashKey = cfg.Vars.HashKey
	for kind, ids := range cfg.Applications {
		w.Applications[piiKindNames[kind]] = ids
	}
	if pretty {
		return json.MarshalIndent(w, "", "  ")
	}
	return json.Marshal(w)
}

// MarshalJSON renders a rule spec back to its wire form.
func (rs RuleSpec) MarshalJSON() ([]byte, error) {
	w := ruleSpecWire{Type: string(rs.Type.Kind)}
	switch rs.Type.Kind {
	case RuleTypePattern:
		w.Pattern = rs.Type.PatternSrc
		if rs.Type.ReplaceGroups != nil {
			for g := range rs.Type.ReplaceGroups {
				w.ReplaceGroups = append(w.ReplaceGroups, g)
			}
		}
	case RuleTypeMultiple:
		w.Rules = rs.Type.Rules
		w.HideRule = rs.Type.HideRule
	case RuleTypeAlias:
		w.Rule = rs.Type.Rule
		w.HideRule = rs.Type.HideRule
	case RuleTypeRedactPair:
		w.KeyPattern = rs.Type.KeyPatternSrc
	}
	if rs.Redaction.Method != RedactDefault || rs.Redaction != (Redaction{Method: RedactDefault}) {
		redData, err := encodeRedaction(rs.Redaction)
		if err != nil {
			return nil, err
		}
		w.Redaction = redData
	}
	return json.Marshal(w)
}

func encodeRedaction(r Redaction) ([]byte, error) {
	w := redactionWire{Method: string(r.Method), Text: r.Text, CharsToIgnore: r.CharsToIgnore, Key: r.Key}
	if r.MaskChar != 0 {
		w.MaskChar = string(r.MaskChar)
	}
	w.Range = [2]*int{r.RangeStart, r.RangeEnd}
	if r.Method == RedactHash {
		w.Algorithm = r.Algorithm.String()
	}
	return json.Marshal(w)
}

// --- rule resolution ---

// ruleRef is a resolved rule: its id plus the spec and config it came from,
// grounded on original_source/src/processor/rule.rs's `Rule<'a>`.
type ruleRef struct {
	id   string
	spec *RuleSpec
	cfg  *PiiConfig
}

func lookupRule(cfg *PiiConfig, id string) (*ruleRef, bool) {
	if spec, ok := cfg.Rules[id]; ok {
		return &ruleRef{id: id, spec: &spec, cfg: cfg}, true
	}
	if spec, ok := builtinRules[id]; ok {
		return &ruleRef{id: id, spec: spec, cfg: cfg}, true
	}
	return nil, false
}

// lookupReferencedRule resolves a Multiple/Alias member reference and
// computes the (report_rule, redaction_override) pair to pass down:
// composites report themselves instead of the inner rule when hideRule is
// set, and override the inner rule's redaction when their own is not
// Default. Unknown ids resolve to ok=false and are silently skipped by
// every caller (spec.md §9 open question resolution).
func lookupReferencedRule(self *ruleRef, refID string, hideRule bool) (target, reportRule *ruleRef, override *Redaction, ok bool) {
	target, ok = lookupRule(self.cfg, refID)
	if !ok {
		return nil, nil, nil, false
	}
	if hideRule {
		reportRule = self
	}
	if self.spec.Redaction.Method != RedactDefault {
		r := self.spec.Redaction
		override = &r
	}
	return target, reportRule, override, true
}

// processChunks applies self to chunks/meta, returning ok=false only when
// self is a value-level-only rule type (Remove, RedactPair) or an Alias
// whose target aborted, signaling the caller to fall back to value
// processing.
func processChunks(self *ruleRef, chunks []Chunk, meta Meta, reportRule *ruleRef, redactionOverride *Redaction) ([]Chunk, Meta, bool) {
	rr := reportRule
	if rr == nil {
		rr = self
	}
	red := redactionOverride
	if red == nil {
		red = &self.spec.Redaction
	}

	switch self.spec.Type.Kind {
	case RuleTypePattern:
		chunks, meta = applyRegexToChunks(red, chunks, meta, self.spec.Type.Pattern, self.spec.Type.ReplaceGroups, rr, self.cfg)
	case RuleTypeImei:
		chunks, meta = applyRegexToChunks(red, chunks, meta, imeiRegex, nil, rr, self.cfg)
	case RuleTypeMac:
		chunks, meta = applyRegexToChunks(red, chunks, meta, macRegex, nil, rr, self.cfg)
	case RuleTypeEmail:
		chunks, meta = applyRegexToChunks(red, chunks, meta, emailRegex, nil, rr, self.cfg)
	case RuleTypeIp:
		chunks, meta = applyRegexToChunks(red, chunks, meta, ipv4Regex, nil, rr, self.cfg)
		chunks, meta = applyRegexToChunks(red, chunks, meta, ipv6Regex, group1, rr, self.cfg)
	case RuleTypeCreditcard:
		chunks, meta = applyRegexToChunks(red, chunks, meta, creditcardRegex, nil, rr, self.cfg)
	case RuleTypeUserpath:
		chunks, meta = applyRegexToChunks(red, chunks, meta, pathRegex, group1, rr, self.cfg)
	case RuleTypeAlias:
		target, rr2, ov2, found := lookupReferencedRule(self, self.spec.Type.Rule, self.spec.Type.HideRule)
		if found {
			newChunks, newMeta, ok := processChunks(target, chunks, meta, rr2, ov2)
			if !ok {
				return newChunks, newMeta, false
			}
			chunks, meta = newChunks, newMeta
		}
	case RuleTypeMultiple:
		for _, refID := range self.spec.Type.Rules {
			target, rr2, ov2, found := lookupReferencedRule(self, refID, self.spec.Type.HideRule)
			if !found {
				continue
			}
			chunks, meta, _ = processChunks(target, chunks, meta, rr2, ov2)
		}
	case RuleTypeRemove, RuleTypeRedactPair:
		return chunks, meta, false
	}
	return chunks, meta, true
}

// processValue applies self to a single Annotated[Value], returning
// ok=false when self did not change anything (regex-family rules are
// no-ops at the value level; RedactPair whose key didn't match; an
// unresolved Alias/Multiple member).
func processValue(self *ruleRef, value Annotated[Value], kind PiiKind, reportRule *ruleRef, redactionOverride *Redaction) (Annotated[Value], bool) {
	rr := reportRule
	if rr == nil {
		rr = self
	}
	red := redactionOverride
	if red == nil {
		red = &self.spec.Redaction
	}

	switch self.spec.Type.Kind {
	case RuleTypePattern, RuleTypeImei, RuleTypeMac, RuleTypeEmail, RuleTypeIp, RuleTypeCreditcard, RuleTypeUserpath:
		return value, false
	case RuleTypeRemove:
		return red.replaceValue(rr, self.cfg, value), true
	case RuleTypeAlias:
		target, rr2, ov2, found := lookupReferencedRule(self, self.spec.Type.Rule, self.spec.Type.HideRule)
		if !found {
			return value, false
		}
		return processValue(target, value, kind, rr2, ov2)
	case RuleTypeMultiple:
		processed := false
		for _, refID := range self.spec.Type.Rules {
			target, rr2, ov2, found := lookupReferencedRule(self, refID, self.spec.Type.HideRule)
			if !found {
				continue
			}
			v2, ok := processValue(target, value, kind, rr2, ov2)
			value = v2
			if ok {
				processed = true
			}
		}
		return value, processed
	case RuleTypeRedactPair:
		shouldRedact := false
		if value.Meta.path != nil && self.spec.Type.KeyPattern.MatchString(value.Meta.path.LastSegment()) {
			shouldRedact = true
		}
		if shouldRedact {
			return red.replaceValue(rr, self.cfg, value), true
		}
		return value, false
	}
	return value, false
}

// --- redaction application ---

func inRange(start, end *int, pos, length int) bool {
	resolve := func(idx *int, def int) int {
		if idx == nil {
			return def
		}
		if *idx < 0 {
			n := length + *idx
			if n < 0 {
				return 0
			}
			return n
		}
		if *idx > length {
			return length
		}
		return *idx
	}
	s := resolve(start, 0)
	e := resolve(end, length)
	return pos >= s && pos < e
}

// insertReplacementChunks applies red to text (a single matched span) and
// appends the resulting Redaction chunk(s) to output, per
// Redaction::insert_replacement_chunks.
func (red *Redaction) insertReplacementChunks(rule *ruleRef, cfg *PiiConfig, text string, output *[]Chunk) {
	switch red.Method {
	case RedactMask:
		ignore := map[rune]bool{}
		for _, c := range red.CharsToIgnore {
			ignore[c] = true
		}
		runes := []rune(text)
		buf := make([]rune, len(runes))
		for idx, c := range runes {
			if inRange(red.RangeStart, red.RangeEnd, idx, len(runes)) && !ignore[c] {
				buf[idx] = red.MaskChar
			} else {
				buf[idx] = c
			}
		}
		*output = append(*output, redactionChunk(string(buf), rule.id, RemarkMasked))
	case RedactHash:
		*output = append(*output, redactionChunk(hashValue(red.Algorithm, text, red.Key, cfg), rule.id, RemarkPseudonymized))
	case RedactReplace:
		*output = append(*output, redactionChunk(red.Text, rule.id, RemarkSubstituted))
	default: // RedactDefault, RedactRemove
		*output = append(*output, redactionChunk("", rule.id, RemarkRemoved))
	}
}

// replaceValue applies red to a whole Annotated[Value] (the value-level
// path), per Redaction::replace_value.
func (red *Redaction) replaceValue(rule *ruleRef, cfg *PiiConfig, a Annotated[Value]) Annotated[Value] {
	switch red.Method {
	case RedactMask:
		if a.Value == nil {
			a.Meta.AddRemark(Remark{Type: RemarkMasked, RuleID: rule.id})
			return a
		}
		s := valueToString(*a.Value)
		origLen := utf8.RuneCountInString(s)
		var out []Chunk
		red.insertReplacementChunks(rule, cfg, s, &out)
		text := chunksText(out)
		if utf8.RuneCountInString(text) != origLen {
			a.Meta.SetOriginalLength(origLen)
		}
		a.Meta.AddRemark(Remark{Type: RemarkMasked, RuleID: rule.id})
		a.Set(StringValue(text))
		return a
	case RedactHash:
		if a.Value == nil {
			a.Meta.AddRemark(Remark{Type: RemarkPseudonymized, RuleID: rule.id})
			return a
		}
		s := valueToString(*a.Value)
		origLen := utf8.RuneCountInString(s)
		hashed := hashValue(red.Algorithm, s, red.Key, cfg)
		if utf8.RuneCountInString(hashed) != origLen {
			a.Meta.SetOriginalLength(origLen)
		}
		a.Meta.AddRemark(Remark{Type: RemarkPseudonymized, RuleID: rule.id})
		a.Set(StringValue(hashed))
		return a
	case RedactReplace:
		a.Set(StringValue(red.Text))
		a.Meta.AddRemark(Remark{Type: RemarkSubstituted, RuleID: rule.id})
		return a
	default: // RedactDefault, RedactRemove
		a.Clear()
		a.Meta.AddRemark(Remark{Type: RemarkRemoved, RuleID: rule.id})
		return a
	}
}

// valueToString renders a Value as the text a value-level Mask/Hash
// redaction operates on.
func valueToString(v Value) string {
	switch v.typ {
	case TypeNull:
		return ""
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeU64:
		return strconv.FormatUint(v.u, 10)
	case TypeI64:
		return strconv.FormatInt(v.i, 10)
	case TypeF64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeString:
		return v.s
	default:
		data, _ := json.Marshal(EncodeValue(Annotated[Value]{Value: &v}, "", NewSidecarBuilder()))
		return string(data)
	}
}

// processText splits text on the \x00 sentinel, replaying popped elements
// from replacementChunks (already reversed so the last element is the
// earliest original chunk) in between the surviving plain-text pieces.
func processText(text string, rv *[]Chunk, replacementChunks *[]Chunk) {
	if text == "" {
		return
	}
	pos := 0
	for i := 0; i < len(text); i++ {
		if text[i] != 0 {
			continue
		}
		*rv = append(*rv, textChunk(text[pos:i]))
		n := len(*replacementChunks)
		*rv = append(*rv, (*replacementChunks)[n-1])
		*replacementChunks = (*replacementChunks)[:n-1]
		pos = i + 1
	}
	*rv = append(*rv, textChunk(text[pos:]))
}

// applyRegexToChunks runs one regex-based rule over chunks: existing
// redactions are collapsed to a \x00 sentinel in a temporary search
// string so matches cannot cross them, matches are redacted via red, and
// the original redaction chunks are replayed back into position. Grounded
// on original_source/src/processor/rule.rs's apply_regex_to_chunks.
func applyRegexToChunks(red *Redaction, chunks []Chunk, meta Meta, re *regexp.Regexp, replaceGroups map[int]bool, rule *ruleRef, cfg *PiiConfig) ([]Chunk, Meta) {
	var sb strings.Builder
	var replacementChunks []Chunk
	for _, c := range chunks {
		if c.Kind == ChunkText {
			sb.WriteString(strings.ReplaceAll(c.Text, "\x00", ""))
		} else {
			replacementChunks = append(replacementChunks, c)
			sb.WriteByte(0)
		}
	}
	for i, j := 0, len(replacementChunks)-1; i < j; i, j = i+1, j-1 {
		replacementChunks[i], replacementChunks[j] = replacementChunks[j], replacementChunks[i]
	}
	searchString := sb.String()

	var rv []Chunk
	pos := 0
	for _, m := range re.FindAllStringSubmatchIndex(searchString, -1) {
		g0start, g0end := m[0], m[1]
		if replaceGroups != nil {
			for idx := 1; idx*2+1 < len(m); idx++ {
				gs, ge := m[idx*2], m[idx*2+1]
				if gs < 0 || !replaceGroups[idx] {
					continue
				}
				processText(searchString[pos:gs], &rv, &replacementChunks)
				red.insertReplacementChunks(rule, cfg, searchString[gs:ge], &rv)
				pos = ge
			}
		} else {
			processText(searchString[pos:g0start], &rv, &replacementChunks)
			red.insertReplacementChunks(rule, cfg, searchString[g0start:g0end], &rv)
			pos = g0end
		}
		processText(searchString[pos:g0end], &rv, &replacementChunks)
		pos = g0end
	}
	processText(searchString[pos:], &rv, &replacementChunks)

	return rv, meta
}

// --- top-level PiiProcessor backed by a PiiConfig ---

// RuleProcessor implements PiiProcessor by dispatching to the rules
// declared in a PiiConfig's applications table, grounded on
// original_source/src/processor/rule.rs's RuleBasedPiiProcessor.
type RuleProcessor struct {
	cfg          *PiiConfig
	applications map[PiiKind][]*ruleRef
}

// NewRuleProcessor resolves every configured application's rule-id list
// into concrete rule references once, logging (not failing) any unknown
// reference.
func NewRuleProcessor(cfg *PiiConfig, warn func(format string, args ...any)) *RuleProcessor {
	apps := make(map[PiiKind][]*ruleRef, len(cfg.Applications))
	for kind, ids := range cfg.Applications {
		var rules []*ruleRef
		for _, id := range ids {
			r, ok := lookupRule(cfg, id)
			if !ok {
				if warn != nil {
					warn("unknown rule id %q in applications[%s], skipping", id, kind)
				}
				continue
			}
			rules = append(rules, r)
		}
		apps[kind] = rules
	}
	return &RuleProcessor{cfg: cfg, applications: apps}
}

// Config returns the PiiConfig this processor was built from.
func (p *RuleProcessor) Config() *PiiConfig { return p.cfg }

// ProcessChunks applies every rule configured for kind, in order,
// returning ok=true if any rule other than a pure value-level type ran.
func (p *RuleProcessor) ProcessChunks(chunks []Chunk, meta Meta, kind *PiiKind) ([]Chunk, Meta, bool) {
	if kind == nil {
		return chunks, meta, false
	}
	rules := p.applications[*kind]
	replaced := false
	for _, r := range rules {
		newChunks, newMeta, ok := processChunks(r, chunks, meta, nil, nil)
		chunks, meta = newChunks, newMeta
		if ok {
			replaced = true
		}
	}
	return chunks, meta, replaced
}

// ProcessPIIValue applies rules configured for kind until the first one
// that reports success.
func (p *RuleProcessor) ProcessPIIValue(value Annotated[Value], kind *PiiKind) (Annotated[Value], bool) {
	if kind == nil {
		return value, false
	}
	for _, r := range p.applications[*kind] {
		v2, ok := processValue(r, value, *kind, nil, nil)
		if ok {
			return v2, true
		}
		value = v2
	}
	return value, false
}

// Processor returns a Processor-bound handle for the config, per spec.md
// §6's `PiiConfig::processor()`.
func (cfg *PiiConfig) Processor(warn func(format string, args ...any)) Processor {
	return PiiProcessorAdapter{Inner: NewRuleProcessor(cfg, warn)}
}
