package pii

// builtinRules is the catalogue of rule ids that resolve even when absent
// from a PiiConfig's own Rules map, grounded on
// original_source/src/processor/builtinrules.rs. Unqualified aliases
// (e.g. "@ip") resolve to a specific qualified variant; PiiConfig.Rules
// always takes precedence over this table (see lookupRule).
var builtinRules = map[string]*RuleSpec{
	"@ip:replace": {
		Type:      RuleType{Kind: RuleTypeIp},
		Redaction: Redaction{Method: RedactReplace, Text: "[ip]"},
	},
	"@ip:hash": {
		Type:      RuleType{Kind: RuleTypeIp},
		Redaction: Redaction{Method: RedactHash},
	},
	"@ip": {
		Type:      RuleType{Kind: RuleTypeAlias, Rule: "@ip:replace"},
		Redaction: Redaction{Method: RedactDefault},
	},

	"@imei:replace": {
		Type:      RuleType{Kind: RuleTypeImei},
		Redaction: Redaction{Method: RedactReplace, Text: "[imei]"},
	},
	"@imei:hash": {
		Type:      RuleType{Kind: RuleTypeImei},
		Redaction: Redaction{Method: RedactHash},
	},
	"@imei": {
		Type:      RuleType{Kind: RuleTypeAlias, Rule: "@imei:replace"},
		Redaction: Redaction{Method: RedactDefault},
	},

	"@mac:mask": {
		Type:      RuleType{Kind: RuleTypeMac},
		Redaction: Redaction{Method: RedactMask, MaskChar: '*', CharsToIgnore: "-:", RangeStart: Ptr(9)},
	},
	"@mac:replace": {
		Type:      RuleType{Kind: RuleTypeMac},
		Redaction: Redaction{Method: RedactReplace, Text: "[mac]"},
	},
	"@mac:hash": {
		Type:      RuleType{Kind: RuleTypeMac},
		Redaction: Redaction{Method: RedactHash},
	},
	"@mac": {
		Type:      RuleType{Kind: RuleTypeAlias, Rule: "@mac:mask"},
		Redaction: Redaction{Method: RedactDefault},
	},

	"@email:mask": {
		Type:      RuleType{Kind: RuleTypeEmail},
		Redaction: Redaction{Method: RedactMask, MaskChar: '*', CharsToIgnore: ".@"},
	},
	"@email:replace": {
		Type:      RuleType{Kind: RuleTypeEmail},
		Redaction: Redaction{Method: RedactReplace, Text: "[email]"},
	},
	"@email:hash": {
		Type:      RuleType{Kind: RuleTypeEmail},
		Redaction: Redaction{Method: RedactHash},
	},
	"@email": {
		Type:      RuleType{Kind: RuleTypeAlias, Rule: "@email:replace"},
		Redaction: Redaction{Method: RedactDefault},
	},

	"@creditcard:mask": {
		Type:      RuleType{Kind: RuleTypeCreditcard},
		Redaction: Redaction{Method: RedactMask, MaskChar: '*', CharsToIgnore: "- ", RangeEnd: Ptr(-4)},
	},
	"@creditcard:replace": {
		Type:      RuleType{Kind: RuleTypeCreditcard},
		Redaction: Redaction{Method: RedactReplace, Text: "[creditcard]"},
	},
	"@creditcard:hash": {
		Type:      RuleType{Kind: RuleTypeCreditcard},
		Redaction: Redaction{Method: RedactHash},
	},
	"@creditcard": {
		Type:      RuleType{Kind: RuleTypeAlias, Rule: "@creditcard:mask"},
		Redaction: Redaction{Method: RedactDefault},
	},

	"@userpath:replace": {
		Type:      RuleType{Kind: RuleTypeUserpath},
		Redaction: Redaction{Method: RedactReplace, Text: "[user]"},
	},
	"@userpath:hash": {
		Type:      RuleType{Kind: RuleTypeUserpath},
		Redaction: Redaction{Method: RedactHash},
	},
	"@userpath": {
		Type:      RuleType{Kind: RuleTypeAlias, Rule: "@userpath:replace"},
		Redaction: Redaction{Method: RedactDefault},
	},

	"@password:remove": {
		Type:      RuleType{Kind: RuleTypeRedactPair, KeyPattern: passwordKeyPattern, KeyPatternSrc: passwordKeyPattern.String()},
		Redaction: Redaction{Method: RedactRemove},
	},
	"@password": {
		Type:      RuleType{Kind: RuleTypeAlias, Rule: "@password:remove"},
		Redaction: Redaction{Method: RedactDefault},
	},
}
