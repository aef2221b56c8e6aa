package pii

import "regexp"

// Compiled pattern library for the built-in rule types, grounded on
// original_source/src/processor/rule.rs's lazy_static regex block. RE2 (Go's
// regexp) has no backtracking blowup. These built-in patterns are not
// checked against the 262144-byte maxPatternSize guard in rule.go, which
// applies to user-supplied patterns; each is far below that size.
var (
	imeiRegex       = regexp.MustCompile(`\b(?:\d{2}-?\d{6}-?\d{6}-?\d{1,2})\b`)
	macRegex        = regexp.MustCompile(`\b(?:[[:xdigit:]]{2}[:-]){5}[[:xdigit:]]{2}\b`)
	emailRegex      = regexp.MustCompile("\\b[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9-]+(?:\\.[a-zA-Z0-9-]+)*\\b")
	ipv4Regex       = regexp.MustCompile(`\b` + v4addr + `\b`)
	ipv6Regex       = regexp.MustCompile(ipv6Pattern)
	creditcardRegex = regexp.MustCompile(`\d{4}[- ]?\d{4,6}[- ]?\d{4,5}(?:[- ]?\d{4})`)
	pathRegex       = regexp.MustCompile(`(?i)(?:(?:\b(?:[a-zA-Z]:[\\/])?(?:users|home|documents and settings|[^/\\]+[/\\]profiles)[\\/])|(?:/(?:home|users)/))([^/\\]+)`)

	passwordKeyPattern = regexp.MustCompile(`(?i)\b(?:password|passwd|mysql_pwd|auth|credentials|secret)\b`)
)

const (
	v4seg  = `(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)`
	v4addr = v4seg + `\.` + v4seg + `\.` + v4seg + `\.` + v4seg
	v6seg  = `[0-9a-fA-F]{1,4}`
)

// ipv6Pattern is the alternation of every IPv6 textual form, bracketed by a
// leading/trailing boundary character consumed into the match (so group 1
// is exactly the address, excluding the boundary). The fe80 link-local
// alternative is directly followed by the v4-mapped alternative with no
// separating "|" between them, reproducing the concatenation exactly as
// built in the grounding source.
const ipv6Pattern = `(?i)(?:[\s]|[[:punct:]]|^)(` +
	`(?:` + v6seg + `:){7}` + v6seg + `|` +
	`(?:` + v6seg + `:){1,7}:|` +
	`(?:` + v6seg + `:){1,6}::` + v6seg + `|` +
	`(?:` + v6seg + `:){1,5}:(?::` + v6seg + `){1,2}|` +
	`(?:` + v6seg + `:){1,4}:(?::` + v6seg + `){1,3}|` +
	`(?:` + v6seg + `:){1,3}:(?::` + v6seg + `){1,4}|` +
	`(?:` + v6seg + `:){1,2}:(?::` + v6seg + `){1,5}|` +
	v6seg + `:(?:(?::` + v6seg + `){1,6})|` +
	`:(?:(?::` + v6seg + `){1,7}|:)|` +
	`fe80:(?::` + v6seg + `){0,4}%[0-9a-zA-Z]{1,}::(?:ffff(?::0{1,4})?:)?` + v4addr + `|` +
	`(?:` + v6seg + `:){1,4}:` + v4addr +
	`)(?:[\s]|[[:punct:]]|$)`

// group1 selects numbered group 1 for rule types that redact a capture
// group rather than the whole match (Ip's IPv6 pass, Userpath).
var group1 = map[int]bool{1: true}
