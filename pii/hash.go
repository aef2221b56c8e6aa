package pii

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// HashAlgorithm selects the HMAC variant for a Hash redaction. The zero
// value is HmacSha1, matching the grounding source's default.
type HashAlgorithm int

const (
	HmacSha1 HashAlgorithm = iota
	HmacSha256
	HmacSha512
)

var hashAlgorithmNames = map[HashAlgorithm]string{
	HmacSha1:   "HMAC-SHA1",
	HmacSha256: "HMAC-SHA256",
	HmacSha512: "HMAC-SHA512",
}

var hashAlgorithmByName = map[string]HashAlgorithm{
	"HMAC-SHA1":   HmacSha1,
	"HMAC-SHA256": HmacSha256,
	"HMAC-SHA512": HmacSha512,
}

func (h HashAlgorithm) String() string { return hashAlgorithmNames[h] }

func (h HashAlgorithm) newHash() func() hash.Hash {
	switch h {
	case HmacSha256:
		return sha256.New
	case HmacSha512:
		return sha512.New
	default:
		return sha1.New
	}
}

// hashValue computes HMAC-<algorithm>(key ?? config.vars.hash_key ?? "") of
// text and renders the digest as uppercase hex.
func hashValue(alg HashAlgorithm, text string, key *string, cfg *PiiConfig) string {
	k := ""
	switch {
	case key != nil:
		k = *key
	case cfg != nil && cfg.Vars.HashKey != nil:
		k = *cfg.Vars.HashKey
	}
	mac := hmac.New(alg.newHash(), []byte(k))
	mac.Write([]byte(text))
	return fmt.Sprintf("%X", mac.Sum(nil))
}
