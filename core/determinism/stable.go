// Package determinism provides primitives for deterministic ordering and
// content fingerprints of rating inputs.
package determinism

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"wc-rating/core/types"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// SortedKeys returns the keys of m in ascending order
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// HashInput fingerprints a rating input. Inputs that differ only in map
// order or in trailing decimal zeros ("1.0" vs "1.00") hash equally.
func HashInput(input types.RatingInput) ContentHash {
	var b strings.Builder
	field := func(k, v string) {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
		b.WriteByte(0)
	}

	field("class_code", strings.ToUpper(strings.TrimSpace(string(input.ClassCode))))
	field("payroll", canonical(input.Payroll))
	field("experience_mod", canonical(input.ExperienceMod))
	for _, k := range SortedKeys(input.Adjustments) {
		field("adjustment."+k, canonical(input.Adjustments[k]))
	}
	for _, k := range SortedKeys(input.Credits) {
		v := "false"
		if input.Credits[k] {
			v = "true"
		}
		field("credit."+k, v)
	}
	return ComputeHash([]byte(b.String()))
}

// canonical renders d without trailing fractional zeros
func canonical(d decimal.Decimal) string {
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
