// Package rowkey derives stable storage keys from a row's primary values.
package rowkey

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/refkit/tablesync/tableapi"
)

// Derive computes a stable key for the row identified by the given primary
// values. The key is order-independent: the same set of (attribute, value)
// pairs always derives the same key regardless of configuration order.
func Derive(primary []tableapi.PrimaryValue) string {
	h := sha256.Sum256([]byte(Canonical(primary)))
	return hex.EncodeToString(h[:16]) // 128-bit hash as hex
}

// Canonical returns the sorted, human-readable form of the identifying tuple,
// e.g. "region=ca|tier=gold". Used for key derivation and log output.
func Canonical(primary []tableapi.PrimaryValue) string {
	pairs := make([]string, 0, len(primary))
	for _, pv := range primary {
		pairs = append(pairs, pv.AttributeName+"="+pv.Value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "|")
}
