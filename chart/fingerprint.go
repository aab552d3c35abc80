package chart

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/superKazi/awal-lazard/types"
)

// Fingerprint returns a 64-bit hash of the JSON encoding of spec.
//
// Equal descriptions always have equal fingerprints. A nil spec hashes to 0.
//
// Parameters:
//   - spec: Chart description
//
// Returns:
//   - uint64: xxh3 hash of the encoded description
//   - error: Encoding error
func Fingerprint(spec *types.ChartSpec) (uint64, error) {
	if spec == nil {
		return 0, nil
	}

	data, err := json.Marshal(spec)
	if err != nil {
		return 0, fmt.Errorf("failed to encode chart: %w", err)
	}

	return xxh3.Hash(data), nil
}

// ETag formats a fingerprint as a strong HTTP entity tag.
func ETag(fingerprint uint64) string {
	return strconv.Quote(fmt.Sprintf("%016x", fingerprint))
}
