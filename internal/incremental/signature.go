package incremental

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Signature hashes a whole docset: the configuration snapshot plus the
// fingerprint of every file. Two builds with equal signatures read
// identical inputs.
func Signature(configSnapshot string, fingerprints map[string]string) string {
	paths := make([]string, 0, len(fingerprints))
	for p := range fingerprints {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := sha256.New()
	h.Write([]byte(configSnapshot))
	h.Write([]byte{0})
	for _, p := range paths {
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write([]byte(fingerprints[p]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
