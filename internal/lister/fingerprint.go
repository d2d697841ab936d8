package lister

import (
	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes a listing so refreshes can tell whether anything changed.
func Fingerprint(entries []DirEntry) uint64 {
	h := xxhash.New()
	for _, e := range entries {
		_, _ = h.WriteString(e.DisplayName)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(e.SourceToken)
		if e.IsDir {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{2})
		}
	}
	return h.Sum64()
}
