package lister

import (
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collation orders display names. The zero value compares bytes, like
// strcoll in the C locale.
type Collation struct {
	tag       language.Tag
	byteOrder bool
	mu        sync.Mutex
	collator  *collate.Collator
}

// ByteOrder returns a collation that compares raw bytes.
func ByteOrder() *Collation {
	return &Collation{byteOrder: true}
}

// NewCollation returns a locale-aware collation for tag.
func NewCollation(tag language.Tag) *Collation {
	return &Collation{tag: tag, collator: collate.New(tag)}
}

var envCollation = sync.OnceValue(func() *Collation {
	return CollationFromEnv(os.Getenv)
})

// EnvCollation is the collation of the process locale, computed once.
func EnvCollation() *Collation {
	return envCollation()
}

// CollationFromEnv picks the locale from LC_ALL, LC_COLLATE and LANG, first
// non-empty wins. C, POSIX and unparsable values fall back to byte order.
func CollationFromEnv(getenv func(string) string) *Collation {
	var value string
	for _, key := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			value = v
			break
		}
	}

	tag, ok := parseLocale(value)
	if !ok {
		return ByteOrder()
	}
	return NewCollation(tag)
}

// parseLocale turns "pl_PL.UTF-8@euro" into a BCP 47 tag.
func parseLocale(value string) (language.Tag, bool) {
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	switch value {
	case "", "C", "POSIX":
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// Compare orders two names.
func (c *Collation) Compare(a, b string) int {
	if c == nil || c.byteOrder || c.collator == nil {
		return strings.Compare(a, b)
	}
	// Collators keep scratch buffers and are not safe for concurrent use.
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collator.CompareString(a, b)
}

// Sort orders a listing: directories before files, ".." first among
// directories, then by display name.
func (c *Collation) Sort(entries []DirEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		if a.IsParent() != b.IsParent() {
			return a.IsParent()
		}
		return c.Compare(a.DisplayName, b.DisplayName) < 0
	})
}
