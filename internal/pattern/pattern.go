// Package pattern compiles the filename patterns used by association and
// name-transform rules.
package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// Kind identifies the syntax a Pattern was compiled from.
type Kind int

const (
	KindRegex Kind = iota
	KindGlob
)

// Pattern is an immutable, case-insensitive filename matcher.
type Pattern struct {
	source string
	kind   Kind
	re     *regexp.Regexp
	glob   glob.Glob
}

// Compile builds a regex pattern. Matching is case-insensitive and, like
// POSIX regexec, prefers the leftmost-longest match.
func Compile(expr string) (*Pattern, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	re.Longest()
	return &Pattern{source: expr, kind: KindRegex, re: re}, nil
}

// CompileExtension builds the regex used by extension shorthand rules
// (`ext: avi` matches names ending in ".avi").
func CompileExtension(ext string) (*Pattern, error) {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		return nil, fmt.Errorf("empty extension")
	}
	return Compile(`\.` + regexp.QuoteMeta(ext) + `$`)
}

// CompileGlob builds a shell-glob pattern matched against the whole name.
func CompileGlob(expr string) (*Pattern, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty glob")
	}
	g, err := glob.Compile(strings.ToLower(expr))
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", expr, err)
	}
	return &Pattern{source: expr, kind: KindGlob, glob: g}, nil
}

// MustCompile is Compile for patterns known to be valid.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Matches reports whether text contains a match (regex) or equals the glob.
func (p *Pattern) Matches(text string) bool {
	if p == nil {
		return false
	}
	if p.kind == KindGlob {
		return p.glob.Match(strings.ToLower(text))
	}
	return p.re.MatchString(text)
}

// Regexp exposes the compiled expression; nil for glob patterns.
func (p *Pattern) Regexp() *regexp.Regexp {
	if p == nil {
		return nil
	}
	return p.re
}

func (p *Pattern) Kind() Kind {
	return p.kind
}

func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.source
}
