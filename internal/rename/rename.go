// Package rename turns raw entry names into display names by applying an
// ordered list of regex substitution rules.
package rename

import (
	"strings"

	"github.com/kk-code-lab/rclaunch/internal/pattern"
)

// Rule replaces matches of Pattern with Template. Template understands \0-\9
// (capture groups) and \\ (a literal backslash).
type Rule struct {
	Pattern  *pattern.Pattern
	Template string
	Global   bool
}

// Set pairs a lister's own rules with the global ones. A non-empty Local list
// replaces Global entirely; the two are never mixed.
type Set struct {
	Local  []Rule
	Global []Rule
}

// Active returns the rule list Transform applies.
func (s Set) Active() []Rule {
	if len(s.Local) > 0 {
		return s.Local
	}
	return s.Global
}

// Transform applies the active rules in order, each to the previous output.
func Transform(set Set, name string) string {
	for _, rule := range set.Active() {
		name = rule.Apply(name)
	}
	return name
}

// Apply runs one rule over s.
//
// Matches are searched over the whole input, so ^ anchors only at the start
// of s. An empty match directly after a previous match is skipped and the
// scan advances by one character, which also guarantees termination for
// patterns that match the empty string.
func (r Rule) Apply(s string) string {
	re := r.Pattern.Regexp()
	if re == nil {
		return s
	}

	limit := -1
	if !r.Global {
		limit = 1
	}
	matches := re.FindAllStringSubmatchIndex(s, limit)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(r.Template))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		expandTemplate(&b, r.Template, s, m)
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func expandTemplate(b *strings.Builder, tmpl, src string, match []int) {
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 == len(tmpl) {
			b.WriteByte('\\')
			return
		}
		i++
		next := tmpl[i]
		switch {
		case next >= '0' && next <= '9':
			g := int(next - '0')
			if 2*g+1 < len(match) && match[2*g] >= 0 {
				b.WriteString(src[match[2*g]:match[2*g+1]])
			}
		case next == '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(next)
		}
	}
}
