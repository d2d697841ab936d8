// Package assoc binds filename patterns to the commands that open them.
package assoc

import (
	"errors"
	"strconv"
	"strings"

	"github.com/kk-code-lab/rclaunch/internal/pattern"
)

// FileToken is the argv placeholder replaced by the path being opened. Only a
// word that is exactly {} is a placeholder; {} inside a longer word is literal.
const FileToken = "{}"

// Rule is one association. A sentinel rule carries no pattern or command and
// only appears in per-lister lists, where it means "consult the global list
// here".
type Rule struct {
	Pattern      *pattern.Pattern
	Command      []string
	HasFileToken bool
	Killable     bool

	sentinel bool
}

// NewRule builds an association. When no argv word is {} the placeholder is
// appended, so every rule has a substitution point.
func NewRule(p *pattern.Pattern, argv []string, killable bool) (*Rule, error) {
	if p == nil {
		return nil, errors.New("association without pattern")
	}
	if len(argv) == 0 {
		return nil, errors.New("association without command")
	}

	command := make([]string, len(argv), len(argv)+1)
	copy(command, argv)

	hasToken := false
	for _, arg := range command {
		if arg == FileToken {
			hasToken = true
			break
		}
	}
	if !hasToken {
		command = append(command, FileToken)
	}

	return &Rule{
		Pattern:      p,
		Command:      command,
		HasFileToken: hasToken,
		Killable:     killable,
	}, nil
}

// Sentinel returns the "defer to global" marker.
func Sentinel() *Rule {
	return &Rule{sentinel: true}
}

func (r *Rule) IsSentinel() bool {
	return r != nil && r.sentinel
}

// Matches reports whether name is handled by this rule. Sentinels never match.
func (r *Rule) Matches(name string) bool {
	if r == nil || r.sentinel {
		return false
	}
	return r.Pattern.Matches(name)
}

// Argv returns the command line that opens path.
func (r *Rule) Argv(path string) []string {
	if r == nil || r.sentinel {
		return nil
	}
	argv := make([]string, len(r.Command))
	for i, arg := range r.Command {
		if arg == FileToken {
			arg = path
		}
		argv[i] = arg
	}
	return argv
}

// Set holds a lister's own associations together with the global table.
type Set struct {
	Local  []*Rule
	Global []*Rule
}

// Match resolves name against the set.
func (s Set) Match(name string) *Rule {
	return Match(s.Local, s.Global, name)
}

// Match scans local in order. An empty local list delegates to global. A
// sentinel triggers a global lookup at its position; a non-empty local list
// without a sentinel never falls back to global. nil means no association.
func Match(local, global []*Rule, name string) *Rule {
	if len(local) == 0 {
		return MatchGlobal(global, name)
	}
	for _, rule := range local {
		if rule.IsSentinel() {
			if found := MatchGlobal(global, name); found != nil {
				return found
			}
			continue
		}
		if rule.Matches(name) {
			return rule
		}
	}
	return nil
}

// MatchGlobal returns the first global rule matching name.
func MatchGlobal(global []*Rule, name string) *Rule {
	for _, rule := range global {
		// Sentinels are rejected when the global table is built.
		if rule.Matches(name) {
			return rule
		}
	}
	return nil
}

// ParseKillable interprets the killable attribute: a non-zero leading number
// ("1", "2s"), "true", or anything starting with y/Y.
func ParseKillable(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if leadingInt(value) != 0 {
		return true
	}
	if value[0] == 'y' || value[0] == 'Y' {
		return true
	}
	return strings.EqualFold(value, "true")
}

// leadingInt reads an optional sign and the digits that follow it, ignoring
// the rest of s. It returns 0 when s does not start with a number.
func leadingInt(s string) int {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Out of range; only the sign of a huge number matters here.
		return 1
	}
	return n
}
