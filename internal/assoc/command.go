package assoc

import (
	"errors"
	"fmt"
	"strings"

	fsutil "github.com/kk-code-lab/rclaunch/internal/fs"
	"github.com/mattn/go-shellwords"
)

// SplitCommand splits an association command into argv words with shell
// quoting rules: quotes group words, backslashes escape, and $VAR expands from
// the environment. A leading ~ in the first word expands to $HOME. Pipes,
// lists and redirections are rejected; wrap them in sh -c.
func SplitCommand(cmd string) ([]string, error) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil, nil
	}

	p := shellwords.NewParser()
	p.ParseEnv = true
	args, err := p.Parse(cmd)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", cmd, err)
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("command %q: shell operators are not supported", cmd)
	}
	if len(args) == 0 {
		return nil, errors.New("command expands to nothing")
	}

	args[0] = fsutil.ExpandHome(args[0])
	return args, nil
}
