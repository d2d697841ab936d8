package cli

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/rclaunch/internal/remote"
	inputui "github.com/kk-code-lab/rclaunch/internal/ui/input"
	"github.com/spf13/cobra"
)

func newSendCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "send TOKEN...",
		Short: "Send commands to a running instance",
		Long: `Send command tokens to a running rclaunch. Each argument is one token:
  up, down, page-up, page-down, left, right, ok, refresh,
  queue, unqueue, "fav N" (0-10), kill, quit

Example: rclaunch send down down ok`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := normalizeTokens(args)
			if err != nil {
				return err
			}

			socket := global.socket
			if socket == "" {
				settings, _, err := global.load()
				if err != nil {
					return err
				}
				socket = global.socketPath(settings)
			}
			return remote.Send(socket, tokens)
		},
	}
}

// normalizeTokens validates every token and joins "fav" with a following
// number, so "fav 3" works quoted or as two arguments.
func normalizeTokens(args []string) ([]string, error) {
	var tokens []string
	for i := 0; i < len(args); i++ {
		token := strings.TrimSpace(args[i])
		lower := strings.ToLower(token)
		if (lower == "fav" || lower == "favorite") && i+1 < len(args) {
			token = token + " " + strings.TrimSpace(args[i+1])
			i++
		}
		if _, ok := inputui.ParseCommand(token); !ok {
			return nil, fmt.Errorf("unknown command %q", token)
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}
