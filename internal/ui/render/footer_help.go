package render

import (
	"fmt"
	"strings"

	statepkg "github.com/kk-code-lab/rclaunch/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(vm statepkg.ViewModel) string {
	parts := buildFooterHelpSegments(vm)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

func buildFooterHelpSegments(vm statepkg.ViewModel) []string {
	if vm.Running {
		if vm.Killable {
			return []string{"k: stop"}
		}
		return []string{"waiting for program to exit"}
	}

	segments := []string{
		"↑/↓/PgUp/PgDn: move",
		"↵/→: open",
		"←: back",
		"0-9: favorite",
		"space/-: queue",
		"r: refresh",
		"q: quit",
	}
	if vm.Queued > 0 {
		segments = append([]string{fmt.Sprintf("%d queued", vm.Queued)}, segments...)
	}
	return segments
}
