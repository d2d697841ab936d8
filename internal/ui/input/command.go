package input

import (
	"strconv"
	"strings"

	statepkg "github.com/kk-code-lab/rclaunch/internal/state"
)

// ParseCommand maps a remote command token to its action. Tokens are
// case-insensitive and surrounding whitespace is ignored; "favorite N" and
// "fav N" take a number from 0 to 10.
func ParseCommand(token string) (statepkg.Action, bool) {
	fields := strings.Fields(strings.ToLower(token))
	if len(fields) == 0 {
		return nil, false
	}

	if fields[0] == "favorite" || fields[0] == "fav" {
		if len(fields) != 2 {
			return nil, false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 || n > 10 {
			return nil, false
		}
		return statepkg.SelectFavoriteAction{Number: n}, true
	}
	if len(fields) != 1 {
		return nil, false
	}

	switch fields[0] {
	case "up":
		return statepkg.NavigateUpAction{}, true
	case "down":
		return statepkg.NavigateDownAction{}, true
	case "page-up", "pageup":
		return statepkg.ScrollPageUpAction{}, true
	case "page-down", "pagedown":
		return statepkg.ScrollPageDownAction{}, true
	case "left":
		return statepkg.GoUpAction{}, true
	case "right":
		return statepkg.RightArrowAction{}, true
	case "ok":
		return statepkg.EnterAction{}, true
	case "refresh":
		return statepkg.RefreshAction{}, true
	case "queue":
		return statepkg.QueueAction{}, true
	case "unqueue":
		return statepkg.UnqueueAction{}, true
	case "kill":
		return statepkg.KillAction{}, true
	case "quit":
		return statepkg.QuitAction{}, true
	}
	return nil, false
}
