package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rclaunch/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the user asked to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		ih.actionChan <- statepkg.QuitAction{}
		return false

	case tcell.KeyUp:
		ih.actionChan <- statepkg.NavigateUpAction{}
	case tcell.KeyDown:
		ih.actionChan <- statepkg.NavigateDownAction{}
	case tcell.KeyPgUp:
		ih.actionChan <- statepkg.ScrollPageUpAction{}
	case tcell.KeyPgDn:
		ih.actionChan <- statepkg.ScrollPageDownAction{}
	case tcell.KeyLeft, tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.GoUpAction{}
	case tcell.KeyRight:
		ih.actionChan <- statepkg.RightArrowAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.EnterAction{}
	case tcell.KeyInsert:
		ih.actionChan <- statepkg.QueueAction{}
	case tcell.KeyDelete:
		ih.actionChan <- statepkg.UnqueueAction{}

	case tcell.KeyRune:
		r := ev.Rune()
		if r >= '0' && r <= '9' {
			ih.actionChan <- statepkg.SelectFavoriteAction{Number: int(r - '0')}
			return true
		}
		switch r {
		case 'q', 'Q':
			ih.actionChan <- statepkg.QuitAction{}
			return false
		case 'k', 'K':
			ih.actionChan <- statepkg.KillAction{}
		case 'r', 'R':
			ih.actionChan <- statepkg.RefreshAction{}
		case ' ', '+':
			ih.actionChan <- statepkg.QueueAction{}
		case '-':
			ih.actionChan <- statepkg.UnqueueAction{}
		}
	}
	return true
}
