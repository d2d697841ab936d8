package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rclaunch/internal/state"
)

func processKey(t *testing.T, ev *tcell.EventKey) (statepkg.Action, bool) {
	t.Helper()
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)

	cont := handler.ProcessEvent(ev)

	select {
	case action := <-actionChan:
		return action, cont
	default:
		return nil, cont
	}
}

func TestKeyBindings(t *testing.T) {
	tests := []struct {
		name   string
		event  *tcell.EventKey
		expect statepkg.Action
	}{
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, 0), statepkg.NavigateUpAction{}},
		{"down", tcell.NewEventKey(tcell.KeyDown, 0, 0), statepkg.NavigateDownAction{}},
		{"page up", tcell.NewEventKey(tcell.KeyPgUp, 0, 0), statepkg.ScrollPageUpAction{}},
		{"page down", tcell.NewEventKey(tcell.KeyPgDn, 0, 0), statepkg.ScrollPageDownAction{}},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, 0), statepkg.GoUpAction{}},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, 0), statepkg.GoUpAction{}},
		{"right", tcell.NewEventKey(tcell.KeyRight, 0, 0), statepkg.RightArrowAction{}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, 0), statepkg.EnterAction{}},
		{"insert queues", tcell.NewEventKey(tcell.KeyInsert, 0, 0), statepkg.QueueAction{}},
		{"space queues", tcell.NewEventKey(tcell.KeyRune, ' ', 0), statepkg.QueueAction{}},
		{"delete unqueues", tcell.NewEventKey(tcell.KeyDelete, 0, 0), statepkg.UnqueueAction{}},
		{"kill", tcell.NewEventKey(tcell.KeyRune, 'k', 0), statepkg.KillAction{}},
		{"refresh", tcell.NewEventKey(tcell.KeyRune, 'r', 0), statepkg.RefreshAction{}},
		{"favorite 3", tcell.NewEventKey(tcell.KeyRune, '3', 0), statepkg.SelectFavoriteAction{Number: 3}},
		{"favorite 0", tcell.NewEventKey(tcell.KeyRune, '0', 0), statepkg.SelectFavoriteAction{Number: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, cont := processKey(t, tt.event)
			if !cont {
				t.Fatalf("unexpected quit")
			}
			if action != tt.expect {
				t.Fatalf("expected %#v, got %#v", tt.expect, action)
			}
		})
	}
}

func TestQuitKeysStopLoop(t *testing.T) {
	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'q', 0),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, 0),
	} {
		action, cont := processKey(t, ev)
		if cont {
			t.Errorf("%v: expected handler to stop", ev.Name())
		}
		if _, ok := action.(statepkg.QuitAction); !ok {
			t.Errorf("%v: expected QuitAction, got %T", ev.Name(), action)
		}
	}
}

func TestUnboundRuneEmitsNothing(t *testing.T) {
	action, cont := processKey(t, tcell.NewEventKey(tcell.KeyRune, 'z', 0))
	if !cont || action != nil {
		t.Fatalf("expected no action, got %#v", action)
	}
}

func TestResizeEmitsDimensions(t *testing.T) {
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)

	handler.ProcessEvent(tcell.NewEventResize(120, 40))

	action := <-actionChan
	resize, ok := action.(statepkg.ResizeAction)
	if !ok || resize.Width != 120 || resize.Height != 40 {
		t.Fatalf("unexpected action %#v", action)
	}
}
