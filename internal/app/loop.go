package app

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rclaunch/internal/state"
	"github.com/sirupsen/logrus"
)

// Run processes input until quit or ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	refreshCh := notifyOn(refreshSignals())
	defer stopNotify(refreshCh)

	if app.screen == nil {
		app.runHeadless(ctx, refreshCh)
		return nil
	}

	app.renderer.Render(app.state.View())
	renderPending := false

	done := make(chan struct{})
	defer close(done)
	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	sigContCh := notifyOn(resumeSignals())
	defer stopNotify(sigContCh)

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state.View())
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		case <-refreshCh:
			if app.handleAction(statepkg.RefreshAction{}) {
				renderPending = true
			}
		case <-ctx.Done():
			app.shouldQuit = true
		}

		if app.processActions() {
			renderPending = true
		}
	}
	return nil
}

func (app *Application) runHeadless(ctx context.Context, refreshCh <-chan os.Signal) {
	for !app.shouldQuit {
		select {
		case action := <-app.actionCh:
			app.handleAction(action)
		case <-refreshCh:
			app.handleAction(statepkg.RefreshAction{})
		case <-ctx.Done():
			app.shouldQuit = true
		}
	}
}

// notifyOn returns nil when sigs is empty; receiving from it then blocks
// forever, which keeps the select cases simple.
func notifyOn(sigs []os.Signal) chan os.Signal {
	if len(sigs) == 0 {
		return nil
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	return ch
}

func stopNotify(ch chan os.Signal) {
	if ch != nil {
		signal.Stop(ch)
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
		select {
		case action := <-app.keyCh:
			app.handleAction(action)
		default:
		}
		return true
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.ProcessExitedAction, statepkg.WatchRefreshAction, statepkg.ResizeAction:
	default:
		app.state.LastError = nil
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		if errors.Is(err, statepkg.ErrBusy) {
			logrus.WithField("action", action).Debug("ignored while a program runs")
		} else {
			app.state.LastError = err
			logrus.WithError(err).Info("action failed")
		}
	}
	app.syncWatch()
	return true
}

func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		return false
	}
	app.screen.Sync()
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.handleAction(statepkg.ResizeAction{Width: w, Height: h})
	}
	return true
}
