package app

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rclaunch/internal/config"
	"github.com/kk-code-lab/rclaunch/internal/launch"
	"github.com/kk-code-lab/rclaunch/internal/remote"
	statepkg "github.com/kk-code-lab/rclaunch/internal/state"
	inputui "github.com/kk-code-lab/rclaunch/internal/ui/input"
	renderui "github.com/kk-code-lab/rclaunch/internal/ui/render"
	"github.com/kk-code-lab/rclaunch/internal/watch"
	"github.com/sirupsen/logrus"
)

// headlessHeight sizes pages when no screen is attached.
const headlessHeight = 24

// Options configures an Application.
type Options struct {
	Settings *config.Settings
	StartDir string
	// Headless runs without a terminal screen; commands arrive only through
	// the remote socket.
	Headless bool
	// Screen overrides the terminal screen, mainly for tests.
	Screen tcell.Screen
	// Socket is the remote control socket; empty disables it.
	Socket string
	Watch  bool
	// PageSize overrides the page length used by page-up/page-down.
	PageSize int
}

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	state    *statepkg.AppState
	reducer  *statepkg.StateReducer
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	launcher *launch.Launcher
	remote   *remote.Server
	watcher  *watch.Watcher
	actionCh chan statepkg.Action
	// keyCh receives the action of one key event at a time; the loop drains it
	// right after the event, so it never competes with remote senders.
	keyCh chan statepkg.Action
	// closed releases remote readers blocked on a full action channel.
	closed chan struct{}

	shouldQuit bool
	closeOnce  sync.Once
}

// NewApplication sets up the screen, opens the first listing and starts the
// remote socket and directory watcher.
func NewApplication(opts Options) (*Application, error) {
	app := &Application{
		actionCh: make(chan statepkg.Action, 16),
		keyCh:    make(chan statepkg.Action, 1),
		closed:   make(chan struct{}),
		launcher: launch.New(),
	}

	state := &statepkg.AppState{PageSize: opts.PageSize}
	if opts.Headless {
		state.ScreenHeight = headlessHeight
	} else {
		screen := opts.Screen
		if screen == nil {
			var err error
			if screen, err = tcell.NewScreen(); err != nil {
				return nil, fmt.Errorf("create screen: %w", err)
			}
		}
		if err := screen.Init(); err != nil {
			return nil, fmt.Errorf("init screen: %w", err)
		}
		app.screen = screen
		app.renderer = renderui.NewRenderer(screen)
		app.input = inputui.NewInputHandler(app.keyCh)
		state.ScreenWidth, state.ScreenHeight = screen.Size()
	}
	state.SetDispatch(app.dispatch)
	app.state = state

	app.reducer = statepkg.NewStateReducer(statepkg.Options{
		Settings: opts.Settings,
		Launcher: app.launcher,
		StartDir: opts.StartDir,
	})
	app.reducer.Init(state)

	if opts.Socket != "" {
		srv, err := remote.Listen(opts.Socket)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.remote = srv
		go func() {
			if err := srv.Serve(app.handleRemoteLine); err != nil {
				logrus.WithError(err).Error("remote server stopped")
			}
		}()
		logrus.WithField("socket", opts.Socket).Info("listening for remote commands")
	}

	if opts.Watch {
		w, err := watch.New(func() { app.dispatch(statepkg.WatchRefreshAction{}) }, watch.DefaultDelay)
		if err != nil {
			logrus.WithError(err).Warn("directory watching disabled")
		} else {
			app.watcher = w
			app.syncWatch()
		}
	}

	return app, nil
}

// dispatch posts an action to the loop without blocking the caller. Used by
// the launcher and the watcher, whose events carry no ordering between them.
func (app *Application) dispatch(action statepkg.Action) {
	select {
	case app.actionCh <- action:
	default:
		go func() { app.actionCh <- action }()
	}
}

func (app *Application) handleRemoteLine(line string) {
	action, ok := inputui.ParseCommand(line)
	if !ok {
		logrus.WithField("command", line).Warn("ignoring unknown remote command")
		return
	}
	app.post(action)
}

// post hands an action to the loop in arrival order, blocking while the
// channel is full. Each remote connection is read on its own goroutine, so
// waiting here only holds back that connection.
func (app *Application) post(action statepkg.Action) bool {
	select {
	case app.actionCh <- action:
		return true
	case <-app.closed:
		return false
	}
}

// syncWatch points the watcher at the directory currently listed.
func (app *Application) syncWatch() {
	if app.watcher == nil {
		return
	}
	if err := app.watcher.Watch(app.state.WatchDir()); err != nil {
		logrus.WithError(err).Debug("cannot watch directory")
	}
}

// State returns the application state. Only safe once Run has returned.
func (app *Application) State() *statepkg.AppState {
	return app.state
}

// Close stops the remote socket and watcher, stops a killable running
// program and restores the terminal.
func (app *Application) Close() error {
	app.closeOnce.Do(func() {
		close(app.closed)
		if app.remote != nil {
			_ = app.remote.Close()
		}
		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		if running := app.state; running != nil && running.Running != nil {
			if running.Running.Killable {
				_ = app.launcher.Kill(running.Running.Token)
			} else {
				logrus.WithField("program", running.Running.Label).Info("leaving program running on exit")
			}
		}
		if app.screen != nil {
			app.screen.Fini()
		}
	})
	return nil
}
