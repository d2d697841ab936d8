package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rclaunch/internal/remote"
	statepkg "github.com/kk-code-lab/rclaunch/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTree creates root/{a/, b/, b/inner/}.
func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"a", "b/inner"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
	return root
}

func shortSocket(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "rcl")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func runAsync(app *Application, ctx context.Context) chan error {
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	return done
}

func waitRun(t *testing.T, done chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not stop")
	}
}

func TestHeadlessRemoteCommands(t *testing.T) {
	root := newTree(t)
	socket := shortSocket(t)

	app, err := NewApplication(Options{StartDir: root, Headless: true, Socket: socket})
	require.NoError(t, err)
	defer app.Close()

	done := runAsync(app, context.Background())
	require.NoError(t, remote.Send(socket, []string{"down", "jump", "DOWN", "ok", "quit"}))
	waitRun(t, done)

	assert.Equal(t, filepath.Join(root, "b"), app.State().Title())
	assert.Nil(t, app.State().LastError)
}

func TestTerminalKeys(t *testing.T) {
	root := newTree(t)
	screen := tcell.NewSimulationScreen("UTF-8")

	app, err := NewApplication(Options{StartDir: root, Screen: screen})
	require.NoError(t, err)
	defer app.Close()

	screen.SetSize(40, 10)
	done := runAsync(app, context.Background())
	screen.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	waitRun(t, done)

	state := app.State()
	assert.Equal(t, filepath.Join(root, "b"), state.Title())
	require.Len(t, state.Entries, 2)
	assert.Equal(t, "inner", state.Entries[1].DisplayName)
}

func TestMissingFavoriteShowsError(t *testing.T) {
	app, err := NewApplication(Options{StartDir: newTree(t), Headless: true})
	require.NoError(t, err)
	defer app.Close()

	app.handleAction(statepkg.SelectFavoriteAction{Number: 5})
	assert.ErrorIs(t, app.State().LastError, statepkg.ErrNoFavorite)

	app.handleAction(statepkg.NavigateDownAction{})
	assert.Nil(t, app.State().LastError)
}

func TestCancelStopsHeadlessLoop(t *testing.T) {
	app, err := NewApplication(Options{StartDir: newTree(t), Headless: true})
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(app, ctx)
	cancel()
	waitRun(t, done)
}

func TestUnknownRemoteCommandIgnored(t *testing.T) {
	app, err := NewApplication(Options{StartDir: newTree(t), Headless: true})
	require.NoError(t, err)
	defer app.Close()

	app.handleRemoteLine("launch-missiles")
	select {
	case action := <-app.actionCh:
		t.Fatalf("unexpected action %#v", action)
	default:
	}

	app.handleRemoteLine("fav 3")
	assert.Equal(t, statepkg.SelectFavoriteAction{Number: 3}, <-app.actionCh)
}

func TestRemoteBurstKeepsArrivalOrder(t *testing.T) {
	app, err := NewApplication(Options{StartDir: newTree(t), Headless: true})
	require.NoError(t, err)
	defer app.Close()

	const lines = 60
	go func() {
		for i := 0; i < lines; i++ {
			app.handleRemoteLine(fmt.Sprintf("fav %d", i%11))
		}
	}()

	for i := 0; i < lines; i++ {
		select {
		case action := <-app.actionCh:
			require.Equal(t, statepkg.SelectFavoriteAction{Number: i % 11}, action, "command %d", i)
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d of %d commands delivered", i, lines)
		}
	}
}

func TestCloseReleasesBlockedRemoteReader(t *testing.T) {
	app, err := NewApplication(Options{StartDir: newTree(t), Headless: true})
	require.NoError(t, err)

	for i := 0; i < cap(app.actionCh); i++ {
		app.handleRemoteLine("down")
	}
	returned := make(chan struct{})
	go func() {
		app.handleRemoteLine("up")
		close(returned)
	}()

	select {
	case <-returned:
		t.Fatal("remote command accepted while the channel was full")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, app.Close())
	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("remote reader still blocked after Close")
	}
}

func TestWatcherFollowsListing(t *testing.T) {
	root := newTree(t)
	app, err := NewApplication(Options{StartDir: root, Headless: true, Watch: true})
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.watcher)
	assert.Equal(t, root, app.watcher.Dir())

	app.handleAction(statepkg.NavigateDownAction{})
	app.handleAction(statepkg.EnterAction{})
	assert.Equal(t, filepath.Join(root, "a"), app.watcher.Dir())
}
