package state

import (
	"errors"
	"fmt"

	"github.com/kk-code-lab/rclaunch/internal/config"
	"github.com/kk-code-lab/rclaunch/internal/launch"
	"github.com/kk-code-lab/rclaunch/internal/lister"
	"github.com/sirupsen/logrus"
)

// ErrBusy is returned for actions rejected while a launched program runs.
var ErrBusy = errors.New("a program is running")

// ErrNoFavorite is returned when a favorite number is not configured.
var ErrNoFavorite = errors.New("favorite not configured")

// Launcher starts programs for the reducer. Start returning an error means
// the program never ran and Done will not be called.
type Launcher interface {
	Start(req launch.Request) error
	Kill(token int) error
}

// Options configures a StateReducer.
type Options struct {
	Settings *config.Settings
	Launcher Launcher
	// StartDir is where the default lister opens when no favorite 1 exists.
	StartDir string
}

// ===== REDUCER =====

// StateReducer applies actions to state
type StateReducer struct {
	settings  *config.Settings
	launcher  Launcher
	startDir  string
	lastToken int
}

// NewStateReducer creates a new reducer
func NewStateReducer(opts Options) *StateReducer {
	settings := opts.Settings
	if settings == nil {
		settings = &config.Settings{}
	}
	startDir := opts.StartDir
	if startDir == "" {
		startDir = "/"
	}
	return &StateReducer{
		settings: settings,
		launcher: opts.Launcher,
		startDir: startDir,
	}
}

// Init opens favorite 1, or the start directory when it is not configured.
func (r *StateReducer) Init(state *AppState) {
	if r.SelectFavorite(state, 1) {
		return
	}
	r.switchToDefault(state, r.startDir)
}

// Reduce applies one action. While a program runs only KillAction,
// ResizeAction, ProcessExitedAction, WatchRefreshAction and QuitAction are
// accepted; anything else returns ErrBusy.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	if state.IsRunning() && !allowedWhileRunning(action) {
		return state, ErrBusy
	}

	switch a := action.(type) {

	// ===== NAVIGATION =====

	case NavigateUpAction:
		r.Move(state, -1)
	case NavigateDownAction:
		r.Move(state, 1)
	case ScrollPageUpAction:
		r.Move(state, -state.VisibleLines())
	case ScrollPageDownAction:
		r.Move(state, state.VisibleLines())
	case MoveAction:
		r.Move(state, a.Delta)

	case EnterAction:
		if entry := state.SelectedEntry(); entry != nil {
			r.Enter(state, *entry)
		}

	case RightArrowAction:
		if entry := state.SelectedEntry(); entry != nil && entry.IsDir {
			r.Enter(state, *entry)
		}

	case GoUpAction:
		r.Back(state)

	case SelectFavoriteAction:
		n := a.Number
		if n == 0 {
			n = config.MaxFavorites
		}
		if !r.SelectFavorite(state, n) {
			return state, fmt.Errorf("favorite %d: %w", n, ErrNoFavorite)
		}

	case RefreshAction:
		r.Refresh(state)

	case WatchRefreshAction:
		r.WatchRefresh(state)

	// ===== QUEUE =====

	case QueueAction:
		r.Enqueue(state)
	case UnqueueAction:
		r.Dequeue(state)

	// ===== PROCESS =====

	case KillAction:
		return state, r.Kill(state)

	case ProcessExitedAction:
		r.OnProcessExited(state, a.Token, a.Err)

	// ===== VIEW =====

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		state.updateScrollVisibility()

	case QuitAction:
		// Handled by the event loop.
	}

	return state, nil
}

func allowedWhileRunning(action Action) bool {
	switch action.(type) {
	case KillAction, ResizeAction, ProcessExitedAction, WatchRefreshAction, QuitAction:
		return true
	default:
		return false
	}
}

// ===== OPERATIONS =====

// Move shifts the selection by delta rows, clamped to the listing.
func (r *StateReducer) Move(state *AppState, delta int) {
	if len(state.Entries) == 0 {
		return
	}
	state.SelectedIndex += delta
	state.clampSelection()
	state.updateScrollVisibility()
}

// Enter descends into a directory entry, goes back for "..", and opens files.
func (r *StateReducer) Enter(state *AppState, entry lister.DirEntry) {
	if state.IsRunning() {
		return
	}
	if !entry.IsDir {
		r.Open(state, entry)
		return
	}
	if entry.IsParent() {
		r.Back(state)
		return
	}

	next, ok := state.Lister.Descend(state.CurrentPath, entry.SourceToken)
	if !ok {
		return
	}
	state.CurrentPath = next
	r.rebuild(state)
}

// Back moves one level up. At a lister's own root it switches to the default
// filesystem lister at the directory containing that root.
func (r *StateReducer) Back(state *AppState) {
	if state.IsRunning() || state.Lister == nil {
		return
	}

	if parent, ok := state.Lister.Back(state.CurrentPath); ok {
		left := lastSegment(state.CurrentPath)
		state.CurrentPath = parent
		r.rebuild(state)
		state.selectDirectory(left)
		return
	}

	root := state.Lister.Root()
	if root == "" {
		// Flat listers have no location on disk.
		r.switchToDefault(state, r.startDir)
		return
	}
	above := parentDir(root)
	if above == root {
		return
	}
	r.switchToDefault(state, above)
	state.selectDirectory(baseName(root))
}

// SelectFavorite activates favorite n at its root. It reports false when no
// such favorite exists.
func (r *StateReducer) SelectFavorite(state *AppState, n int) bool {
	if state.IsRunning() {
		return false
	}
	fav := r.settings.Favorite(n)
	if fav == nil {
		return false
	}
	state.Lister = fav
	state.CurrentPath = ""
	r.rebuild(state)
	return true
}

// Open launches the association of entry. Entries without one count as
// already finished so a queued sequence keeps going.
func (r *StateReducer) Open(state *AppState, entry lister.DirEntry) {
	if state.IsRunning() {
		return
	}
	if entry.Association == nil {
		r.AfterRun(state)
		return
	}

	path := state.Lister.ActualFile(state.CurrentPath, entry)
	r.lastToken++
	token := r.lastToken

	req := launch.Request{
		Token:    token,
		Argv:     entry.Association.Argv(path),
		Killable: entry.Association.Killable,
		Label:    entry.DisplayName,
	}
	if dispatch := state.getDispatch(); dispatch != nil {
		req.Done = func(res launch.Result) {
			dispatch(ProcessExitedAction{Token: res.Token, Err: res.Err})
		}
	}

	log := logrus.WithFields(logrus.Fields{"token": token, "file": path})
	if r.launcher == nil {
		state.LastError = errors.New("no launcher configured")
		log.Warn("cannot open entry without a launcher")
		r.AfterRun(state)
		return
	}
	if err := r.launcher.Start(req); err != nil {
		state.LastError = err
		log.WithError(err).Warn("launch failed")
		r.AfterRun(state)
		return
	}

	state.LastError = nil
	state.Running = &RunningProcess{
		Token:    token,
		Label:    entry.DisplayName,
		Killable: entry.Association.Killable,
	}
}

// OnProcessExited clears the running program and advances the queue. Exits
// for any other token are stale and ignored.
func (r *StateReducer) OnProcessExited(state *AppState, token int, err error) {
	if !state.IsRunning() || state.Running.Token != token {
		logrus.WithField("token", token).Debug("ignoring stale process exit")
		return
	}
	if err != nil {
		logrus.WithField("token", token).WithError(err).Info("program ended with error")
	}
	state.Running = nil
	r.AfterRun(state)
}

// AfterRun pops the head of the play queue and opens it.
func (r *StateReducer) AfterRun(state *AppState) {
	if state.IsRunning() || len(state.PlayQueue) == 0 {
		return
	}
	idx := state.PlayQueue[0]
	state.PlayQueue = state.PlayQueue[1:]
	if len(state.PlayQueue) == 0 {
		state.PlayQueue = nil
	}

	if idx < 0 || idx >= len(state.Entries) || state.Entries[idx].IsDir {
		logrus.WithField("index", idx).Debug("dropping stale queue entry")
		return
	}

	state.SelectedIndex = idx
	state.updateScrollVisibility()
	r.Open(state, state.Entries[idx])
}

// Enqueue appends the selected file to the play queue.
func (r *StateReducer) Enqueue(state *AppState) {
	entry := state.SelectedEntry()
	if state.IsRunning() || entry == nil || entry.IsDir {
		return
	}
	if state.QueuePosition(state.SelectedIndex) != 0 {
		return
	}
	state.PlayQueue = append(state.PlayQueue, state.SelectedIndex)
}

// Dequeue removes the selected file from the play queue.
func (r *StateReducer) Dequeue(state *AppState) {
	entry := state.SelectedEntry()
	if state.IsRunning() || entry == nil || entry.IsDir {
		return
	}
	pos := state.QueuePosition(state.SelectedIndex)
	if pos == 0 {
		return
	}
	state.PlayQueue = append(state.PlayQueue[:pos-1], state.PlayQueue[pos:]...)
	if len(state.PlayQueue) == 0 {
		state.PlayQueue = nil
	}
}

// Refresh rebuilds the listing in place.
func (r *StateReducer) Refresh(state *AppState) {
	if state.IsRunning() || state.Lister == nil {
		return
	}
	r.rebuild(state)
}

// WatchRefresh re-lists after an on-disk change. Nothing happens while a
// program runs, while the queue holds entries, or when the listing is
// unchanged; otherwise the selection follows the selected name.
func (r *StateReducer) WatchRefresh(state *AppState) {
	if state.IsRunning() || len(state.PlayQueue) > 0 || state.Lister == nil {
		return
	}

	entries := state.Lister.ListDir(state.CurrentPath)
	fp := lister.Fingerprint(entries)
	if fp == state.fingerprint {
		return
	}

	var selected string
	if entry := state.SelectedEntry(); entry != nil {
		selected = entry.SourceToken
	}

	state.Entries = entries
	state.fingerprint = fp
	if idx := findEntryIndex(entries, selected); idx >= 0 {
		state.SelectedIndex = idx
	}
	state.clampSelection()
	state.updateScrollVisibility()
}

// Kill terminates the running program if its association allows it.
func (r *StateReducer) Kill(state *AppState) error {
	if !state.IsRunning() || !state.Running.Killable || r.launcher == nil {
		return nil
	}
	if err := r.launcher.Kill(state.Running.Token); err != nil {
		if errors.Is(err, launch.ErrNotRunning) {
			return nil
		}
		return fmt.Errorf("kill %s: %w", state.Running.Label, err)
	}
	return nil
}
