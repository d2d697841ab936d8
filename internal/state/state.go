package state

import (
	"path"

	"github.com/kk-code-lab/rclaunch/internal/lister"
)

// ListChromeLines is the number of screen rows not used by the listing
// (title and status line).
const ListChromeLines = 2

// RunningProcess is the program currently opened from the listing.
type RunningProcess struct {
	Token    int
	Label    string
	Killable bool
}

// AppState is the single source of truth
type AppState struct {
	// Navigation
	Lister      lister.Lister
	CurrentPath string // relative to the lister root, "" at the root
	Entries     []lister.DirEntry

	// Selection & viewport
	SelectedIndex int
	ScrollOffset  int

	// Playback
	PlayQueue []int // indices into Entries, files only, distinct
	Running   *RunningProcess

	// Dimensions
	ScreenWidth  int
	ScreenHeight int
	// PageSize overrides the number of visible list rows when positive.
	PageSize int

	// Error state
	LastError error

	fingerprint    uint64
	dispatchAction func(Action)
}

func (s *AppState) setDispatch(fn func(Action)) {
	s.dispatchAction = fn
}

func (s *AppState) getDispatch() func(Action) {
	return s.dispatchAction
}

// SetDispatch installs the hook used to post process exits back to the loop.
func (s *AppState) SetDispatch(fn func(Action)) {
	s.setDispatch(fn)
}

// SelectedEntry returns the selected entry, or nil for an empty listing.
func (s *AppState) SelectedEntry() *lister.DirEntry {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Entries) {
		return nil
	}
	return &s.Entries[s.SelectedIndex]
}

// QueuePosition returns the 1-based position of entry idx in the play queue,
// or 0 when it is not queued.
func (s *AppState) QueuePosition(idx int) int {
	for pos, queued := range s.PlayQueue {
		if queued == idx {
			return pos + 1
		}
	}
	return 0
}

// IsRunning reports whether a launched program has not exited yet.
func (s *AppState) IsRunning() bool {
	return s.Running != nil
}

// WatchDir returns the on-disk directory whose changes affect the listing,
// or "" when the listing does not come from one directory.
func (s *AppState) WatchDir() string {
	if s.Lister == nil {
		return ""
	}
	switch s.Lister.Kind() {
	case lister.KindFilesystem:
		return path.Join(s.Lister.Root(), s.CurrentPath)
	case lister.KindDownloadMetadata:
		return s.Lister.Root()
	default:
		return ""
	}
}
