package state

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/rclaunch/internal/lister"
)

// rebuild replaces the listing wholesale. The queue refers to the old
// snapshot and is cleared.
func (r *StateReducer) rebuild(state *AppState) {
	state.Entries = state.Lister.ListDir(state.CurrentPath)
	state.fingerprint = lister.Fingerprint(state.Entries)
	state.PlayQueue = nil
	state.resetViewport()
}

// switchToDefault activates the default filesystem lister, rooted at "/",
// showing dir.
func (r *StateReducer) switchToDefault(state *AppState, dir string) {
	state.Lister = lister.NewDefault("/", r.settings.Global)
	state.CurrentPath = lister.CleanPath(filepath.ToSlash(dir))
	r.rebuild(state)
}

func (s *AppState) resetViewport() {
	s.SelectedIndex = 0
	s.ScrollOffset = 0
}

// selectDirectory selects the directory entry with the given source name and
// centers it. Without a match the selection stays at the top.
func (s *AppState) selectDirectory(name string) {
	if name == "" {
		return
	}
	for idx, e := range s.Entries {
		if e.IsDir && !e.IsParent() && e.SourceToken == name {
			s.SelectedIndex = idx
			s.centerScrollOnSelection()
			return
		}
	}
}

func findEntryIndex(entries []lister.DirEntry, token string) int {
	if token == "" {
		return -1
	}
	for idx, e := range entries {
		if e.SourceToken == token {
			return idx
		}
	}
	return -1
}

func lastSegment(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

func parentDir(dir string) string {
	return filepath.Dir(filepath.Clean(dir))
}

func baseName(dir string) string {
	return filepath.Base(filepath.Clean(dir))
}
