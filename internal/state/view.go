package state

import (
	"path"
)

// ViewEntry is one listing row as the renderer sees it.
type ViewEntry struct {
	Name  string
	IsDir bool
	// QueuePosition is the 1-based position in the play queue, 0 if not queued.
	QueuePosition int
}

// ViewModel is the read-only snapshot handed to the renderer.
type ViewModel struct {
	Title        string
	Entries      []ViewEntry
	Selection    int
	FirstLine    int
	Running      bool
	RunningLabel string
	// Killable is set when the running program may be stopped from the UI.
	Killable bool
	Queued   int
	Error    string
}

// View builds the view model for the current state.
func (s *AppState) View() ViewModel {
	vm := ViewModel{
		Title:     s.Title(),
		Entries:   make([]ViewEntry, len(s.Entries)),
		Selection: s.SelectedIndex,
		FirstLine: s.ScrollOffset,
		Queued:    len(s.PlayQueue),
	}
	for i, e := range s.Entries {
		vm.Entries[i] = ViewEntry{Name: e.DisplayName, IsDir: e.IsDir}
	}
	for pos, idx := range s.PlayQueue {
		if idx >= 0 && idx < len(vm.Entries) {
			vm.Entries[idx].QueuePosition = pos + 1
		}
	}
	if s.IsRunning() {
		vm.Running = true
		vm.RunningLabel = s.Running.Label
		vm.Killable = s.Running.Killable
	}
	if s.LastError != nil {
		vm.Error = s.LastError.Error()
	}
	return vm
}

// Title names the current location: the favorite title and the path below
// its root, or the absolute directory for the default lister.
func (s *AppState) Title() string {
	if s.Lister == nil {
		return ""
	}
	title := s.Lister.Title()
	if title == "" {
		return path.Join("/", s.Lister.Root(), s.CurrentPath)
	}
	if s.CurrentPath == "" {
		return title
	}
	return title + ": " + s.CurrentPath
}
