package state

// Action is the base interface for all state mutations
type Action interface{}

// ===== NAVIGATION ACTIONS =====

type NavigateUpAction struct{}
type NavigateDownAction struct{}
type ScrollPageUpAction struct{}
type ScrollPageDownAction struct{}

// MoveAction moves the selection by Delta rows, clamped to the listing.
type MoveAction struct {
	Delta int
}

// EnterAction enters the selected directory or opens the selected file.
type EnterAction struct{}

// RightArrowAction enters the selected entry only if it is a directory.
type RightArrowAction struct{}
type GoUpAction struct{}

// SelectFavoriteAction switches to favorite Number (0 means 10).
type SelectFavoriteAction struct {
	Number int
}

type RefreshAction struct{}

// WatchRefreshAction is posted when the current directory changed on disk.
type WatchRefreshAction struct{}

// ===== QUEUE ACTIONS =====

type QueueAction struct{}
type UnqueueAction struct{}

// ===== PROCESS ACTIONS =====

type KillAction struct{}

// ProcessExitedAction reports the end of the program launched under Token.
type ProcessExitedAction struct {
	Token int
	Err   error
}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
