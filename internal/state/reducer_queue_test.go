package state

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kk-code-lab/rclaunch/internal/launch"
)

// ===== OPEN / PROCESS TESTS =====

func TestOpenLaunchesAssociation(t *testing.T) {
	f := newFixture(t)
	f.selectName(t, "2.mp3")

	f.reduce(t, EnterAction{})

	want := []string{"play", filepath.Join(f.music, "2.mp3")}
	if got := f.launcher.lastArgv(); !reflect.DeepEqual(got, want) {
		t.Fatalf("argv = %v, want %v", got, want)
	}
	if f.state.Running == nil || f.state.Running.Label != "2.mp3" || !f.state.Running.Killable {
		t.Fatalf("running = %+v", f.state.Running)
	}
	if f.launcher.started[0].Token != f.state.Running.Token {
		t.Errorf("token mismatch")
	}
}

func TestOpenAppendsTokenForDownloads(t *testing.T) {
	f := newFixture(t)
	f.reduce(t, SelectFavoriteAction{Number: 3})
	f.reduce(t, EnterAction{})

	want := []string{"watch", "--fs", filepath.Join(f.root, "dl", "001.part")}
	if got := f.launcher.lastArgv(); !reflect.DeepEqual(got, want) {
		t.Fatalf("argv = %v, want %v", got, want)
	}
}

func TestActionsRejectedWhileRunning(t *testing.T) {
	f := newFixture(t)
	f.selectName(t, "1.mp3")
	f.reduce(t, EnterAction{})
	selected := f.state.SelectedIndex

	for _, action := range []Action{
		NavigateDownAction{}, EnterAction{}, GoUpAction{}, SelectFavoriteAction{Number: 3},
		QueueAction{}, UnqueueAction{}, RefreshAction{}, ScrollPageDownAction{},
	} {
		if _, err := f.reducer.Reduce(f.state, action); !errors.Is(err, ErrBusy) {
			t.Errorf("%T: expected ErrBusy, got %v", action, err)
		}
	}
	if f.state.SelectedIndex != selected || len(f.launcher.started) != 1 {
		t.Errorf("state changed while running")
	}

	for _, action := range []Action{ResizeAction{Width: 80, Height: 30}, WatchRefreshAction{}, QuitAction{}} {
		if _, err := f.reducer.Reduce(f.state, action); err != nil {
			t.Errorf("%T: unexpected error %v", action, err)
		}
	}
}

func TestKillHonoursKillable(t *testing.T) {
	f := newFixture(t)
	f.selectName(t, "1.mp3")
	f.reduce(t, EnterAction{})

	f.reduce(t, KillAction{})
	if !reflect.DeepEqual(f.launcher.killed, []int{f.state.Running.Token}) {
		t.Fatalf("killed = %v", f.launcher.killed)
	}

	f.reduce(t, ProcessExitedAction{Token: f.state.Running.Token})
	f.reduce(t, SelectFavoriteAction{Number: 3})
	f.reduce(t, EnterAction{})
	if f.state.Running == nil || f.state.Running.Killable {
		t.Fatalf("expected non-killable program running, got %+v", f.state.Running)
	}
	f.reduce(t, KillAction{})
	if len(f.launcher.killed) != 1 {
		t.Errorf("non-killable program must not be signalled")
	}
}

func TestKillWithoutRunningProcessIsNoop(t *testing.T) {
	f := newFixture(t)
	f.reduce(t, KillAction{})
	if len(f.launcher.killed) != 0 {
		t.Errorf("nothing should be killed")
	}
}

func TestStaleProcessExitIgnored(t *testing.T) {
	f := newFixture(t)
	f.selectName(t, "1.mp3")
	f.reduce(t, EnterAction{})
	token := f.state.Running.Token

	f.reduce(t, ProcessExitedAction{Token: token + 100})
	if !f.state.IsRunning() {
		t.Fatalf("stale exit cleared the running program")
	}
	f.reduce(t, ProcessExitedAction{Token: token})
	if f.state.IsRunning() {
		t.Fatalf("exit did not clear running program")
	}
	f.reduce(t, ProcessExitedAction{Token: token})
}

// ===== QUEUE TESTS =====

func TestQueueAdvancesAfterFailedExit(t *testing.T) {
	f := newFixture(t)
	i := f.selectName(t, "1.mp3")
	f.reduce(t, QueueAction{})
	j := f.selectName(t, "3.mp3")
	f.reduce(t, QueueAction{})

	if !reflect.DeepEqual(f.state.PlayQueue, []int{i, j}) {
		t.Fatalf("queue = %v", f.state.PlayQueue)
	}

	f.reducer.AfterRun(f.state)
	if f.state.Running == nil || f.state.Running.Label != "1.mp3" {
		t.Fatalf("expected 1.mp3 running, got %+v", f.state.Running)
	}
	if !reflect.DeepEqual(f.state.PlayQueue, []int{j}) {
		t.Fatalf("queue = %v, want [%d]", f.state.PlayQueue, j)
	}

	f.reducer.OnProcessExited(f.state, f.state.Running.Token, errors.New("exit status 1"))

	if f.state.Running == nil || f.state.Running.Label != "3.mp3" {
		t.Fatalf("expected 3.mp3 running, got %+v", f.state.Running)
	}
	if len(f.state.PlayQueue) != 0 {
		t.Errorf("queue = %v, want empty", f.state.PlayQueue)
	}
	if f.state.SelectedIndex != j {
		t.Errorf("selection = %d, want %d", f.state.SelectedIndex, j)
	}
}

func TestSpawnFailureAdvancesQueue(t *testing.T) {
	f := newFixture(t)
	f.launcher.fail = func(req launch.Request) error {
		if filepath.Base(req.Argv[len(req.Argv)-1]) == "1.mp3" {
			return errSpawn
		}
		return nil
	}
	f.selectName(t, "1.mp3")
	f.reduce(t, QueueAction{})
	f.selectName(t, "2.mp3")
	f.reduce(t, QueueAction{})

	f.reducer.AfterRun(f.state)

	if len(f.launcher.started) != 2 {
		t.Fatalf("expected two launch attempts, got %d", len(f.launcher.started))
	}
	if f.state.Running == nil || f.state.Running.Label != "2.mp3" {
		t.Fatalf("expected 2.mp3 running, got %+v", f.state.Running)
	}
	if f.state.LastError != nil {
		t.Errorf("successful launch should clear the error, got %v", f.state.LastError)
	}
}

func TestSpawnFailureWithoutQueueLeavesIdle(t *testing.T) {
	f := newFixture(t)
	f.launcher.fail = func(launch.Request) error { return errSpawn }
	f.selectName(t, "1.mp3")
	f.reduce(t, EnterAction{})

	if f.state.Running != nil {
		t.Fatalf("failed launch must not leave a running program")
	}
	if !errors.Is(f.state.LastError, errSpawn) {
		t.Errorf("LastError = %v", f.state.LastError)
	}
}

func TestStaleQueueIndexIsDropped(t *testing.T) {
	f := newFixture(t)
	f.state.PlayQueue = []int{99}

	f.reducer.AfterRun(f.state)

	if len(f.launcher.started) != 0 || len(f.state.PlayQueue) != 0 {
		t.Errorf("stale index must be popped without launching")
	}
}

func TestOpenWithoutAssociationRunsQueue(t *testing.T) {
	f := newFixture(t)
	j := f.selectName(t, "2.mp3")
	f.reduce(t, QueueAction{})

	plain := f.state.Entries[j]
	plain.Association = nil
	f.reducer.Open(f.state, plain)

	if f.state.Running == nil || f.state.Running.Label != "2.mp3" {
		t.Fatalf("expected queued 2.mp3 to start, got %+v", f.state.Running)
	}
}

func TestEnqueueDequeue(t *testing.T) {
	f := newFixture(t)

	f.selectName(t, "b")
	f.reduce(t, QueueAction{})
	if len(f.state.PlayQueue) != 0 {
		t.Fatalf("directories must not be queued")
	}

	a := f.selectName(t, "1.mp3")
	f.reduce(t, QueueAction{})
	f.reduce(t, QueueAction{})
	b := f.selectName(t, "2.mp3")
	f.reduce(t, QueueAction{})
	c := f.selectName(t, "3.mp3")
	f.reduce(t, QueueAction{})
	if !reflect.DeepEqual(f.state.PlayQueue, []int{a, b, c}) {
		t.Fatalf("queue = %v", f.state.PlayQueue)
	}

	f.selectName(t, "2.mp3")
	f.reduce(t, UnqueueAction{})
	f.reduce(t, UnqueueAction{})
	if !reflect.DeepEqual(f.state.PlayQueue, []int{a, c}) {
		t.Fatalf("queue = %v", f.state.PlayQueue)
	}
	if f.state.QueuePosition(c) != 2 || f.state.QueuePosition(b) != 0 {
		t.Errorf("queue positions wrong")
	}
}

func TestNavigationClearsQueue(t *testing.T) {
	f := newFixture(t)
	f.selectName(t, "1.mp3")
	f.reduce(t, QueueAction{})

	f.selectName(t, "b")
	f.reduce(t, EnterAction{})
	if len(f.state.PlayQueue) != 0 {
		t.Fatalf("queue survived navigation: %v", f.state.PlayQueue)
	}

	f.selectName(t, "x.mp3")
	f.reduce(t, QueueAction{})
	f.reduce(t, RefreshAction{})
	if len(f.state.PlayQueue) != 0 || f.state.SelectedIndex != 0 {
		t.Fatalf("refresh must clear queue and reset selection")
	}
}

// ===== WATCH REFRESH TESTS =====

func TestWatchRefreshKeepsSelectionByName(t *testing.T) {
	f := newFixture(t)
	f.selectName(t, "2.mp3")

	if err := os.WriteFile(filepath.Join(f.music, "0.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	f.reduce(t, WatchRefreshAction{})

	if got := f.state.SelectedEntry().DisplayName; got != "2.mp3" {
		t.Errorf("selected %q, want 2.mp3", got)
	}
	if len(f.state.Entries) != 6 {
		t.Errorf("entries = %v", entryNames(f.state.Entries))
	}
}

func TestWatchRefreshSkippedWhileQueued(t *testing.T) {
	f := newFixture(t)
	f.selectName(t, "3.mp3")
	f.reduce(t, QueueAction{})

	if err := os.Remove(filepath.Join(f.music, "1.mp3")); err != nil {
		t.Fatal(err)
	}
	f.reduce(t, WatchRefreshAction{})

	if len(f.state.PlayQueue) != 1 || len(f.state.Entries) != 5 {
		t.Errorf("listing replaced while queue was non-empty")
	}
}

func TestWatchRefreshUnchangedListingKeepsState(t *testing.T) {
	f := newFixture(t)
	f.selectName(t, "3.mp3")
	f.state.ScrollOffset = 1

	f.reduce(t, WatchRefreshAction{})

	if f.state.SelectedEntry().DisplayName != "3.mp3" || f.state.ScrollOffset != 1 {
		t.Errorf("unchanged refresh moved the view")
	}
}

func TestWatchRefreshSelectionFallsBack(t *testing.T) {
	f := newFixture(t)
	last := f.selectName(t, "3.mp3")

	if err := os.Remove(filepath.Join(f.music, "3.mp3")); err != nil {
		t.Fatal(err)
	}
	f.reduce(t, WatchRefreshAction{})

	if f.state.SelectedIndex != last-1 {
		t.Errorf("selection = %d, want clamped %d", f.state.SelectedIndex, last-1)
	}
}

// ===== DISPATCH =====

func TestProcessExitIsDispatched(t *testing.T) {
	f := newFixture(t)
	var posted []Action
	f.state.SetDispatch(func(a Action) { posted = append(posted, a) })

	f.selectName(t, "1.mp3")
	f.reduce(t, EnterAction{})

	req := f.launcher.started[0]
	if req.Done == nil {
		t.Fatal("request without Done callback")
	}
	req.Done(launch.Result{Token: req.Token})

	if len(posted) != 1 {
		t.Fatalf("posted = %v", posted)
	}
	exit, ok := posted[0].(ProcessExitedAction)
	if !ok || exit.Token != req.Token {
		t.Fatalf("unexpected action %#v", posted[0])
	}
}
