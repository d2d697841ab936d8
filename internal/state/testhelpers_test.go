package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kk-code-lab/rclaunch/internal/assoc"
	"github.com/kk-code-lab/rclaunch/internal/config"
	"github.com/kk-code-lab/rclaunch/internal/launch"
	"github.com/kk-code-lab/rclaunch/internal/lister"
	"github.com/kk-code-lab/rclaunch/internal/pattern"
	"github.com/kk-code-lab/rclaunch/internal/rename"
)

type fakeLauncher struct {
	started []launch.Request
	killed  []int
	fail    func(req launch.Request) error
}

func (f *fakeLauncher) Start(req launch.Request) error {
	f.started = append(f.started, req)
	if f.fail != nil {
		return f.fail(req)
	}
	return nil
}

func (f *fakeLauncher) Kill(token int) error {
	f.killed = append(f.killed, token)
	return nil
}

func (f *fakeLauncher) lastArgv() []string {
	if len(f.started) == 0 {
		return nil
	}
	return f.started[len(f.started)-1].Argv
}

var errSpawn = errors.New("spawn failed")

func mustRule(t *testing.T, expr string, killable bool, argv ...string) *assoc.Rule {
	t.Helper()
	r, err := assoc.NewRule(pattern.MustCompile(expr), argv, killable)
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	return r
}

func makeTree(t *testing.T, root string, dirs []string, files []string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
}

func metRecord(fileName string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0xE0)
	buf.Write(make([]byte, 4+16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(1))
	buf.WriteByte(0x02)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	buf.WriteByte(0x01)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(fileName)))
	buf.WriteString(fileName)
	return buf.Bytes()
}

type fixture struct {
	root     string
	music    string
	settings *config.Settings
	launcher *fakeLauncher
	reducer  *StateReducer
	state    *AppState
}

// newFixture builds:
//
//	root/music/{b/x.mp3, c/, 1.mp3, 2.mp3, 3.mp3, notes.txt}
//	root/dl/001.part.met -> "movie.avi"
//
// favorite 1 is root/music, favorite 3 the download directory.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	makeTree(t, root,
		[]string{"music/b", "music/c", "dl"},
		[]string{"music/b/x.mp3", "music/1.mp3", "music/2.mp3", "music/3.mp3", "music/notes.txt"})
	if err := os.WriteFile(filepath.Join(root, "dl", "001.part.met"), metRecord("movie.avi"), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}

	global := lister.Rules{
		Associations: assoc.Set{Global: []*assoc.Rule{
			mustRule(t, `\.mp3$`, true, "play", assoc.FileToken),
			mustRule(t, `\.avi$`, false, "watch", "--fs"),
		}},
		Transforms: rename.Set{},
	}
	byteOrder := lister.ByteOrder()
	settings := &config.Settings{
		Global: global,
		Favorites: []lister.Lister{
			lister.NewFilesystem(lister.Config{Title: "Music", Favorite: 1, Root: filepath.Join(root, "music"), Rules: global, Collation: byteOrder}),
			lister.NewDownloadMetadata(lister.Config{Title: "Downloads", Favorite: 3, Root: filepath.Join(root, "dl"), Rules: global, Collation: byteOrder}),
		},
	}

	launcher := &fakeLauncher{}
	reducer := NewStateReducer(Options{Settings: settings, Launcher: launcher, StartDir: root})
	state := &AppState{ScreenWidth: 80, ScreenHeight: 24}
	reducer.Init(state)

	return &fixture{
		root:     root,
		music:    filepath.Join(root, "music"),
		settings: settings,
		launcher: launcher,
		reducer:  reducer,
		state:    state,
	}
}

func (f *fixture) reduce(t *testing.T, action Action) {
	t.Helper()
	if _, err := f.reducer.Reduce(f.state, action); err != nil {
		t.Fatalf("Reduce(%T): %v", action, err)
	}
}

func (f *fixture) selectName(t *testing.T, name string) int {
	t.Helper()
	for i, e := range f.state.Entries {
		if e.DisplayName == name {
			f.state.SelectedIndex = i
			return i
		}
	}
	t.Fatalf("entry %q not listed in %v", name, entryNames(f.state.Entries))
	return -1
}

func entryNames(entries []lister.DirEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.DisplayName
	}
	return out
}
