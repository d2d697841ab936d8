package lister

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	fsutil "github.com/kk-code-lab/rclaunch/internal/fs"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultProcRoot is the process table scanned for open files.
const DefaultProcRoot = "/proc"

const deletedSuffix = " (deleted)"

// OpenHandlesLister lists the files any process currently holds open. The
// listing is flat; entries resolve to the full target path.
type OpenHandlesLister struct {
	base
	procRoot string
}

func NewOpenHandles(cfg Config) *OpenHandlesLister {
	procRoot := cfg.ProcRoot
	if procRoot == "" {
		procRoot = DefaultProcRoot
	}
	cfg.Root = ""
	return &OpenHandlesLister{base: newBase(cfg), procRoot: procRoot}
}

func (l *OpenHandlesLister) Kind() Kind { return KindOpenHandles }

func (l *OpenHandlesLister) ListDir(string) []DirEntry {
	targets := l.scan()

	entries := make([]DirEntry, 0, len(targets))
	for _, target := range targets {
		name := fsutil.DisplayName(filepath.Base(target))
		rule := l.rules.match(name)
		if rule == nil {
			continue
		}
		entries = append(entries, DirEntry{
			DisplayName: l.rules.displayName(name),
			SourceToken: target,
			Association: rule,
		})
	}

	l.collation.Sort(entries)
	return entries
}

// scan returns the distinct absolute targets of every fd symlink below the
// process table.
func (l *OpenHandlesLister) scan() []string {
	procs, err := os.ReadDir(l.procRoot)
	if err != nil {
		logrus.WithFields(logrus.Fields{"root": l.procRoot}).WithError(err).Debug("process table scan failed")
		return nil
	}

	pids := make([]string, 0, len(procs))
	for _, p := range procs {
		if _, err := strconv.Atoi(p.Name()); err == nil {
			pids = append(pids, p.Name())
		}
	}

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{})
		out  []string
	)

	var g errgroup.Group
	g.SetLimit(scanWorkers(len(pids)))
	for _, pid := range pids {
		fdDir := filepath.Join(l.procRoot, pid, "fd")
		g.Go(func() error {
			found := readFDTargets(fdDir)
			mu.Lock()
			for _, target := range found {
				if _, dup := seen[target]; dup {
					continue
				}
				seen[target] = struct{}{}
				out = append(out, target)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func readFDTargets(fdDir string) []string {
	fds, err := os.ReadDir(fdDir)
	if err != nil {
		// Processes exit and deny access routinely.
		logrus.WithFields(logrus.Fields{"dir": fdDir}).WithError(err).Trace("fd scan skipped")
		return nil
	}

	targets := make([]string, 0, len(fds))
	for _, fd := range fds {
		target, err := os.Readlink(filepath.Join(fdDir, fd.Name()))
		if err != nil {
			continue
		}
		target = strings.TrimSuffix(target, deletedSuffix)
		// Sockets, pipes and anonymous inodes are not paths.
		if !filepath.IsAbs(target) {
			continue
		}
		targets = append(targets, target)
	}
	return targets
}

func (l *OpenHandlesLister) Back(p string) (string, bool) { return flatBack(p) }

func (l *OpenHandlesLister) Descend(p, name string) (string, bool) { return flatDescend(p, name) }

func (l *OpenHandlesLister) ActualFile(_ string, entry DirEntry) string {
	return entry.SourceToken
}
