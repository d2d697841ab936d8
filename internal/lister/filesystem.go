package lister

import (
	"path"
	"path/filepath"

	fsutil "github.com/kk-code-lab/rclaunch/internal/fs"
	"github.com/sirupsen/logrus"
)

// FilesystemLister browses a real directory tree below its root.
type FilesystemLister struct {
	base
}

func NewFilesystem(cfg Config) *FilesystemLister {
	if cfg.Root == "" {
		cfg.Root = "/"
	}
	cfg.Root = filepath.Clean(cfg.Root)
	return &FilesystemLister{base: newBase(cfg)}
}

func (l *FilesystemLister) Kind() Kind { return KindFilesystem }

func (l *FilesystemLister) dirPath(p string) string {
	return filepath.Join(l.root, filepath.FromSlash(CleanPath(p)))
}

func (l *FilesystemLister) ListDir(p string) []DirEntry {
	p = CleanPath(p)
	dir := l.dirPath(p)

	children, err := fsutil.ReadDir(dir)
	if err != nil {
		logrus.WithFields(logrus.Fields{"dir": dir}).WithError(err).Debug("directory scan failed")
	}

	entries := make([]DirEntry, 0, len(children)+1)
	if p != "" {
		entries = append(entries, DirEntry{DisplayName: ParentName, SourceToken: ParentName, IsDir: true})
	}

	for _, child := range children {
		switch child.Kind {
		case fsutil.KindDir:
			if child.IsHidden() {
				continue
			}
			entries = append(entries, DirEntry{
				DisplayName: fsutil.DisplayName(child.Name),
				SourceToken: child.Name,
				IsDir:       true,
			})
		case fsutil.KindRegular:
			name := fsutil.DisplayName(child.Name)
			rule := l.rules.match(name)
			if rule == nil {
				continue
			}
			entries = append(entries, DirEntry{
				DisplayName: l.rules.displayName(name),
				SourceToken: child.Name,
				Association: rule,
			})
		}
	}

	l.collation.Sort(entries)
	return entries
}

func (l *FilesystemLister) Back(p string) (string, bool) {
	p = CleanPath(p)
	if p == "" {
		return "", false
	}
	parent := path.Dir(p)
	if parent == "." {
		parent = ""
	}
	return parent, true
}

func (l *FilesystemLister) Descend(p, name string) (string, bool) {
	if name == "" || name == ParentName || name == "." {
		return "", false
	}
	return CleanPath(path.Join(CleanPath(p), name)), true
}

func (l *FilesystemLister) ActualFile(p string, entry DirEntry) string {
	return filepath.Join(l.dirPath(p), entry.SourceToken)
}
