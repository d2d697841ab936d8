// Package lister produces the ordered, annotated entry listings the navigator
// browses. Three sources exist: real directories, files held open by running
// processes and partial downloads described by .met records.
package lister

import (
	"fmt"
	"path"
	"runtime"
	"strings"

	"github.com/kk-code-lab/rclaunch/internal/assoc"
	"github.com/kk-code-lab/rclaunch/internal/rename"
)

// ParentName is the synthetic entry that leads one level up.
const ParentName = ".."

// DirEntry is one row of a listing. Association is set exactly for files.
type DirEntry struct {
	DisplayName string
	SourceToken string
	IsDir       bool
	Association *assoc.Rule
}

// IsParent reports whether e is the synthetic ".." entry.
func (e DirEntry) IsParent() bool {
	return e.IsDir && e.SourceToken == ParentName
}

// Kind identifies a lister variant.
type Kind int

const (
	KindFilesystem Kind = iota
	KindOpenHandles
	KindDownloadMetadata
)

func (k Kind) String() string {
	switch k {
	case KindOpenHandles:
		return "open-files"
	case KindDownloadMetadata:
		return "amule"
	default:
		return "filesystem"
	}
}

// ParseKind maps a configured module name to a Kind. An empty name is the
// filesystem module.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "filesystem", "fs":
		return KindFilesystem, nil
	case "open-files", "open-handles", "openfiles":
		return KindOpenHandles, nil
	case "amule", "download-metadata", "downloads":
		return KindDownloadMetadata, nil
	default:
		return 0, fmt.Errorf("unknown module %q", name)
	}
}

// Rules are the association and name-transform tables a lister consults.
// Local lists take precedence as described in assoc.Match and rename.Transform.
type Rules struct {
	Associations assoc.Set
	Transforms   rename.Set
}

func (r Rules) match(name string) *assoc.Rule {
	return r.Associations.Match(name)
}

func (r Rules) displayName(name string) string {
	return rename.Transform(r.Transforms, name)
}

// Lister is implemented by *FilesystemLister, *OpenHandlesLister and
// *DownloadMetadataLister only.
//
// Paths are relative to the lister root, slash separated, "" being the root.
type Lister interface {
	Title() string
	// FavoriteID is 1-10 for favorites, 0 otherwise.
	FavoriteID() int
	Kind() Kind
	Root() string
	Rules() Rules

	// ListDir returns the sorted entries at path. Scan problems are logged
	// and skipped; the result holds whatever could be read.
	ListDir(path string) []DirEntry
	// Back returns the parent of path, or false when path is the root.
	Back(path string) (string, bool)
	// Descend returns the path of directory entry name below path.
	Descend(path, name string) (string, bool)
	// ActualFile resolves entry, listed at path, to a launchable path.
	ActualFile(path string, entry DirEntry) string

	sealed()
}

// Config describes a lister instance.
type Config struct {
	Title    string
	Favorite int
	Root     string
	Rules    Rules

	// ProcRoot is the process table scanned by the open-handles variant.
	// Defaults to /proc.
	ProcRoot string
	// Collation orders display names. nil uses the environment's locale.
	Collation *Collation
}

// New builds the variant selected by kind.
func New(kind Kind, cfg Config) Lister {
	switch kind {
	case KindOpenHandles:
		return NewOpenHandles(cfg)
	case KindDownloadMetadata:
		return NewDownloadMetadata(cfg)
	default:
		return NewFilesystem(cfg)
	}
}

// NewDefault returns the unnamed filesystem lister used outside favorites. It
// consults the global rules only.
func NewDefault(root string, global Rules) *FilesystemLister {
	return NewFilesystem(Config{
		Root: root,
		Rules: Rules{
			Associations: assoc.Set{Global: global.Associations.Global},
			Transforms:   rename.Set{Global: global.Transforms.Global},
		},
	})
}

type base struct {
	title     string
	favorite  int
	root      string
	rules     Rules
	collation *Collation
}

func newBase(cfg Config) base {
	collation := cfg.Collation
	if collation == nil {
		collation = EnvCollation()
	}
	return base{
		title:     cfg.Title,
		favorite:  cfg.Favorite,
		root:      cfg.Root,
		rules:     cfg.Rules,
		collation: collation,
	}
}

func (b *base) Title() string   { return b.title }
func (b *base) FavoriteID() int { return b.favorite }
func (b *base) Root() string    { return b.root }
func (b *base) Rules() Rules    { return b.rules }
func (b *base) sealed()         {}

// Flat listings have a single level.
func flatBack(string) (string, bool)            { return "", false }
func flatDescend(string, string) (string, bool) { return "", false }

// CleanPath normalises a relative lister path. It never escapes the root.
func CleanPath(p string) string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "." {
		return ""
	}
	return p
}

func scanWorkers(jobs int) int {
	workers := runtime.NumCPU() * 4
	if workers < 8 {
		workers = 8
	}
	if workers > 64 {
		workers = 64
	}
	if workers > jobs {
		workers = jobs
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

var (
	_ Lister = (*FilesystemLister)(nil)
	_ Lister = (*OpenHandlesLister)(nil)
	_ Lister = (*DownloadMetadataLister)(nil)
)
