package fs

import (
	"os"
)

// Kind classifies a directory child.
type Kind int

const (
	KindOther Kind = iota
	KindDir
	KindRegular
)

// Entry represents a single child of a directory.
type Entry struct {
	Name      string
	FullPath  string
	Kind      Kind
	IsSymlink bool
	Mode      os.FileMode
}

func (e Entry) IsDir() bool     { return e.Kind == KindDir }
func (e Entry) IsRegular() bool { return e.Kind == KindRegular }

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	return IsHidden(e.Name)
}
