package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	readDirFn = os.ReadDir
	statFn    = os.Stat
)

// ReadDir lists dirPath and classifies every child. The type hint from the
// directory read is used when it names a directory or a regular file; symlinks
// and unknown hints are resolved with stat. Children whose stat fails are
// reported as KindOther.
func ReadDir(dirPath string) ([]Entry, error) {
	dirEntries, err := readDirFn(dirPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dirPath, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		name := e.Name()
		if name == "." || name == ".." {
			continue
		}
		fullPath := filepath.Join(dirPath, name)
		mode := e.Type()

		entry := Entry{
			Name:      name,
			FullPath:  fullPath,
			IsSymlink: mode&fs.ModeSymlink != 0,
			Mode:      mode,
		}
		entry.Kind = classify(fullPath, mode)
		entries = append(entries, entry)
	}
	return entries, nil
}

func classify(fullPath string, mode fs.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindRegular
	case mode&fs.ModeSymlink == 0 && mode&fs.ModeType != 0:
		// Device, socket or pipe as reported by the read itself.
		return KindOther
	}

	info, err := statFn(fullPath)
	if err != nil {
		return KindOther
	}
	switch {
	case info.IsDir():
		return KindDir
	case info.Mode().IsRegular():
		return KindRegular
	default:
		return KindOther
	}
}
