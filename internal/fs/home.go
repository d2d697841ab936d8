package fs

import (
	"os"
	"path/filepath"
)

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// "~user" forms and failures to find the home directory leave path unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if len(path) == 1 {
		return home
	}
	return filepath.Join(home, path[2:])
}
