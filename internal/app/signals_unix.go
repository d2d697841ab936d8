//go:build !windows

package app

import (
	"os"
	"syscall"
)

// resumeSignals arrive after the process was stopped and continued by the
// shell; the terminal has to be taken back.
func resumeSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}

// refreshSignals re-list the current directory, for daemons driven by
// scripts that just changed it.
func refreshSignals() []os.Signal {
	return []os.Signal{syscall.SIGHUP}
}
