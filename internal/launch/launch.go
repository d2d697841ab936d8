// Package launch starts the external programs that open entries and reports
// when they exit.
package launch

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/sirupsen/logrus"
)

var ErrNotRunning = errors.New("launch: no such process")

// Request describes one program to run.
type Request struct {
	Token    int
	Argv     []string
	Killable bool
	Label    string
	// Done is called exactly once, from another goroutine, when a started
	// program exits. It is not called when Start fails.
	Done func(Result)
}

// Result reports how a program ended.
type Result struct {
	Token int
	Err   error
}

// Launcher runs programs and tracks them by token.
type Launcher struct {
	mu      sync.Mutex
	running map[int]*exec.Cmd

	lookPath func(string) (string, error)
}

func New() *Launcher {
	return &Launcher{
		running:  make(map[int]*exec.Cmd),
		lookPath: exec.LookPath,
	}
}

// Start spawns req.Argv. Child output is copied into the log.
func (l *Launcher) Start(req Request) error {
	if len(req.Argv) == 0 {
		return errors.New("launch: empty command")
	}

	path, err := l.lookPath(req.Argv[0])
	if err != nil {
		return fmt.Errorf("launch %s: %w", req.Argv[0], err)
	}

	log := logrus.WithFields(logrus.Fields{"token": req.Token, "label": req.Label})
	stdout := log.WriterLevel(logrus.InfoLevel)
	stderr := log.WriterLevel(logrus.WarnLevel)

	cmd := exec.Command(path, req.Argv[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	configureProcess(cmd)

	if err := cmd.Start(); err != nil {
		_ = stdout.Close()
		_ = stderr.Close()
		return fmt.Errorf("launch %s: %w", req.Argv[0], err)
	}
	log.WithField("pid", cmd.Process.Pid).WithField("argv", req.Argv).Info("process started")

	l.mu.Lock()
	l.running[req.Token] = cmd
	l.mu.Unlock()

	go func() {
		waitErr := cmd.Wait()
		_ = stdout.Close()
		_ = stderr.Close()

		l.mu.Lock()
		delete(l.running, req.Token)
		l.mu.Unlock()

		if waitErr != nil {
			log.WithError(waitErr).Info("process exited")
		} else {
			log.Info("process exited")
		}
		if req.Done != nil {
			req.Done(Result{Token: req.Token, Err: waitErr})
		}
	}()
	return nil
}

// Kill asks the program started under token to terminate.
func (l *Launcher) Kill(token int) error {
	l.mu.Lock()
	cmd, ok := l.running[token]
	l.mu.Unlock()
	if !ok || cmd.Process == nil {
		return ErrNotRunning
	}
	return terminate(cmd)
}
