// Package watch reports changes in the directory shown by the launcher.
package watch

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDelay coalesces bursts of events (a copy in progress, an unpacker)
// into one notification.
const DefaultDelay = 300 * time.Millisecond

// Watcher follows one directory at a time and calls notify, debounced, when
// entries in it are created, removed, renamed or rewritten.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	notify    func()
	delay     time.Duration

	mu    sync.Mutex
	dir   string
	timer *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// New starts a watcher that watches nothing until Watch is called.
func New(notify func(), delay time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		notify:    notify,
		delay:     delay,
		done:      make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch switches to dir. An empty dir stops watching.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fsWatcher.Remove(w.dir); err != nil {
			logrus.WithField("directory", w.dir).WithError(err).Debug("unwatch failed")
		}
	}
	w.dir = ""
	if w.timer != nil {
		w.timer.Stop()
	}
	if dir == "" {
		return nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	w.dir = dir
	logrus.WithField("directory", dir).Debug("watching directory")
	return nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Close stops the watcher; notify is not called afterwards.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsWatcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove) ||
				event.Op.Has(fsnotify.Rename) || event.Op.Has(fsnotify.Write) {
				w.schedule()
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logrus.WithError(err).Warn("fsnotify watcher error")
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dir == "" {
		return
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.delay, w.fire)
		return
	}
	w.timer.Reset(w.delay)
}

func (w *Watcher) fire() {
	select {
	case <-w.done:
		return
	default:
	}
	w.notify()
}
