// Package watch offers images dropped into a directory for selection
package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"imglab/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Event is an accepted image that appeared or changed in a watched directory
type Event struct {
	Path      string
	Size      int64
	Timestamp time.Time
	Op        fsnotify.Op
}

// Status summarises watcher activity
type Status struct {
	Running      bool
	Directories  []string
	LastActivity time.Time
	Offered      int
}

// Watcher monitors directories for new images using fsnotify
type Watcher struct {
	// Directories being watched
	directories []string

	// accept decides which paths are offered
	accept func(path string) bool

	events    chan Event
	stopChan  chan struct{}
	done      chan struct{}
	fsWatcher *fsnotify.Watcher

	mutex        sync.RWMutex
	running      bool
	offered      int
	lastActivity time.Time
}

// New creates a watcher offering paths for which accept returns true. A
// nil accept offers every regular file.
func New(accept func(path string) bool) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if accept == nil {
		accept = func(string) bool { return true }
	}

	return &Watcher{
		accept:    accept,
		events:    make(chan Event, 10),
		fsWatcher: fsWatcher,
	}, nil
}

// AddDirectory adds a directory to watch
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Events delivers offered images. It is closed once the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if w.done != nil {
		return fmt.Errorf("watcher cannot be restarted")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop(w.stopChan, w.done)
	log.Debug("Watcher started")
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(w.events)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event, stop)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, stop <-chan struct{}) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if !w.accept(event.Name) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Removed again before we got to it
		if !os.IsNotExist(err) {
			log.LogWithFields(log.F("file", event.Name), log.F("error", err)).Error("Error stating file")
		}
		return
	}
	// Files are often created empty and written afterwards
	if info.IsDir() || info.Size() == 0 {
		return
	}

	ev := Event{
		Path:      event.Name,
		Size:      info.Size(),
		Timestamp: time.Now(),
		Op:        event.Op,
	}

	select {
	case w.events <- ev:
		w.mutex.Lock()
		w.offered++
		w.lastActivity = ev.Timestamp
		w.mutex.Unlock()
	case <-stop:
	default:
		log.LogWithFields(log.F("file", event.Name)).Warn("Event channel is full, dropped event")
	}
}

// Stop halts watching and closes the Events channel
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		// Never started: only the fsnotify handle needs releasing
		if w.done == nil {
			w.fsWatcher.Close()
		}
		w.mutex.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	done := w.done
	w.mutex.Unlock()

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	<-done
	log.Debug("Watcher stopped")
}

// IsRunning returns whether the watcher is active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Status returns a snapshot of watcher activity
func (w *Watcher) Status() Status {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, len(w.directories))
	copy(dirs, w.directories)
	return Status{
		Running:      w.running,
		Directories:  dirs,
		LastActivity: w.lastActivity,
		Offered:      w.offered,
	}
}
