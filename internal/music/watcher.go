package music

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nmelis/beacon/internal/logger"
)

// Watcher observes the music root and schedules a rescan after a quiet
// period. Bursts of events (a download finishing, a tagger rewriting
// files) collapse into a single rescan.
type Watcher struct {
	watcher *fsnotify.Watcher
	delay   time.Duration
	rescan  func()
	logger  *logger.Logger

	mu      sync.Mutex
	pending *time.Timer
	done    chan struct{}
}

func NewWatcher(root string, delay time.Duration, rescan func(), lg *logger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(root); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		delay:   delay,
		rescan:  rescan,
		logger:  lg,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("watcher: %s on %s", event.Op, event.Name)
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("watcher: %v", err)
		case <-w.done:
			return
		}
	}
}

// schedule resets the debounce timer; the rescan fires only after the
// tree has been quiet for the configured delay.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.delay, w.rescan)
}

// Close stops the watcher and cancels any pending rescan.
func (w *Watcher) Close() error {
	close(w.done)

	w.mu.Lock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	return w.watcher.Close()
}
