// Package watcher reports changes to a set of files, debounced, as pubsub
// events whose payload is the file path.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/pubsub"
)

// Config holds watcher options.
type Config struct {
	Paths    []string
	Debounce time.Duration
}

// DefaultConfig watches paths with a 200ms debounce.
func DefaultConfig(paths ...string) Config {
	return Config{Paths: paths, Debounce: 200 * time.Millisecond}
}

// Watcher follows files through their directories, so editors that replace
// a file by renaming a new one over it are seen too.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	files     map[string]struct{}
	dirs      []string
	debounce  time.Duration
	broker    *pubsub.Broker[string]

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates a watcher for cfg.Paths. Nothing is watched before Start.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("watcher: no paths")
	}
	w := &Watcher{
		files:    make(map[string]struct{}, len(cfg.Paths)),
		debounce: cfg.Debounce,
		broker:   pubsub.NewBroker[string](),
		done:     make(chan struct{}),
	}
	seen := map[string]bool{}
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w.fsWatcher = fsw
	return w, nil
}

// Subscribe returns a channel of change events for the lifetime of ctx.
func (w *Watcher) Subscribe(ctx context.Context) <-chan pubsub.Event[string] {
	return w.broker.Subscribe(ctx)
}

// Broker exposes the underlying broker, for pubsub.NewListener.
func (w *Watcher) Broker() *pubsub.Broker[string] {
	return w.broker
}

// Start begins watching.
func (w *Watcher) Start() error {
	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
		log.Debug(log.CatWatcher, "watching", "dir", dir)
	}
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop ends watching and closes every subscription.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.wg.Wait()
		w.broker.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	pending := map[string]pubsub.EventType{}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			typ, relevant := w.classify(event)
			if !relevant {
				continue
			}
			pending[filepath.Clean(event.Name)] = typ
			timer.Reset(w.debounce)

		case <-timer.C:
			w.flush(pending)
			clear(pending)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) flush(pending map[string]pubsub.EventType) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		log.Debug(log.CatWatcher, "file event", "type", pending[p], "path", p)
		w.broker.Publish(pending[p], p)
	}
}

// classify maps an fsnotify event on a watched file to an event type.
func (w *Watcher) classify(event fsnotify.Event) (pubsub.EventType, bool) {
	if _, ok := w.files[filepath.Clean(event.Name)]; !ok {
		return "", false
	}
	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		return pubsub.FileChangedEvent, true
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return pubsub.FileRemovedEvent, true
	default:
		return "", false
	}
}
