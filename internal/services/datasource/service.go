// Package datasource keeps the loaded dataset in memory and reloads it when
// the input files change.
package datasource

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/bike-sharing-dashboard/internal/logger"
	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
)

// Event represents a datasource event.
type Event struct {
	Type    EventType
	Error   error
	Dataset *models.Dataset
}

// EventType defines the type of datasource event.
type EventType int

const (
	EventDatasetLoaded EventType = iota
	EventDatasetReloaded
	EventError
)

// LoadFunc produces a fresh dataset.
type LoadFunc func(ctx context.Context) (*models.Dataset, error)

// Options configures a Service.
type Options struct {
	// WatchPaths are files whose changes trigger a reload. Empty disables
	// watching.
	WatchPaths []string
	// Debounce is how long to wait after the last change before reloading.
	Debounce time.Duration
	// LoadTimeout bounds a single load. Zero means no limit.
	LoadTimeout time.Duration
}

const defaultDebounce = 100 * time.Millisecond

// Service caches the dataset and swaps it on successful reloads.
type Service struct {
	mu            sync.RWMutex
	dataset       *models.Dataset
	load          LoadFunc
	opts          Options
	watched       map[string]bool
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New performs the initial load and starts watching opts.WatchPaths.
// A failed initial load is returned as is.
func New(ctx context.Context, load LoadFunc, opts Options) (*Service, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}

	s := &Service{
		load:      load,
		opts:      opts,
		watched:   make(map[string]bool),
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	ds, err := s.runLoad(ctx)
	if err != nil {
		return nil, err
	}
	s.dataset = ds

	if len(opts.WatchPaths) > 0 {
		if err := s.startWatcher(); err != nil {
			return nil, fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	s.sendEvent(Event{Type: EventDatasetLoaded, Dataset: ds})

	return s, nil
}

// Events returns the event channel for subscribing to dataset changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Dataset returns the current dataset. Callers must not modify it.
func (s *Service) Dataset() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Reload loads the dataset again. On failure the previous dataset stays
// active and the error is both returned and emitted as EventError.
func (s *Service) Reload(ctx context.Context) error {
	ds, err := s.runLoad(ctx)
	if err != nil {
		logger.Warn("dataset reload failed, keeping previous data", "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return err
	}

	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()

	logger.Info("dataset reloaded", "hourly_rows", len(ds.Hourly), "daily_rows", len(ds.Daily))
	s.sendEvent(Event{Type: EventDatasetReloaded, Dataset: ds})
	return nil
}

func (s *Service) runLoad(ctx context.Context) (*models.Dataset, error) {
	if s.opts.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.LoadTimeout)
		defer cancel()
	}
	return s.load(ctx)
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directories (to catch files replaced by rename)
	dirs := make(map[string]bool)
	for _, p := range s.opts.WatchPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		s.watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			if closeErr := watcher.Close(); closeErr != nil {
				logger.Error("failed to close watcher", "error", closeErr)
			}
			s.watcher = nil
			return err
		}
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if !s.isWatched(event.Name) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(s.opts.Debounce, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) isWatched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		abs = filepath.Clean(name)
	}
	return s.watched[abs]
}

// handleFileChange reloads the dataset after an external change.
func (s *Service) handleFileChange() {
	select {
	case <-s.stopChan:
		return
	default:
	}
	_ = s.Reload(context.Background())
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
