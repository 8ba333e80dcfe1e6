// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/bike-sharing-dashboard/internal/analytics"
	"github.com/j-veylop/bike-sharing-dashboard/internal/config"
	"github.com/j-veylop/bike-sharing-dashboard/internal/dataset"
	"github.com/j-veylop/bike-sharing-dashboard/internal/db"
	"github.com/j-veylop/bike-sharing-dashboard/internal/export"
	"github.com/j-veylop/bike-sharing-dashboard/internal/logger"
	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
	"github.com/j-veylop/bike-sharing-dashboard/internal/services/datasource"
)

type (
	// DatasetReloadedEvent is emitted when a reload replaced the dataset.
	DatasetReloadedEvent struct {
		Dataset *models.Dataset
		Bounds  models.DateRange
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (DatasetReloadedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()           {}

// loadTimeout bounds a single dataset load.
const loadTimeout = 2 * time.Minute

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	source      *datasource.Service
	database    *db.DB
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	notify      func(title, body string) error
	closeOnce   sync.Once
}

// NewManager opens the configured data source and performs the initial load.
// A failed load is fatal and returned as is.
func NewManager(ctx context.Context, cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		stopChan: make(chan struct{}),
		notify:   desktopNotify,
	}

	var (
		load  datasource.LoadFunc
		watch []string
	)

	if cfg.UsesDatabase() {
		database, err := db.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		m.database = database
		load = database.LoadDataset
	} else {
		load = func(ctx context.Context) (*models.Dataset, error) {
			return dataset.Load(ctx, cfg.DayCSVPath, cfg.HourCSVPath)
		}
		if cfg.WatchFiles {
			watch = []string{cfg.DayCSVPath, cfg.HourCSVPath}
		}
	}

	source, err := datasource.New(ctx, load, datasource.Options{
		WatchPaths:  watch,
		Debounce:    cfg.ReloadDebounce,
		LoadTimeout: loadTimeout,
	})
	if err != nil {
		if m.database != nil {
			_ = m.database.Close()
		}
		return nil, err
	}
	m.source = source

	go m.routeEvents()

	return m, nil
}

func desktopNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// routeEvents routes events from the datasource to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.source.Events():
			m.handleSourceEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleSourceEvent converts and broadcasts datasource events.
func (m *Manager) handleSourceEvent(event datasource.Event) {
	switch event.Type {
	case datasource.EventDatasetReloaded:
		bounds, _ := dataset.Bounds(event.Dataset)
		m.broadcast(DatasetReloadedEvent{
			Dataset: event.Dataset,
			Bounds:  bounds,
		})
		m.sendNotification("Bike Sharing Dashboard",
			fmt.Sprintf("Dataset reloaded: %d hourly rows (%s)", len(event.Dataset.Hourly), bounds))

	case datasource.EventError:
		m.broadcast(ErrorEvent{
			Service: "datasource",
			Error:   event.Error,
		})
		m.sendNotification("Bike Sharing Dashboard", "Reload failed, keeping previous data: "+event.Error.Error())
	}
}

func (m *Manager) sendNotification(title, body string) {
	if m.cfg == nil || !m.cfg.DesktopNotifications || m.notify == nil {
		return
	}
	if err := m.notify(title, body); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Dataset returns the active dataset.
func (m *Manager) Dataset() *models.Dataset {
	if m.source == nil {
		return nil
	}
	return m.source.Dataset()
}

// Bounds returns the date span of the active dataset.
func (m *Manager) Bounds() models.DateRange {
	bounds, _ := dataset.Bounds(m.Dataset())
	return bounds
}

// Compute derives every summary table for r from the active dataset.
func (m *Manager) Compute(r models.DateRange) models.Summary {
	grain := models.GrainHourly
	if m.cfg != nil {
		grain = m.cfg.MonthlyGrain
	}
	return analytics.Compute(m.Dataset(), r, grain)
}

// Reload re-reads the data source. The previous dataset stays active on
// failure.
func (m *Manager) Reload(ctx context.Context) error {
	if m.source == nil {
		return errors.New("data source not initialized")
	}
	return m.source.Reload(ctx)
}

// Export writes the charts of s into the configured export directory.
func (m *Manager) Export(s *models.Summary) ([]string, error) {
	dir := "export"
	if m.cfg != nil && m.cfg.ExportDir != "" {
		dir = m.cfg.ExportDir
	}
	return export.WriteAll(dir, s)
}

// StoreStats describes the SQLite store. It returns nil when the dataset
// is read from CSV files.
func (m *Manager) StoreStats(ctx context.Context) (*models.StoreStats, error) {
	if m.database == nil {
		return nil, nil
	}
	return m.database.Stats(ctx)
}

// Database returns the database instance, or nil in CSV mode.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		if m.stopChan != nil {
			close(m.stopChan)
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.source != nil {
			if err := m.source.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	return errors.Join(errs...)
}
