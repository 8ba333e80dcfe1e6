package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/bike-sharing-dashboard/internal/config"
	"github.com/j-veylop/bike-sharing-dashboard/internal/dataset"
	"github.com/j-veylop/bike-sharing-dashboard/internal/db"
	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
	"github.com/j-veylop/bike-sharing-dashboard/internal/services/datasource"
)

const (
	testDayCSV = `instant,dteday,mnth,holiday,cnt
1,2011-01-01,1,0,56
2,2011-01-02,1,1,32
`
	testHourCSV = `instant,dteday,hr,mnth,holiday,cnt
1,2011-01-01,8,1,0,500
2,2011-01-01,17,1,0,600
3,2011-01-02,3,1,1,10
`
)

func writeCSVs(t *testing.T, dir string) (string, string) {
	t.Helper()
	day := filepath.Join(dir, "day.csv")
	hour := filepath.Join(dir, "hour.csv")
	if err := os.WriteFile(day, []byte(testDayCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(hour, []byte(testHourCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return day, hour
}

func newTestManager(t *testing.T) (*Manager, *config.Config) {
	t.Helper()
	tmpDir := t.TempDir()
	day, hour := writeCSVs(t, tmpDir)
	cfg := &config.Config{
		DayCSVPath:     day,
		HourCSVPath:    hour,
		DataSource:     config.SourceCSV,
		DatabasePath:   filepath.Join(tmpDir, "test.db"),
		ExportDir:      filepath.Join(tmpDir, "export"),
		ReloadDebounce: 20 * time.Millisecond,
	}

	mgr, err := NewManager(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr, cfg
}

func TestNewManager(t *testing.T) {
	mgr, cfg := newTestManager(t)

	if mgr.Config() != cfg {
		t.Error("Config() should return the given config")
	}
	if mgr.Dataset().IsEmpty() {
		t.Fatal("dataset should be loaded")
	}
	if mgr.Database() != nil {
		t.Error("database should not be opened in csv mode")
	}

	bounds := mgr.Bounds()
	if bounds.String() != "2011-01-01..2011-01-02" {
		t.Errorf("Bounds = %s", bounds)
	}
}

func TestNewManager_LoadError(t *testing.T) {
	cfg := &config.Config{
		DayCSVPath:  filepath.Join(t.TempDir(), "missing-day.csv"),
		HourCSVPath: filepath.Join(t.TempDir(), "missing-hour.csv"),
		DataSource:  config.SourceCSV,
	}

	_, err := NewManager(context.Background(), cfg)
	if !errors.Is(err, dataset.ErrLoad) {
		t.Errorf("expected a load error, got %v", err)
	}
}

func TestNewManager_SQLite(t *testing.T) {
	tmpDir := t.TempDir()
	day, hour := writeCSVs(t, tmpDir)
	dbPath := filepath.Join(tmpDir, "store.db")

	ds, err := dataset.Load(context.Background(), day, hour)
	if err != nil {
		t.Fatal(err)
	}
	store, err := db.New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.ImportDataset(context.Background(), ds); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	cfg := &config.Config{DataSource: config.SourceSQLite, DatabasePath: dbPath}
	mgr, err := NewManager(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	if len(mgr.Dataset().Hourly) != 3 {
		t.Errorf("hourly rows = %d, want 3", len(mgr.Dataset().Hourly))
	}
	stats, err := mgr.StoreStats(context.Background())
	if err != nil || stats == nil {
		t.Fatalf("StoreStats() = %v, %v", stats, err)
	}
	if stats.HourlyRows != 3 {
		t.Errorf("stats.HourlyRows = %d", stats.HourlyRows)
	}
}

func TestNewManager_EmptySQLite(t *testing.T) {
	cfg := &config.Config{DataSource: config.SourceSQLite, DatabasePath: filepath.Join(t.TempDir(), "empty.db")}
	if _, err := NewManager(context.Background(), cfg); !errors.Is(err, db.ErrEmptyStore) {
		t.Errorf("expected ErrEmptyStore, got %v", err)
	}
}

func TestManager_Compute(t *testing.T) {
	mgr, _ := newTestManager(t)

	s := mgr.Compute(mgr.Bounds())
	if s.TotalRentals != 1110 {
		t.Errorf("TotalRentals = %d, want 1110", s.TotalRentals)
	}
	if s.HourlyMean != 370 {
		t.Errorf("HourlyMean = %v, want 370", s.HourlyMean)
	}
	if len(s.PeakHours) != 3 || s.PeakHours[0].Hour != 17 {
		t.Errorf("PeakHours = %+v", s.PeakHours)
	}

	stats, err := mgr.StoreStats(context.Background())
	if err != nil || stats != nil {
		t.Errorf("csv mode StoreStats() = %v, %v; want nil, nil", stats, err)
	}
}

func TestManager_Export(t *testing.T) {
	mgr, cfg := newTestManager(t)

	s := mgr.Compute(mgr.Bounds())
	paths, err := mgr.Export(&s)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("paths = %v", paths)
	}
	if filepath.Dir(paths[0]) != cfg.ExportDir {
		t.Errorf("exported to %s, want %s", filepath.Dir(paths[0]), cfg.ExportDir)
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr, _ := newTestManager(t)

	ch, cmd := mgr.Subscribe()
	if ch == nil {
		t.Error("Subscribe returned nil channel")
	}
	if cmd == nil {
		t.Error("Subscribe returned nil command")
	}

	mgr.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Channel should be closed")
		}
	default:
		t.Error("Unsubscribe should close the channel")
	}
}

func TestManager_Broadcast(t *testing.T) {
	mgr, _ := newTestManager(t)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	event := ErrorEvent{Service: "test"}
	mgr.broadcast(event)

	select {
	case e := <-ch:
		if e != event {
			t.Errorf("Got event %v, want %v", e, event)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for broadcast")
	}
}

func TestManager_ReloadBroadcasts(t *testing.T) {
	mgr, cfg := newTestManager(t)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	more := testHourCSV + "4,2011-01-03,9,1,0,70\n"
	if err := os.WriteFile(cfg.HourCSVPath, []byte(more), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}

	timeout := time.After(3 * time.Second)
	for {
		select {
		case e := <-ch:
			reloaded, ok := e.(DatasetReloadedEvent)
			if !ok {
				continue
			}
			if reloaded.Bounds.End.Format(models.DateLayout) != "2011-01-03" {
				t.Errorf("Bounds = %s", reloaded.Bounds)
			}
			return
		case <-timeout:
			t.Fatal("timeout waiting for reload event")
		}
	}
}

func TestManager_FailedReloadKeepsData(t *testing.T) {
	mgr, cfg := newTestManager(t)

	var mu sync.Mutex
	var notes []string
	cfg.DesktopNotifications = true
	mgr.notify = func(title, body string) error {
		mu.Lock()
		notes = append(notes, body)
		mu.Unlock()
		return nil
	}

	before := mgr.Dataset()
	if err := os.WriteFile(cfg.HourCSVPath, []byte("dteday,cnt\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Reload(context.Background()); !errors.Is(err, dataset.ErrLoad) {
		t.Fatalf("expected load error, got %v", err)
	}
	if mgr.Dataset() != before {
		t.Error("failed reload should keep the previous dataset")
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(notes)
		mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("expected a desktop notification for the failed reload")
}

func TestHandleSourceEvent_NotificationsDisabled(t *testing.T) {
	called := false
	mgr := &Manager{
		cfg:    &config.Config{},
		notify: func(string, string) error { called = true; return nil },
	}
	mgr.handleSourceEvent(datasource.Event{Type: datasource.EventError, Error: errors.New("boom")})
	if called {
		t.Error("notifications should be off unless enabled")
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan ServiceEvent, 1)
	ch <- ErrorEvent{}

	msg := WaitForEvent(ch)()
	if msg == nil {
		t.Error("WaitForEvent cmd returned nil msg")
	}

	close(ch)
	if msg := WaitForEvent(ch)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %v", msg)
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	var _ ServiceEvent = DatasetReloadedEvent{}
	var _ ServiceEvent = ErrorEvent{}

	DatasetReloadedEvent{}.isServiceEvent()
	ErrorEvent{}.isServiceEvent()
}

func TestManager_Close(t *testing.T) {
	mgr := &Manager{}
	if err := mgr.Close(); err != nil {
		t.Errorf("Close() on empty manager = %v", err)
	}
	if mgr.Dataset() != nil {
		t.Error("empty manager should have no dataset")
	}
	if err := mgr.Reload(context.Background()); err == nil {
		t.Error("Reload() without a source should fail")
	}
}
