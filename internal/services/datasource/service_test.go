package datasource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
)

// counterLoader returns datasets whose hourly row count grows by one on
// each call, or fails while fail is set.
type counterLoader struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (c *counterLoader) load(ctx context.Context) (*models.Dataset, error) {
	n := c.calls.Add(1)
	if c.fail.Load() {
		return nil, errors.New("broken input")
	}
	return &models.Dataset{Hourly: make([]models.HourlyRecord, n)}, nil
}

func waitForEvent(t *testing.T, s *Service, want EventType) Event {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case e := <-s.Events():
			if e.Type == want {
				return e
			}
		case <-timeout:
			t.Fatalf("timeout waiting for event %d", want)
		}
	}
}

func TestNew(t *testing.T) {
	loader := &counterLoader{}
	s, err := New(context.Background(), loader.load, Options{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	if got := len(s.Dataset().Hourly); got != 1 {
		t.Errorf("initial dataset rows = %d, want 1", got)
	}

	e := waitForEvent(t, s, EventDatasetLoaded)
	if e.Dataset != s.Dataset() {
		t.Error("loaded event should carry the dataset")
	}
}

func TestNew_LoadFailure(t *testing.T) {
	loader := &counterLoader{}
	loader.fail.Store(true)

	if _, err := New(context.Background(), loader.load, Options{}); err == nil {
		t.Fatal("New() should fail when the initial load fails")
	}
}

func TestReload(t *testing.T) {
	loader := &counterLoader{}
	s, err := New(context.Background(), loader.load, Options{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if got := len(s.Dataset().Hourly); got != 2 {
		t.Errorf("dataset rows after reload = %d, want 2", got)
	}
	waitForEvent(t, s, EventDatasetReloaded)
}

func TestReload_FailureKeepsPrevious(t *testing.T) {
	loader := &counterLoader{}
	s, err := New(context.Background(), loader.load, Options{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	before := s.Dataset()
	loader.fail.Store(true)

	if err := s.Reload(context.Background()); err == nil {
		t.Fatal("Reload() should fail")
	}
	if s.Dataset() != before {
		t.Error("failed reload replaced the dataset")
	}

	e := waitForEvent(t, s, EventError)
	if e.Error == nil {
		t.Error("error event should carry the error")
	}
}

func TestLoadTimeout(t *testing.T) {
	var sawDeadline bool
	load := func(ctx context.Context) (*models.Dataset, error) {
		_, sawDeadline = ctx.Deadline()
		return &models.Dataset{}, nil
	}

	s, err := New(context.Background(), load, Options{LoadTimeout: time.Minute})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	if !sawDeadline {
		t.Error("load context should carry a deadline")
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hour.csv")
	if err := os.WriteFile(path, []byte("v1"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := &counterLoader{}
	s, err := New(context.Background(), loader.load, Options{
		WatchPaths: []string{path},
		Debounce:   20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("v2"), 0o600); err != nil {
		t.Fatal(err)
	}

	e := waitForEvent(t, s, EventDatasetReloaded)
	if e.Dataset == nil || len(e.Dataset.Hourly) < 2 {
		t.Error("reloaded event should carry the new dataset")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	loader := &counterLoader{}
	_, err := New(context.Background(), loader.load, Options{
		WatchPaths: []string{filepath.Join(t.TempDir(), "missing", "hour.csv")},
	})
	if err == nil {
		t.Error("New() should fail when the watched directory does not exist")
	}
}

func TestClose_Idempotent(t *testing.T) {
	loader := &counterLoader{}
	s, err := New(context.Background(), loader.load, Options{WatchPaths: []string{filepath.Join(t.TempDir(), "day.csv")}})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}
