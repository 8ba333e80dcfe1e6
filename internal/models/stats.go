package models

import "time"

// StoreStats describes the contents of the SQLite dataset store.
type StoreStats struct {
	DailyRows    int
	HourlyRows   int
	Span         DateRange
	LastImport   time.Time
	DailySource  string
	HourlySource string
	// SchemaVersion is the applied migration version.
	SchemaVersion uint
}

// HasImport reports whether the store has ever been populated.
func (s StoreStats) HasImport() bool {
	return !s.LastImport.IsZero()
}
