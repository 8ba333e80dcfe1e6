package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/bike-sharing-dashboard/internal/dataset"
	"github.com/j-veylop/bike-sharing-dashboard/internal/logger"
	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// ErrEmptyStore is returned by LoadDataset when nothing was imported yet.
var ErrEmptyStore = errors.New("dataset store is empty: run the import command first")

// ErrNothingToImport is returned by ImportDataset for a dataset without
// hourly rows.
var ErrNothingToImport = errors.New("nothing to import: the hourly table has no rows")

// ImportDataset replaces the stored tables with ds in a single transaction.
func (db *DB) ImportDataset(ctx context.Context, ds *models.Dataset) error {
	if ds.IsEmpty() {
		return ErrNothingToImport
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"daily_rentals", "hourly_rentals"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertDaily(ctx, tx, ds.Daily); err != nil {
		return err
	}
	if err := insertHourly(ctx, tx, ds.Hourly); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO imports (imported_at, daily_source, hourly_source, daily_rows, hourly_rows)
		VALUES (?, ?, ?, ?, ?)
	`,
		time.Now().UTC().Format(timestampLayout),
		ds.DailySource,
		ds.HourlySource,
		len(ds.Daily),
		len(ds.Hourly),
	)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	// The replaced tables leave free pages behind.
	if err := db.Vacuum(); err != nil {
		logger.Warn("vacuum after import failed", "path", db.path, "error", err)
	}

	logger.Info("dataset imported",
		"path", db.path,
		"daily_rows", len(ds.Daily),
		"hourly_rows", len(ds.Hourly),
	)
	return nil
}

func insertDaily(ctx context.Context, tx *sql.Tx, rows []models.DailyRecord) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO daily_rentals (date, month, holiday, cnt) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare daily insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Date.Format(models.DateLayout), r.Month, r.Holiday, r.Count); err != nil {
			return fmt.Errorf("failed to insert daily row %s: %w", r.Date.Format(models.DateLayout), err)
		}
	}
	return nil
}

func insertHourly(ctx context.Context, tx *sql.Tx, rows []models.HourlyRecord) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO hourly_rentals (date, hour, month, holiday, cnt) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare hourly insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Date.Format(models.DateLayout), r.Hour, r.Month, r.Holiday, r.Count); err != nil {
			return fmt.Errorf("failed to insert hourly row %s %02d: %w", r.Date.Format(models.DateLayout), r.Hour, err)
		}
	}
	return nil
}

// LoadDataset reads both tables back in import order. Failures are
// reported as *dataset.LoadError so callers treat them like file errors.
func (db *DB) LoadDataset(ctx context.Context) (*models.Dataset, error) {
	hourly, err := db.loadHourly(ctx)
	if err != nil {
		return nil, &dataset.LoadError{Path: db.path, Err: err}
	}
	if len(hourly) == 0 {
		return nil, &dataset.LoadError{Path: db.path, Err: ErrEmptyStore}
	}

	daily, err := db.loadDaily(ctx)
	if err != nil {
		return nil, &dataset.LoadError{Path: db.path, Err: err}
	}

	ds := &models.Dataset{
		Daily:        daily,
		Hourly:       hourly,
		DailySource:  db.path + "#daily_rentals",
		HourlySource: db.path + "#hourly_rentals",
		LoadedAt:     time.Now(),
	}

	logger.Info("dataset loaded from store",
		"path", db.path,
		"daily_rows", len(daily),
		"hourly_rows", len(hourly),
	)
	return ds, nil
}

func (db *DB) loadDaily(ctx context.Context) ([]models.DailyRecord, error) {
	rows, err := db.QueryContext(ctx, "SELECT date, month, holiday, cnt FROM daily_rentals ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query daily rentals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.DailyRecord
	for rows.Next() {
		var rec models.DailyRecord
		var date string
		if err := rows.Scan(&date, &rec.Month, &rec.Holiday, &rec.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily rental: %w", err)
		}
		if rec.Date, err = time.Parse(models.DateLayout, date); err != nil {
			return nil, fmt.Errorf("invalid stored date %q: %w", date, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (db *DB) loadHourly(ctx context.Context) ([]models.HourlyRecord, error) {
	rows, err := db.QueryContext(ctx, "SELECT date, hour, month, holiday, cnt FROM hourly_rentals ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly rentals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.HourlyRecord
	for rows.Next() {
		var rec models.HourlyRecord
		var date string
		if err := rows.Scan(&date, &rec.Hour, &rec.Month, &rec.Holiday, &rec.Count); err != nil {
			return nil, fmt.Errorf("failed to scan hourly rental: %w", err)
		}
		if rec.Date, err = time.Parse(models.DateLayout, date); err != nil {
			return nil, fmt.Errorf("invalid stored date %q: %w", date, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats summarizes the stored tables and the latest import.
func (db *DB) Stats(ctx context.Context) (*models.StoreStats, error) {
	stats := &models.StoreStats{}

	version, err := db.SchemaVersion()
	if err != nil {
		return nil, err
	}
	stats.SchemaVersion = version

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM daily_rentals").Scan(&stats.DailyRows); err != nil {
		return nil, fmt.Errorf("failed to count daily rentals: %w", err)
	}

	var minDate, maxDate sql.NullString
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*), MIN(date), MAX(date) FROM hourly_rentals",
	).Scan(&stats.HourlyRows, &minDate, &maxDate)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize hourly rentals: %w", err)
	}
	if minDate.Valid && maxDate.Valid {
		start, err1 := time.Parse(models.DateLayout, minDate.String)
		end, err2 := time.Parse(models.DateLayout, maxDate.String)
		if err1 == nil && err2 == nil {
			stats.Span = models.DateRange{Start: start, End: end}
		}
	}

	var importedAt string
	err = db.QueryRowContext(ctx, `
		SELECT imported_at, daily_source, hourly_source
		FROM imports
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&importedAt, &stats.DailySource, &stats.HourlySource)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return stats, nil
	case err != nil:
		return nil, fmt.Errorf("failed to query last import: %w", err)
	}

	if t, err := time.ParseInLocation(timestampLayout, importedAt, time.UTC); err == nil {
		stats.LastImport = t
	}
	return stats, nil
}
