// Package dataset loads the bike sharing tables and filters them by date.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/bike-sharing-dashboard/internal/logger"
	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
)

// Column names consumed from the input files. Other columns are ignored.
const (
	ColDate    = "dteday"
	ColHour    = "hr"
	ColMonth   = "mnth"
	ColHoliday = "holiday"
	ColCount   = "cnt"
)

var (
	dailyColumns  = []string{ColDate, ColMonth, ColHoliday, ColCount}
	hourlyColumns = []string{ColDate, ColHour, ColMonth, ColHoliday, ColCount}
)

// ctxCheckInterval is how many rows are parsed between context checks.
const ctxCheckInterval = 1024

// Load reads the daily and hourly tables concurrently into one Dataset.
func Load(ctx context.Context, dailyPath, hourlyPath string) (*models.Dataset, error) {
	var ds models.Dataset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := LoadDaily(gctx, dailyPath)
		if err != nil {
			return err
		}
		ds.Daily = rows
		return nil
	})
	g.Go(func() error {
		rows, err := LoadHourly(gctx, hourlyPath)
		if err != nil {
			return err
		}
		ds.Hourly = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds.DailySource = dailyPath
	ds.HourlySource = hourlyPath
	ds.LoadedAt = time.Now()

	logger.Info("dataset loaded",
		"daily_rows", len(ds.Daily),
		"hourly_rows", len(ds.Hourly),
		"daily_path", dailyPath,
		"hourly_path", hourlyPath,
	)

	return &ds, nil
}

// LoadDaily reads the daily table from a CSV file.
func LoadDaily(ctx context.Context, path string) ([]models.DailyRecord, error) {
	f, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseDaily(ctx, f, path)
}

// LoadHourly reads the hourly table from a CSV file.
func LoadHourly(ctx context.Context, path string) ([]models.HourlyRecord, error) {
	f, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseHourly(ctx, f, path)
}

// ParseDaily parses daily CSV data. source is only used in error messages.
func ParseDaily(ctx context.Context, r io.Reader, source string) ([]models.DailyRecord, error) {
	var rows []models.DailyRecord
	err := readTable(ctx, r, source, dailyColumns, func(rec row) error {
		date, err := rec.date(ColDate)
		if err != nil {
			return err
		}
		month, err := rec.intIn(ColMonth, 1, 12)
		if err != nil {
			return err
		}
		holiday, err := rec.integer(ColHoliday)
		if err != nil {
			return err
		}
		count, err := rec.count(ColCount)
		if err != nil {
			return err
		}
		rows = append(rows, models.DailyRecord{
			Date:    date,
			Month:   month,
			Holiday: holiday,
			Count:   count,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseHourly parses hourly CSV data. source is only used in error messages.
func ParseHourly(ctx context.Context, r io.Reader, source string) ([]models.HourlyRecord, error) {
	var rows []models.HourlyRecord
	err := readTable(ctx, r, source, hourlyColumns, func(rec row) error {
		date, err := rec.date(ColDate)
		if err != nil {
			return err
		}
		hour, err := rec.intIn(ColHour, 0, 23)
		if err != nil {
			return err
		}
		month, err := rec.intIn(ColMonth, 1, 12)
		if err != nil {
			return err
		}
		holiday, err := rec.integer(ColHoliday)
		if err != nil {
			return err
		}
		count, err := rec.count(ColCount)
		if err != nil {
			return err
		}
		rows = append(rows, models.HourlyRecord{
			Date:    date,
			Hour:    hour,
			Month:   month,
			Holiday: holiday,
			Count:   count,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func openTable(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return f, nil
}

// row gives access to one CSV record by column name.
type row struct {
	line   int
	fields []string
	index  map[string]int
}

// columnError marks a parse failure in a single column.
type columnError struct {
	column string
	err    error
}

func (e *columnError) Error() string { return e.err.Error() }

func (r row) value(col string) string {
	i := r.index[col]
	if i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r row) date(col string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, r.value(col))
	if err != nil {
		return time.Time{}, &columnError{column: col, err: fmt.Errorf("invalid date %q", r.value(col))}
	}
	return t, nil
}

func (r row) integer(col string) (int, error) {
	v, err := strconv.Atoi(r.value(col))
	if err != nil {
		return 0, &columnError{column: col, err: fmt.Errorf("invalid integer %q", r.value(col))}
	}
	return v, nil
}

func (r row) intIn(col string, lo, hi int) (int, error) {
	v, err := r.integer(col)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, &columnError{column: col, err: fmt.Errorf("value %d out of range [%d, %d]", v, lo, hi)}
	}
	return v, nil
}

func (r row) count(col string) (int64, error) {
	v, err := strconv.ParseInt(r.value(col), 10, 64)
	if err != nil {
		return 0, &columnError{column: col, err: fmt.Errorf("invalid count %q", r.value(col))}
	}
	if v < 0 {
		return 0, &columnError{column: col, err: fmt.Errorf("negative count %d", v)}
	}
	return v, nil
}

// readTable validates the header and calls fn for every data row.
func readTable(ctx context.Context, r io.Reader, source string, required []string, fn func(row) error) error {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &LoadError{Path: source, Err: errors.New("empty file")}
	}
	if err != nil {
		return &LoadError{Path: source, Line: 1, Err: err}
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		// Strip a UTF-8 BOM left by spreadsheet exports.
		index[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return &LoadError{Path: source, Line: 1, Column: col, Err: errors.New("missing required column")}
		}
	}

	line := 1
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return &LoadError{Path: source, Line: line, Err: err}
		}

		if line%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if err := fn(row{line: line, fields: fields, index: index}); err != nil {
			var ce *columnError
			if errors.As(err, &ce) {
				return &LoadError{Path: source, Line: line, Column: ce.column, Err: ce.err}
			}
			return &LoadError{Path: source, Line: line, Err: err}
		}
	}
}
