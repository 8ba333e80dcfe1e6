// Package main is the entry point for the Bike Sharing Dashboard.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bike-sharing-dashboard/internal/app"
	"github.com/j-veylop/bike-sharing-dashboard/internal/config"
	"github.com/j-veylop/bike-sharing-dashboard/internal/dataset"
	"github.com/j-veylop/bike-sharing-dashboard/internal/db"
	"github.com/j-veylop/bike-sharing-dashboard/internal/export"
	"github.com/j-veylop/bike-sharing-dashboard/internal/logger"
	"github.com/j-veylop/bike-sharing-dashboard/internal/services"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/tabs/dashboard"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/tabs/hours"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/tabs/info"
	"github.com/j-veylop/bike-sharing-dashboard/internal/version"
)

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "-v", "--version":
			fmt.Println(version.Info())
			os.Exit(0)
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch {
	case len(args) > 0 && args[0] == "import":
		err = runImport(ctx)
	case len(args) > 0 && args[0] == "export":
		err = runExport(ctx, args[1:])
	case len(args) > 0:
		printUsage()
		err = fmt.Errorf("unknown command %q", args[0])
	default:
		err = run(ctx)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration and points the logger at the log file.
func setup() (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	closer, err := logger.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return cfg, func() { _ = closer.Close() }, nil
}

// run starts the terminal dashboard.
func run(ctx context.Context) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("starting", "version", version.GetVersion(), "source", cfg.DataSource)

	// The initial load is fatal: there is nothing to show without data.
	svcManager, err := services.NewManager(ctx, cfg)
	if err != nil {
		var loadErr *dataset.LoadError
		if errors.As(err, &loadErr) {
			logger.Error("initial load failed", "path", loadErr.Path, "error", err)
		}
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state, model.GetCommands()),
		hours.New(state),
		info.New(state, cfg),
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// runImport loads both CSV files and replaces the SQLite store with them.
func runImport(ctx context.Context) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	ds, err := dataset.Load(ctx, cfg.DayCSVPath, cfg.HourCSVPath)
	if err != nil {
		return err
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	if err := database.ImportDataset(ctx, ds); err != nil {
		return err
	}

	fmt.Printf("Imported %d daily and %d hourly rows into %s\n", len(ds.Daily), len(ds.Hourly), cfg.DatabasePath)
	return nil
}

// runExport writes the four charts as PNG files. Arguments are an optional
// output directory and an optional start..end range.
func runExport(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return errors.New("usage: bsd export [dir] [start..end]")
	}

	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	cfg.WatchFiles = false
	dir := cfg.ExportDir
	if len(args) > 0 {
		dir = args[0]
	}

	svcManager, err := services.NewManager(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	defer func() { _ = svcManager.Close() }()

	r := svcManager.Bounds()
	if len(args) > 1 {
		if r, err = dataset.ParseRange(args[1], r); err != nil {
			return err
		}
	}

	summary := svcManager.Compute(r)
	paths, err := export.WriteAll(dir, &summary)
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`Bike Sharing Dashboard - rentals by month, hour and day type

Usage:
  bsd [flags]
  bsd import
  bsd export [dir] [start..end]

Commands:
  import          Load day.csv and hour.csv into the SQLite store
  export          Write the four charts as PNG files

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Dashboard, Hours, Info)
  Tab/Shift+Tab   Navigate between tabs
  d               Edit the date range (YYYY-MM-DD..YYYY-MM-DD)
  x               Reset to the full range
  [ / ]           Move the range window back or forward
  e               Export charts as PNG
  s               Toggle hour table sort (Hours tab)
  r               Reload the dataset
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DAY_CSV_PATH            Daily table (default: dashboard/day.csv)
  HOUR_CSV_PATH           Hourly table (default: dashboard/hour.csv)
  DATA_SOURCE             csv or sqlite (default: csv)
  DATABASE_PATH           SQLite store path
  MONTHLY_GRAIN           hourly or daily table for monthly totals (default: hourly)
  EXPORT_DIR              PNG output directory (default: export)
  LOG_FILE                Log file path
  LOG_LEVEL               debug, info, warn or error (default: info)
  WATCH_FILES             Reload when the CSV files change (default: true)
  RELOAD_DEBOUNCE         Delay before reloading after a change (default: 500ms)
  DESKTOP_NOTIFICATIONS   Notify on reload (default: false)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/bike-sharing-dashboard/.env`)
}
