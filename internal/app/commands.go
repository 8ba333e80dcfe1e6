package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
	"github.com/j-veylop/bike-sharing-dashboard/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	storeStatsTimeout = 5 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialData computes the full-range summary and reads store statistics.
func loadInitialData(mgr *services.Manager, seq uint64) tea.Cmd {
	return tea.Batch(
		computeSummaryCmd(mgr, models.DateRange{}, seq),
		loadStoreStatsCmd(mgr),
	)
}

// computeSummaryCmd runs the filter and aggregators for r. A zero range
// selects the full span of the dataset.
func computeSummaryCmd(mgr *services.Manager, r models.DateRange, seq uint64) tea.Cmd {
	return func() tea.Msg {
		bounds := mgr.Bounds()
		if r.IsZero() {
			r = bounds
		}
		return SummaryComputedMsg{
			Seq:     seq,
			Bounds:  bounds,
			Summary: mgr.Compute(r),
		}
	}
}

// loadStoreStatsCmd returns a command that reads the SQLite store statistics.
func loadStoreStatsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeStatsTimeout)
		defer cancel()

		stats, err := mgr.StoreStats(ctx)
		return StoreStatsLoadedMsg{Stats: stats, Error: err}
	}
}

// reloadCmd re-reads the data source. The new dataset arrives as a
// services.DatasetReloadedEvent.
func reloadCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return ReloadResultMsg{Error: mgr.Reload(context.Background())}
	}
}

// exportCmd writes the charts of s as PNG files.
func exportCmd(mgr *services.Manager, s *models.Summary) tea.Cmd {
	return func() tea.Msg {
		paths, err := mgr.Export(s)
		return ExportResultMsg{Paths: paths, Error: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// sendMsg wraps msg in a command.
func sendMsg(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Commands provides tabs with commands that talk back to the application.
type Commands struct{}

// NewCommands creates a new Commands instance.
func NewCommands() *Commands {
	return &Commands{}
}

// SetRange asks the application to validate and apply input as the new
// selection.
func (c *Commands) SetRange(input string) tea.Cmd {
	return sendMsg(SetRangeMsg{Input: input})
}

// ResetRange selects the full span of the dataset.
func (c *Commands) ResetRange() tea.Cmd {
	return sendMsg(ResetRangeMsg{})
}

// ShiftRange moves the selection by steps window lengths.
func (c *Commands) ShiftRange(steps int) tea.Cmd {
	return sendMsg(ShiftRangeMsg{Steps: steps})
}

// Export asks the application to export the displayed summary.
func (c *Commands) Export() tea.Cmd {
	return sendMsg(ExportMsg{})
}

// Refresh asks the application to reload the data source.
func (c *Commands) Refresh() tea.Cmd {
	return sendMsg(RefreshMsg{})
}
