package app

import (
	"time"

	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
	"github.com/j-veylop/bike-sharing-dashboard/internal/services"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// SummaryComputedMsg carries the summary for a new selection. Seq is the
// request number handed out by State.NextSummaryRequest.
type SummaryComputedMsg struct {
	Seq     uint64
	Bounds  models.DateRange
	Summary models.Summary
}

// SetRangeMsg asks for a new selection typed as "YYYY-MM-DD..YYYY-MM-DD".
type SetRangeMsg struct {
	Input string
}

// ResetRangeMsg selects the full span of the dataset.
type ResetRangeMsg struct{}

// ShiftRangeMsg moves the selection by Steps window lengths.
type ShiftRangeMsg struct {
	Steps int
}

// RefreshMsg requests a reload of the data source.
type RefreshMsg struct{}

// ReloadResultMsg contains the result of a reload.
type ReloadResultMsg struct {
	Error error
}

// ExportMsg requests a PNG export of the displayed summary.
type ExportMsg struct{}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Paths []string
	Error error
}

// StoreStatsLoadedMsg contains the SQLite store statistics.
type StoreStatsLoadedMsg struct {
	Stats *models.StoreStats
	Error error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
