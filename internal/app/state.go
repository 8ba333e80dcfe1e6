// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// Loading resources.
const (
	ResourceInitial = "initial"
	ResourceSummary = "summary"
	ResourceReload  = "reload"
	ResourceExport  = "export"
)

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Summary bool
	Reload  bool
	Export  bool
}

// State is shared between the application model and its tabs.
type State struct {
	mu sync.RWMutex

	// Bounds is the date span of the loaded dataset.
	Bounds models.DateRange
	// Range is the selection the current Summary was computed for.
	Range      models.DateRange
	Summary    *models.Summary
	RangeError error
	StoreStats *models.StoreStats
	LastExport []string

	Loading LoadingState
	editing bool

	LastUpdated time.Time

	summarySeq uint64

	notifications   []Notification
	notificationSeq int
}

// NewState creates the initial state, flagged as loading.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceInitial:
		s.Loading.Initial = loading
	case ResourceSummary:
		s.Loading.Summary = loading
	case ResourceReload:
		s.Loading.Reload = loading
	case ResourceExport:
		s.Loading.Export = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Summary ||
		s.Loading.Reload ||
		s.Loading.Export
}

// IsInitialLoading returns true until the first summary has been computed.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, ResourceInitial)
	}
	if s.Loading.Summary {
		resources = append(resources, ResourceSummary)
	}
	if s.Loading.Reload {
		resources = append(resources, ResourceReload)
	}
	if s.Loading.Export {
		resources = append(resources, ResourceExport)
	}
	return resources
}

// SetBounds records the date span of the active dataset.
func (s *State) SetBounds(bounds models.DateRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Bounds = bounds
}

// GetBounds returns the date span of the active dataset.
func (s *State) GetBounds() models.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Bounds
}

// SetSummary replaces the displayed summary and clears any range error.
func (s *State) SetSummary(summary *models.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Summary = summary
	if summary != nil {
		s.Range = summary.Range
	}
	s.RangeError = nil
	s.LastUpdated = time.Now()
}

// GetSummary returns the displayed summary, or nil before the first one.
func (s *State) GetSummary() *models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Summary
}

// GetRange returns the selection of the displayed summary.
func (s *State) GetRange() models.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Range
}

// NextSummaryRequest numbers a new summary computation. Only the result of
// the latest request is applied.
func (s *State) NextSummaryRequest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summarySeq++
	return s.summarySeq
}

// IsLatestSummary reports whether seq belongs to the latest request.
func (s *State) IsLatestSummary(seq uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return seq == s.summarySeq
}

// SetRangeError records a rejected selection. The summary is left alone.
func (s *State) SetRangeError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RangeError = err
}

// GetRangeError returns the last rejected selection error, if any.
func (s *State) GetRangeError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RangeError
}

// SetStoreStats updates the SQLite store statistics.
func (s *State) SetStoreStats(stats *models.StoreStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreStats = stats
}

// GetStoreStats returns the SQLite store statistics, nil in CSV mode.
func (s *State) GetStoreStats() *models.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.StoreStats
}

// SetLastExport records the files written by the last export.
func (s *State) SetLastExport(paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastExport = paths
}

// GetLastExport returns the files written by the last export.
func (s *State) GetLastExport() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, len(s.LastExport))
	copy(paths, s.LastExport)
	return paths
}

// SetEditing marks whether a tab is capturing text input.
func (s *State) SetEditing(editing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = editing
}

// IsEditing reports whether a tab is capturing text input, in which case
// global key bindings are suspended.
func (s *State) IsEditing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editing
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the last time a summary was computed.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
