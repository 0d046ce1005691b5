package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mauflow/mauflow/pkg/mauflow"
)

// Service routes notifications through the recipient's preferences.
//
// A disabled kind drops the notification entirely. Quiet hours persist the
// notification but suppress live delivery, so it shows up in the inbox the
// next time the user looks.
type Service struct {
	store     mauflow.NotificationStore
	prefs     mauflow.PreferenceStore
	publisher Publisher
	logger    mauflow.Logger

	// now is injectable for quiet-hours tests.
	now func() time.Time
}

// NewService creates a notification service. A nil publisher disables live
// delivery.
func NewService(store mauflow.NotificationStore, prefs mauflow.PreferenceStore, publisher Publisher, logger mauflow.Logger) *Service {
	if publisher == nil {
		publisher = NullPublisher{}
	}
	return &Service{
		store:     store,
		prefs:     prefs,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Notify records and delivers a notification for the given user.
// Fields ID, Read, and CreatedAt are set here; callers fill in the rest.
func (s *Service) Notify(ctx context.Context, n *mauflow.Notification) error {
	prefs, err := s.prefs.GetPreferences(ctx, n.UserID)
	if errors.Is(err, mauflow.ErrNotFound) {
		prefs = DefaultPreferences(n.UserID)
	} else if err != nil {
		return fmt.Errorf("loading preferences for %s: %w", n.UserID, err)
	}

	if !prefs.Enabled(n.Kind) {
		s.logger.Verbose("notification kind %s disabled for %s, dropping", n.Kind, n.UserID)
		return nil
	}

	n.ID = uuid.New()
	n.Read = false
	n.CreatedAt = s.now().UTC()

	if err := s.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("persisting notification: %w", err)
	}

	if inQuietHours(s.now(), prefs.QuietHoursStart, prefs.QuietHoursEnd) {
		s.logger.Verbose("quiet hours active for %s, skipping live delivery", n.UserID)
		return nil
	}

	if err := s.publisher.Publish(ctx, n); err != nil {
		// The notification is already persisted; live delivery is best effort.
		s.logger.Error("live delivery failed for %s: %v", n.UserID, err)
	}
	return nil
}

// Unread returns the user's unread notifications, newest first.
func (s *Service) Unread(ctx context.Context, userID string) ([]*mauflow.Notification, error) {
	return s.store.ListNotifications(ctx, userID, true)
}

// MarkRead marks a single notification as read.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.store.MarkRead(ctx, id)
}

// MarkAllRead marks every notification for the user as read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllRead(ctx, userID)
}

// DefaultPreferences is what users get before they save anything: every kind
// on, no quiet hours.
func DefaultPreferences(userID string) *mauflow.NotificationPreferences {
	return &mauflow.NotificationPreferences{
		UserID:            userID,
		DelegationEnabled: true,
		MentionEnabled:    true,
		CommentEnabled:    true,
		StatusEnabled:     true,
	}
}

// inQuietHours reports whether the wall-clock time of now falls inside the
// [start, end) window. Windows may cross midnight (22:00-07:00). Malformed or
// empty bounds disable quiet hours.
func inQuietHours(now time.Time, start, end string) bool {
	if start == "" || end == "" {
		return false
	}
	startMin, ok := parseWallClock(start)
	if !ok {
		return false
	}
	endMin, ok := parseWallClock(end)
	if !ok {
		return false
	}
	if startMin == endMin {
		return false
	}

	nowMin := now.Hour()*60 + now.Minute()
	if startMin < endMin {
		return nowMin >= startMin && nowMin < endMin
	}
	// Crosses midnight.
	return nowMin >= startMin || nowMin < endMin
}

func parseWallClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
