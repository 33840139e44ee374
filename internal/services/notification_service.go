package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"arena/internal/logger"
	"arena/internal/metrics"
	"arena/internal/models"
)

// Notification list filters
const (
	FilterAll      = "all"
	FilterUnread   = "unread"
	FilterMessages = "messages"
)

// EventUnreadCounts is pushed whenever a user's unread counters change
const EventUnreadCounts = "unread_counts"

// Publisher delivers realtime events to a user's open sessions
type Publisher interface {
	Publish(userID uint, eventType string, payload interface{})
}

// UnreadCounts are the badges of the navigation bar
type UnreadCounts struct {
	Bell    int64 `json:"bell"`
	Message int64 `json:"message"`
}

// NotificationService stores notifications and keeps clients' counters current
type NotificationService struct {
	db        *gorm.DB
	publisher Publisher
	metrics   *metrics.Metrics
}

func NewNotificationService(db *gorm.DB, publisher Publisher, m *metrics.Metrics) *NotificationService {
	return &NotificationService{db: db, publisher: publisher, metrics: m}
}

// Notify creates a notification. Notifications are best effort: failures are
// logged and never fail the caller's operation.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) {
	if s == nil {
		return
	}
	if n.Channel == "" {
		n.Channel = models.ChannelBell
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		logger.Errorf("failed to create %s notification for user %d: %v", n.Type, n.UserID, err)
		return
	}
	s.metrics.NotificationSent(n.Type)
	s.publishCounts(ctx, n.UserID)
}

// List returns the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID uint, filter string) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	switch filter {
	case "", FilterAll:
	case FilterUnread:
		q = q.Where("read = ?", false)
	case FilterMessages:
		q = q.Where("channel = ?", models.ChannelMessage)
	default:
		return nil, invalidf("unknown filter %q", filter)
	}

	var notifications []models.Notification
	if err := q.Order("created_at DESC, id DESC").Limit(200).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCounts counts unread notifications per channel
func (s *NotificationService) UnreadCounts(ctx context.Context, userID uint) (UnreadCounts, error) {
	var rows []struct {
		Channel string
		Count   int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Select("channel, COUNT(*) AS count").
		Where("user_id = ? AND read = ?", userID, false).
		Group("channel").
		Scan(&rows).Error
	if err != nil {
		return UnreadCounts{}, fmt.Errorf("failed to count notifications: %w", err)
	}

	var counts UnreadCounts
	for _, row := range rows {
		switch row.Channel {
		case models.ChannelBell:
			counts.Bell = row.Count
		case models.ChannelMessage:
			counts.Message = row.Count
		}
	}
	return counts, nil
}

// MarkAsRead marks one of the user's notifications as read
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		s.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ? AND user_id = ?", id, userID).Count(&count)
		if count == 0 {
			return fmt.Errorf("notification %w", ErrNotFound)
		}
	}
	s.publishCounts(ctx, userID)
	return nil
}

// MarkAllAsRead marks every notification of one channel as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint, channel string) error {
	if channel != models.ChannelBell && channel != models.ChannelMessage {
		return invalidf("unknown channel %q", channel)
	}
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND channel = ? AND read = ?", userID, channel, false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	s.publishCounts(ctx, userID)
	return nil
}

func (s *NotificationService) publishCounts(ctx context.Context, userID uint) {
	if s.publisher == nil {
		return
	}
	counts, err := s.UnreadCounts(ctx, userID)
	if err != nil {
		logger.Warnf("failed to publish unread counts for user %d: %v", userID, err)
		return
	}
	s.publisher.Publish(userID, EventUnreadCounts, counts)
}
