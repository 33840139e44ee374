package models

import (
	"time"
)

// Notification types
const (
	NotificationMention    = "mention"
	NotificationReply      = "reply"
	NotificationLike       = "like"
	NotificationInvitation = "invitation"
	NotificationProposal   = "proposal"
	NotificationMessage    = "message"
)

// Notification channels
const (
	ChannelBell    = "bell"
	ChannelMessage = "message"
)

// Notification is an in-app notice for one user
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_notification_user_read" json:"user_id"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Link      string    `gorm:"size:500" json:"link"`
	Channel   string    `gorm:"size:20;not null;default:bell" json:"channel"`
	Read      bool      `gorm:"default:false;index:idx_notification_user_read" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
