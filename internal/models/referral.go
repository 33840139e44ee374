package models

import (
	"time"
)

const (
	ReferralSourceProfile = "profile"
	ReferralSourceInvite  = "invite"
)

// Referral represents a referral relationship between users
type Referral struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ReferrerID     uint      `gorm:"not null;index" json:"referrer_id"`
	Referrer       *User     `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredUserID uint      `gorm:"not null;uniqueIndex" json:"referred_user_id"`
	ReferredUser   *User     `gorm:"foreignKey:ReferredUserID" json:"referred_user,omitempty"`
	Source         string    `gorm:"size:20;default:profile" json:"source"` // profile, invite
	ReferredAt     time.Time `gorm:"autoCreateTime" json:"referred_at"`
}

func (Referral) TableName() string {
	return "referrals"
}
