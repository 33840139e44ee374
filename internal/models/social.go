package models

import (
	"time"

	"arena/internal/social"
)

// SocialLink is a profile link to one of the user's social accounts
type SocialLink struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;uniqueIndex:idx_social_link_user_platform" json:"user_id"`
	Platform  social.Platform `gorm:"size:20;not null;uniqueIndex:idx_social_link_user_platform" json:"platform"`
	URL       string          `gorm:"size:500;not null" json:"url"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (SocialLink) TableName() string {
	return "social_links"
}

// Verification tracks proof that a user controls a linked social account
type Verification struct {
	ID             uint                      `gorm:"primaryKey" json:"id"`
	UserID         uint                      `gorm:"not null;uniqueIndex:idx_verification_user_platform" json:"user_id"`
	User           *User                     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Platform       social.Platform           `gorm:"size:20;not null;uniqueIndex:idx_verification_user_platform" json:"platform"`
	Status         social.VerificationStatus `gorm:"size:20;not null;index" json:"status"`
	Code           string                    `gorm:"size:3" json:"code,omitempty"`
	CodeExpiresAt  *time.Time                `json:"code_expires_at,omitempty"`
	ScreenshotPath string                    `gorm:"size:500" json:"-"`
	ProofURL       string                    `gorm:"size:500" json:"proof_url,omitempty"`
	SubmittedAt    *time.Time                `json:"submitted_at,omitempty"`
	ReviewedBy     *uint                     `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time                `json:"reviewed_at,omitempty"`
	ReviewNote     string                    `gorm:"type:text" json:"review_note,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

func (Verification) TableName() string {
	return "verifications"
}
