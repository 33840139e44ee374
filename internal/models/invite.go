package models

import (
	"time"

	"arena/internal/invite"
	"arena/internal/social"
)

// Invite is a persisted invitation to a conversation
type Invite struct {
	ID                     string          `gorm:"primaryKey;size:36" json:"id"`
	InviterID              uint            `gorm:"not null;index" json:"inviter_id"`
	Inviter                *User           `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
	RecipientName          string          `gorm:"size:100;not null" json:"recipient_name"`
	Topics                 []string        `gorm:"serializer:json;type:text" json:"topics"`
	Platforms              social.Set      `gorm:"serializer:json;type:text" json:"platforms"`
	Event                  invite.Event    `gorm:"serializer:json;type:text" json:"event"`
	Payment                *invite.Payment `gorm:"serializer:json;type:text" json:"payment,omitempty"`
	PaymentAuthorizationID *string         `gorm:"size:36" json:"payment_authorization_id,omitempty"`
	Status                 invite.State    `gorm:"size:20;not null;index" json:"status"`
	RecipientID            *uint           `gorm:"index" json:"recipient_id,omitempty"`
	ConversationID         *uint           `json:"conversation_id,omitempty"`
	ExpiresAt              time.Time       `gorm:"index" json:"expires_at"`
	RespondedAt            *time.Time      `json:"responded_at,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func (Invite) TableName() string {
	return "invites"
}

// Offer converts the invite into its shareable form
func (i *Invite) Offer(inviterUsername string) invite.Offer {
	return invite.Offer{
		ID:            i.ID,
		Inviter:       inviterUsername,
		RecipientName: i.RecipientName,
		Topics:        i.Topics,
		Platforms:     i.Platforms,
		Event:         i.Event,
		Payment:       i.Payment,
	}
}

// Proposal is a counter-proposal sent back by the recipient of an invite
type Proposal struct {
	ID         string          `gorm:"primaryKey;size:36" json:"id"`
	InviteID   string          `gorm:"size:36;not null;index" json:"invite_id"`
	ProposerID uint            `gorm:"not null;index" json:"proposer_id"`
	Proposer   *User           `gorm:"foreignKey:ProposerID" json:"proposer,omitempty"`
	Topics     []string        `gorm:"serializer:json;type:text" json:"topics"`
	Platforms  social.Set      `gorm:"serializer:json;type:text" json:"platforms"`
	Event      invite.Event    `gorm:"serializer:json;type:text" json:"event"`
	Payment    *invite.Payment `gorm:"serializer:json;type:text" json:"payment,omitempty"`
	Message    string          `gorm:"type:text" json:"message"`
	// Resolution is empty while the proposal awaits the inviter
	Resolution  string     `gorm:"size:20" json:"resolution,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Proposal resolutions
const (
	ProposalApplied   = "applied"
	ProposalDismissed = "dismissed"
)

func (Proposal) TableName() string {
	return "proposals"
}
