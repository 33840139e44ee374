package models

import (
	"time"

	"github.com/shopspring/decimal"

	"arena/internal/invite"
)

// PaymentAuthorization is a hold placed for an incentivized invite.
// Only the last four card digits are ever stored.
type PaymentAuthorization struct {
	ID            string               `gorm:"primaryKey;size:36" json:"id"`
	UserID        uint                 `gorm:"not null;index" json:"user_id"`
	Method        invite.PaymentMethod `gorm:"size:20;not null" json:"method"`
	Amount        decimal.Decimal      `gorm:"type:decimal(18,2);not null" json:"amount"`
	Fee           decimal.Decimal      `gorm:"type:decimal(18,2);not null" json:"fee"`
	Total         decimal.Decimal      `gorm:"type:decimal(18,2);not null" json:"total"`
	Status        invite.PaymentStatus `gorm:"size:20;not null;index" json:"status"`
	CardLast4     string               `gorm:"size:4" json:"card_last4,omitempty"`
	WalletAddress string               `gorm:"size:64" json:"wallet_address,omitempty"`
	Signature     string               `gorm:"size:128" json:"-"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func (PaymentAuthorization) TableName() string {
	return "payment_authorizations"
}
