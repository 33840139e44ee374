// Package invite holds the invitation model shared by the composer, the invite
// link codec and the negotiation flow.
package invite

import (
	"strings"

	"github.com/shopspring/decimal"

	"arena/internal/social"
)

// PaymentMethod is how an inviter pays the recipient
type PaymentMethod string

const (
	MethodStripe PaymentMethod = "stripe"
	MethodPayPal PaymentMethod = "paypal"
	MethodCrypto PaymentMethod = "crypto"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodStripe, MethodPayPal, MethodCrypto:
		return true
	}
	return false
}

// PaymentStatus tracks authorization of a payment offer
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentCompleted  PaymentStatus = "completed"
)

var PaymentPresets = []string{"20", "50", "100", "1000", "2000"}

// Payment is the monetary part of an offer
type Payment struct {
	Amount string        `json:"amount"`
	Method PaymentMethod `json:"method"`
}

// ParseAmount parses a positive decimal amount
func ParseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// Offer is what the recipient of an invite sees
type Offer struct {
	ID            string     `json:"id,omitempty"`
	Inviter       string     `json:"inviter"`
	RecipientName string     `json:"recipientName"`
	Topics        []string   `json:"topics"`
	Platforms     social.Set `json:"platforms"`
	Event         Event      `json:"event"`
	Payment       *Payment   `json:"payment,omitempty"`
}

// MainTopic returns the first topic of the offer
func (o Offer) MainTopic() string {
	if len(o.Topics) == 0 {
		return ""
	}
	return o.Topics[0]
}
