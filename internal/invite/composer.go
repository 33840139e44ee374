package invite

import (
	"strings"

	"arena/internal/social"
)

// Composer is the editable state an inviter fills in before sharing an invite
type Composer struct {
	RecipientName string
	Topics        TopicList
	PendingTopic  string
	Platforms     social.Set
	Incentivize   bool
	Payment       Payment
	PaymentStatus PaymentStatus
	Event         Event
}

// NewComposer returns a composer with payment offered by default
func NewComposer() *Composer {
	return &Composer{
		Incentivize:   true,
		PaymentStatus: PaymentPending,
	}
}

// CommitPendingTopic adds the pending topic input and clears it on success
func (c *Composer) CommitPendingTopic() bool {
	if !c.Topics.Add(c.PendingTopic) {
		return false
	}
	c.PendingTopic = ""
	return true
}

// TogglePlatform flips verification for one platform
func (c *Composer) TogglePlatform(p social.Platform) {
	c.Platforms = c.Platforms.Toggle(p)
}

// SetIncentivize turns payment on or off; turning it off resets the payment
func (c *Composer) SetIncentivize(on bool) {
	c.Incentivize = on
	if !on {
		c.Payment = Payment{}
		c.PaymentStatus = PaymentPending
	}
}

// CanCopy reports whether an invite link can be produced
func (c *Composer) CanCopy() bool {
	if strings.TrimSpace(c.RecipientName) == "" {
		return false
	}
	return c.Topics.Len() > 0 || strings.TrimSpace(c.PendingTopic) != ""
}

// IsComplete reports whether every part of the invite is filled in
func (c *Composer) IsComplete() bool {
	if !c.CanCopy() {
		return false
	}
	if c.Incentivize {
		if _, ok := ParseAmount(c.Payment.Amount); !ok {
			return false
		}
		if !c.Payment.Method.Valid() || c.PaymentStatus != PaymentAuthorized {
			return false
		}
	}
	return c.Event.Complete()
}

// Offer snapshots the composer. A pending topic that is not yet committed is
// included.
func (c *Composer) Offer(inviter string) Offer {
	topics := NewTopicList(c.Topics.Items()...)
	topics.Add(c.PendingTopic)

	o := Offer{
		Inviter:       inviter,
		RecipientName: strings.TrimSpace(c.RecipientName),
		Topics:        topics.Items(),
		Platforms:     append(social.Set(nil), c.Platforms...),
		Event:         c.Event.Normalize(),
	}
	if c.Incentivize {
		p := c.Payment
		o.Payment = &p
	}
	return o
}

// InviteURL returns the shareable invite link
func (c *Composer) InviteURL(base, inviter string) (string, error) {
	if !c.CanCopy() {
		return "", ErrCannotCopy
	}
	return EncodeURL(base, c.Offer(inviter)), nil
}
