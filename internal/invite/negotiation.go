package invite

import (
	"strings"

	"arena/internal/social"
)

// State of an invite from the recipient's point of view
type State string

const (
	StatePresented   State = "presented"
	StateAccepted    State = "accepted"
	StateDeclined    State = "declined"
	StateNegotiating State = "negotiating"
	StateProposed    State = "proposed"
	StateExpired     State = "expired"
)

// Terminal reports whether no further transitions are possible
func (s State) Terminal() bool {
	switch s {
	case StateAccepted, StateDeclined, StateExpired:
		return true
	}
	return false
}

var (
	NegotiationWordPresets    = []string{"500", "1000", "2000"}
	NegotiationDayPresets     = []string{"3", "5", "7"}
	NegotiationPaymentPresets = []string{"50", "100", "200"}
)

// CounterProposal is the recipient's modified version of an offer
type CounterProposal struct {
	Topics    []string   `json:"topics"`
	Event     Event      `json:"event"`
	Payment   *Payment   `json:"payment,omitempty"`
	Platforms social.Set `json:"platforms"`
	Message   string     `json:"message"`
}

// Negotiation drives the recipient side of an invite.
//
//	presented -> accepted | declined | negotiating
//	negotiating -> proposed | presented
type Negotiation struct {
	offer   Offer
	state   State
	topics  *TopicList
	event   Event
	payment *Payment
	message string
}

// NewNegotiation starts a negotiation over o in the presented state
func NewNegotiation(o Offer) *Negotiation {
	return &Negotiation{offer: o, state: StatePresented}
}

// ResumeNegotiation restores a negotiation in a persisted state
func ResumeNegotiation(o Offer, s State) *Negotiation {
	n := NewNegotiation(o)
	n.state = s
	if s == StateNegotiating {
		n.seed()
	}
	return n
}

func (n *Negotiation) State() State { return n.state }

func (n *Negotiation) Offer() Offer { return n.offer }

// Accept takes the offer as presented
func (n *Negotiation) Accept() error {
	return n.transition(StatePresented, StateAccepted)
}

// Decline rejects the offer
func (n *Negotiation) Decline() error {
	return n.transition(StatePresented, StateDeclined)
}

// Modify opens the overlay, seeded with the offer's values
func (n *Negotiation) Modify() error {
	if err := n.transition(StatePresented, StateNegotiating); err != nil {
		return err
	}
	n.seed()
	return nil
}

// Cancel closes the overlay and discards every change
func (n *Negotiation) Cancel() error {
	if err := n.transition(StateNegotiating, StatePresented); err != nil {
		return err
	}
	n.seed()
	return nil
}

func (n *Negotiation) seed() {
	n.topics = NewTopicList(n.offer.Topics...)
	n.event = n.offer.Event.Normalize()
	n.payment = nil
	if n.offer.Payment != nil {
		p := *n.offer.Payment
		n.payment = &p
	}
	n.message = ""
}

func (n *Negotiation) transition(from, to State) error {
	if n.state != from {
		return ErrInvalidTransition
	}
	n.state = to
	return nil
}

func (n *Negotiation) editing() error {
	if n.state != StateNegotiating {
		return ErrInvalidTransition
	}
	return nil
}

// Topics returns the topics currently being proposed
func (n *Negotiation) Topics() []string {
	if n.topics == nil {
		return append([]string(nil), n.offer.Topics...)
	}
	return n.topics.Items()
}

func (n *Negotiation) AddTopic(topic string) error {
	if err := n.editing(); err != nil {
		return err
	}
	if !n.topics.Add(topic) {
		return ErrTopicRejected
	}
	return nil
}

func (n *Negotiation) EditTopic(i int, topic string) error {
	if err := n.editing(); err != nil {
		return err
	}
	if !n.topics.Edit(i, topic) {
		return ErrTopicRejected
	}
	return nil
}

func (n *Negotiation) RemoveTopic(topic string) error {
	if err := n.editing(); err != nil {
		return err
	}
	if !n.topics.Remove(topic) {
		return ErrTopicRejected
	}
	return nil
}

// SetWordCount selects a word target; non-preset values become custom values
func (n *Negotiation) SetWordCount(v string) error {
	if err := n.editing(); err != nil {
		return err
	}
	v = strings.TrimSpace(v)
	if !ValidCustomValue(v) {
		return ErrInvalidValue
	}
	n.event.SetType(EventLength)
	if isPreset(v, NegotiationWordPresets) {
		n.event.Parameter, n.event.CustomWordCount = v, ""
	} else {
		n.event.Parameter, n.event.CustomWordCount = Custom, v
	}
	return nil
}

// SetDays selects the time period in days
func (n *Negotiation) SetDays(v string) error {
	if err := n.editing(); err != nil {
		return err
	}
	v = strings.TrimSpace(v)
	if !ValidCustomValue(v) {
		return ErrInvalidValue
	}
	n.event.SetType(EventLength)
	if isPreset(v, NegotiationDayPresets) {
		n.event.TimePeriod, n.event.CustomTimePeriod = v, ""
	} else {
		n.event.TimePeriod, n.event.CustomTimePeriod = Custom, v
	}
	return nil
}

// SetPayment proposes a different amount; the offer's method is kept.
// An offer without payment has no method to keep, so it cannot be countered
// with an amount.
func (n *Negotiation) SetPayment(amount string) error {
	if err := n.editing(); err != nil {
		return err
	}
	if n.payment == nil {
		return ErrInvalidValue
	}
	amount = strings.TrimSpace(amount)
	if _, ok := ParseAmount(amount); !ok {
		return ErrInvalidValue
	}
	n.payment.Amount = amount
	return nil
}

func (n *Negotiation) SetMessage(msg string) error {
	if err := n.editing(); err != nil {
		return err
	}
	n.message = msg
	return nil
}

// Submit sends the counter-proposal. With no topics the state is unchanged.
func (n *Negotiation) Submit() (CounterProposal, error) {
	if err := n.editing(); err != nil {
		return CounterProposal{}, err
	}
	if n.topics.Len() == 0 {
		return CounterProposal{}, ErrNoTopics
	}
	cp := CounterProposal{
		Topics:    n.topics.Items(),
		Event:     n.event.Normalize(),
		Platforms: append(social.Set(nil), n.offer.Platforms...),
		Message:   strings.TrimSpace(n.message),
	}
	if n.payment != nil {
		p := *n.payment
		cp.Payment = &p
	}
	n.state = StateProposed
	return cp, nil
}
