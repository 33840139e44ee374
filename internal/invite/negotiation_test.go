package invite

import (
	"reflect"
	"testing"
)

func sampleOffer() Offer {
	return Offer{
		Inviter:       "gaurab",
		RecipientName: "Sam",
		Topics:        []string{"A", "B"},
		Event:         Event{Type: EventLength, Parameter: "500", TimePeriod: "3"},
		Payment:       &Payment{Amount: "100", Method: MethodStripe},
	}
}

func TestNegotiationAcceptAndDecline(t *testing.T) {
	n := NewNegotiation(sampleOffer())
	if err := n.Accept(); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if n.State() != StateAccepted {
		t.Errorf("state %s", n.State())
	}
	if err := n.Decline(); err != ErrInvalidTransition {
		t.Errorf("decline after accept should fail, got %v", err)
	}
	if err := n.Modify(); err != ErrInvalidTransition {
		t.Errorf("modify after accept should fail, got %v", err)
	}

	n = NewNegotiation(sampleOffer())
	if err := n.Decline(); err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	if !n.State().Terminal() {
		t.Error("declined should be terminal")
	}
}

func TestNegotiationSubmitCounterProposal(t *testing.T) {
	n := NewNegotiation(sampleOffer())
	if err := n.Modify(); err != nil {
		t.Fatal(err)
	}
	if err := n.RemoveTopic("A"); err != nil {
		t.Fatal(err)
	}
	if err := n.SetMessage("prefer shorter"); err != nil {
		t.Fatal(err)
	}

	cp, err := n.Submit()
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if n.State() != StateProposed {
		t.Errorf("state %s, want proposed", n.State())
	}
	if !reflect.DeepEqual(cp.Topics, []string{"B"}) {
		t.Errorf("topics %v", cp.Topics)
	}
	if cp.Message != "prefer shorter" {
		t.Errorf("message %q", cp.Message)
	}
}

func TestNegotiationSubmitWithoutTopicsKeepsState(t *testing.T) {
	n := NewNegotiation(sampleOffer())
	_ = n.Modify()
	_ = n.RemoveTopic("A")
	_ = n.RemoveTopic("B")

	if _, err := n.Submit(); err != ErrNoTopics {
		t.Fatalf("expected ErrNoTopics, got %v", err)
	}
	if n.State() != StateNegotiating {
		t.Errorf("state changed to %s", n.State())
	}
}

func TestNegotiationCancelRestoresOffer(t *testing.T) {
	n := NewNegotiation(sampleOffer())
	_ = n.Modify()
	_ = n.AddTopic("C")
	_ = n.SetWordCount("2000")
	_ = n.SetPayment("200")

	if err := n.Cancel(); err != nil {
		t.Fatal(err)
	}
	if n.State() != StatePresented {
		t.Errorf("state %s", n.State())
	}

	_ = n.Modify()
	if got := n.Topics(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("topics %v after cancel", got)
	}
	cp, err := n.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if cp.Event.Parameter != "500" || cp.Payment.Amount != "100" {
		t.Errorf("cancel should discard edits, got %+v", cp)
	}
}

func TestNegotiationCustomValues(t *testing.T) {
	n := NewNegotiation(sampleOffer())
	_ = n.Modify()

	if err := n.SetWordCount("1500"); err != nil {
		t.Fatal(err)
	}
	if err := n.SetDays("5"); err != nil {
		t.Fatal(err)
	}
	if err := n.SetWordCount("-1"); err != ErrInvalidValue {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if err := n.SetPayment("abc"); err != ErrInvalidValue {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}

	cp, _ := n.Submit()
	if cp.Event.DisplayText() != "1500 words over 5 days" {
		t.Errorf("display %q", cp.Event.DisplayText())
	}
	if cp.Event.Parameter != Custom || cp.Event.TimePeriod != "5" {
		t.Errorf("unexpected event %+v", cp.Event)
	}
}

func TestNegotiationEditsRequireOverlay(t *testing.T) {
	n := NewNegotiation(sampleOffer())
	if err := n.AddTopic("C"); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := n.Submit(); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if err := n.Cancel(); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestNegotiationEditTopic(t *testing.T) {
	n := NewNegotiation(sampleOffer())
	if err := n.EditTopic(0, "C"); err != ErrInvalidTransition {
		t.Errorf("edit before modify should fail, got %v", err)
	}
	if err := n.Modify(); err != nil {
		t.Fatal(err)
	}
	if err := n.EditTopic(0, " C "); err != nil {
		t.Fatalf("EditTopic failed: %v", err)
	}
	if err := n.EditTopic(1, "C"); err != ErrTopicRejected {
		t.Errorf("duplicate edit should be rejected, got %v", err)
	}
	if err := n.EditTopic(5, "D"); err != ErrTopicRejected {
		t.Errorf("out of range edit should be rejected, got %v", err)
	}
	if got := n.Topics(); !reflect.DeepEqual(got, []string{"C", "B"}) {
		t.Errorf("topics %v", got)
	}
}

func TestNegotiationSetPaymentWithoutOfferedPayment(t *testing.T) {
	o := sampleOffer()
	o.Payment = nil
	n := NewNegotiation(o)
	if err := n.Modify(); err != nil {
		t.Fatal(err)
	}
	if err := n.SetPayment("100"); err != ErrInvalidValue {
		t.Errorf("amount without an offered payment should be rejected, got %v", err)
	}
	cp, err := n.Submit()
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if cp.Payment != nil {
		t.Errorf("payment %+v, want none", cp.Payment)
	}
}
