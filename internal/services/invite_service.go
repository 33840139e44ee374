package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"arena/internal/invite"
	"arena/internal/logger"
	"arena/internal/metrics"
	"arena/internal/models"
	"arena/internal/repository"
	"arena/internal/social"
)

// CreateInviteInput is the composer state sent by the client
type CreateInviteInput struct {
	RecipientName          string         `json:"recipient_name"`
	Topics                 []string       `json:"topics"`
	PendingTopic           string         `json:"pending_topic"`
	Platforms              []string       `json:"platforms"`
	Incentivize            bool           `json:"incentivize"`
	Payment                invite.Payment `json:"payment"`
	PaymentAuthorizationID string         `json:"payment_authorization_id"`
	Event                  invite.Event   `json:"event"`
}

// CreatedInvite is a stored invite with its share link
type CreatedInvite struct {
	Invite   *models.Invite `json:"invite"`
	URL      string         `json:"url"`
	Complete bool           `json:"complete"`
}

// InvitePreview is what the recipient of an invite link sees
type InvitePreview struct {
	Offer           invite.Offer  `json:"offer"`
	Inviter         *Profile      `json:"inviter"`
	EventText       string        `json:"event_text"`
	RegistrationURL string        `json:"registration_url"`
	Status          *invite.State `json:"status,omitempty"`
}

// ProposalInput is a counter-proposal to an invite. Topics replaces the
// offered topic list; empty values keep the offer's terms.
type ProposalInput struct {
	Topics    []string `json:"topics"`
	WordCount string   `json:"word_count"`
	Days      string   `json:"days"`
	Payment   string   `json:"payment"`
	Message   string   `json:"message"`
}

// InviteService persists invites and drives their negotiation
type InviteService struct {
	db       *gorm.DB
	repo     *repository.Repository
	users    *UserService
	payments *PaymentService
	notify   *NotificationService
	metrics  *metrics.Metrics
	baseURL  string
	ttl      time.Duration
	now      func() time.Time
}

func NewInviteService(
	db *gorm.DB,
	users *UserService,
	payments *PaymentService,
	notify *NotificationService,
	m *metrics.Metrics,
	baseURL string,
	ttl time.Duration,
) *InviteService {
	return &InviteService{
		db:       db,
		repo:     repository.NewRepository(db),
		users:    users,
		payments: payments,
		notify:   notify,
		metrics:  m,
		baseURL:  baseURL,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create stores an invite built from the composer input
func (s *InviteService) Create(ctx context.Context, inviterID uint, in CreateInviteInput) (*CreatedInvite, error) {
	inviter, err := s.users.GetUserByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}

	c := invite.NewComposer()
	c.RecipientName = in.RecipientName
	c.Topics = *invite.NewTopicList(in.Topics...)
	c.PendingTopic = in.PendingTopic
	c.Platforms = social.ParseSet(in.Platforms)
	c.SetIncentivize(in.Incentivize)
	c.Event = in.Event.Normalize()
	if !c.CanCopy() {
		return nil, invalidf("Add a recipient name and at least one topic.")
	}

	inv := &models.Invite{
		ID:        uuid.NewString(),
		InviterID: inviter.ID,
		Status:    invite.StatePresented,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if in.Incentivize {
		amount, ok := invite.ParseAmount(in.Payment.Amount)
		if in.Payment.Amount != "" && !ok {
			return nil, invalidf("Amount must be a positive number.")
		}
		if in.Payment.Method != "" && !in.Payment.Method.Valid() {
			return nil, invalidf("Unknown payment method %q.", in.Payment.Method)
		}
		c.Payment = in.Payment
		if in.PaymentAuthorizationID != "" {
			auth, err := s.payments.authorizedFor(ctx, inviterID, in.PaymentAuthorizationID, amount)
			if err != nil {
				return nil, err
			}
			if auth.Method != in.Payment.Method {
				return nil, invalidf("Payment method does not match the authorization.")
			}
			c.PaymentStatus = invite.PaymentAuthorized
			inv.PaymentAuthorizationID = &auth.ID
		}
	}

	offer := c.Offer(inviter.Username)
	inv.RecipientName = offer.RecipientName
	inv.Topics = offer.Topics
	inv.Platforms = offer.Platforms
	inv.Event = offer.Event
	inv.Payment = offer.Payment

	if err := s.repo.CreateInvite(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	inv.Inviter = inviter
	s.metrics.InviteCreated()
	logger.Infof("invite %s created by %s for %q", inv.ID, inviter.Username, inv.RecipientName)

	offer.ID = inv.ID
	return &CreatedInvite{
		Invite:   inv,
		URL:      invite.EncodeURL(s.baseURL, offer),
		Complete: c.IsComplete(),
	}, nil
}

// Get returns a stored invite
func (s *InviteService) Get(ctx context.Context, id string) (*models.Invite, error) {
	inv, err := s.repo.GetInviteByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "invite")
	}
	return inv, nil
}

// ShareURL rebuilds the link of a stored invite
func (s *InviteService) ShareURL(inv *models.Invite) string {
	username := ""
	if inv.Inviter != nil {
		username = inv.Inviter.Username
	}
	return invite.EncodeURL(s.baseURL, inv.Offer(username))
}

// ListForInviter returns the invites sent by a user
func (s *InviteService) ListForInviter(ctx context.Context, inviterID uint) ([]models.Invite, error) {
	return s.repo.ListInvitesByInviter(ctx, inviterID)
}

// Preview decodes an invite link for its recipient
func (s *InviteService) Preview(ctx context.Context, username string, query url.Values) (*InvitePreview, error) {
	profile, err := s.users.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	offer := invite.DecodeQuery(profile.Username, query)
	preview := &InvitePreview{
		Offer:           offer,
		Inviter:         profile,
		EventText:       offer.Event.DisplayText(),
		RegistrationURL: invite.RegistrationURL(s.baseURL, offer),
	}
	if offer.ID != "" {
		inv, err := s.repo.GetInviteByID(ctx, offer.ID)
		switch {
		case err == nil && inv.InviterID == profile.ID:
			status := s.effectiveStatus(inv)
			preview.Status = &status
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return preview, nil
}

func (s *InviteService) effectiveStatus(inv *models.Invite) invite.State {
	if !inv.Status.Terminal() && s.now().After(inv.ExpiresAt) {
		return invite.StateExpired
	}
	return inv.Status
}

// respond locks the invite, checks it is still open and that userID is not
// its inviter, then runs fn and saves the invite
func (s *InviteService) respond(ctx context.Context, id string, userID uint, fn func(tx *repository.Repository, inv *models.Invite, n *invite.Negotiation) error) (*models.Invite, error) {
	var inv *models.Invite
	expired := false
	err := s.repo.Transaction(func(tx *repository.Repository) error {
		var err error
		if inv, err = tx.LockInviteByID(ctx, id); err != nil {
			return notFound(err, "invite")
		}
		if inv.InviterID == userID {
			return fmt.Errorf("cannot respond to your own invite: %w", ErrForbidden)
		}
		if !inv.Status.Terminal() && s.now().After(inv.ExpiresAt) {
			expired = true
			_, err := tx.ExpireInvite(ctx, inv.ID)
			return err
		}

		n := invite.ResumeNegotiation(inv.Offer(inv.Inviter.Username), inv.Status)
		if err := fn(tx, inv, n); err != nil {
			return err
		}
		now := s.now()
		inv.Status = n.State()
		inv.RecipientID = &userID
		inv.RespondedAt = &now
		return tx.UpdateInvite(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	if expired {
		s.metrics.InviteTransition(string(invite.StateExpired))
		return nil, ErrExpired
	}
	s.metrics.InviteTransition(string(inv.Status))
	return inv, nil
}

// Accept takes the invite as offered and opens its conversation
func (s *InviteService) Accept(ctx context.Context, id string, userID uint) (*models.Invite, *models.Conversation, error) {
	var conv *models.Conversation
	inv, err := s.respond(ctx, id, userID, func(tx *repository.Repository, inv *models.Invite, n *invite.Negotiation) error {
		if err := n.Accept(); err != nil {
			return err
		}
		conv = newConversation(inv, userID)
		if err := tx.CreateConversation(ctx, conv); err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}
		inv.ConversationID = &conv.ID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.notify.Notify(ctx, &models.Notification{
		UserID: inv.InviterID,
		Type:   models.NotificationInvitation,
		Title:  "Invite accepted",
		Body:   fmt.Sprintf("%s accepted your invite to talk about %s.", s.displayName(ctx, userID), strings.Join(inv.Topics, ", ")),
		Link:   fmt.Sprintf("/conversations/%d", conv.ID),
	})
	return inv, conv, nil
}

func newConversation(inv *models.Invite, recipientID uint) *models.Conversation {
	topics := []string{models.IntroductionTopic}
	for _, t := range inv.Topics {
		if !strings.EqualFold(t, models.IntroductionTopic) {
			topics = append(topics, t)
		}
	}
	conv := &models.Conversation{
		InviteID: &inv.ID,
		Title:    inv.Offer("").MainTopic(),
		Topics:   topics,
		Participants: []models.Participant{
			{UserID: inv.InviterID, IsHost: true},
			{UserID: recipientID, IsHost: true},
		},
	}
	if r, err := inv.Event.Resolve(); err == nil {
		conv.WordTarget, conv.Days, conv.Minutes = r.Words, r.Days, r.Minutes
	}
	return conv
}

// Decline rejects the invite
func (s *InviteService) Decline(ctx context.Context, id string, userID uint) (*models.Invite, error) {
	inv, err := s.respond(ctx, id, userID, func(_ *repository.Repository, _ *models.Invite, n *invite.Negotiation) error {
		return n.Decline()
	})
	if err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, &models.Notification{
		UserID: inv.InviterID,
		Type:   models.NotificationInvitation,
		Title:  "Invite declined",
		Body:   fmt.Sprintf("%s declined your invite.", s.displayName(ctx, userID)),
		Link:   "/invites/" + inv.ID,
	})
	return inv, nil
}

// Propose sends a counter-proposal to the inviter
func (s *InviteService) Propose(ctx context.Context, id string, userID uint, in ProposalInput) (*models.Proposal, error) {
	var proposal *models.Proposal
	inv, err := s.respond(ctx, id, userID, func(tx *repository.Repository, inv *models.Invite, n *invite.Negotiation) error {
		if err := n.Modify(); err != nil {
			return err
		}
		cp, err := applyProposalInput(n, in)
		if err != nil {
			return err
		}
		proposal = &models.Proposal{
			ID:         uuid.NewString(),
			InviteID:   inv.ID,
			ProposerID: userID,
			Topics:     cp.Topics,
			Platforms:  cp.Platforms,
			Event:      cp.Event,
			Payment:    cp.Payment,
			Message:    cp.Message,
		}
		return tx.CreateProposal(ctx, proposal)
	})
	if err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, &models.Notification{
		UserID: inv.InviterID,
		Type:   models.NotificationProposal,
		Title:  "New proposal",
		Body:   fmt.Sprintf("%s proposed changes to your invite.", s.displayName(ctx, userID)),
		Link:   "/invites/" + inv.ID,
	})
	return proposal, nil
}

func applyProposalInput(n *invite.Negotiation, in ProposalInput) (invite.CounterProposal, error) {
	for _, t := range n.Topics() {
		if err := n.RemoveTopic(t); err != nil {
			return invite.CounterProposal{}, err
		}
	}
	for _, t := range in.Topics {
		if err := n.AddTopic(t); err != nil {
			return invite.CounterProposal{}, invalidf("Topic %q is empty or already listed.", strings.TrimSpace(t))
		}
	}
	if in.WordCount != "" {
		if err := n.SetWordCount(in.WordCount); err != nil {
			return invite.CounterProposal{}, invalidf("Word count must be a positive whole number.")
		}
	}
	if in.Days != "" {
		if err := n.SetDays(in.Days); err != nil {
			return invite.CounterProposal{}, invalidf("Days must be a positive whole number.")
		}
	}
	if in.Payment != "" {
		if n.Offer().Payment == nil {
			return invite.CounterProposal{}, invalidf("This invite has no payment to change.")
		}
		if err := n.SetPayment(in.Payment); err != nil {
			return invite.CounterProposal{}, invalidf("Amount must be a positive number.")
		}
	}
	if err := n.SetMessage(in.Message); err != nil {
		return invite.CounterProposal{}, err
	}
	cp, err := n.Submit()
	if errors.Is(err, invite.ErrNoTopics) {
		return cp, invalidf("Please add at least one topic.")
	}
	return cp, err
}

// ListProposals returns an invite's proposals to its inviter
func (s *InviteService) ListProposals(ctx context.Context, id string, userID uint) ([]models.Proposal, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.InviterID != userID {
		return nil, fmt.Errorf("only the inviter can see proposals: %w", ErrForbidden)
	}
	return s.repo.ListProposals(ctx, id)
}

// RespondToProposal lets the inviter apply or dismiss the latest proposal.
// Either way the invite is presented again to its recipient.
func (s *InviteService) RespondToProposal(ctx context.Context, id, proposalID string, userID uint, apply bool) (*models.Invite, error) {
	var inv *models.Invite
	err := s.repo.Transaction(func(tx *repository.Repository) error {
		var err error
		if inv, err = tx.LockInviteByID(ctx, id); err != nil {
			return notFound(err, "invite")
		}
		if inv.InviterID != userID {
			return fmt.Errorf("only the inviter can answer proposals: %w", ErrForbidden)
		}
		if inv.Status != invite.StateProposed {
			return invite.ErrInvalidTransition
		}
		proposals, err := tx.ListProposals(ctx, id)
		if err != nil {
			return err
		}
		var p *models.Proposal
		for i := range proposals {
			if proposals[i].ID == proposalID {
				p = &proposals[i]
			}
		}
		if p == nil {
			return fmt.Errorf("proposal %w", ErrNotFound)
		}
		// only the newest proposal is open, and only once
		if p.ID != proposals[len(proposals)-1].ID || p.RespondedAt != nil {
			return fmt.Errorf("proposal is no longer open: %w", ErrConflict)
		}
		if apply {
			inv.Topics = p.Topics
			inv.Event = p.Event
			if p.Payment != nil && p.Payment.Method.Valid() {
				if inv.Payment == nil || p.Payment.Amount != inv.Payment.Amount {
					// the old hold no longer covers the amount
					inv.PaymentAuthorizationID = nil
				}
				inv.Payment = p.Payment
			}
		}
		now := s.now()
		p.Resolution = models.ProposalDismissed
		if apply {
			p.Resolution = models.ProposalApplied
		}
		p.RespondedAt = &now
		if err := tx.ResolveProposal(ctx, p); err != nil {
			return err
		}
		inv.Status = invite.StatePresented
		inv.ExpiresAt = now.Add(s.ttl)
		return tx.UpdateInvite(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.InviteTransition(string(inv.Status))

	if inv.RecipientID != nil {
		title := "Proposal accepted"
		if !apply {
			title = "Proposal declined"
		}
		s.notify.Notify(ctx, &models.Notification{
			UserID: *inv.RecipientID,
			Type:   models.NotificationProposal,
			Title:  title,
			Body:   fmt.Sprintf("%s answered your proposal.", inv.Inviter.Name),
			Link:   s.ShareURL(inv),
		})
	}
	return inv, nil
}

// ExpireOverdue moves open invites past their expiry to expired
func (s *InviteService) ExpireOverdue(ctx context.Context) (int, error) {
	overdue, err := s.repo.ListOverdueInvites(ctx, s.now(), 500)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, inv := range overdue {
		ok, err := s.repo.ExpireInvite(ctx, inv.ID)
		if err != nil {
			return expired, err
		}
		if ok {
			expired++
			s.metrics.InviteTransition(string(invite.StateExpired))
		}
	}
	return expired, nil
}

func (s *InviteService) displayName(ctx context.Context, userID uint) string {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return "Someone"
	}
	return user.Name
}
