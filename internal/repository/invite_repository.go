package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"arena/internal/invite"
	"arena/internal/models"
)

// OpenInviteStates are the states an invite can still leave
var OpenInviteStates = []invite.State{invite.StatePresented, invite.StateNegotiating, invite.StateProposed}

// CreateInvite creates a new invite
func (r *Repository) CreateInvite(ctx context.Context, inv *models.Invite) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// GetInviteByID retrieves an invite with its inviter
func (r *Repository) GetInviteByID(ctx context.Context, id string) (*models.Invite, error) {
	var inv models.Invite
	err := r.db.WithContext(ctx).Preload("Inviter").Where("id = ?", id).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// LockInviteByID reads an invite for update; use inside a transaction
func (r *Repository) LockInviteByID(ctx context.Context, id string) (*models.Invite, error) {
	var inv models.Invite
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Inviter").
		Where("id = ?", id).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvitesByInviter returns the inviter's invites, newest first
func (r *Repository) ListInvitesByInviter(ctx context.Context, inviterID uint) ([]models.Invite, error) {
	var invites []models.Invite
	err := r.db.WithContext(ctx).
		Where("inviter_id = ?", inviterID).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

// UpdateInvite saves all invite fields
func (r *Repository) UpdateInvite(ctx context.Context, inv *models.Invite) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// ListOverdueInvites returns open invites whose expiry has passed
func (r *Repository) ListOverdueInvites(ctx context.Context, now time.Time, limit int) ([]models.Invite, error) {
	var invites []models.Invite
	err := r.db.WithContext(ctx).
		Where("status IN ? AND expires_at < ?", OpenInviteStates, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&invites).Error
	return invites, err
}

// ExpireInvite moves a still-open invite to expired. It reports whether the
// row changed, so concurrent responders and the expiry job cannot both win.
func (r *Repository) ExpireInvite(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Invite{}).
		Where("id = ? AND status IN ?", id, OpenInviteStates).
		Update("status", invite.StateExpired)
	return res.RowsAffected > 0, res.Error
}

// CountInvitesByStatus groups invites by status
func (r *Repository) CountInvitesByStatus(ctx context.Context) (map[invite.State]int64, error) {
	var rows []struct {
		Status invite.State
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Invite{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[invite.State]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CreateProposal stores a counter-proposal
func (r *Repository) CreateProposal(ctx context.Context, p *models.Proposal) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListProposals returns the proposals for an invite, oldest first
func (r *Repository) ListProposals(ctx context.Context, inviteID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.WithContext(ctx).
		Preload("Proposer").
		Where("invite_id = ?", inviteID).
		Order("created_at ASC").
		Find(&proposals).Error
	return proposals, err
}

// ResolveProposal records the inviter's answer to a proposal
func (r *Repository) ResolveProposal(ctx context.Context, p *models.Proposal) error {
	return r.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{"resolution": p.Resolution, "responded_at": p.RespondedAt}).Error
}
