package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"arena/internal/services"
)

type InviteHandler struct {
	inviteService *services.InviteService
}

func NewInviteHandler(inviteService *services.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// CreateInvite stores the composer state and returns the share link
// POST /api/invites
func (h *InviteHandler) CreateInvite(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var in services.CreateInviteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	created, err := h.inviteService.Create(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetMyInvites lists invites sent by the current user
// GET /api/invites
func (h *InviteHandler) GetMyInvites(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	invites, err := h.inviteService.ListForInviter(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// GetInvite returns one invite and its share link
// GET /api/invites/:id
func (h *InviteHandler) GetInvite(c *gin.Context) {
	inv, err := h.inviteService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invite": inv, "url": h.inviteService.ShareURL(inv)})
}

// Preview decodes an invite link for its recipient
// GET /api/invite/:username?topics=...&event=...
func (h *InviteHandler) Preview(c *gin.Context) {
	preview, err := h.inviteService.Preview(c.Request.Context(), c.Param("username"), c.Request.URL.Query())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile Not Found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// Accept starts the conversation
// POST /api/invites/:id/accept
func (h *InviteHandler) Accept(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	inv, conv, err := h.inviteService.Accept(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invite": inv, "conversation": conv})
}

// Decline rejects the invite for the signed-in recipient
// POST /api/invites/:id/decline
func (h *InviteHandler) Decline(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	inv, err := h.inviteService.Decline(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invite": inv})
}

// Propose sends a counter-proposal to the inviter
// POST /api/invites/:id/proposals
func (h *InviteHandler) Propose(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var in services.ProposalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	proposal, err := h.inviteService.Propose(c.Request.Context(), c.Param("id"), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"proposal": proposal})
}

// ListProposals is visible to the inviter only
// GET /api/invites/:id/proposals
func (h *InviteHandler) ListProposals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	proposals, err := h.inviteService.ListProposals(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

// AcceptProposal applies the proposal's terms to the invite
// POST /api/invites/:id/proposals/:pid/accept
func (h *InviteHandler) AcceptProposal(c *gin.Context) {
	h.respondToProposal(c, true)
}

// DismissProposal keeps the original terms
// POST /api/invites/:id/proposals/:pid/dismiss
func (h *InviteHandler) DismissProposal(c *gin.Context) {
	h.respondToProposal(c, false)
}

func (h *InviteHandler) respondToProposal(c *gin.Context, apply bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	inv, err := h.inviteService.RespondToProposal(c.Request.Context(), c.Param("id"), c.Param("pid"), userID, apply)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invite": inv, "url": h.inviteService.ShareURL(inv)})
}
