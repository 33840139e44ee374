package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arena/internal/auth"
	"arena/internal/services"
)

type ConversationHandler struct {
	conversationService *services.ConversationService
}

func NewConversationHandler(conversationService *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// GetMyConversations
// GET /api/conversations
func (h *ConversationHandler) GetMyConversations(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	conversations, err := h.conversationService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetRecent lists recently active conversations for the home feed
// GET /api/conversations/recent
func (h *ConversationHandler) GetRecent(c *gin.Context) {
	limit, _ := pagination(c)
	conversations, err := h.conversationService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetConversation is readable by anyone
// GET /api/conversations/:id
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	viewerID, _ := auth.GetUserID(c)
	view, err := h.conversationService.Get(c.Request.Context(), id, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetTopics
// GET /api/conversations/:id/topics
func (h *ConversationHandler) GetTopics(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	topics, err := h.conversationService.ListTopics(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// GetMessages returns the messages posted under one topic
// GET /api/conversations/:id/messages?topic=
func (h *ConversationHandler) GetMessages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	messages, err := h.conversationService.ListMessages(c.Request.Context(), id, c.Query("topic"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostMessage
// POST /api/conversations/:id/messages
func (h *ConversationHandler) PostMessage(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.MessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	msg, err := h.conversationService.AddMessage(c.Request.Context(), id, userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// GetProgress
// GET /api/conversations/:id/progress
func (h *ConversationHandler) GetProgress(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	progress, err := h.conversationService.Progress(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Love toggles the current user's love on a message
// POST /api/messages/:id/love
func (h *ConversationHandler) Love(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	loved, err := h.conversationService.Love(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loved": loved})
}

// View counts a view
// POST /api/messages/:id/view
func (h *ConversationHandler) View(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.conversationService.View(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetComments
// GET /api/messages/:id/comments
func (h *ConversationHandler) GetComments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	comments, err := h.conversationService.ListComments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// PostComment
// POST /api/messages/:id/comments
func (h *ConversationHandler) PostComment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	comment, err := h.conversationService.AddComment(c.Request.Context(), id, userID, req.Content, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// TogglePin pins or unpins a comment; hosts only
// POST /api/comments/:id/pin
func (h *ConversationHandler) TogglePin(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	comment, err := h.conversationService.TogglePin(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}
