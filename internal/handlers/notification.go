package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arena/internal/auth"
	"arena/internal/logger"
	"arena/internal/models"
	"arena/internal/navigation"
	"arena/internal/realtime"
	"arena/internal/services"
)

// NotificationHandler serves notifications, their live counters and the
// navigation bar that shows them
type NotificationHandler struct {
	notificationService *services.NotificationService
	hub                 *realtime.Hub
}

func NewNotificationHandler(notificationService *services.NotificationService, hub *realtime.Hub) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, hub: hub}
}

// List returns notifications filtered by all, unread or messages
// GET /api/notifications?filter=
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	notifications, err := h.notificationService.List(c.Request.Context(), userID, c.DefaultQuery("filter", services.FilterAll))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// UnreadCounts returns the bell and message badges
// GET /api/notifications/unread
func (h *NotificationHandler) UnreadCounts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	counts, err := h.notificationService.UnreadCounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// MarkAsRead marks one notification read
// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.MarkAsRead(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// MarkAllAsRead marks a channel read
// POST /api/notifications/read-all?channel=bell|message
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	channel := c.DefaultQuery("channel", models.ChannelBell)
	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID, channel); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// Stream upgrades to a websocket that receives unread counter updates
// GET /api/notifications/ws?access_token=
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := h.hub.Serve(ctx, c.Writer, c.Request, userID, func(client *realtime.Client) {
		counts, err := h.notificationService.UnreadCounts(ctx, userID)
		if err != nil {
			logger.Warnf("initial unread counts for user %d: %v", userID, err)
			return
		}
		_ = client.Send(services.EventUnreadCounts, counts)
	})
	if err != nil {
		logger.Debugf("websocket upgrade for user %d: %v", userID, err)
	}
}

// Navigation returns the navigation bar for the current path
// GET /api/nav?path=
func (h *NotificationHandler) Navigation(c *gin.Context) {
	state := navigation.State{Path: c.DefaultQuery("path", "/")}
	if userID, ok := auth.GetUserID(c); ok {
		state.Authenticated = true
		state.Username, _ = auth.GetUsername(c)
		role, _ := auth.GetRole(c)
		state.IsAdmin = role == models.RoleAdmin
		counts, err := h.notificationService.UnreadCounts(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		state.UnreadBell, state.UnreadMessages = counts.Bell, counts.Message
	}
	c.JSON(http.StatusOK, navigation.Build(state))
}
