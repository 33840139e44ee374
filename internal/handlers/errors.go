package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"arena/internal/auth"
	"arena/internal/invite"
	"arena/internal/payment"
	"arena/internal/services"
)

const genericError = "Something went wrong. Please try again later."

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, err error) {
	var (
		verr    *services.ValidationError
		cardErr *payment.CardError
		authErr *auth.Error
	)
	switch {
	case errors.As(err, &authErr):
		body := gin.H{"error": auth.FriendlyMessage(authErr.Code), "code": authErr.Code}
		if authErr.Suggestion != "" {
			body["suggestion"] = authErr.Suggestion
		}
		status := http.StatusBadRequest
		switch authErr.Code {
		case auth.CodeInvalidCredential, auth.CodeUserNotFound, auth.CodeWrongPassword:
			status = http.StatusUnauthorized
		case auth.CodeEmailAlreadyInUse, auth.CodeUsernameTaken:
			status = http.StatusConflict
		}
		c.JSON(status, body)
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.As(err, &cardErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please check your card details.", "fields": cardErr.Fields})
	case errors.Is(err, payment.ErrInvalidCard),
		errors.Is(err, payment.ErrInvalidWallet),
		errors.Is(err, payment.ErrInvalidSignature),
		errors.Is(err, payment.ErrUnsupportedMethod),
		errors.Is(err, invite.ErrNoTopics),
		errors.Is(err, invite.ErrTopicRejected),
		errors.Is(err, invite.ErrInvalidValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, invite.ErrInvalidTransition), errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericError})
	}
}

func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return userID, ok
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
