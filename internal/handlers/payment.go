package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arena/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// GetQuote
// GET /api/payments/quote?amount=
func (h *PaymentHandler) GetQuote(c *gin.Context) {
	quote, err := h.paymentService.Quote(c.Query("amount"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Authorize places a hold on the card or wallet
// POST /api/payments/authorize
func (h *PaymentHandler) Authorize(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var in services.AuthorizeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	auth, err := h.paymentService.Authorize(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"authorization": auth})
}

// GetAuthorization
// GET /api/payments/:id
func (h *PaymentHandler) GetAuthorization(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	auth, err := h.paymentService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorization": auth})
}

// Cancel releases a hold
// POST /api/payments/:id/cancel
func (h *PaymentHandler) Cancel(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	auth, err := h.paymentService.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorization": auth})
}
