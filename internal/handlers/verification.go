package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arena/internal/services"
)

type VerificationHandler struct {
	verificationService *services.VerificationService
}

func NewVerificationHandler(verificationService *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// GetStatus returns the verification state of every platform
// GET /api/verifications
func (h *VerificationHandler) GetStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	statuses, err := h.verificationService.Status(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verifications": statuses})
}

// Start issues a verification code
// POST /api/verifications/:platform/start
func (h *VerificationHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	v, err := h.verificationService.Start(c.Request.Context(), userID, platform)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"platform":        v.Platform,
		"status":          v.Status,
		"code":            v.Code,
		"code_expires_at": v.CodeExpiresAt,
	})
}

// Submit uploads the screenshot proving the code was posted
// POST /api/verifications/:platform/submit (multipart: screenshot, proof_url)
func (h *VerificationHandler) Submit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxScreenshotSize+1<<20)

	fh, err := c.FormFile("screenshot")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A screenshot is required."})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	shot := &services.Screenshot{Filename: fh.Filename, Size: fh.Size, Body: f}
	v, err := h.verificationService.Submit(c.Request.Context(), userID, platform, shot, c.PostForm("proof_url"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verification": v})
}
