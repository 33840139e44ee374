package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"arena/internal/auth"
	"arena/internal/services"
	"arena/internal/social"
)

// ProfileHandler serves profiles, social links and referrals
type ProfileHandler struct {
	userService     *services.UserService
	referralService *services.ReferralService
	publicBaseURL   string
}

func NewProfileHandler(userService *services.UserService, referralService *services.ReferralService, publicBaseURL string) *ProfileHandler {
	return &ProfileHandler{
		userService:     userService,
		referralService: referralService,
		publicBaseURL:   publicBaseURL,
	}
}

func respondProfileError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile Not Found"})
		return
	}
	respondError(c, err)
}

// GetProfile returns a public profile
// GET /api/profiles/:username
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GetMyProfile returns the signed-in user's profile
// GET /api/profile
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	profile, err := h.userService.GetProfileByUsername(c.Request.Context(), user.Username)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":       profile,
		"email":         user.Email,
		"role":          user.Role,
		"referral_link": services.ReferralLink(h.publicBaseURL, user.Username),
	})
}

// UpdateProfile changes name, username, bio or avatar
// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req services.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RemoveAvatar clears the profile picture
// DELETE /api/profile/avatar
func (h *ProfileHandler) RemoveAvatar(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.userService.RemoveAvatar(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Avatar removed"})
}

func platformParam(c *gin.Context) (social.Platform, bool) {
	p, ok := social.Parse(c.Param("platform"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown platform"})
	}
	return p, ok
}

// SetSocialLink saves the profile URL of one platform
// PUT /api/profile/social/:platform
func (h *ProfileHandler) SetSocialLink(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	link, err := h.userService.SetSocialLink(c.Request.Context(), userID, platform, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link})
}

// RemoveSocialLink deletes one platform link
// DELETE /api/profile/social/:platform
func (h *ProfileHandler) RemoveSocialLink(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	if err := h.userService.RemoveSocialLink(c.Request.Context(), userID, platform); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Link removed"})
}

// GetReferrals lists users who signed up through the user's links
// GET /api/referrals
func (h *ProfileHandler) GetReferrals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	username, _ := auth.GetUsername(c)
	referrals, err := h.referralService.ListReferrals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"referrals":     referrals,
		"referral_link": services.ReferralLink(h.publicBaseURL, username),
	})
}
