package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arena/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetDashboard
// GET /api/admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetUsers
// GET /api/admin/users?search=&limit=&offset=
func (h *AdminHandler) GetUsers(c *gin.Context) {
	limit, offset := pagination(c)
	users, total, err := h.adminService.ListUsers(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetUserRole
// PUT /api/admin/users/:id/role
func (h *AdminHandler) SetUserRole(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}
	user, err := h.adminService.SetRole(c.Request.Context(), adminID, userID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetPendingVerifications lists submitted screenshots awaiting review
// GET /api/admin/verifications
func (h *AdminHandler) GetPendingVerifications(c *gin.Context) {
	limit, _ := pagination(c)
	verifications, err := h.adminService.PendingVerifications(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verifications": verifications})
}

type reviewRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Note    string `json:"note"`
}

// ReviewVerification
// POST /api/admin/verifications/:id/review
func (h *AdminHandler) ReviewVerification(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approve is required"})
		return
	}
	v, err := h.adminService.ReviewVerification(c.Request.Context(), adminID, id, *req.Approve, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verification": v})
}

// GetAdminLogs
// GET /api/admin/logs
func (h *AdminHandler) GetAdminLogs(c *gin.Context) {
	limit, offset := pagination(c)
	logs, err := h.adminService.GetAdminLogs(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"logs":   logs,
		"limit":  limit,
		"offset": offset,
		"count":  len(logs),
	})
}
