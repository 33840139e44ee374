package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"gorm.io/gorm"

	"arena/internal/invite"
	"arena/internal/logger"
	"arena/internal/models"
	"arena/internal/repository"
)

// Admin actions written to the audit log
const (
	ActionSetRole            = "SET_ROLE"
	ActionReviewVerification = "REVIEW_VERIFICATION"
)

// Dashboard holds the admin console counters
type Dashboard struct {
	Users                int64                  `json:"users"`
	Conversations        int64                  `json:"conversations"`
	Invites              map[invite.State]int64 `json:"invites"`
	PendingVerifications int64                  `json:"pending_verifications"`
}

type AdminService struct {
	db            *gorm.DB
	repo          *repository.Repository
	users         *UserService
	verifications *VerificationService
	mu            sync.Mutex
}

func NewAdminService(db *gorm.DB, users *UserService, verifications *VerificationService) *AdminService {
	return &AdminService{
		db:            db,
		repo:          repository.NewRepository(db),
		users:         users,
		verifications: verifications,
	}
}

// Dashboard returns platform counters
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&d.Users).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Conversation{}).Count(&d.Conversations).Error; err != nil {
		return nil, err
	}
	invites, err := s.repo.CountInvitesByStatus(ctx)
	if err != nil {
		return nil, err
	}
	d.Invites = invites
	if d.PendingVerifications, err = s.verifications.CountPending(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// ListUsers returns a page of users matching search
func (s *AdminService) ListUsers(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error) {
	return s.users.ListUsers(ctx, search, limit, offset)
}

// SetRole promotes or demotes a user. Admins cannot demote themselves.
func (s *AdminService) SetRole(ctx context.Context, adminID, userID uint, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, invalidf("Role must be %q or %q.", models.RoleUser, models.RoleAdmin)
	}
	if adminID == userID && role != models.RoleAdmin {
		return nil, fmt.Errorf("admins cannot demote themselves: %w", ErrForbidden)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := user.Role
	if previous == role {
		return user, nil
	}
	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = role

	s.LogAdminAction(ctx, adminID, ActionSetRole, "USER", strconv.FormatUint(uint64(userID), 10), map[string]interface{}{
		"from": previous,
		"to":   role,
	})
	logger.Infof("User %d role changed from %s to %s by admin %d", userID, previous, role, adminID)
	return user, nil
}

// PendingVerifications lists submitted verifications awaiting review
func (s *AdminService) PendingVerifications(ctx context.Context, limit int) ([]models.Verification, error) {
	return s.verifications.ListPending(ctx, limit)
}

// ReviewVerification approves or rejects a verification
func (s *AdminService) ReviewVerification(ctx context.Context, adminID, verificationID uint, approve bool, note string) (*models.Verification, error) {
	v, err := s.verifications.Review(ctx, adminID, verificationID, approve, note)
	if err != nil {
		return nil, err
	}
	s.LogAdminAction(ctx, adminID, ActionReviewVerification, "VERIFICATION", strconv.FormatUint(uint64(verificationID), 10), map[string]interface{}{
		"approve":  approve,
		"platform": v.Platform,
		"user_id":  v.UserID,
		"note":     v.ReviewNote,
	})
	return v, nil
}

// LogAdminAction logs an admin action
func (s *AdminService) LogAdminAction(ctx context.Context, adminID uint, action, resourceType, resourceID string, details map[string]interface{}) {
	adminLog := models.AdminLog{
		AdminID:      adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      models.JSONB(details),
	}
	if err := s.db.WithContext(ctx).Create(&adminLog).Error; err != nil {
		logger.Errorf("failed to write admin log %s: %v", action, err)
	}
}

// GetAdminLogs returns admin activity logs
func (s *AdminService) GetAdminLogs(ctx context.Context, limit, offset int) ([]models.AdminLog, error) {
	var logs []models.AdminLog
	if err := s.db.WithContext(ctx).Preload("Admin").
		Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
