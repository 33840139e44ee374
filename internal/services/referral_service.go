package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"arena/internal/logger"
	"arena/internal/models"
)

type ReferralService struct {
	db *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{db: db}
}

// RecordReferral links a new user to the referrer named by username. Unknown
// referrers and self-referrals are ignored.
func (s *ReferralService) RecordReferral(ctx context.Context, tx *gorm.DB, referrerUsername string, referred *models.User, source string) error {
	referrerUsername = strings.TrimSpace(referrerUsername)
	if referrerUsername == "" || referrerUsername == referred.Username {
		return nil
	}

	var referrer models.User
	err := tx.WithContext(ctx).Where("username = ?", referrerUsername).First(&referrer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debugf("ignoring referral from unknown user %q", referrerUsername)
		return nil
	}
	if err != nil {
		return err
	}

	referral := models.Referral{
		ReferrerID:     referrer.ID,
		ReferredUserID: referred.ID,
		Source:         source,
	}
	if err := tx.WithContext(ctx).Create(&referral).Error; err != nil {
		return fmt.Errorf("failed to create referral: %w", err)
	}

	referred.ReferrerID = &referrer.ID
	if err := tx.WithContext(ctx).Model(referred).Update("referrer_id", referrer.ID).Error; err != nil {
		return fmt.Errorf("failed to set referrer: %w", err)
	}

	logger.Infof("User %d referred by %s (%s)", referred.ID, referrerUsername, source)
	return nil
}

// ListReferrals returns the users referred by userID
func (s *ReferralService) ListReferrals(ctx context.Context, userID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	err := s.db.WithContext(ctx).
		Preload("ReferredUser").
		Where("referrer_id = ?", userID).
		Order("referred_at DESC").
		Find(&referrals).Error
	return referrals, err
}

// ReferralLink is the sign-up link a user shares with friends
func ReferralLink(baseURL, username string) string {
	return strings.TrimRight(baseURL, "/") + "/register?referral=" + url.QueryEscape(username)
}
