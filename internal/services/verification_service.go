package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"arena/internal/cache"
	"arena/internal/logger"
	"arena/internal/models"
	"arena/internal/social"
	"arena/internal/storage"
	"arena/internal/utils"
)

// MaxScreenshotSize is the largest accepted verification screenshot
const MaxScreenshotSize = 10 << 20

var screenshotTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".heic": "image/heic",
	".webp": "image/webp",
}

// Screenshot is the uploaded evidence of a verification
type Screenshot struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// VerificationService runs the code based social account verification
type VerificationService struct {
	db      *gorm.DB
	cache   *cache.VerificationCache
	store   storage.Store
	notify  *NotificationService
	codeTTL time.Duration
	now     func() time.Time
}

func NewVerificationService(db *gorm.DB, c *cache.VerificationCache, store storage.Store, notify *NotificationService, codeTTL time.Duration) *VerificationService {
	return &VerificationService{
		db:      db,
		cache:   c,
		store:   store,
		notify:  notify,
		codeTTL: codeTTL,
		now:     time.Now,
	}
}

// Start issues a fresh code for a linked platform and moves it to pending
func (s *VerificationService) Start(ctx context.Context, userID uint, platform social.Platform) (*models.Verification, error) {
	if !platform.Valid() {
		return nil, invalidf("unknown platform %q", platform)
	}
	var link models.SocialLink
	err := s.db.WithContext(ctx).Where("user_id = ? AND platform = ?", userID, platform).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalidf("Add your %s profile link before verifying.", platform.DisplayName())
	}
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return nil, err
	}
	now := s.now()
	expires := now.Add(s.codeTTL)

	var v models.Verification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND platform = ?", userID, platform).
			First(&v).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if v.Status == social.StatusVerified {
			return fmt.Errorf("%s is already verified: %w", platform.DisplayName(), ErrConflict)
		}
		v.UserID = userID
		v.Platform = platform
		v.Status = social.StatusPending
		v.Code = code
		v.CodeExpiresAt = &expires
		v.ScreenshotPath = ""
		v.ProofURL = ""
		v.SubmittedAt = nil
		v.ReviewedBy = nil
		v.ReviewedAt = nil
		v.ReviewNote = ""
		return tx.Save(&v).Error
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to start verification: %w", err)
	}
	s.invalidate(ctx, userID)
	return &v, nil
}

// Submit attaches the screenshot (and optional post URL) to a pending
// verification. The status stays pending until an admin reviews it.
func (s *VerificationService) Submit(ctx context.Context, userID uint, platform social.Platform, shot *Screenshot, proofURL string) (*models.Verification, error) {
	if shot == nil || shot.Body == nil {
		return nil, invalidf("A screenshot is required.")
	}
	ext := strings.ToLower(path.Ext(shot.Filename))
	contentType, ok := screenshotTypes[ext]
	if !ok {
		return nil, invalidf("Screenshot must be a PNG, JPG, HEIC or WebP image.")
	}
	if shot.Size > MaxScreenshotSize {
		return nil, invalidf("Screenshot must be 10 MB or smaller.")
	}
	proofURL = strings.TrimSpace(proofURL)
	if proofURL != "" && !social.OnPlatform(platform, proofURL) {
		return nil, invalidf("The post URL must be a %s link.", platform.DisplayName())
	}

	v, err := s.get(ctx, userID, platform)
	if err != nil {
		return nil, err
	}
	if v.Status != social.StatusPending {
		return nil, invalidf("Start verification before submitting proof.")
	}
	now := s.now()
	if v.CodeExpiresAt != nil && now.After(*v.CodeExpiresAt) {
		return nil, fmt.Errorf("verification code %w", ErrExpired)
	}

	key := fmt.Sprintf("verifications/%d/%s-%d%s", userID, platform, now.Unix(), ext)
	body := io.LimitReader(shot.Body, MaxScreenshotSize+1)
	location, err := s.store.Save(ctx, key, body, shot.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store screenshot: %w", err)
	}

	res := s.db.WithContext(ctx).Model(&models.Verification{}).
		Where("id = ? AND status = ?", v.ID, social.StatusPending).
		Updates(map[string]interface{}{
			"screenshot_path": location,
			"proof_url":       proofURL,
			"submitted_at":    now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to submit verification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("verification changed concurrently: %w", ErrConflict)
	}
	s.invalidate(ctx, userID)
	return s.get(ctx, userID, platform)
}

// Review settles a submitted verification
func (s *VerificationService) Review(ctx context.Context, adminID, verificationID uint, approve bool, note string) (*models.Verification, error) {
	var v models.Verification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, verificationID).Error; err != nil {
			return notFound(err, "verification")
		}
		if v.Status != social.StatusPending || v.SubmittedAt == nil {
			return invalidf("Only submitted verifications can be reviewed.")
		}
		now := s.now()
		v.Status = social.StatusFailed
		if approve {
			v.Status = social.StatusVerified
		}
		v.ReviewedBy = &adminID
		v.ReviewedAt = &now
		v.ReviewNote = strings.TrimSpace(note)
		return tx.Save(&v).Error
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, v.UserID)

	title := "Verification approved"
	if !approve {
		title = "Verification rejected"
	}
	s.notify.Notify(ctx, &models.Notification{
		UserID: v.UserID,
		Type:   models.NotificationMention,
		Title:  title,
		Body:   fmt.Sprintf("Your %s account verification was reviewed.", v.Platform.DisplayName()),
		Link:   "/profile",
	})
	return &v, nil
}

// Status returns every platform's state, missing ones as unverified
func (s *VerificationService) Status(ctx context.Context, userID uint) ([]social.PlatformStatus, error) {
	if statuses, ok, err := s.cache.Get(ctx, userID); err != nil {
		logger.Warnf("verification cache read for user %d: %v", userID, err)
	} else if ok {
		return statuses, nil
	}

	var links []models.SocialLink
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&links).Error; err != nil {
		return nil, err
	}
	var rows []models.Verification
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}

	statuses := make([]social.PlatformStatus, 0, len(social.All))
	for _, platform := range social.All {
		st := social.PlatformStatus{Platform: platform, Status: social.StatusUnverified}
		for _, l := range links {
			if l.Platform == platform {
				st.URL = l.URL
			}
		}
		for i := range rows {
			if rows[i].Platform != platform {
				continue
			}
			v := rows[i]
			st.Status = v.Status
			if v.Status == social.StatusPending {
				st.Code = v.Code
				st.CodeExpiresAt = v.CodeExpiresAt
			}
			st.SubmittedAt = v.SubmittedAt
			updated := v.UpdatedAt
			st.UpdatedAt = &updated
		}
		statuses = append(statuses, st)
	}

	if err := s.cache.Set(ctx, userID, statuses); err != nil {
		logger.Warnf("verification cache write for user %d: %v", userID, err)
	}
	return statuses, nil
}

// ListPending returns submitted verifications awaiting review, oldest first
func (s *VerificationService) ListPending(ctx context.Context, limit int) ([]models.Verification, error) {
	var rows []models.Verification
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("status = ? AND submitted_at IS NOT NULL", social.StatusPending).
		Order("submitted_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// CountPending counts verifications awaiting review
func (s *VerificationService) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Verification{}).
		Where("status = ? AND submitted_at IS NOT NULL", social.StatusPending).
		Count(&count).Error
	return count, err
}

// ExpireOverdue fails pending verifications whose code ran out before any
// proof was submitted. It returns the number of rows changed.
func (s *VerificationService) ExpireOverdue(ctx context.Context) (int, error) {
	var rows []models.Verification
	err := s.db.WithContext(ctx).
		Where("status = ? AND submitted_at IS NULL AND code_expires_at < ?", social.StatusPending, s.now()).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, v := range rows {
		res := s.db.WithContext(ctx).Model(&models.Verification{}).
			Where("id = ? AND status = ? AND submitted_at IS NULL", v.ID, social.StatusPending).
			Updates(map[string]interface{}{"status": social.StatusFailed, "review_note": "code expired"})
		if res.Error != nil {
			return expired, res.Error
		}
		if res.RowsAffected > 0 {
			expired++
			s.invalidate(ctx, v.UserID)
		}
	}
	return expired, nil
}

func (s *VerificationService) get(ctx context.Context, userID uint, platform social.Platform) (*models.Verification, error) {
	var v models.Verification
	err := s.db.WithContext(ctx).Where("user_id = ? AND platform = ?", userID, platform).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalidf("Start verification before submitting proof.")
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VerificationService) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Warnf("%v", err)
	}
}
