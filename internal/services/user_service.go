package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"arena/internal/cache"
	"arena/internal/models"
	"arena/internal/social"
)

// Profile is the public view of a user
type Profile struct {
	ID          uint                       `json:"id"`
	Name        string                     `json:"name"`
	Username    string                     `json:"username"`
	Bio         string                     `json:"bio"`
	AvatarURL   *string                    `json:"avatar_url,omitempty"`
	SocialLinks map[social.Platform]string `json:"social_links"`
	Verified    []social.Platform          `json:"verified_platforms"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// UpdateProfileInput holds optional profile changes; nil fields are left alone
type UpdateProfileInput struct {
	Name      *string `json:"name"`
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// UserService handles user-related business logic
type UserService struct {
	db    *gorm.DB
	cache *cache.VerificationCache
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB, c *cache.VerificationCache) *UserService {
	return &UserService{db: db, cache: c}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "profile")
	}
	return &user, nil
}

// GetProfileByUsername returns the public profile of a user
func (s *UserService) GetProfileByUsername(ctx context.Context, username string) (*Profile, error) {
	user, err := s.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

func (s *UserService) profile(ctx context.Context, user *models.User) (*Profile, error) {
	var links []models.SocialLink
	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).Find(&links).Error; err != nil {
		return nil, err
	}
	var verified []models.Verification
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", user.ID, social.StatusVerified).
		Find(&verified).Error; err != nil {
		return nil, err
	}

	p := &Profile{
		ID:          user.ID,
		Name:        user.Name,
		Username:    user.Username,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		SocialLinks: make(map[social.Platform]string, len(links)),
		Verified:    []social.Platform{},
		CreatedAt:   user.CreatedAt,
	}
	for _, l := range links {
		p.SocialLinks[l.Platform] = l.URL
	}
	for _, platform := range social.All {
		for _, v := range verified {
			if v.Platform == platform {
				p.Verified = append(p.Verified, platform)
			}
		}
	}
	return p, nil
}

// UpdateProfile applies the non-nil fields of in
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalidf("Name cannot be empty.")
		}
		updates["name"] = name
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if !usernamePattern.MatchString(username) {
			return nil, invalidf("Username must be 3-30 letters, numbers or underscores.")
		}
		if !strings.EqualFold(username, user.Username) {
			var count int64
			s.db.WithContext(ctx).Model(&models.User{}).
				Where("LOWER(username) = ? AND id <> ?", strings.ToLower(username), userID).
				Count(&count)
			if count > 0 {
				return nil, fmt.Errorf("username %w", ErrConflict)
			}
		}
		updates["username"] = username
	}
	if in.Bio != nil {
		updates["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.AvatarURL != nil {
		avatar := strings.TrimSpace(*in.AvatarURL)
		if avatar == "" {
			updates["avatar_url"] = nil
		} else {
			updates["avatar_url"] = avatar
		}
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("username %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetUserByID(ctx, userID)
}

// RemoveAvatar clears the profile picture
func (s *UserService) RemoveAvatar(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("avatar_url", nil).Error
}

// SetSocialLink stores the profile URL of one platform. Changing the URL
// resets that platform's verification.
func (s *UserService) SetSocialLink(ctx context.Context, userID uint, platform social.Platform, rawURL string) (*models.SocialLink, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !social.ValidProfileURL(platform, rawURL) {
		return nil, invalidf("Please enter a valid %s profile URL.", platform.DisplayName())
	}

	var link models.SocialLink
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND platform = ?", userID, platform).First(&link).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			link = models.SocialLink{UserID: userID, Platform: platform, URL: rawURL}
			return tx.Create(&link).Error
		case err != nil:
			return err
		case link.URL == rawURL:
			return nil
		}

		link.URL = rawURL
		if err := tx.Save(&link).Error; err != nil {
			return err
		}
		return resetVerification(tx, userID, platform)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save social link: %w", err)
	}

	_ = s.cache.Invalidate(ctx, userID)
	return &link, nil
}

// RemoveSocialLink deletes a platform link and its verification
func (s *UserService) RemoveSocialLink(ctx context.Context, userID uint, platform social.Platform) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND platform = ?", userID, platform).Delete(&models.SocialLink{}).Error; err != nil {
			return err
		}
		return resetVerification(tx, userID, platform)
	})
	if err != nil {
		return fmt.Errorf("failed to remove social link: %w", err)
	}
	_ = s.cache.Invalidate(ctx, userID)
	return nil
}

func resetVerification(tx *gorm.DB, userID uint, platform social.Platform) error {
	return tx.Where("user_id = ? AND platform = ?", userID, platform).Delete(&models.Verification{}).Error
}

// ListUsers returns users for the admin console, newest first
func (s *UserService) ListUsers(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
