package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"arena/internal/auth"
	"arena/internal/logger"
	"arena/internal/models"
	"arena/internal/utils"
)

const minPasswordLength = 6

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	fieldValidator  = validator.New()
)

// RegisterInput is the sign-up form
type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	// Referral is the username from a /register?referral= link
	Referral string `json:"referral"`
	// InvitedBy is the inviter's username from an accepted invite
	InvitedBy string `json:"invited_by"`
}

// AuthService handles authentication business logic
type AuthService struct {
	db        *gorm.DB
	referrals *ReferralService
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB, referrals *ReferralService) *AuthService {
	return &AuthService{db: db, referrals: referrals}
}

// Register validates the form and creates the account. Failures are *auth.Error
// values whose codes map to friendly messages.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	if in.Name == "" || in.Email == "" || in.Username == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, "", auth.NewError(auth.CodeMissingFields)
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", auth.NewError(auth.CodePasswordMismatch)
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", auth.NewError(auth.CodeWeakPassword)
	}
	if fieldValidator.Var(in.Email, "email") != nil {
		return nil, "", auth.NewError(auth.CodeInvalidEmail)
	}
	if !usernamePattern.MatchString(in.Username) {
		return nil, "", invalidf("Username must be 3-30 letters, numbers or underscores.")
	}
	if err := s.checkAvailable(ctx, in.Email, in.Username); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// lost a race with another sign-up
				if cerr := s.checkAvailable(ctx, in.Email, in.Username); cerr != nil {
					return cerr
				}
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		if in.InvitedBy != "" {
			return s.referrals.RecordReferral(ctx, tx, in.InvitedBy, &user, models.ReferralSourceInvite)
		}
		return s.referrals.RecordReferral(ctx, tx, in.Referral, &user, models.ReferralSourceProfile)
	})
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", err
	}

	logger.Infof("New user created: %s (ID: %d)", user.Username, user.ID)
	return &user, token, nil
}

func (s *AuthService) checkAvailable(ctx context.Context, email, username string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return auth.NewError(auth.CodeEmailAlreadyInUse)
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("LOWER(username) = ?", strings.ToLower(username)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		e := auth.NewError(auth.CodeUsernameTaken)
		e.Suggestion, _ = utils.SuggestUsername(username)
		return e
	}
	return nil
}

// Login checks the credentials and issues a session token. Unknown users and
// wrong passwords are reported the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", auth.NewError(auth.CodeInvalidCredential)
	}
	if fieldValidator.Var(email, "email") != nil {
		return nil, "", auth.NewError(auth.CodeInvalidEmail)
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", auth.NewError(auth.CodeInvalidCredential)
	}
	if err != nil {
		return nil, "", fmt.Errorf("database error: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", auth.NewError(auth.CodeInvalidCredential)
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", err
	}

	logger.Debugf("User logged in: %s (ID: %d)", user.Username, user.ID)
	return &user, token, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}
