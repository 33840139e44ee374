package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"arena/internal/invite"
	"arena/internal/logger"
	"arena/internal/metrics"
	"arena/internal/models"
	"arena/internal/payment"
)

// AuthorizeInput is the payment step of the invite composer
type AuthorizeInput struct {
	Amount    string               `json:"amount"`
	Method    invite.PaymentMethod `json:"method"`
	Card      payment.Card         `json:"card"`
	Wallet    string               `json:"wallet"`
	Signature string               `json:"signature"`
}

// PaymentService places and cancels simulated payment holds
type PaymentService struct {
	db         *gorm.DB
	authorizer payment.Authorizer
	feePercent decimal.Decimal
	metrics    *metrics.Metrics
}

func NewPaymentService(db *gorm.DB, authorizer payment.Authorizer, feePercent decimal.Decimal, m *metrics.Metrics) *PaymentService {
	return &PaymentService{db: db, authorizer: authorizer, feePercent: feePercent, metrics: m}
}

// Quote returns the amount with the service fee added
func (s *PaymentService) Quote(amount string) (payment.Quote, error) {
	value, ok := invite.ParseAmount(amount)
	if !ok {
		return payment.Quote{}, invalidf("Amount must be a positive number.")
	}
	return payment.NewQuote(value, s.feePercent), nil
}

// Authorize places a hold. A hold interrupted by ctx is recorded as cancelled.
func (s *PaymentService) Authorize(ctx context.Context, userID uint, in AuthorizeInput) (*models.PaymentAuthorization, error) {
	if !in.Method.Valid() {
		return nil, invalidf("Please choose a payment method.")
	}
	quote, err := s.Quote(in.Amount)
	if err != nil {
		return nil, err
	}

	result, authErr := s.authorizer.Authorize(ctx, payment.Request{
		Method:    in.Method,
		Amount:    quote.Amount,
		Card:      in.Card.Normalize(),
		Wallet:    in.Wallet,
		Signature: in.Signature,
	})
	status := invite.PaymentAuthorized
	switch {
	case authErr == nil:
	case errors.Is(authErr, context.Canceled), errors.Is(authErr, context.DeadlineExceeded):
		status = invite.PaymentCancelled
	default:
		s.metrics.PaymentAuthorization(string(in.Method), "rejected")
		return nil, authErr
	}

	auth := &models.PaymentAuthorization{
		ID:            uuid.NewString(),
		UserID:        userID,
		Method:        in.Method,
		Amount:        quote.Amount,
		Fee:           quote.Fee,
		Total:         quote.Total,
		Status:        status,
		CardLast4:     result.CardLast4,
		WalletAddress: result.WalletAddress,
		Signature:     result.Signature,
	}
	// the caller may have gone away; the record is still written
	if err := s.db.WithContext(context.WithoutCancel(ctx)).Create(auth).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment authorization: %w", err)
	}
	s.metrics.PaymentAuthorization(string(in.Method), string(status))
	logger.Infof("payment %s for user %d: %s %s via %s", auth.ID, userID, status, quote.Total, in.Method)

	if authErr != nil {
		return auth, authErr
	}
	return auth, nil
}

// Get returns one of the user's authorizations
func (s *PaymentService) Get(ctx context.Context, userID uint, id string) (*models.PaymentAuthorization, error) {
	var auth models.PaymentAuthorization
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&auth).Error; err != nil {
		return nil, notFound(err, "payment")
	}
	return &auth, nil
}

// Cancel releases an authorized hold
func (s *PaymentService) Cancel(ctx context.Context, userID uint, id string) (*models.PaymentAuthorization, error) {
	auth, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if auth.Status != invite.PaymentAuthorized {
		return nil, fmt.Errorf("payment is %s: %w", auth.Status, ErrConflict)
	}
	res := s.db.WithContext(ctx).Model(&models.PaymentAuthorization{}).
		Where("id = ? AND status = ?", id, invite.PaymentAuthorized).
		Update("status", invite.PaymentCancelled)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to cancel payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("payment changed concurrently: %w", ErrConflict)
	}
	s.metrics.PaymentAuthorization(string(auth.Method), string(invite.PaymentCancelled))
	auth.Status = invite.PaymentCancelled
	return auth, nil
}

// authorizedFor checks that id is an authorized hold of userID covering amount
func (s *PaymentService) authorizedFor(ctx context.Context, userID uint, id string, amount decimal.Decimal) (*models.PaymentAuthorization, error) {
	auth, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if auth.Status != invite.PaymentAuthorized {
		return nil, invalidf("Payment has not been authorized.")
	}
	if !auth.Amount.Equal(amount) {
		return nil, invalidf("Payment amount does not match the authorization.")
	}
	return auth, nil
}
