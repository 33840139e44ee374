package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena/internal/invite"
	"arena/internal/metrics"
	"arena/internal/models"
	"arena/internal/payment"
)

func testCard() payment.Card {
	return payment.Card{Number: "4242424242424242", Expiry: "0130", CVC: "123", Name: "Sam"}
}

func TestPaymentQuote(t *testing.T) {
	f := newFixture(t)
	q, err := f.payments.Quote("100")
	require.NoError(t, err)
	assert.Equal(t, "7", q.Fee.String())
	assert.Equal(t, "107", q.Total.String())

	_, err = f.payments.Quote("-5")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestAuthorizeCard(t *testing.T) {
	f := newFixture(t)
	sam := createUser(t, f.db, "samc")
	ctx := context.Background()

	auth, err := f.payments.Authorize(ctx, sam.ID, AuthorizeInput{Amount: "50", Method: invite.MethodStripe, Card: testCard()})
	require.NoError(t, err)
	assert.Equal(t, invite.PaymentAuthorized, auth.Status)
	assert.Equal(t, "4242", auth.CardLast4)
	assert.Equal(t, "3.5", auth.Fee.String())

	_, err = f.payments.Authorize(ctx, sam.ID, AuthorizeInput{Amount: "50", Method: invite.MethodStripe, Card: payment.Card{Number: "42"}})
	assert.ErrorIs(t, err, payment.ErrInvalidCard)

	_, err = f.payments.Get(ctx, createUser(t, f.db, "other").ID, auth.ID)
	assert.ErrorIs(t, err, ErrNotFound, "holds are private to their owner")

	cancelled, err := f.payments.Cancel(ctx, sam.ID, auth.ID)
	require.NoError(t, err)
	assert.Equal(t, invite.PaymentCancelled, cancelled.Status)
	_, err = f.payments.Cancel(ctx, sam.ID, auth.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthorizeInterruptedIsRecordedCancelled(t *testing.T) {
	db := setupTestDB(t)
	sam := createUser(t, db, "samc")
	svc := NewPaymentService(db, payment.NewRegistry(time.Minute), payment.DefaultFeePercent, metrics.New())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	auth, err := svc.Authorize(ctx, sam.ID, AuthorizeInput{Amount: "20", Method: invite.MethodPayPal})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, auth)
	assert.Equal(t, invite.PaymentCancelled, auth.Status)

	var stored models.PaymentAuthorization
	require.NoError(t, db.First(&stored, "id = ?", auth.ID).Error)
	assert.Equal(t, invite.PaymentCancelled, stored.Status)
}

func TestAuthorizeCrypto(t *testing.T) {
	f := newFixture(t)
	sam := createUser(t, f.db, "samc")
	priv, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	sig, err := priv.Sign([]byte(payment.SignatureMessage(decimal.NewFromInt(100))))
	require.NoError(t, err)

	auth, err := f.payments.Authorize(context.Background(), sam.ID, AuthorizeInput{
		Amount:    "100",
		Method:    invite.MethodCrypto,
		Wallet:    priv.PublicKey().String(),
		Signature: sig.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, priv.PublicKey().String(), auth.WalletAddress)
	assert.Empty(t, auth.CardLast4)

	_, err = f.payments.Authorize(context.Background(), sam.ID, AuthorizeInput{
		Amount:    "200",
		Method:    invite.MethodCrypto,
		Wallet:    priv.PublicKey().String(),
		Signature: sig.String(),
	})
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}
