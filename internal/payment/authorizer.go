package payment

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"arena/internal/invite"
)

var (
	ErrUnsupportedMethod = errors.New("unsupported payment method")
	ErrInvalidWallet     = errors.New("invalid wallet address")
	ErrInvalidSignature  = errors.New("invalid payment signature")
)

// Request carries everything an authorizer may need
type Request struct {
	Method invite.PaymentMethod
	Amount decimal.Decimal
	Card   Card
	// Wallet and Signature are used by crypto payments
	Wallet    string
	Signature string
}

// Result describes a successful hold
type Result struct {
	CardLast4     string
	WalletAddress string
	Signature     string
}

// Authorizer places a hold for one payment method
type Authorizer interface {
	Authorize(ctx context.Context, req Request) (Result, error)
}

// SignatureMessage is the text a wallet signs to authorize a crypto payment
func SignatureMessage(amount decimal.Decimal) string {
	return fmt.Sprintf("Authorize Arena payment %s", amount.String())
}

// wait simulates gateway latency and stops early when ctx is done
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// CardAuthorizer simulates a card hold
type CardAuthorizer struct {
	Delay time.Duration
}

func (a CardAuthorizer) Authorize(ctx context.Context, req Request) (Result, error) {
	if err := req.Card.Validate(); err != nil {
		return Result{}, err
	}
	if err := wait(ctx, a.Delay); err != nil {
		return Result{}, err
	}
	return Result{CardLast4: req.Card.Last4()}, nil
}

// PayPalAuthorizer simulates a PayPal hold
type PayPalAuthorizer struct {
	Delay time.Duration
}

func (a PayPalAuthorizer) Authorize(ctx context.Context, _ Request) (Result, error) {
	if err := wait(ctx, a.Delay); err != nil {
		return Result{}, err
	}
	return Result{}, nil
}

// CryptoAuthorizer accepts a Solana wallet signature over SignatureMessage
type CryptoAuthorizer struct {
	Delay time.Duration
}

func (a CryptoAuthorizer) Authorize(ctx context.Context, req Request) (Result, error) {
	pubkey, err := solana.PublicKeyFromBase58(req.Wallet)
	if err != nil {
		return Result{}, ErrInvalidWallet
	}

	raw, err := base58.Decode(req.Signature)
	if err != nil || len(raw) != ed25519.SignatureSize {
		return Result{}, ErrInvalidSignature
	}
	sig := solana.SignatureFromBytes(raw)
	if !sig.Verify(pubkey, []byte(SignatureMessage(req.Amount))) {
		return Result{}, ErrInvalidSignature
	}

	if err := wait(ctx, a.Delay); err != nil {
		return Result{}, err
	}
	return Result{WalletAddress: pubkey.String(), Signature: req.Signature}, nil
}

// Registry maps payment methods to authorizers
type Registry map[invite.PaymentMethod]Authorizer

// NewRegistry returns the default authorizers with the given simulated delay
func NewRegistry(delay time.Duration) Registry {
	return Registry{
		invite.MethodStripe: CardAuthorizer{Delay: delay},
		invite.MethodPayPal: PayPalAuthorizer{Delay: delay},
		invite.MethodCrypto: CryptoAuthorizer{Delay: delay},
	}
}

// Authorize dispatches to the authorizer for req.Method
func (r Registry) Authorize(ctx context.Context, req Request) (Result, error) {
	a, ok := r[req.Method]
	if !ok {
		return Result{}, ErrUnsupportedMethod
	}
	return a.Authorize(ctx, req)
}
