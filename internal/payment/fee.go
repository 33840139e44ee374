package payment

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DefaultFeePercent is the flat service fee
var DefaultFeePercent = decimal.NewFromInt(7)

// Quote is an amount with its service fee
type Quote struct {
	Amount decimal.Decimal `json:"amount"`
	Fee    decimal.Decimal `json:"fee"`
	Total  decimal.Decimal `json:"total"`
}

// NewQuote computes the fee at percent, rounded to cents
func NewQuote(amount, percent decimal.Decimal) Quote {
	fee := amount.Mul(percent).Div(hundred).Round(2)
	return Quote{
		Amount: amount,
		Fee:    fee,
		Total:  amount.Add(fee),
	}
}
