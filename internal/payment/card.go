// Package payment validates payment details and places simulated holds for
// incentivized invites.
package payment

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Card holds card form input. Number, expiry and CVC may contain spaces or
// separators; only digits are kept.
type Card struct {
	Number string `json:"number" validate:"required,numeric,min=13,max=19"`
	Expiry string `json:"expiry" validate:"required,numeric,len=4,expiry_month"`
	CVC    string `json:"cvc" validate:"required,numeric,min=3,max=4"`
	Name   string `json:"name" validate:"required"`
}

var ErrInvalidCard = errors.New("invalid card details")

// CardError lists the card fields that failed validation
type CardError struct {
	Fields []string
}

func (e *CardError) Error() string {
	return ErrInvalidCard.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *CardError) Unwrap() error { return ErrInvalidCard }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("expiry_month", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) < 2 {
			return false
		}
		month, err := strconv.Atoi(s[:2])
		return err == nil && month >= 1 && month <= 12
	})
	return v
}

// Normalize strips formatting from the card fields
func (c Card) Normalize() Card {
	return Card{
		Number: digits(c.Number),
		Expiry: digits(c.Expiry),
		CVC:    digits(c.CVC),
		Name:   strings.TrimSpace(c.Name),
	}
}

// Validate checks the normalized card
func (c Card) Validate() error {
	n := c.Normalize()
	err := validate.Struct(n)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	cerr := &CardError{}
	for _, fe := range verrs {
		cerr.Fields = append(cerr.Fields, strings.ToLower(fe.Field()))
	}
	return cerr
}

// Last4 returns the last four digits of the card number
func (c Card) Last4() string {
	n := digits(c.Number)
	if len(n) < 4 {
		return n
	}
	return n[len(n)-4:]
}

// FormatCardNumber groups digits by four, e.g. "4242 4242 4242 4242"
func FormatCardNumber(value string) string {
	v := digits(value)
	var parts []string
	for i := 0; i < len(v); i += 4 {
		end := i + 4
		if end > len(v) {
			end = len(v)
		}
		parts = append(parts, v[i:end])
	}
	formatted := strings.Join(parts, " ")
	if len(formatted) > 19 {
		formatted = formatted[:19]
	}
	return formatted
}

// FormatExpiry renders raw expiry digits as MM/YY
func FormatExpiry(value string) string {
	v := digits(value)
	if len(v) < 2 {
		return v
	}
	if len(v) > 4 {
		v = v[:4]
	}
	return v[:2] + "/" + v[2:]
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
