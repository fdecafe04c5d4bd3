package session

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Rshep3087/atmtui/ledger"
)

var (
	// ErrNonPositiveAmount is returned for amounts that are zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// User-facing messages.
const (
	msgInvalidPIN          = "Invalid PIN. Please try again."
	msgWithdrawNotPositive = "Withdrawal amount must be positive."
	msgDepositNotPositive  = "Deposit amount must be positive."
	msgInsufficientFunds   = "Insufficient funds."
)

// Validate checks an amount for a deposit or withdrawal against the balance.
func Validate(amount decimal.Decimal, kind ledger.Kind, balance decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	if kind == ledger.Withdrawal && balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	return nil
}

// Message returns the text shown to the user for a validation error.
func Message(kind ledger.Kind, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientFunds):
		return msgInsufficientFunds
	case errors.Is(err, ErrNonPositiveAmount) && kind == ledger.Withdrawal:
		return msgWithdrawNotPositive
	case errors.Is(err, ErrNonPositiveAmount):
		return msgDepositNotPositive
	}

	return err.Error()
}

// FormatAmount renders an amount as dollars with two decimals, e.g. "$200.00".
func FormatAmount(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
