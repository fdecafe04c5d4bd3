package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rshep3087/atmtui/ledger"
)

// Kiosk constants.
const (
	ReferencePIN            = "1234"
	PINLength               = 4
	SuccessOverlayDuration  = 2500 * time.Millisecond
	InsufficientFundsWindow = 2000 * time.Millisecond
)

// InitialBalance is the balance a fresh account starts with.
var InitialBalance = decimal.RequireFromString("5210.73")

var (
	withdrawQuickAmounts = []int64{20, 40, 60, 100, 200}
	depositQuickAmounts  = []int64{20, 50, 100, 200, 500}
)

// Config holds the fixed kiosk parameters.
type Config struct {
	PIN                     string
	PINLength               int
	SuccessOverlay          time.Duration
	InsufficientFundsWindow time.Duration
	LedgerCapacity          int
}

// DefaultConfig returns the kiosk parameters.
func DefaultConfig() Config {
	return Config{
		PIN:                     ReferencePIN,
		PINLength:               PINLength,
		SuccessOverlay:          SuccessOverlayDuration,
		InsufficientFundsWindow: InsufficientFundsWindow,
		LedgerCapacity:          ledger.DefaultCapacity,
	}
}

// QuickAmounts returns the one-tap presets offered on the withdraw and deposit screens.
func QuickAmounts(s Screen) []decimal.Decimal {
	var src []int64
	switch s {
	case ScreenWithdraw:
		src = withdrawQuickAmounts
	case ScreenDeposit:
		src = depositQuickAmounts
	default:
		return nil
	}

	out := make([]decimal.Decimal, len(src))
	for i, v := range src {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}
