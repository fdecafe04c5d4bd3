package session

import (
	"github.com/shopspring/decimal"

	"github.com/Rshep3087/atmtui/ledger"
)

// Snapshot is the read-only view of a session handed to the presentation layer.
type Snapshot struct {
	Screen         Screen               `json:"screen"`
	Authenticated  bool                 `json:"authenticated"`
	PINMaskLength  int                  `json:"pin_mask_length"`
	AmountText     string               `json:"amount_text"`
	Balance        decimal.Decimal      `json:"balance"`
	Error          string               `json:"error,omitempty"`
	SuccessMessage string               `json:"success_message,omitempty"`
	Transactions   []ledger.Transaction `json:"transactions"`
}

// OverlayActive reports whether the success overlay hides the current screen.
func (s Snapshot) OverlayActive() bool {
	return s.SuccessMessage != ""
}
