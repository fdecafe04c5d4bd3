package ledger

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const currency = "USD"

var maxCents = decimal.NewFromInt(math.MaxInt64)

// USD renders an amount in US currency format, e.g. "$5,210.73".
func USD(amount decimal.Decimal) string {
	return display(amount)
}

// SignedAmount renders the amount with its direction, e.g. "+$50.00" or "-$20.00".
func (t Transaction) SignedAmount() string {
	return t.Kind.Sign() + display(t.Amount.Abs())
}

// display formats through go-money while the amount fits in int64 cents.
// Deposits have no upper bound, so larger amounts are grouped by hand.
func display(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return groupDollars(amount)
	}
	return money.New(cents.IntPart(), currency).Display()
}

func groupDollars(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}

	whole, frac, _ := strings.Cut(amount.Abs().StringFixed(2), ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + "." + frac
}
