// Package ledger keeps the bounded, newest-first list of completed kiosk transactions.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCapacity is the number of transactions the kiosk keeps for the history screen.
const DefaultCapacity = 10

// TimestampLayout is the display layout used for Transaction.Timestamp.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// Kind is the direction of a transaction.
type Kind int

const (
	Deposit Kind = iota
	Withdrawal
)

func (k Kind) String() string {
	switch k {
	case Deposit:
		return "DEPOSIT"
	case Withdrawal:
		return "WITHDRAWAL"
	}

	return "UNKNOWN"
}

// Sign returns "+" for money coming in and "-" for money going out.
func (k Kind) Sign() string {
	if k == Withdrawal {
		return "-"
	}
	return "+"
}

// Transaction is an immutable record of a completed deposit or withdrawal.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	Kind      Kind            `json:"-"`
	KindName  string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp string          `json:"timestamp"`
}

// Ledger is an append-only list capped at a fixed capacity.
// When full, recording a new transaction evicts the oldest one.
type Ledger struct {
	capacity int
	entries  []Transaction
}

// New returns an empty ledger. A non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Ledger{
		capacity: capacity,
		entries:  make([]Transaction, 0, capacity),
	}
}

// newID returns a time-ordered UUIDv7, so IDs increase with insertion order.
func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Record prepends a transaction and truncates the ledger to its capacity.
func (l *Ledger) Record(kind Kind, amount decimal.Decimal, at time.Time) Transaction {
	t := Transaction{
		ID:        newID(),
		Kind:      kind,
		KindName:  kind.String(),
		Amount:    amount,
		Timestamp: at.Format(TimestampLayout),
	}

	keep := min(len(l.entries), l.capacity-1)
	entries := make([]Transaction, 0, l.capacity)
	entries = append(entries, t)
	entries = append(entries, l.entries[:keep]...)
	l.entries = entries

	return t
}

// Transactions returns a newest-first copy of the ledger.
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of transactions currently held.
func (l *Ledger) Len() int {
	return len(l.entries)
}
