package session

import (
	"io"
	"testing"
	"time"

	"github.com/carlmjohnson/be"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/Rshep3087/atmtui/ledger"
)

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeClock fires timers synchronously from Advance.
type fakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
	for i := 0; i < len(c.timers); i++ {
		t := c.timers[i]
		if t.stopped || t.fired || t.at.After(c.now) {
			continue
		}
		t.fired = true
		t.f()
	}
}

func (c *fakeClock) pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func newTestController(t *testing.T) (*Controller, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	c := New(nil, WithClock(clock), WithLogger(log.New(io.Discard)))
	t.Cleanup(c.Close)
	return c, clock
}

func login(t *testing.T, c *Controller) {
	t.Helper()
	for _, d := range ReferencePIN {
		c.SubmitPinDigit(d)
	}
	c.SubmitPin()
	be.Equal(t, ScreenMenu, c.Snapshot().Screen)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewStartsOnPINScreen(t *testing.T) {
	c, _ := newTestController(t)
	snap := c.Snapshot()

	be.Equal(t, ScreenPIN, snap.Screen)
	be.False(t, snap.Authenticated)
	be.Equal(t, 0, snap.PINMaskLength)
	be.True(t, snap.Balance.Equal(InitialBalance))
	be.Equal(t, 0, len(snap.Transactions))
	be.False(t, snap.OverlayActive())
}

func TestSubmitPin(t *testing.T) {
	tests := []struct {
		name          string
		digits        string
		authenticated bool
		expectedError string
	}{
		{name: "reference pin", digits: "1234", authenticated: true},
		{name: "extra digits ignored", digits: "12345", authenticated: true},
		{name: "wrong last digit", digits: "1235", expectedError: msgInvalidPIN},
		{name: "all zeros", digits: "0000", expectedError: msgInvalidPIN},
		{name: "too short", digits: "123", expectedError: msgInvalidPIN},
		{name: "empty", digits: "", expectedError: msgInvalidPIN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t)

			for _, d := range tt.digits {
				c.SubmitPinDigit(d)
			}
			c.SubmitPin()

			snap := c.Snapshot()
			be.Equal(t, tt.authenticated, snap.Authenticated)
			be.Equal(t, tt.expectedError, snap.Error)
			be.Equal(t, 0, snap.PINMaskLength)

			if tt.authenticated {
				be.Equal(t, ScreenMenu, snap.Screen)
			} else {
				be.Equal(t, ScreenPIN, snap.Screen)
			}
		})
	}
}

func TestInvalidPINScenario(t *testing.T) {
	c, _ := newTestController(t)

	for _, d := range "1235" {
		c.Dispatch(Digit(d))
	}
	c.Dispatch(Enter())

	snap := c.Snapshot()
	be.Equal(t, "Invalid PIN. Please try again.", snap.Error)
	be.Equal(t, 0, snap.PINMaskLength)

	// failures are unlimited
	for range 5 {
		c.Dispatch(Digit('9'))
		c.Dispatch(Enter())
	}
	login(t, c)
	be.Equal(t, "", c.Snapshot().Error)
}

func TestSubmitPinDigit(t *testing.T) {
	c, _ := newTestController(t)

	c.SubmitPin()
	be.Equal(t, msgInvalidPIN, c.Snapshot().Error)

	c.SubmitPinDigit('7')
	be.Equal(t, "", c.Snapshot().Error)
	be.Equal(t, 1, c.Snapshot().PINMaskLength)

	c.SubmitPinDigit('x')
	be.Equal(t, 1, c.Snapshot().PINMaskLength)

	for _, d := range "12345" {
		c.SubmitPinDigit(d)
	}
	be.Equal(t, PINLength, c.Snapshot().PINMaskLength)
}

func TestBackspaceAndClearPin(t *testing.T) {
	c, _ := newTestController(t)

	c.BackspacePin()
	be.Equal(t, 0, c.Snapshot().PINMaskLength)

	c.SubmitPinDigit('1')
	c.SubmitPinDigit('2')
	c.BackspacePin()
	be.Equal(t, 1, c.Snapshot().PINMaskLength)

	c.SubmitPinDigit('2')
	c.SubmitPinDigit('3')
	c.ClearPin()
	be.Equal(t, 0, c.Snapshot().PINMaskLength)

	c.ClearPin()
	be.Equal(t, 0, c.Snapshot().PINMaskLength)

	// backspace then re-entry still authenticates
	for _, d := range "1239" {
		c.SubmitPinDigit(d)
	}
	c.BackspacePin()
	c.SubmitPinDigit('4')
	c.SubmitPin()
	be.True(t, c.Snapshot().Authenticated)
}

func TestWithdrawScenario(t *testing.T) {
	c, clock := newTestController(t)
	login(t, c)

	be.True(t, c.Navigate(ScreenWithdraw))
	c.SelectAmount(decimal.NewFromInt(200))

	snap := c.Snapshot()
	be.True(t, snap.Balance.Equal(dec("5010.73")))
	be.Equal(t, 1, len(snap.Transactions))
	be.Equal(t, ledger.Withdrawal, snap.Transactions[0].Kind)
	be.True(t, snap.Transactions[0].Amount.Equal(decimal.NewFromInt(200)))
	be.Equal(t, "Successfully withdrew $200.00", snap.SuccessMessage)
	be.True(t, snap.OverlayActive())

	clock.Advance(SuccessOverlayDuration - time.Millisecond)
	be.True(t, c.Snapshot().OverlayActive())

	clock.Advance(time.Millisecond)
	snap = c.Snapshot()
	be.False(t, snap.OverlayActive())
	be.Equal(t, ScreenMenu, snap.Screen)
	be.Equal(t, "", snap.AmountText)
}

func TestInsufficientFundsScenario(t *testing.T) {
	c, clock := newTestController(t)
	login(t, c)
	c.Navigate(ScreenWithdraw)
	c.Navigate(ScreenCustomWithdraw)

	for _, d := range "6000" {
		c.Dispatch(Digit(d))
	}
	c.Dispatch(Enter())

	snap := c.Snapshot()
	be.Equal(t, "Insufficient funds.", snap.Error)
	be.True(t, snap.Balance.Equal(InitialBalance))
	be.Equal(t, 0, len(snap.Transactions))
	be.Equal(t, ScreenCustomWithdraw, snap.Screen)
	be.Equal(t, "6000", snap.AmountText)

	clock.Advance(InsufficientFundsWindow)

	snap = c.Snapshot()
	be.Equal(t, "", snap.Error)
	be.Equal(t, ScreenWithdraw, snap.Screen)
	be.Equal(t, "", snap.AmountText)
}

func TestWithdrawAmounts(t *testing.T) {
	tests := []struct {
		name            string
		amount          string
		expectedBalance string
		expectedError   string
		recorded        bool
	}{
		{name: "small amount", amount: "0.01", expectedBalance: "5210.72", recorded: true},
		{name: "quick amount", amount: "60", expectedBalance: "5150.73", recorded: true},
		{name: "exact balance", amount: "5210.73", expectedBalance: "0", recorded: true},
		{name: "zero", amount: "0", expectedBalance: "5210.73", expectedError: "Withdrawal amount must be positive."},
		{name: "negative", amount: "-5", expectedBalance: "5210.73", expectedError: "Withdrawal amount must be positive."},
		{name: "one cent over", amount: "5210.74", expectedBalance: "5210.73", expectedError: "Insufficient funds."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t)
			login(t, c)

			c.Withdraw(dec(tt.amount))

			snap := c.Snapshot()
			be.True(t, snap.Balance.Equal(dec(tt.expectedBalance)))
			be.False(t, snap.Balance.IsNegative())
			be.Equal(t, tt.expectedError, snap.Error)

			if tt.recorded {
				be.Equal(t, 1, len(snap.Transactions))
				be.Equal(t, "Successfully withdrew "+FormatAmount(dec(tt.amount)), snap.SuccessMessage)
			} else {
				be.Equal(t, 0, len(snap.Transactions))
				be.Equal(t, "", snap.SuccessMessage)
			}
		})
	}
}

func TestDepositAmounts(t *testing.T) {
	tests := []struct {
		name            string
		amount          string
		expectedBalance string
		expectedError   string
		expectedSuccess string
	}{
		{name: "quick amount", amount: "500", expectedBalance: "5710.73", expectedSuccess: "Successfully deposited $500.00"},
		{name: "cents", amount: "50.25", expectedBalance: "5260.98", expectedSuccess: "Successfully deposited $50.25"},
		{name: "large", amount: "1000000", expectedBalance: "1005210.73", expectedSuccess: "Successfully deposited $1000000.00"},
		{name: "zero", amount: "0", expectedBalance: "5210.73", expectedError: "Deposit amount must be positive."},
		{name: "negative", amount: "-0.01", expectedBalance: "5210.73", expectedError: "Deposit amount must be positive."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newTestController(t)
			login(t, c)

			c.Deposit(dec(tt.amount))

			snap := c.Snapshot()
			be.True(t, snap.Balance.Equal(dec(tt.expectedBalance)))
			be.Equal(t, tt.expectedError, snap.Error)
			be.Equal(t, tt.expectedSuccess, snap.SuccessMessage)

			if tt.expectedError != "" {
				be.Equal(t, 0, len(snap.Transactions))
				// validation errors are not timed
				clock.Advance(10 * time.Second)
				be.Equal(t, tt.expectedError, c.Snapshot().Error)
				return
			}

			be.Equal(t, 1, len(snap.Transactions))
			be.Equal(t, ledger.Deposit, snap.Transactions[0].Kind)
		})
	}
}

func TestMoneyOperationsRequireAuthentication(t *testing.T) {
	c, clock := newTestController(t)

	c.Deposit(decimal.NewFromInt(20))
	c.Withdraw(decimal.NewFromInt(20))

	snap := c.Snapshot()
	be.True(t, snap.Balance.Equal(InitialBalance))
	be.Equal(t, 0, len(snap.Transactions))
	be.Equal(t, 0, clock.pending())
}

func TestSuccessOverlayBlocksInput(t *testing.T) {
	c, clock := newTestController(t)
	login(t, c)
	c.Navigate(ScreenDeposit)
	c.SelectAmount(decimal.NewFromInt(20))

	c.Dispatch(Navigate(ScreenMenu))
	c.Deposit(decimal.NewFromInt(50))
	c.Withdraw(decimal.NewFromInt(50))
	c.ResetSession()
	be.False(t, c.Navigate(ScreenMenu))

	snap := c.Snapshot()
	be.Equal(t, ScreenDeposit, snap.Screen)
	be.True(t, snap.Authenticated)
	be.Equal(t, 1, len(snap.Transactions))
	be.True(t, snap.Balance.Equal(dec("5230.73")))

	clock.Advance(SuccessOverlayDuration)
	snap = c.Snapshot()
	be.Equal(t, ScreenMenu, snap.Screen)

	c.Dispatch(Navigate(ScreenHistory))
	be.Equal(t, ScreenHistory, c.Snapshot().Screen)
}

func TestSuccessClearsError(t *testing.T) {
	c, _ := newTestController(t)
	login(t, c)
	c.Navigate(ScreenDeposit)
	c.Navigate(ScreenCustomDeposit)

	c.Dispatch(Digit('0'))
	c.Dispatch(Enter())
	be.Equal(t, msgDepositNotPositive, c.Snapshot().Error)

	c.Deposit(decimal.NewFromInt(5))
	snap := c.Snapshot()
	be.Equal(t, "", snap.Error)
	be.Equal(t, "Successfully deposited $5.00", snap.SuccessMessage)
}

func TestRepeatedInsufficientFundsReplacesTimer(t *testing.T) {
	c, clock := newTestController(t)
	login(t, c)
	c.Navigate(ScreenWithdraw)

	c.SelectAmount(decimal.NewFromInt(6000))
	clock.Advance(1500 * time.Millisecond)

	c.SelectAmount(decimal.NewFromInt(7000))
	be.Equal(t, 1, clock.pending())

	// the first timer would have fired here
	clock.Advance(600 * time.Millisecond)
	be.Equal(t, msgInsufficientFunds, c.Snapshot().Error)

	clock.Advance(1400 * time.Millisecond)
	be.Equal(t, "", c.Snapshot().Error)
	be.Equal(t, ScreenWithdraw, c.Snapshot().Screen)
}

func TestInsufficientFundsReturnSurvivesNavigation(t *testing.T) {
	c, clock := newTestController(t)
	login(t, c)
	c.Navigate(ScreenWithdraw)
	c.SelectAmount(decimal.NewFromInt(6000))

	be.True(t, c.Navigate(ScreenMenu))
	be.Equal(t, msgInsufficientFunds, c.Snapshot().Error)
	be.Equal(t, 1, clock.pending())

	clock.Advance(InsufficientFundsWindow)
	snap := c.Snapshot()
	be.Equal(t, ScreenWithdraw, snap.Screen)
	be.Equal(t, "", snap.Error)
	be.Equal(t, "", snap.AmountText)
}

func TestStaleTimerCallbackIsDiscarded(t *testing.T) {
	c, _ := newTestController(t)
	login(t, c)
	c.Navigate(ScreenWithdraw)
	c.SelectAmount(decimal.NewFromInt(6000))

	c.mu.Lock()
	stale := c.fundsGen
	c.mu.Unlock()

	// re-entering the overlay replaces the timer
	c.SelectAmount(decimal.NewFromInt(7000))
	c.Navigate(ScreenMenu)
	c.Navigate(ScreenBalance)

	// a callback that lost the race with Stop must not move the screen
	c.expireFunds(stale)
	snap := c.Snapshot()
	be.Equal(t, ScreenBalance, snap.Screen)
	be.Equal(t, msgInsufficientFunds, snap.Error)
}

func TestEditingIgnoredOffKeypadScreens(t *testing.T) {
	c, _ := newTestController(t)
	login(t, c)

	c.mu.Lock()
	c.st.pin = "12"
	c.st.amount = "40"
	c.mu.Unlock()

	c.BackspacePin()
	c.ClearPin()
	c.BackspaceAmount()
	c.ClearAmount()

	snap := c.Snapshot()
	be.Equal(t, 2, snap.PINMaskLength)
	be.Equal(t, "40", snap.AmountText)
}

func TestNavigate(t *testing.T) {
	c, _ := newTestController(t)

	be.False(t, c.Navigate(ScreenMenu))
	be.Equal(t, ScreenPIN, c.Snapshot().Screen)

	login(t, c)

	be.False(t, c.Navigate(ScreenCustomWithdraw))
	be.True(t, c.Navigate(ScreenBalance))
	be.False(t, c.Navigate(ScreenHistory))
	be.True(t, c.Navigate(ScreenMenu))
	be.True(t, c.Navigate(ScreenHistory))
	be.True(t, c.Navigate(ScreenMenu))
	be.True(t, c.Navigate(ScreenWithdraw))
	be.True(t, c.Navigate(ScreenCustomWithdraw))
	be.False(t, c.Navigate(ScreenMenu))
	be.True(t, c.Navigate(ScreenWithdraw))
	be.True(t, c.Navigate(ScreenMenu))
	be.True(t, c.Navigate(ScreenDeposit))
	be.True(t, c.Navigate(ScreenCustomDeposit))
	be.True(t, c.Navigate(ScreenDeposit))
	be.Equal(t, ScreenDeposit, c.Snapshot().Screen)
}

func TestLeavingCustomScreenClearsAmount(t *testing.T) {
	c, _ := newTestController(t)
	login(t, c)
	c.Navigate(ScreenWithdraw)
	c.Navigate(ScreenCustomWithdraw)

	for _, r := range "12.5" {
		c.AppendAmountDigit(r)
	}
	be.Equal(t, "12.5", c.Snapshot().AmountText)

	c.Navigate(ScreenWithdraw)
	be.Equal(t, "", c.Snapshot().AmountText)
}

func TestAmountEntry(t *testing.T) {
	c, _ := newTestController(t)

	// ignored outside the custom amount screens
	c.AppendAmountDigit('5')
	be.Equal(t, "", c.Snapshot().AmountText)

	login(t, c)
	c.Navigate(ScreenDeposit)
	c.Navigate(ScreenCustomDeposit)

	for _, r := range "4a2.x5" {
		c.AppendAmountDigit(r)
	}
	be.Equal(t, "42.5", c.Snapshot().AmountText)

	c.BackspaceAmount()
	be.Equal(t, "42.", c.Snapshot().AmountText)

	c.ClearAmount()
	be.Equal(t, "", c.Snapshot().AmountText)

	c.BackspaceAmount()
	be.Equal(t, "", c.Snapshot().AmountText)
}

func TestSubmitCustomAmountIgnoresUnparsableText(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "lone point", text: "."},
		{name: "two points", text: "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newTestController(t)
			login(t, c)
			c.Navigate(ScreenWithdraw)
			c.Navigate(ScreenCustomWithdraw)

			for _, r := range tt.text {
				c.AppendAmountDigit(r)
			}
			c.SubmitCustomAmount()

			snap := c.Snapshot()
			be.Equal(t, ScreenCustomWithdraw, snap.Screen)
			be.Equal(t, "", snap.Error)
			be.Equal(t, "", snap.SuccessMessage)
			be.Equal(t, tt.text, snap.AmountText)
			be.True(t, snap.Balance.Equal(InitialBalance))
			be.Equal(t, 0, clock.pending())
		})
	}
}

func TestCustomDepositThroughEvents(t *testing.T) {
	c, clock := newTestController(t)

	events := []Event{
		Digit('1'), Digit('2'), Digit('3'), Digit('4'), Enter(),
		Navigate(ScreenDeposit),
		Navigate(ScreenCustomDeposit),
		Digit('7'), Digit('5'), Digit('.'), Digit('5'), Backspace(), Digit('0'),
		Enter(),
	}
	for _, ev := range events {
		c.Dispatch(ev)
	}

	snap := c.Snapshot()
	be.Equal(t, "Successfully deposited $75.00", snap.SuccessMessage)
	be.True(t, snap.Balance.Equal(dec("5285.73")))

	clock.Advance(SuccessOverlayDuration)
	snap = c.Snapshot()
	be.Equal(t, ScreenMenu, snap.Screen)
	be.Equal(t, "", snap.AmountText)
}

func TestKeypadEventsIgnoredOnMenuScreens(t *testing.T) {
	c, _ := newTestController(t)
	login(t, c)

	c.Dispatch(Digit('1'))
	c.Dispatch(Enter())
	c.Dispatch(Clear())
	c.Dispatch(Backspace())

	snap := c.Snapshot()
	be.Equal(t, ScreenMenu, snap.Screen)
	be.Equal(t, 0, snap.PINMaskLength)
	be.Equal(t, "", snap.AmountText)
	be.Equal(t, "", snap.Error)
}

func TestQuickAmountIgnoredOffAmountScreens(t *testing.T) {
	c, _ := newTestController(t)
	login(t, c)

	c.Dispatch(SelectAmount(decimal.NewFromInt(20)))
	be.True(t, c.Snapshot().Balance.Equal(InitialBalance))
}

func TestLedgerCapThroughController(t *testing.T) {
	c, clock := newTestController(t)
	login(t, c)

	for i := 1; i <= 11; i++ {
		c.Deposit(decimal.NewFromInt(int64(i)))
		clock.Advance(SuccessOverlayDuration)
	}

	snap := c.Snapshot()
	be.Equal(t, ledger.DefaultCapacity, len(snap.Transactions))
	be.True(t, snap.Transactions[0].Amount.Equal(decimal.NewFromInt(11)))
	be.True(t, snap.Transactions[9].Amount.Equal(decimal.NewFromInt(2)))
	// all 11 deposits still count toward the balance
	be.True(t, snap.Balance.Equal(dec("5276.73")))
}

func TestResetSessionKeepsAccount(t *testing.T) {
	c, clock := newTestController(t)
	login(t, c)
	c.Deposit(decimal.NewFromInt(100))
	clock.Advance(SuccessOverlayDuration)

	c.Navigate(ScreenWithdraw)
	c.SelectAmount(decimal.NewFromInt(9000))
	c.Dispatch(Exit())

	snap := c.Snapshot()
	be.Equal(t, ScreenPIN, snap.Screen)
	be.False(t, snap.Authenticated)
	be.Equal(t, "", snap.Error)
	be.Equal(t, "", snap.AmountText)
	be.Equal(t, 0, clock.pending())
	be.True(t, snap.Balance.Equal(dec("5310.73")))
	be.Equal(t, 1, len(snap.Transactions))

	// the cancelled insufficient-funds timer must not pull the PIN screen to WITHDRAW
	clock.Advance(InsufficientFundsWindow)
	be.Equal(t, ScreenPIN, c.Snapshot().Screen)
}

func TestExitFromMenu(t *testing.T) {
	c, _ := newTestController(t)
	login(t, c)

	be.True(t, c.Navigate(ScreenPIN))

	snap := c.Snapshot()
	be.Equal(t, ScreenPIN, snap.Screen)
	be.False(t, snap.Authenticated)
}

func TestInjectedAccount(t *testing.T) {
	account := NewAccount(decimal.NewFromInt(100), ledger.New(3))
	clock := newFakeClock()
	c := New(account, WithClock(clock), WithLogger(log.New(io.Discard)))
	defer c.Close()

	login(t, c)
	for range 5 {
		c.Withdraw(decimal.NewFromInt(10))
		clock.Advance(SuccessOverlayDuration)
	}

	snap := c.Snapshot()
	be.True(t, snap.Balance.Equal(decimal.NewFromInt(50)))
	be.Equal(t, 3, len(snap.Transactions))
}

func TestChangesSignalledOnTimerExpiry(t *testing.T) {
	c, clock := newTestController(t)
	login(t, c)
	c.Deposit(decimal.NewFromInt(20))

	select {
	case <-c.Changes():
		t.Fatal("unexpected change before the overlay expired")
	default:
	}

	clock.Advance(SuccessOverlayDuration)

	select {
	case <-c.Changes():
	default:
		t.Fatal("expected a change signal after the overlay expired")
	}
}

func TestCloseStopsTimers(t *testing.T) {
	c, clock := newTestController(t)
	login(t, c)
	c.Deposit(decimal.NewFromInt(20))

	c.Close()
	be.Equal(t, 0, clock.pending())
}

func TestTransactionTimestampUsesClock(t *testing.T) {
	c, clock := newTestController(t)
	login(t, c)
	c.Deposit(decimal.NewFromInt(20))

	be.Equal(t, clock.Now().Format(ledger.TimestampLayout), c.Snapshot().Transactions[0].Timestamp)
}
