// Package session implements the ATM kiosk session: PIN entry, the menu and its
// sub-screens, and the timed success and insufficient-funds overlays.
//
// The Controller is rendering-agnostic. A presentation layer feeds it Events
// and renders the Snapshot it returns.
package session

import (
	"crypto/subtle"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/Rshep3087/atmtui/ledger"
)

// state is the per-session part of the kiosk.
type state struct {
	authenticated bool
	screen        Screen
	pin           string
	amount        string
	err           string
	success       string
}

// Controller owns a session and enforces the screen transition rules.
//
// Overlay timers fire on their own goroutines, so every method takes mu.
// At most one timer per overlay class is outstanding; each carries a
// generation number and a callback for an older generation is discarded.
type Controller struct {
	mu      sync.Mutex
	cfg     Config
	clock   Clock
	logger  *log.Logger
	account *Account
	st      state

	successTimer Timer
	successGen   uint64
	fundsTimer   Timer
	fundsGen     uint64

	changes chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for overlay timers and transaction timestamps.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithConfig replaces the kiosk parameters.
func WithConfig(cfg Config) Option {
	return func(c *Controller) {
		c.cfg = cfg
	}
}

// New returns a controller on the PIN screen. A nil account is replaced with a
// fresh one holding InitialBalance.
func New(account *Account, opts ...Option) *Controller {
	c := &Controller{
		cfg:     DefaultConfig(),
		clock:   realClock{},
		logger:  log.Default(),
		st:      state{screen: ScreenPIN},
		changes: make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	if account == nil {
		account = NewAccount(InitialBalance, ledger.New(c.cfg.LedgerCapacity))
	}
	c.account = account

	return c
}

// Changes delivers a signal whenever a timer changes the session.
// Changes made by method calls are not signalled; callers re-read the Snapshot.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

// Close cancels any pending overlay timers.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelSuccess()
	c.cancelFunds()
}

// Snapshot returns the state the presentation layer renders.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Screen:         c.st.screen,
		Authenticated:  c.st.authenticated,
		PINMaskLength:  len(c.st.pin),
		AmountText:     c.st.amount,
		Balance:        c.account.balance,
		Error:          c.st.err,
		SuccessMessage: c.st.success,
		Transactions:   c.account.ledger.Transactions(),
	}
}

// Dispatch applies an inbound UI event to the current screen.
func (c *Controller) Dispatch(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked(ev.String()) {
		return
	}
	c.dispatch(ev)
}

func (c *Controller) dispatch(ev Event) {
	switch ev.Kind {
	case EventDigit:
		c.onKeypad(ev, c.submitPinDigit, c.appendAmountDigit)
	case EventBackspace:
		c.onKeypad(ev, func(rune) { c.backspacePin() }, func(rune) { c.backspaceAmount() })
	case EventClear:
		c.onKeypad(ev, func(rune) { c.clearPin() }, func(rune) { c.clearAmount() })
	case EventEnter:
		c.onKeypad(ev, func(rune) { c.submitPin() }, func(rune) { c.submitCustomAmount() })
	case EventNavigate:
		c.navigate(ev.Screen)
	case EventSelectAmount:
		c.selectAmount(ev.Amount)
	case EventExit:
		c.resetSession()
	}
}

// onKeypad routes a keypad event to the PIN pad or the amount pad,
// depending on which one the current screen shows.
func (c *Controller) onKeypad(ev Event, pin, amount func(rune)) {
	switch c.st.screen {
	case ScreenPIN:
		pin(ev.Digit)
	case ScreenCustomWithdraw, ScreenCustomDeposit:
		amount(ev.Digit)
	case ScreenMenu, ScreenBalance, ScreenWithdraw, ScreenDeposit, ScreenHistory:
		c.logger.Debug("keypad event ignored", "event", ev.String(), "screen", c.st.screen)
	}
}

// blocked reports whether user input must be dropped because the success
// overlay is covering the screen.
func (c *Controller) blocked(op string) bool {
	if c.st.success == "" {
		return false
	}

	c.logger.Debug("input ignored during success overlay", "op", op)
	return true
}

// SubmitPinDigit appends a digit to the PIN buffer unless it is already full.
func (c *Controller) SubmitPinDigit(d rune) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("submit pin digit") || c.st.screen != ScreenPIN {
		return
	}
	c.submitPinDigit(d)
}

func (c *Controller) submitPinDigit(d rune) {
	c.st.err = ""

	if d < '0' || d > '9' {
		return
	}

	if len(c.st.pin) < c.cfg.PINLength {
		c.st.pin += string(d)
	}
}

// ClearPin empties the PIN buffer.
func (c *Controller) ClearPin() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("clear pin") || c.st.screen != ScreenPIN {
		return
	}
	c.clearPin()
}

func (c *Controller) clearPin() {
	c.st.pin = ""
}

// BackspacePin removes the last PIN digit.
func (c *Controller) BackspacePin() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("backspace pin") || c.st.screen != ScreenPIN {
		return
	}
	c.backspacePin()
}

func (c *Controller) backspacePin() {
	if c.st.pin == "" {
		return
	}
	c.st.pin = c.st.pin[:len(c.st.pin)-1]
}

// SubmitPin checks the PIN buffer against the reference PIN.
func (c *Controller) SubmitPin() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("submit pin") || c.st.screen != ScreenPIN {
		return
	}
	c.submitPin()
}

func (c *Controller) submitPin() {
	ok := subtle.ConstantTimeCompare([]byte(c.st.pin), []byte(c.cfg.PIN)) == 1
	c.st.pin = ""

	if !ok {
		c.st.err = msgInvalidPIN
		c.logger.Debug("pin rejected")
		return
	}

	c.st.authenticated = true
	c.st.screen = ScreenMenu
	c.st.err = ""
	c.logger.Info("session authenticated")
}

// AppendAmountDigit appends a digit or decimal point to the custom amount.
func (c *Controller) AppendAmountDigit(r rune) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("append amount digit") || !c.st.screen.IsCustomAmount() {
		return
	}
	c.appendAmountDigit(r)
}

func (c *Controller) appendAmountDigit(r rune) {
	c.st.err = ""

	if (r < '0' || r > '9') && r != '.' {
		return
	}
	c.st.amount += string(r)
}

// BackspaceAmount removes the last character of the custom amount.
func (c *Controller) BackspaceAmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("backspace amount") || !c.st.screen.IsCustomAmount() {
		return
	}
	c.backspaceAmount()
}

func (c *Controller) backspaceAmount() {
	if c.st.amount == "" {
		return
	}
	c.st.amount = c.st.amount[:len(c.st.amount)-1]
}

// ClearAmount empties the custom amount.
func (c *Controller) ClearAmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("clear amount") || !c.st.screen.IsCustomAmount() {
		return
	}
	c.clearAmount()
}

func (c *Controller) clearAmount() {
	c.st.amount = ""
}

// Navigate moves to target if the navigation graph allows it and reports
// whether it did. Navigating from MENU to PIN ends the session.
func (c *Controller) Navigate(target Screen) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("navigate") {
		return false
	}
	return c.navigate(target)
}

func (c *Controller) navigate(target Screen) bool {
	from := c.st.screen
	if !from.CanNavigateTo(target) {
		c.logger.Debug("navigation rejected", "from", from, "to", target)
		return false
	}

	if target == ScreenPIN {
		c.resetSession()
		return true
	}

	// a pending insufficient-funds timer keeps running and still forces WITHDRAW
	if from.IsCustomAmount() {
		c.st.amount = ""
	}

	c.st.screen = target
	c.logger.Debug("navigated", "from", from, "to", target)
	return true
}

// Withdraw debits the account if the amount is positive and covered by the balance.
func (c *Controller) Withdraw(amount decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("withdraw") {
		return
	}
	c.withdraw(amount)
}

func (c *Controller) withdraw(amount decimal.Decimal) {
	if !c.st.authenticated {
		c.logger.Debug("withdraw ignored, not authenticated")
		return
	}

	if err := Validate(amount, ledger.Withdrawal, c.account.balance); err != nil {
		c.st.err = Message(ledger.Withdrawal, err)
		c.logger.Debug("withdrawal rejected", "amount", amount, "error", err)

		if errors.Is(err, ErrInsufficientFunds) {
			c.startFundsOverlay()
		}
		return
	}

	c.account.balance = c.account.balance.Sub(amount)
	tx := c.account.ledger.Record(ledger.Withdrawal, amount, c.clock.Now())
	c.logger.Info("withdrawal completed", "id", tx.ID, "amount", amount, "balance", c.account.balance)

	c.startSuccessOverlay("Successfully withdrew " + FormatAmount(amount))
}

// Deposit credits the account if the amount is positive.
func (c *Controller) Deposit(amount decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("deposit") {
		return
	}
	c.deposit(amount)
}

func (c *Controller) deposit(amount decimal.Decimal) {
	if !c.st.authenticated {
		c.logger.Debug("deposit ignored, not authenticated")
		return
	}

	if err := Validate(amount, ledger.Deposit, c.account.balance); err != nil {
		c.st.err = Message(ledger.Deposit, err)
		c.logger.Debug("deposit rejected", "amount", amount, "error", err)
		return
	}

	c.account.balance = c.account.balance.Add(amount)
	tx := c.account.ledger.Record(ledger.Deposit, amount, c.clock.Now())
	c.logger.Info("deposit completed", "id", tx.ID, "amount", amount, "balance", c.account.balance)

	c.startSuccessOverlay("Successfully deposited " + FormatAmount(amount))
}

// SelectAmount applies a quick amount on the withdraw or deposit screen.
func (c *Controller) SelectAmount(amount decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("select amount") {
		return
	}
	c.selectAmount(amount)
}

func (c *Controller) selectAmount(amount decimal.Decimal) {
	switch c.st.screen {
	case ScreenWithdraw:
		c.withdraw(amount)
	case ScreenDeposit:
		c.deposit(amount)
	case ScreenPIN, ScreenMenu, ScreenBalance, ScreenHistory, ScreenCustomWithdraw, ScreenCustomDeposit:
		c.logger.Debug("quick amount ignored", "screen", c.st.screen)
	}
}

// SubmitCustomAmount parses the custom amount and withdraws or deposits it,
// depending on the screen. Text that does not parse is ignored.
func (c *Controller) SubmitCustomAmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("submit custom amount") {
		return
	}
	c.submitCustomAmount()
}

func (c *Controller) submitCustomAmount() {
	if !c.st.screen.IsCustomAmount() {
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(c.st.amount))
	if err != nil {
		c.logger.Debug("custom amount ignored", "text", c.st.amount, "error", err)
		return
	}

	if c.st.screen == ScreenCustomWithdraw {
		c.withdraw(amount)
		return
	}
	c.deposit(amount)
}

// ResetSession returns to the PIN screen. The account balance and ledger are kept.
func (c *Controller) ResetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked("reset session") {
		return
	}
	c.resetSession()
}

func (c *Controller) resetSession() {
	c.cancelSuccess()
	c.cancelFunds()
	c.st = state{screen: ScreenPIN}
	c.logger.Info("session reset")
}

func (c *Controller) startSuccessOverlay(msg string) {
	c.cancelFunds()
	c.cancelSuccess()

	c.st.err = ""
	c.st.success = msg

	gen := c.successGen
	c.successTimer = c.clock.AfterFunc(c.cfg.SuccessOverlay, func() {
		c.expireSuccess(gen)
	})
}

func (c *Controller) expireSuccess(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.successGen {
		return
	}
	c.successTimer = nil
	c.successGen++

	c.st.success = ""
	c.st.amount = ""
	if c.st.authenticated {
		c.st.screen = ScreenMenu
	}

	c.logger.Debug("success overlay expired")
	c.notify()
}

func (c *Controller) startFundsOverlay() {
	c.cancelFunds()

	gen := c.fundsGen
	c.fundsTimer = c.clock.AfterFunc(c.cfg.InsufficientFundsWindow, func() {
		c.expireFunds(gen)
	})
}

func (c *Controller) expireFunds(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.fundsGen {
		return
	}
	c.fundsTimer = nil
	c.fundsGen++

	c.st.err = ""
	c.st.amount = ""
	if c.st.authenticated {
		c.st.screen = ScreenWithdraw
	}

	c.logger.Debug("insufficient funds overlay expired")
	c.notify()
}

// cancelSuccess stops the success timer and invalidates a callback that
// may already be waiting on mu.
func (c *Controller) cancelSuccess() {
	if c.successTimer != nil {
		c.successTimer.Stop()
		c.successTimer = nil
	}
	c.successGen++
}

func (c *Controller) cancelFunds() {
	if c.fundsTimer != nil {
		c.fundsTimer.Stop()
		c.fundsTimer = nil
	}
	c.fundsGen++
}

func (c *Controller) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}
