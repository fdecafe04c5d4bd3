package session

import (
	"fmt"
	"strings"
)

// Screen is one of the kiosk views. The success overlay is not a Screen;
// it is rendered over whichever screen is current.
type Screen int

const (
	ScreenPIN Screen = iota
	ScreenMenu
	ScreenBalance
	ScreenWithdraw
	ScreenDeposit
	ScreenHistory
	ScreenCustomWithdraw
	ScreenCustomDeposit
)

// Screens lists every screen in declaration order.
var Screens = []Screen{
	ScreenPIN,
	ScreenMenu,
	ScreenBalance,
	ScreenWithdraw,
	ScreenDeposit,
	ScreenHistory,
	ScreenCustomWithdraw,
	ScreenCustomDeposit,
}

func (s Screen) String() string {
	switch s {
	case ScreenPIN:
		return "PIN"
	case ScreenMenu:
		return "MENU"
	case ScreenBalance:
		return "BALANCE"
	case ScreenWithdraw:
		return "WITHDRAW"
	case ScreenDeposit:
		return "DEPOSIT"
	case ScreenHistory:
		return "HISTORY"
	case ScreenCustomWithdraw:
		return "CUSTOM_WITHDRAW"
	case ScreenCustomDeposit:
		return "CUSTOM_DEPOSIT"
	}

	return "UNKNOWN"
}

// MarshalText lets snapshots encode the screen by name.
func (s Screen) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseScreen parses a screen name such as "WITHDRAW" or "custom_deposit".
func ParseScreen(name string) (Screen, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, s := range Screens {
		if s.String() == name {
			return s, nil
		}
	}

	return ScreenPIN, fmt.Errorf("unknown screen: %q", name)
}

// Authenticated reports whether the screen belongs to the signed-in set.
func (s Screen) Authenticated() bool {
	switch s {
	case ScreenPIN:
		return false
	case ScreenMenu, ScreenBalance, ScreenWithdraw, ScreenDeposit, ScreenHistory,
		ScreenCustomWithdraw, ScreenCustomDeposit:
		return true
	}

	return false
}

// CanNavigateTo reports whether the navigation graph has an edge from s to target.
// MENU -> PIN is the exit edge and resets the session.
func (s Screen) CanNavigateTo(target Screen) bool {
	switch s {
	case ScreenPIN:
		// PIN is left only through a successful PIN submit
		return false
	case ScreenMenu:
		switch target {
		case ScreenBalance, ScreenWithdraw, ScreenDeposit, ScreenHistory, ScreenPIN:
			return true
		}
	case ScreenBalance, ScreenHistory:
		return target == ScreenMenu
	case ScreenWithdraw:
		return target == ScreenCustomWithdraw || target == ScreenMenu
	case ScreenDeposit:
		return target == ScreenCustomDeposit || target == ScreenMenu
	case ScreenCustomWithdraw:
		return target == ScreenWithdraw
	case ScreenCustomDeposit:
		return target == ScreenDeposit
	}

	return false
}

// Parent returns the screen a "back" action leads to.
func (s Screen) Parent() (Screen, bool) {
	switch s {
	case ScreenPIN, ScreenMenu:
		return s, false
	case ScreenBalance, ScreenWithdraw, ScreenDeposit, ScreenHistory:
		return ScreenMenu, true
	case ScreenCustomWithdraw:
		return ScreenWithdraw, true
	case ScreenCustomDeposit:
		return ScreenDeposit, true
	}

	return s, false
}

// IsCustomAmount reports whether the screen takes keypad amount entry.
func (s Screen) IsCustomAmount() bool {
	return s == ScreenCustomWithdraw || s == ScreenCustomDeposit
}
