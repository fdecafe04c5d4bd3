package session

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EventKind identifies an inbound UI event.
type EventKind int

const (
	EventDigit EventKind = iota
	EventBackspace
	EventClear
	EventEnter
	EventNavigate
	EventSelectAmount
	EventExit
)

func (k EventKind) String() string {
	switch k {
	case EventDigit:
		return "digit"
	case EventBackspace:
		return "backspace"
	case EventClear:
		return "clear"
	case EventEnter:
		return "enter"
	case EventNavigate:
		return "navigate"
	case EventSelectAmount:
		return "select"
	case EventExit:
		return "exit"
	}

	return "unknown"
}

// Event is an input from the presentation layer. Only the field that matches
// Kind is meaningful.
type Event struct {
	Kind   EventKind
	Digit  rune
	Screen Screen
	Amount decimal.Decimal
}

// Digit returns a keypad digit event. '.' is accepted on amount screens.
func Digit(d rune) Event { return Event{Kind: EventDigit, Digit: d} }

// Backspace returns a backspace event.
func Backspace() Event { return Event{Kind: EventBackspace} }

// Clear returns a clear event.
func Clear() Event { return Event{Kind: EventClear} }

// Enter returns an enter/confirm event.
func Enter() Event { return Event{Kind: EventEnter} }

// Navigate returns a navigation event.
func Navigate(s Screen) Event { return Event{Kind: EventNavigate, Screen: s} }

// SelectAmount returns a quick-amount event.
func SelectAmount(amount decimal.Decimal) Event {
	return Event{Kind: EventSelectAmount, Amount: amount}
}

// Exit returns an exit event.
func Exit() Event { return Event{Kind: EventExit} }

func (e Event) String() string {
	switch e.Kind {
	case EventDigit:
		return fmt.Sprintf("digit:%c", e.Digit)
	case EventNavigate:
		return "navigate:" + e.Screen.String()
	case EventSelectAmount:
		return "select:" + e.Amount.String()
	case EventBackspace, EventClear, EventEnter, EventExit:
		return e.Kind.String()
	}

	return "unknown"
}

// ParseEvent parses the text form of an event: "digit:1", "backspace", "clear",
// "enter", "navigate:WITHDRAW", "select:200" or "exit".
func ParseEvent(s string) (Event, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")
	name = strings.ToLower(name)

	switch name {
	case "digit":
		r := []rune(arg)
		if len(r) != 1 {
			return Event{}, fmt.Errorf("digit event needs exactly one character: %q", s)
		}
		return Digit(r[0]), nil

	case "backspace", "clear", "enter", "exit":
		if hasArg {
			return Event{}, fmt.Errorf("%s event takes no argument: %q", name, s)
		}
		switch name {
		case "backspace":
			return Backspace(), nil
		case "clear":
			return Clear(), nil
		case "enter":
			return Enter(), nil
		default:
			return Exit(), nil
		}

	case "navigate":
		screen, err := ParseScreen(arg)
		if err != nil {
			return Event{}, fmt.Errorf("invalid navigate event: %w", err)
		}
		return Navigate(screen), nil

	case "select":
		amount, err := decimal.NewFromString(arg)
		if err != nil {
			return Event{}, fmt.Errorf("invalid select amount %q: %w", arg, err)
		}
		return SelectAmount(amount), nil
	}

	return Event{}, fmt.Errorf("unknown event: %q", s)
}
