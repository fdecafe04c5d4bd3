package main

// Output formats for CLI commands.
const (
	jsonOutputFormat  = "json"
	tableOutputFormat = "table"
)

// Layout
const (
	standardMargin = 2
	// takenHeight is the space used by the title and help bar.
	takenHeight = 6
)

// viewState is what the kiosk shows on top of the current screen.
type viewState int

const (
	screenView viewState = iota
	successView
	insufficientFundsView
	errorView
)

func (vs viewState) String() string {
	switch vs {
	case screenView:
		return "screen"
	case successView:
		return "success"
	case insufficientFundsView:
		return "insufficient funds"
	case errorView:
		return "error"
	}

	return "unknown"
}
