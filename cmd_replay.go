package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Rshep3087/atmtui/ledger"
	"github.com/Rshep3087/atmtui/session"
)

// replayStep is either a session event or a pause that lets overlay timers run.
type replayStep struct {
	event session.Event
	wait  time.Duration
}

func (s replayStep) String() string {
	if s.wait > 0 {
		return "wait:" + s.wait.String()
	}
	return s.event.String()
}

// traceEntry records the session after one replay step.
type traceEntry struct {
	Step    int    `json:"step"`
	Input   string `json:"input"`
	Screen  string `json:"screen"`
	Message string `json:"message,omitempty"`
}

type replayResult struct {
	Trace    []traceEntry     `json:"trace"`
	Snapshot session.Snapshot `json:"snapshot"`
}

var replayCmd = &cobra.Command{
	Use:   "replay [events...]",
	Short: "Run a scripted event sequence against a fresh session",
	Long: `Replay feeds events to a fresh kiosk session without the terminal UI and prints the result.

Events: digit:<d>, backspace, clear, enter, navigate:<SCREEN>, select:<amount>, exit.
wait:<duration> pauses so overlay timers can expire, e.g. wait:3s.
Scripts given with --file hold one or more steps per line; '#' starts a comment.`,
	Example: `  atmtui replay digit:1 digit:2 digit:3 digit:4 enter navigate:WITHDRAW select:200 wait:3s
  atmtui replay --file session.txt --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, _ := cmd.Flags().GetString("output")
		if err := validateOutputFormat(outputFormat); err != nil {
			return err
		}

		steps, err := parseSteps(args)
		if err != nil {
			return err
		}

		if file, _ := cmd.Flags().GetString("file"); file != "" {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open script: %w", err)
			}
			defer f.Close()

			scripted, err := parseScript(f)
			if err != nil {
				return fmt.Errorf("failed to parse script %s: %w", file, err)
			}
			steps = append(scripted, steps...)
		}

		if len(steps) == 0 {
			return fmt.Errorf("no events to replay: pass events as arguments or use --file")
		}

		logger := newLogger(appConfig, cmd.ErrOrStderr())
		ctrl := session.New(nil, session.WithLogger(logger))
		defer ctrl.Close()

		result, err := replay(cmd.Context(), ctrl, steps, sleep)
		if err != nil {
			return err
		}

		if outputFormat == jsonOutputFormat {
			return outputJSON(result)
		}

		return outputReplayTable(cmd.OutOrStdout(), result)
	},
}

func init() {
	replayCmd.Flags().StringP("file", "f", "", "read replay steps from a script file")
	replayCmd.Flags().StringP("output", "o", tableOutputFormat, "output format (table, json)")
}

// parseStep parses one event or a wait:<duration> pause.
func parseStep(s string) (replayStep, error) {
	if d, ok := strings.CutPrefix(strings.TrimSpace(s), "wait:"); ok {
		wait, err := time.ParseDuration(d)
		if err != nil || wait <= 0 {
			return replayStep{}, fmt.Errorf("invalid wait %q: need a positive duration such as 3s", s)
		}
		return replayStep{wait: wait}, nil
	}

	ev, err := session.ParseEvent(s)
	if err != nil {
		return replayStep{}, err
	}
	return replayStep{event: ev}, nil
}

func parseSteps(args []string) ([]replayStep, error) {
	steps := make([]replayStep, 0, len(args))
	for _, arg := range args {
		step, err := parseStep(arg)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// parseScript reads whitespace-separated steps, ignoring blank lines and '#' comments.
func parseScript(r io.Reader) ([]replayStep, error) {
	var steps []replayStep

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text, _, _ := strings.Cut(scanner.Text(), "#")
		for _, field := range strings.Fields(text) {
			step, err := parseStep(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			steps = append(steps, step)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	return steps, nil
}

// replay applies steps in order and returns the trace and the final snapshot.
func replay(
	ctx context.Context,
	ctrl *session.Controller,
	steps []replayStep,
	wait func(context.Context, time.Duration) error,
) (replayResult, error) {
	trace := make([]traceEntry, 0, len(steps))

	for i, step := range steps {
		if step.wait > 0 {
			if err := wait(ctx, step.wait); err != nil {
				return replayResult{}, fmt.Errorf("replay interrupted at step %d: %w", i+1, err)
			}
		} else {
			ctrl.Dispatch(step.event)
		}

		snap := ctrl.Snapshot()
		message := snap.Error
		if snap.OverlayActive() {
			message = snap.SuccessMessage
		}

		log.Debug("replay step", "step", i+1, "input", step.String(), "screen", snap.Screen)
		trace = append(trace, traceEntry{
			Step:    i + 1,
			Input:   step.String(),
			Screen:  snap.Screen.String(),
			Message: message,
		})
	}

	return replayResult{Trace: trace, Snapshot: ctrl.Snapshot()}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func outputReplayTable(w io.Writer, result replayResult) error {
	steps := createStyledTable("Step", "Input", "Screen", "Message")
	for _, e := range result.Trace {
		steps.Row(strconv.Itoa(e.Step), e.Input, e.Screen, e.Message)
	}

	snap := result.Snapshot
	state := createStyledTable("Field", "Value")
	state.Row("Screen", snap.Screen.String())
	state.Row("Authenticated", strconv.FormatBool(snap.Authenticated))
	state.Row("Balance", ledger.USD(snap.Balance))
	state.Row("PIN", pinMask(snap.PINMaskLength))
	if snap.AmountText != "" {
		state.Row("Amount", "$"+snap.AmountText)
	}
	if snap.Error != "" {
		state.Row("Error", snap.Error)
	}
	if snap.SuccessMessage != "" {
		state.Row("Success", snap.SuccessMessage)
	}

	if _, err := fmt.Fprintf(w, "%s\n%s\n", steps, state); err != nil {
		return err
	}

	if len(snap.Transactions) == 0 {
		return nil
	}

	txs := createStyledTable("ID", "Type", "Date", "Amount")
	for _, t := range snap.Transactions {
		txs.Row(t.ID.String(), t.KindName, t.Timestamp, t.SignedAmount())
	}

	_, err := fmt.Fprintln(w, txs)
	return err
}
