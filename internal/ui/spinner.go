package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// ProgressReporter receives status updates while an alert is being turned
// into a ticket.
type ProgressReporter interface {
	Update(message string)
	Stop()
}

// NoOpProgress discards updates. Used by the server and --no-progress.
type NoOpProgress struct{}

func (NoOpProgress) Update(string) {}
func (NoOpProgress) Stop()         {}

// SpinnerProgress draws a spinner on stderr so stdout stays clean for the
// result line.
type SpinnerProgress struct {
	spinner *spinner.Spinner
}

func NewSpinnerProgress() *SpinnerProgress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Prefix = "  "
	s.Color("cyan", "bold")

	return &SpinnerProgress{
		spinner: s,
	}
}

func (sp *SpinnerProgress) Update(message string) {
	sp.spinner.Suffix = "  " + message
	if !sp.spinner.Active() {
		sp.spinner.Start()
	}
}

func (sp *SpinnerProgress) Stop() {
	if sp.spinner.Active() {
		sp.spinner.Stop()
	}
}

var (
	_ ProgressReporter = NoOpProgress{}
	_ ProgressReporter = (*SpinnerProgress)(nil)
)
