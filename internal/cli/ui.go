// Package cli renders the command-line experience: spinners while products
// run, per-batch training progress with an ETA, and the final matrices as a
// preview, a full grid, JSON or a file.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/matnn/internal/nn"
	"github.com/agbru/matnn/internal/ui"
)

const (
	// ProgressRefreshRate is the spinner and progress bar refresh period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// FormatExecutionDuration shows microseconds below a millisecond,
// milliseconds below a second, and the default representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// Spinner abstracts the terminal spinner so displays can be tested.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// progressBar renders progress (clamped to [0, 1]) as a bar of length
// runes.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	count := int(progress * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// Product progress
// ─────────────────────────────────────────────────────────────────────────────

// StrategyEvent reports that one strategy has finished.
type StrategyEvent struct {
	Index    int
	Name     string
	Duration time.Duration
	Err      error
}

// DisplayProgress shows a spinner while strategies run. A product reports
// no intermediate progress, so the bar counts finished strategies. It
// returns when events is closed, after printing a persistent summary line.
//
// Parameters:
//   - wg: Signalled when the display routine is complete.
//   - events: Completion events, closed by the producer.
//   - total: The number of strategies running.
//   - out: The writer the spinner renders to.
func DisplayProgress(wg *sync.WaitGroup, events <-chan StrategyEvent, total int, out io.Writer) {
	defer wg.Done()
	if total <= 0 {
		for range events {
		}
		return
	}

	start := time.Now()
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	done := 0
	for {
		select {
		case _, ok := <-events:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintf(out, "Completed: %d/%d [%s] in %s\n", done, total,
					progressBar(float64(done)/float64(total), ProgressBarWidth),
					FormatExecutionDuration(time.Since(start)))
				return
			}
			done++
		case <-ticker.C:
			s.UpdateSuffix(fmt.Sprintf(" Multiplying: %d/%d [%s] elapsed %s", done, total,
				progressBar(float64(done)/float64(total), ProgressBarWidth),
				FormatExecutionDuration(time.Since(start).Round(time.Millisecond))))
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Training progress
// ─────────────────────────────────────────────────────────────────────────────

// DisplayTraining renders training updates: the spinner shows the current
// batch line with an ETA, and each finished epoch is printed permanently.
// It returns when updates is closed.
func DisplayTraining(wg *sync.WaitGroup, updates <-chan nn.ProgressUpdate, out io.Writer) {
	defer wg.Done()

	eta := NewETATracker()
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	defer s.Stop()

	for u := range updates {
		overall := overallProgress(u)
		eta.Update(overall)
		prefix := fmt.Sprintf("Epoch %d/%d", u.Epoch, u.Epochs)
		if !u.Done() {
			s.UpdateSuffix(fmt.Sprintf(" %s %s ETA: %s", prefix, u.Line, FormatETA(eta.ETA())))
			continue
		}
		s.Stop()
		fmt.Fprintf(out, "%s%s%s %s\n", ui.ColorBold(), prefix, ui.ColorReset(), u.Line)
		s.Start()
	}
}

// overallProgress folds the batch progress of an epoch into the progress
// of the whole run.
func overallProgress(u nn.ProgressUpdate) float64 {
	if u.Epochs <= 0 {
		return u.Results.Progress()
	}
	return (float64(u.Epoch-1) + u.Results.Progress()) / float64(u.Epochs)
}
