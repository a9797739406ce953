package cli

import (
	"fmt"
	"time"
)

// maxETA caps estimates so a stalled run does not print absurd values.
const maxETA = 24 * time.Hour

// ETATracker estimates the time remaining from a stream of progress values
// in [0, 1]. The rate is exponentially smoothed (70% previous, 30% new).
type ETATracker struct {
	start        time.Time
	lastUpdate   time.Time
	lastProgress float64
	rate         float64
	now          func() time.Time
}

// NewETATracker starts a tracker at the current time.
func NewETATracker() *ETATracker {
	return newETATracker(time.Now)
}

func newETATracker(now func() time.Time) *ETATracker {
	t := now()
	return &ETATracker{start: t, lastUpdate: t, now: now}
}

// Update records the latest progress and returns the new estimate.
func (e *ETATracker) Update(progress float64) time.Duration {
	now := e.now()
	elapsed := now.Sub(e.start)

	if elapsed < 100*time.Millisecond || progress <= 0.001 {
		e.lastUpdate = now
		e.lastProgress = progress
		return 0
	}

	if since := now.Sub(e.lastUpdate).Seconds(); since > 0.05 {
		if delta := progress - e.lastProgress; delta > 0 {
			instant := delta / since
			if e.rate > 0 {
				e.rate = 0.7*e.rate + 0.3*instant
			} else {
				e.rate = progress / elapsed.Seconds()
			}
		}
		e.lastUpdate = now
		e.lastProgress = progress
	}
	return e.ETA()
}

// ETA returns the current estimate, or 0 when none is available yet.
func (e *ETATracker) ETA() time.Duration {
	if e.rate <= 0 || e.lastProgress >= 1 {
		return 0
	}
	eta := time.Duration((1 - e.lastProgress) / e.rate * float64(time.Second))
	return min(eta, maxETA)
}

// FormatETA renders an estimate as "< 1s", "42s", "2m30s" or "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		minutes, seconds := int(eta.Minutes()), int(eta.Seconds())%60
		if seconds > 0 {
			return fmt.Sprintf("%dm%ds", minutes, seconds)
		}
		return fmt.Sprintf("%dm", minutes)
	}
	hours, minutes := int(eta.Hours()), int(eta.Minutes())%60
	if minutes > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dh", hours)
}
