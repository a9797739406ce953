package nn

import (
	"fmt"
	"strings"
)

// Formatter renders training progress.
type Formatter interface {
	Progress(r TrainingResults) string
	Format(r TrainingResults) string
}

const progressBarWidth = 40

// ProgressFormatter renders a Keras-like progress line:
//
//	10 / 20 (50%) [========>---------] - acc = 0.80000, loss = 12.34568
//
// Each measure shortens the bar by len(name)+8 characters so the line
// keeps a constant width.
type ProgressFormatter struct {
	measures []Measure
	width    int
}

// NewProgressFormatter creates a formatter with no measures.
func NewProgressFormatter(measures ...Measure) *ProgressFormatter {
	f := &ProgressFormatter{width: progressBarWidth}
	for _, m := range measures {
		f.AddMeasure(m)
	}
	return f
}

// DefaultFormatter reports accuracy and mean loss.
func DefaultFormatter() *ProgressFormatter {
	return NewProgressFormatter(Accuracy{}, MeanLoss{})
}

// AddMeasure appends a measure and narrows the bar accordingly.
func (f *ProgressFormatter) AddMeasure(m Measure) {
	f.width = max(f.width-(len(m.Name())+8), 0)
	f.measures = append(f.measures, m)
}

// Measures returns the number of registered measures.
func (f *ProgressFormatter) Measures() int { return len(f.measures) }

// Progress renders the full progress line.
func (f *ProgressFormatter) Progress(r TrainingResults) string {
	progress, percent := 0, 0
	if r.TotalCount > 0 {
		progress = r.CurrentCount * f.width / r.TotalCount
		percent = r.CurrentCount * 100 / r.TotalCount
	}
	var bar strings.Builder
	for i := 0; i <= f.width; i++ {
		switch {
		case i == progress:
			bar.WriteByte('>')
		case i < progress:
			bar.WriteByte('=')
		default:
			bar.WriteByte('-')
		}
	}
	return fmt.Sprintf("%d / %d (%d%%) [%s] - %s", r.CurrentCount, r.TotalCount, percent, bar.String(), f.Format(r))
}

// Format renders "name = value" for every measure, comma separated.
func (f *ProgressFormatter) Format(r TrainingResults) string {
	parts := make([]string, len(f.measures))
	for i, m := range f.measures {
		parts[i] = fmt.Sprintf("%s = %s", m.Name(), m.Format(m.Compute(r)))
	}
	return strings.Join(parts, ", ")
}
