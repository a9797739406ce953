package matrix

import "sync/atomic"

const (
	// DefaultMinSize is the smallest square dimension for which Strassen
	// recurses. Below it the naive product wins.
	DefaultMinSize = 64
	// DefaultParallelDepth is the deepest recursion level whose seven
	// products are computed concurrently. Depth starts at 1.
	DefaultParallelDepth = 1
	// DefaultMaxWorkers bounds the goroutines of one join-set.
	DefaultMaxWorkers = 7
)

// defaultMinSize holds the process-wide Strassen cutoff. Calibration and
// configuration may override it at start-up. Access is thread-safe via
// atomic operations.
var defaultMinSize atomic.Int64

func init() {
	defaultMinSize.Store(DefaultMinSize)
}

// SetDefaultMinSize sets the process-wide Strassen cutoff used when
// StrassenOptions.MinSize is zero. Values below 2 are ignored.
func SetDefaultMinSize(n int) {
	if n < 2 {
		return
	}
	defaultMinSize.Store(int64(n))
}

// GetDefaultMinSize returns the current process-wide Strassen cutoff.
func GetDefaultMinSize() int {
	return int(defaultMinSize.Load())
}

// StrassenOptions tunes the Strassen engine. The zero value selects the
// defaults.
type StrassenOptions struct {
	// MinSize is the recursion cutoff (0 = process-wide default).
	MinSize int
	// ParallelDepth is the deepest level run as a join-set (0 = default).
	ParallelDepth int
	// MaxWorkers bounds concurrently running products (0 = default).
	MaxWorkers int
	// Sequential disables the join-set entirely.
	Sequential bool
}

// normalizeOptions replaces zero values with their defaults.
func normalizeOptions(opts StrassenOptions) StrassenOptions {
	if opts.MinSize <= 0 {
		opts.MinSize = GetDefaultMinSize()
	}
	if opts.MinSize < 2 {
		opts.MinSize = 2
	}
	if opts.ParallelDepth <= 0 {
		opts.ParallelDepth = DefaultParallelDepth
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = DefaultMaxWorkers
	}
	return opts
}
