package calibration

import (
	"runtime"
	"slices"
)

// ─────────────────────────────────────────────────────────────────────────────
// Adaptive cutoff candidates
// ─────────────────────────────────────────────────────────────────────────────

// GenerateMinSizeCandidates returns the Strassen cutoffs worth timing for
// size×size operands: powers of two up to size, followed by NaiveCutoff(size),
// which disables the recursion and serves as the baseline.
//
// Machines with few cores skip the smallest cutoff: deep recursion spawns
// many small blocks whose copying dominates there.
func GenerateMinSizeCandidates(size int) []int {
	floor := 16
	if runtime.NumCPU() <= 2 {
		floor = 32
	}
	var candidates []int
	for m := floor; m <= size; m *= 2 {
		candidates = append(candidates, m)
	}
	return append(candidates, NaiveCutoff(size))
}

// GenerateQuickSizes returns the operand dimensions probed by the quick
// micro-benchmark. Larger dimensions are only worth it with more cores.
func GenerateQuickSizes() []int {
	if runtime.NumCPU() <= 4 {
		return []int{32, 64, 128}
	}
	return []int{32, 64, 128, 256}
}

// NaiveCutoff is a cutoff above size: with it every size×size product is
// naive.
func NaiveCutoff(size int) int {
	return size + 1
}

// mergeCandidates adds extra (ignoring values outside [2, size]) to
// candidates, keeping them sorted and unique.
func mergeCandidates(candidates []int, size int, extra ...int) []int {
	out := slices.Clone(candidates)
	for _, e := range extra {
		if e >= 2 && e <= size {
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
