package nn

// TrainingResults accumulates the counters of one training epoch.
type TrainingResults struct {
	TotalCount   int
	CurrentCount int
	TotalLoss    float64
	HitCount     int
	MissCount    int
}

// Progress returns CurrentCount/TotalCount in [0, 1].
func (r TrainingResults) Progress() float64 {
	if r.TotalCount == 0 {
		return 0
	}
	return float64(r.CurrentCount) / float64(r.TotalCount)
}
