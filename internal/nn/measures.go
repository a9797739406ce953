package nn

import "fmt"

// Measure derives one displayed figure from training counters.
type Measure interface {
	Name() string
	Compute(r TrainingResults) float64
	Format(v float64) string
}

// Accuracy is hits over samples seen ("acc").
type Accuracy struct{}

func (Accuracy) Name() string { return "acc" }

func (Accuracy) Compute(r TrainingResults) float64 {
	return float64(r.HitCount) / float64(r.CurrentCount)
}

func (Accuracy) Format(v float64) string { return fmt.Sprintf("%.5f", v) }

// MeanLoss is total loss over samples seen ("loss").
type MeanLoss struct{}

func (MeanLoss) Name() string { return "loss" }

func (MeanLoss) Compute(r TrainingResults) float64 {
	return r.TotalLoss / float64(r.CurrentCount)
}

func (MeanLoss) Format(v float64) string { return fmt.Sprintf("%.5f", v) }
