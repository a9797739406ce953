package nn

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// ─────────────────────────────────────────────────────────────────────────────
// Observer Pattern Interfaces
// ─────────────────────────────────────────────────────────────────────────────

// ProgressUpdate is emitted after every mini-batch.
type ProgressUpdate struct {
	// Epoch is 1-based.
	Epoch   int
	Epochs  int
	Results TrainingResults
	// Line is the formatter's rendering of Results.
	Line string
}

// Done reports whether the update closes its epoch.
func (u ProgressUpdate) Done() bool {
	return u.Results.CurrentCount >= u.Results.TotalCount
}

// ProgressObserver receives training progress.
type ProgressObserver interface {
	Update(u ProgressUpdate)
}

// ─────────────────────────────────────────────────────────────────────────────
// Progress Subject (Observable)
// ─────────────────────────────────────────────────────────────────────────────

// ProgressSubject manages observer registration and notification.
// It is safe for concurrent use.
type ProgressSubject struct {
	observers []ProgressObserver
	mu        sync.RWMutex
}

// NewProgressSubject creates a new subject for managing progress observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{
		observers: make([]ProgressObserver, 0),
	}
}

// Register adds an observer. Observers are notified in the order they are
// registered. A nil observer is ignored.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes an observer. Unknown observers are ignored.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify sends an update to all registered observers, synchronously.
func (s *ProgressSubject) Notify(u ProgressUpdate) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, observer := range s.observers {
		observer.Update(u)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// ─────────────────────────────────────────────────────────────────────────────
// Channel Observer
// ─────────────────────────────────────────────────────────────────────────────

// ChannelObserver forwards updates to a channel for UI consumption.
type ChannelObserver struct {
	channel chan<- ProgressUpdate
}

// NewChannelObserver creates an observer that sends updates to ch.
// The channel should be buffered; updates are dropped when it is full.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update implements ProgressObserver with a non-blocking send.
func (o *ChannelObserver) Update(u ProgressUpdate) {
	if o.channel == nil {
		return
	}
	select {
	case o.channel <- u:
	default:
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging Observer
// ─────────────────────────────────────────────────────────────────────────────

// LoggingObserver logs progress using zerolog, throttled so that an entry
// is written only when the epoch progress advanced by at least threshold
// or the epoch completed.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64
	lastEpoch int
	lastLog   float64
	mu        sync.Mutex
}

// NewLoggingObserver creates an observer that logs progress.
//
// Parameters:
//   - logger: The zerolog logger to use.
//   - threshold: Minimum progress change to trigger a log (e.g., 0.1 for 10%).
//
// Returns:
//   - *LoggingObserver: A new observer that logs to zerolog.
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{logger: logger, threshold: threshold}
}

// Update implements ProgressObserver by logging significant progress changes.
func (o *LoggingObserver) Update(u ProgressUpdate) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if u.Epoch != o.lastEpoch {
		o.lastEpoch, o.lastLog = u.Epoch, 0
	}
	progress := u.Results.Progress()
	if !u.Done() && progress-o.lastLog < o.threshold {
		return
	}
	var event *zerolog.Event
	if u.Done() {
		event = o.logger.Info()
	} else {
		event = o.logger.Debug()
	}
	event.
		Int("epoch", u.Epoch).
		Int("epochs", u.Epochs).
		Float64("progress", progress).
		Float64("loss", MeanLoss{}.Compute(u.Results)).
		Float64("accuracy", Accuracy{}.Compute(u.Results)).
		Msg("training progress")
	o.lastLog = progress
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics Observer (Prometheus)
// ─────────────────────────────────────────────────────────────────────────────

var (
	trainingProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matnn_training_epoch_progress",
		Help: "Progress of the current training epoch (0.0 to 1.0)",
	})
	trainingLoss = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matnn_training_mean_loss",
		Help: "Mean loss over the samples seen in the current epoch",
	})
	trainingAccuracy = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matnn_training_accuracy",
		Help: "Accuracy over the samples seen in the current epoch",
	})
	trainingEpochs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matnn_training_epochs_total",
		Help: "Number of completed training epochs",
	})
)

// MetricsObserver exports training progress to Prometheus.
type MetricsObserver struct{}

// NewMetricsObserver creates an observer that updates Prometheus metrics.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// Update implements ProgressObserver by updating the training gauges.
func (o *MetricsObserver) Update(u ProgressUpdate) {
	trainingProgress.Set(u.Results.Progress())
	if u.Results.CurrentCount > 0 {
		trainingLoss.Set(MeanLoss{}.Compute(u.Results))
		trainingAccuracy.Set(Accuracy{}.Compute(u.Results))
	}
	if u.Done() {
		trainingEpochs.Inc()
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// No-Op Observer (Null Object Pattern)
// ─────────────────────────────────────────────────────────────────────────────

// NoOpObserver discards all updates.
type NoOpObserver struct{}

// Update implements ProgressObserver by doing nothing.
func (NoOpObserver) Update(ProgressUpdate) {}
