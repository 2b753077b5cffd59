package utils

import "time"

// Timer measures elapsed wall-clock time between a start and stop event.
// NewTimer starts the measurement immediately; Stop captures the elapsed
// duration for retrieval via GetDuration.
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer creates a Timer and starts it.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Start resets the start instant to now, beginning a fresh measurement.
func (t *Timer) Start() {
	t.startTime = time.Now()
}

// Stop captures the time elapsed since construction or the last Start.
func (t *Timer) Stop() {
	t.duration = time.Since(t.startTime)
}

// GetDuration returns the duration captured by the most recent Stop,
// or zero if Stop has not been called.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}
