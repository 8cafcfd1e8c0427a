package core

import "time"

// FixedStep helps run simulation updates at a steady ticks-per-second rate.
type FixedStep struct {
	tps         int
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.tps = tps
	f.step = time.Second / time.Duration(tps)
}

// TPS reports the configured tick rate.
func (f *FixedStep) TPS() int { return f.tps }

// Dt reports the fixed step duration in seconds.
func (f *FixedStep) Dt() float64 { return f.step.Seconds() }

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := time.Now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}

// PerfTimer accumulates wall-clock samples of a repeatedly executed phase and
// reports a running average, for per-tick phase instrumentation.
type PerfTimer struct {
	start   time.Time
	total   time.Duration
	samples int
}

// Start marks the beginning of a sample.
func (t *PerfTimer) Start() { t.start = time.Now() }

// Stop closes the sample opened by Start.
func (t *PerfTimer) Stop() {
	t.total += time.Since(t.start)
	t.samples++
}

// AverageMs reports the mean sample duration in milliseconds.
func (t *PerfTimer) AverageMs() float64 {
	if t.samples == 0 {
		return 0
	}
	return float64(t.total.Microseconds()) / float64(t.samples) / 1000.0
}
