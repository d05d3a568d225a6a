package core

import "time"

// FixedStep gates simulation updates to at most one per period. Elapsed time
// beyond a single period is dropped, so a slow frame never triggers a burst of
// catch-up steps.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
}

// NewFixedStep constructs a FixedStep that fires once per period.
func NewFixedStep(period time.Duration) *FixedStep {
	fs := &FixedStep{}
	fs.SetPeriod(period)
	return fs
}

// NewFixedStepTPS constructs a FixedStep targeting the given ticks per second.
func NewFixedStepTPS(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	return NewFixedStep(time.Second / time.Duration(tps))
}

// SetPeriod changes the step length. It is safe to call from the main loop.
func (f *FixedStep) SetPeriod(period time.Duration) {
	if period <= 0 {
		period = time.Second / 60
	}
	f.step = period
}

// Period returns the current step length.
func (f *FixedStep) Period() time.Duration { return f.step }

// Advance adds dt to the accumulator and reports whether a step is due. When
// it is, the accumulator is cleared entirely.
func (f *FixedStep) Advance(dt time.Duration) bool {
	if dt > 0 {
		f.accumulator += dt
	}
	if f.accumulator >= f.step {
		f.accumulator = 0
		return true
	}
	return false
}

// Pending returns the time accumulated toward the next step.
func (f *FixedStep) Pending() time.Duration { return f.accumulator }

// Reset clears the accumulator.
func (f *FixedStep) Reset() { f.accumulator = 0 }
