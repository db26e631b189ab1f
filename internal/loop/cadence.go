package loop

import "time"

// Cadence is a fixed-rate trigger: it fires at most once per Interval,
// measured from the last time it fired.
type Cadence struct {
	Interval time.Duration
	last     time.Time
}

// Ready reports whether the cadence fires at now and records the firing.
// A cadence that never fired is ready immediately. Firing advances the
// reference by exactly one interval so a steady feed does not drift; if the
// reference still lags by a full interval (after a pause, say) it jumps to
// now instead of firing a burst.
func (c *Cadence) Ready(now time.Time) bool {
	if c.Interval <= 0 {
		return false
	}
	if c.last.IsZero() {
		c.last = now
		return true
	}
	if now.Sub(c.last) < c.Interval {
		return false
	}
	c.last = c.last.Add(c.Interval)
	if now.Sub(c.last) >= c.Interval {
		c.last = now
	}
	return true
}

// Reset forgets the last firing, so the next Ready fires immediately.
func (c *Cadence) Reset() { c.last = time.Time{} }

// Arm records now as the last firing, so the next Ready fires one interval
// later.
func (c *Cadence) Arm(now time.Time) { c.last = now }
