package progress

import "time"

// Throttle lets an event through at most once per interval. The first call
// always passes.
type Throttle struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewThrottle constructs a Throttle. A non-positive interval defaults to
// 200ms.
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return &Throttle{interval: interval, now: time.Now}
}

// Ready reports whether an event may be emitted now and, if so, starts a new
// interval.
func (t *Throttle) Ready() bool {
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}
