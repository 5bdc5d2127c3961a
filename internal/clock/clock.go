package clock

import "time"

// Clock abstracts time so the exchange and engine wait loops can be driven
// deterministically in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration

	// Sleep pauses the calling goroutine for at least d.
	Sleep(d time.Duration)
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Since returns the elapsed system time since t.
func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// Sleep calls time.Sleep.
func (c *RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// FakeClock implements Clock with a manually advanced time for testing.
// Sleep advances the fake time instead of blocking, so retry backoffs and
// quiet-gap waits complete instantly under test.
type FakeClock struct {
	current time.Time
}

// NewFakeClock creates a new FakeClock with the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	return c.current
}

// Since returns the fake elapsed time since t.
func (c *FakeClock) Since(t time.Time) time.Duration {
	return c.current.Sub(t)
}

// Sleep advances the fake time by d without blocking.
func (c *FakeClock) Sleep(d time.Duration) {
	c.current = c.current.Add(d)
}

// Set updates the fake time.
func (c *FakeClock) Set(t time.Time) {
	c.current = t
}

// Advance moves the fake time forward by the given duration.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
