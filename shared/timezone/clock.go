package timezone

import "time"

// Clock supplies the current time. Services take a Clock instead of calling
// time.Now so that hold expiry and stamping can be pinned in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return Now()
}

// NewClock returns the clock backed by the application timezone.
func NewClock() Clock {
	return systemClock{}
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
