package services

import "time"

// Clock supplies the current time. Injected so tests can run the status and
// revenue logic against fixed timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

var clock Clock = systemClock{}

// GetClock returns the active clock
func GetClock() Clock {
	return clock
}

// SetClock replaces the active clock (primarily for testing)
func SetClock(c Clock) {
	if c == nil {
		clock = systemClock{}
		return
	}
	clock = c
}

// FixedClock always reports the same instant. Test helper.
type FixedClock struct {
	Time time.Time
}

func (f FixedClock) Now() time.Time {
	return f.Time
}
