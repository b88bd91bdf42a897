package engine

import (
	"fmt"
	"time"
)

// Clock turns a requested propagation window into a fixed cycle schedule.
// The window is divided into macro steps of length Dt; the schedule always
// includes the cycle that starts at or before the requested end, so the
// actual final epoch may overshoot RequestedEnd by up to one Dt.
type Clock struct {
	Start        time.Time
	RequestedEnd time.Time
	Dt           time.Duration
}

func NewClock(start, end time.Time, dt time.Duration) (Clock, error) {
	if dt <= 0 {
		return Clock{}, fmt.Errorf("engine: dt must be positive, got %v", dt)
	}
	if !end.After(start) {
		return Clock{}, fmt.Errorf("engine: end %s is not after start %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return Clock{Start: start, RequestedEnd: end, Dt: dt}, nil
}

// Cycles is the number of macro steps in the schedule.
func (c Clock) Cycles() int {
	span := c.RequestedEnd.Sub(c.Start)
	return int(span/c.Dt) + 1
}

// Epoch returns the time at which cycle k begins. Epoch(0) == Start.
func (c Clock) Epoch(k int) time.Time {
	return c.Start.Add(time.Duration(k) * c.Dt)
}

// FinalEpoch is the time reached after the last cycle's step.
func (c Clock) FinalEpoch() time.Time {
	return c.Epoch(c.Cycles())
}

// DtSeconds is the macro step in seconds, the unit the force model uses.
func (c Clock) DtSeconds() float64 {
	return c.Dt.Seconds()
}
