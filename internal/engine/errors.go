package engine

import (
	"fmt"
	"time"
)

// CycleError wraps a failure inside the propagation loop with the cycle index
// and epoch at which it occurred.
type CycleError struct {
	Cycle int
	Epoch time.Time
	Err   error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("engine: cycle %d at %s: %v",
		e.Cycle, e.Epoch.UTC().Format("2006-01-02T15:04:05"), e.Err)
}

func (e *CycleError) Unwrap() error { return e.Err }
