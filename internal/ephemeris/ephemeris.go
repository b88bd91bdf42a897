// Package ephemeris resolves massive-body positions at arbitrary epochs.
package ephemeris

import (
	"errors"
	"time"

	"github.com/orbitlab/minorbit/internal/vec"
)

// ErrUnknownBody indicates the source has no series for the identifier.
var ErrUnknownBody = errors.New("ephemeris: unknown body")

// Source returns a body's position (km) at an epoch, in the same frame for
// every body it serves. The engine queries it once per body per cycle.
type Source interface {
	Position(name string, epoch time.Time) (vec.Vec3, error)
}

// Fixed is an in-memory source with time-independent positions. Used by
// tests and zero-force runs; any epoch returns the stored vector.
type Fixed map[string]vec.Vec3

func (f Fixed) Position(name string, _ time.Time) (vec.Vec3, error) {
	pos, ok := f[name]
	if !ok {
		return vec.Vec3{}, ErrUnknownBody
	}
	return pos, nil
}
