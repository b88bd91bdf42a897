package integrator

import (
	"github.com/orbitlab/minorbit/internal/solar"
	"github.com/orbitlab/minorbit/internal/vec"
)

// Leapfrog is the 2nd-order kick-drift-kick baseline. Kept for integrator
// comparisons: it is symplectic too, but its energy band is wider than
// Yoshida8's by the order gap.
type Leapfrog struct {
	workers int
	accels  []vec.Vec3
}

func NewLeapfrog(workers int) *Leapfrog {
	return &Leapfrog{workers: workers}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(particles []solar.Particle, bodies []solar.Body, dt float64) error {
	n := len(particles)
	if cap(l.accels) < n {
		l.accels = make([]vec.Vec3, n)
	}
	acc := l.accels[:n]

	if err := accelerate(particles, bodies, acc, l.workers); err != nil {
		return err
	}
	kick(particles, acc, dt/2, l.workers)
	drift(particles, dt, l.workers)
	if err := accelerate(particles, bodies, acc, l.workers); err != nil {
		return err
	}
	kick(particles, acc, dt/2, l.workers)
	return nil
}
