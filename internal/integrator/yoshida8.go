package integrator

import (
	"fmt"

	"github.com/orbitlab/minorbit/internal/gravity"
	"github.com/orbitlab/minorbit/internal/solar"
	"github.com/orbitlab/minorbit/internal/vec"
)

// Composition weights of the 8th-order Yoshida scheme. The 15 velocity
// weights d are a palindrome of the eight base constants; the 16 position
// weights c are the midpoints of adjacent d entries with half-weight
// endpoints. Both sequences sum to exactly one macro step.
var yoshidaD, yoshidaC = yoshidaCoefficients()

func yoshidaCoefficients() (d [15]float64, c [16]float64) {
	w := [8]float64{
		1.65899088454396,
		0.311790812418427,
		-1.55946803821447,
		-1.67896928259640,
		1.66335809963315,
		-1.06458714789183,
		1.36934946416871,
		0.629030650210433,
	}

	for i := 0; i < 7; i++ {
		d[i] = w[7-i]
		d[14-i] = w[7-i]
	}
	d[7] = w[0]

	c[0] = d[0] / 2
	c[15] = d[14] / 2
	for i := 1; i < 15; i++ {
		c[i] = (d[i-1] + d[i]) / 2
	}
	return d, c
}

// Yoshida8 is the 8th-order symplectic composition: 15 drift-kick sub-steps
// followed by a closing drift. Time-reversible and phase-space-volume
// preserving, so long runs show bounded energy error instead of secular
// drift.
type Yoshida8 struct {
	workers int
	accels  []vec.Vec3
}

func NewYoshida8(workers int) *Yoshida8 {
	return &Yoshida8{workers: workers}
}

func (y *Yoshida8) Name() string { return "yoshida8" }

// Step advances every particle by one macro step of dt seconds. The body
// configuration stays fixed for all 16 drifts and 15 kicks. Phase order is a
// strict barrier: all drifts of sub-step i complete before any acceleration
// of sub-step i is evaluated, and all accelerations before any kick.
func (y *Yoshida8) Step(particles []solar.Particle, bodies []solar.Body, dt float64) error {
	n := len(particles)
	if cap(y.accels) < n {
		y.accels = make([]vec.Vec3, n)
	}
	acc := y.accels[:n]

	for i := 0; i < 15; i++ {
		drift(particles, yoshidaC[i]*dt, y.workers)
		if err := accelerate(particles, bodies, acc, y.workers); err != nil {
			return err
		}
		kick(particles, acc, yoshidaD[i]*dt, y.workers)
	}
	drift(particles, yoshidaC[15]*dt, y.workers)
	return nil
}

func drift(particles []solar.Particle, h float64, workers int) {
	parallelFor(len(particles), workers, func(s, e int) error {
		for j := s; j < e; j++ {
			p := &particles[j]
			p.Pos = p.Pos.Add(p.Vel.Scale(h))
		}
		return nil
	})
}

func accelerate(particles []solar.Particle, bodies []solar.Body, acc []vec.Vec3, workers int) error {
	return parallelFor(len(particles), workers, func(s, e int) error {
		for j := s; j < e; j++ {
			a, err := gravity.Accel(particles[j].Pos, bodies)
			if err != nil {
				return fmt.Errorf("particle %s: %w", particles[j].Designation, err)
			}
			acc[j] = a
		}
		return nil
	})
}

func kick(particles []solar.Particle, acc []vec.Vec3, h float64, workers int) {
	parallelFor(len(particles), workers, func(s, e int) error {
		for j := s; j < e; j++ {
			p := &particles[j]
			p.Vel = p.Vel.Add(acc[j].Scale(h))
		}
		return nil
	})
}
