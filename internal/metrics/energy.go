// Package metrics provides observational quantities sampled during a run.
// Metrics never influence the propagation.
package metrics

import (
	"math"
	"time"

	"github.com/orbitlab/minorbit/internal/gravity"
	"github.com/orbitlab/minorbit/internal/solar"
)

type Metric interface {
	Name() string
	Observe(particles []solar.Particle, bodies []solar.Body, epoch time.Time)
	Value() float64
	Reset()
}

// EnergyDrift tracks the largest relative excursion of any particle's
// specific orbital energy from its first observed value. For a symplectic
// scheme the value stays in a narrow band; secular growth points at a dt too
// large for the fastest orbit in the set.
type EnergyDrift struct {
	initial  []float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(particles []solar.Particle, bodies []solar.Body, _ time.Time) {
	if e.samples == 0 {
		e.initial = make([]float64, len(particles))
		for i := range particles {
			e.initial[i] = gravity.SpecificEnergy(particles[i].Pos, particles[i].Vel, bodies)
		}
	}
	e.samples++

	for i := range particles {
		if i >= len(e.initial) || e.initial[i] == 0 {
			continue
		}
		energy := gravity.SpecificEnergy(particles[i].Pos, particles[i].Vel, bodies)
		drift := math.Abs(energy-e.initial[i]) / math.Abs(e.initial[i])
		if drift > e.maxDrift {
			e.maxDrift = drift
		}
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = nil
	e.maxDrift = 0
	e.samples = 0
}
