// Package engine drives the cycle loop: resolve the massive bodies for the
// cycle epoch, record the pre-step state, advance the particles one macro
// step and sample the metrics.
package engine

import (
	"context"
	"time"

	"github.com/orbitlab/minorbit/internal/ephemeris"
	"github.com/orbitlab/minorbit/internal/integrator"
	"github.com/orbitlab/minorbit/internal/metrics"
	"github.com/orbitlab/minorbit/internal/results"
	"github.com/orbitlab/minorbit/internal/solar"
	"github.com/orbitlab/minorbit/internal/vec"
)

// Observer is notified after each completed cycle. Observers run on the
// propagation goroutine and must return quickly.
type Observer interface {
	OnCycle(cycle, total int, epoch time.Time)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(cycle, total int, epoch time.Time)

func (f ObserverFunc) OnCycle(cycle, total int, epoch time.Time) { f(cycle, total, epoch) }

// Result holds everything a finished propagation produced.
type Result struct {
	Records    []results.Record
	FinalEpoch time.Time
	Metrics    map[string]float64
}

// Engine owns one propagation run. It is not safe for concurrent use.
type Engine struct {
	clock     Clock
	bodies    []solar.Body
	particles []solar.Particle
	source    ephemeris.Source
	stepper   integrator.Stepper
	observers []Observer
	metrics   []metrics.Metric
}

// New assembles an engine. The particle slice is propagated in place.
func New(clock Clock, bodies []solar.Body, particles []solar.Particle, source ephemeris.Source, stepper integrator.Stepper) *Engine {
	return &Engine{
		clock:     clock,
		bodies:    bodies,
		particles: particles,
		source:    source,
		stepper:   stepper,
	}
}

func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

func (e *Engine) AddMetric(m metrics.Metric) {
	e.metrics = append(e.metrics, m)
}

// Run executes the full cycle schedule. Each cycle records the epoch, the
// elapsed seconds and the body positions as resolved before the step, and the
// particle positions as they stand after the step. Cancellation is checked
// between cycles; a cancelled run returns the context error with no partial
// record for the interrupted cycle.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	total := e.clock.Cycles()
	dt := e.clock.DtSeconds()

	res := &Result{Records: make([]results.Record, 0, total)}

	for k := 0; k < total; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		epoch := e.clock.Epoch(k)

		if err := e.resolveBodies(epoch); err != nil {
			return nil, &CycleError{Cycle: k, Epoch: epoch, Err: err}
		}

		rec := results.Record{
			Epoch:   epoch,
			Elapsed: epoch.Sub(e.clock.Start).Seconds(),
			Bodies:  make([]vec.Vec3, len(e.bodies)),
		}
		for i, b := range e.bodies {
			rec.Bodies[i] = b.Pos
		}

		if err := e.stepper.Step(e.particles, e.bodies, dt); err != nil {
			return nil, &CycleError{Cycle: k, Epoch: epoch, Err: err}
		}

		rec.Particles = make([]vec.Vec3, len(e.particles))
		for i, p := range e.particles {
			rec.Particles[i] = p.Pos
		}
		res.Records = append(res.Records, rec)

		for _, m := range e.metrics {
			m.Observe(e.particles, e.bodies, epoch)
		}
		for _, o := range e.observers {
			o.OnCycle(k+1, total, epoch)
		}
	}

	res.FinalEpoch = e.clock.FinalEpoch()
	if len(e.metrics) > 0 {
		res.Metrics = make(map[string]float64, len(e.metrics))
		for _, m := range e.metrics {
			res.Metrics[m.Name()] = m.Value()
		}
	}
	return res, nil
}

// Particles exposes the current particle states, final states after Run.
func (e *Engine) Particles() []solar.Particle {
	return e.particles
}

func (e *Engine) resolveBodies(epoch time.Time) error {
	for i := range e.bodies {
		pos, err := e.source.Position(e.bodies[i].Name, epoch)
		if err != nil {
			return err
		}
		e.bodies[i].Pos = pos
	}
	return nil
}
