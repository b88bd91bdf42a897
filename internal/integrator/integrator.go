// Package integrator advances the particle set through macro time steps.
//
// A Stepper applies exactly one macro step of dt seconds against a fixed
// massive-body configuration; the caller re-resolves body positions between
// macro steps, never within one.
package integrator

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/orbitlab/minorbit/internal/solar"
)

type Stepper interface {
	Name() string
	Step(particles []solar.Particle, bodies []solar.Body, dt float64) error
}

// New returns the named stepper. workers bounds the per-phase fan-out across
// particles; zero means one worker per CPU.
func New(name string, workers int) (Stepper, error) {
	switch strings.ToLower(name) {
	case "", "yoshida8":
		return NewYoshida8(workers), nil
	case "leapfrog":
		return NewLeapfrog(workers), nil
	default:
		return nil, fmt.Errorf("integrator: unknown stepper %q", name)
	}
}

// minChunk keeps tiny particle sets on a single goroutine.
const minChunk = 8

// parallelFor splits [0, n) across the worker pool. Results never depend on
// the chunking: within a phase no particle's update reads another particle's
// state, so each index is touched by exactly one goroutine.
func parallelFor(n, workers int, fn func(start, end int) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if n <= minChunk || workers == 1 {
		return fn(0, n)
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}

	chunk := (n + workers - 1) / workers
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			errs[w] = fn(s, e)
		}(w, start, end)
	}
	wg.Wait()

	return errors.Join(errs...)
}
