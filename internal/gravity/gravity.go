// Package gravity computes the gravitational acceleration a test particle
// feels from the massive-body set.
package gravity

import (
	"errors"
	"fmt"

	"github.com/orbitlab/minorbit/internal/solar"
	"github.com/orbitlab/minorbit/internal/vec"
)

// MinSeparation is the smallest particle-body distance, in km, accepted by
// the acceleration model. Below it the inverse-square term is treated as a
// singular configuration rather than left to produce Inf/NaN.
const MinSeparation = 1e-3

// ErrSingularity indicates a particle coincides with a massive body.
var ErrSingularity = errors.New("gravity: particle coincides with a massive body")

// Accel returns the net gravitational acceleration (km/s²) on a particle at
// position p. Every body contributes GM·(r_b − p)/|r_b − p|³; none is skipped
// or weighted by mass ordering.
func Accel(p vec.Vec3, bodies []solar.Body) (vec.Vec3, error) {
	var a vec.Vec3
	for i := range bodies {
		r := bodies[i].Pos.Sub(p)
		d := r.Norm()
		if d < MinSeparation {
			return vec.Vec3{}, fmt.Errorf("%w: %s at separation %g km", ErrSingularity, bodies[i].Name, d)
		}
		a = a.Add(r.Scale(bodies[i].GM / (d * d * d)))
	}
	return a, nil
}

// SpecificEnergy returns the specific orbital energy v²/2 − Σ GM/r of a
// particle in the instantaneous body field. For a single fixed central body
// this is a conserved quantity; the energy-drift metric samples it.
func SpecificEnergy(pos, vel vec.Vec3, bodies []solar.Body) float64 {
	e := vel.NormSq() / 2
	for i := range bodies {
		d := bodies[i].Pos.Sub(pos).Norm()
		if d > 0 {
			e -= bodies[i].GM / d
		}
	}
	return e
}
