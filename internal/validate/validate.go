// Package validate compares propagated particle states against independently
// fetched reference states.
package validate

import (
	"fmt"

	"github.com/orbitlab/minorbit/internal/horizons"
	"github.com/orbitlab/minorbit/internal/solar"
)

// Report is one particle's position error against its reference state.
type Report struct {
	Designation string
	ErrorAU     float64
	Err         error
}

// Compare matches each particle with the reference result at the same index
// and reports the position error in astronomical units. Reference fetch
// failures carry through as per-particle errors rather than failing the set.
func Compare(particles []solar.Particle, refs []horizons.Result) []Report {
	reports := make([]Report, len(particles))
	for i, p := range particles {
		reports[i].Designation = p.Designation
		if i >= len(refs) {
			reports[i].Err = fmt.Errorf("validate: no reference state for %s", p.Designation)
			continue
		}
		if refs[i].Err != nil {
			reports[i].Err = refs[i].Err
			continue
		}
		reports[i].ErrorAU = p.Pos.Sub(refs[i].State.Pos).Norm() / solar.AU
	}
	return reports
}

// ToMap folds successful reports into a designation-keyed map for storage.
func ToMap(reports []Report) map[string]float64 {
	out := make(map[string]float64, len(reports))
	for _, r := range reports {
		if r.Err == nil {
			out[r.Designation] = r.ErrorAU
		}
	}
	return out
}
