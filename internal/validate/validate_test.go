package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/orbitlab/minorbit/internal/horizons"
	"github.com/orbitlab/minorbit/internal/solar"
	"github.com/orbitlab/minorbit/internal/vec"
)

func TestCompare(t *testing.T) {
	particles := []solar.Particle{
		{Designation: "2017 BX232", Pos: vec.Vec3{X: solar.AU}},
		{Designation: "2019 AB1", Pos: vec.Vec3{X: 1e8}},
	}
	refs := []horizons.Result{
		{Designation: "2017 BX232", State: horizons.StateVector{Pos: vec.Vec3{X: 2 * solar.AU}}},
		{Designation: "2019 AB1", Err: errors.New("boom")},
	}

	reports := Compare(particles, refs)
	if len(reports) != 2 {
		t.Fatalf("got %d reports", len(reports))
	}
	if reports[0].Err != nil || math.Abs(reports[0].ErrorAU-1.0) > 1e-12 {
		t.Errorf("report 0: %+v, want 1 AU", reports[0])
	}
	if reports[1].Err == nil {
		t.Error("fetch failure not carried through")
	}

	m := ToMap(reports)
	if len(m) != 1 || math.Abs(m["2017 BX232"]-1.0) > 1e-12 {
		t.Errorf("ToMap = %v", m)
	}
}

func TestCompareMissingReference(t *testing.T) {
	particles := []solar.Particle{{Designation: "2017 BX232"}}
	reports := Compare(particles, nil)
	if reports[0].Err == nil {
		t.Error("expected error for missing reference state")
	}
}
