package gravity

import (
	"errors"
	"math"
	"testing"

	"github.com/orbitlab/minorbit/internal/solar"
	"github.com/orbitlab/minorbit/internal/vec"
)

func TestAccelSingleBody(t *testing.T) {
	// One body of GM=4 at distance 2 along x: |a| = 4/4 = 1, pointing at it.
	bodies := []solar.Body{{Name: "test", GM: 4, Pos: vec.Vec3{X: 2}}}

	a, err := Accel(vec.Vec3{}, bodies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(a.X-1) > 1e-15 || a.Y != 0 || a.Z != 0 {
		t.Errorf("got %v, want (1,0,0)", a)
	}
}

func TestAccelSuperposition(t *testing.T) {
	// Two equal bodies placed symmetrically cancel exactly.
	bodies := []solar.Body{
		{Name: "a", GM: 10, Pos: vec.Vec3{X: 5}},
		{Name: "b", GM: 10, Pos: vec.Vec3{X: -5}},
	}

	a, err := Accel(vec.Vec3{}, bodies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Norm() > 1e-18 {
		t.Errorf("symmetric field should cancel, got %v", a)
	}
}

func TestAccelInverseSquare(t *testing.T) {
	bodies := []solar.Body{{Name: "sun", GM: 1.32712440018e11, Pos: vec.Vec3{}}}

	near, err := Accel(vec.Vec3{X: 1e8}, bodies)
	if err != nil {
		t.Fatal(err)
	}
	far, err := Accel(vec.Vec3{X: 2e8}, bodies)
	if err != nil {
		t.Fatal(err)
	}

	ratio := near.Norm() / far.Norm()
	if math.Abs(ratio-4) > 1e-12 {
		t.Errorf("doubling distance should quarter acceleration, ratio %f", ratio)
	}
}

func TestAccelSingularity(t *testing.T) {
	bodies := []solar.Body{{Name: "sun", GM: 1, Pos: vec.Vec3{X: 1}}}

	_, err := Accel(vec.Vec3{X: 1}, bodies)
	if !errors.Is(err, ErrSingularity) {
		t.Fatalf("expected ErrSingularity, got %v", err)
	}
}

func TestSpecificEnergyCircular(t *testing.T) {
	// Circular orbit: E = -GM/(2r).
	gm := 1.32712440018e11
	r := 1.495979e8
	v := math.Sqrt(gm / r)
	bodies := []solar.Body{{Name: "sun", GM: gm}}

	e := SpecificEnergy(vec.Vec3{X: r}, vec.Vec3{Y: v}, bodies)
	want := -gm / (2 * r)

	if math.Abs(e-want) > math.Abs(want)*1e-12 {
		t.Errorf("got %g, want %g", e, want)
	}
}
