package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/orbitlab/minorbit/internal/solar"
	"github.com/orbitlab/minorbit/internal/vec"
)

func TestEnergyDrift(t *testing.T) {
	gm := 1.3271244004193938e11
	r := 1.495979e8
	v := math.Sqrt(gm / r)
	bodies := []solar.Body{{Name: solar.SunName, GM: gm}}
	particles := []solar.Particle{{Designation: "p", Pos: vec.Vec3{X: r}, Vel: vec.Vec3{Y: v}}}

	m := NewEnergyDrift()
	now := time.Now()

	m.Observe(particles, bodies, now)
	if m.Value() != 0 {
		t.Errorf("first sample must have zero drift, got %g", m.Value())
	}

	// Same state again: still zero.
	m.Observe(particles, bodies, now)
	if m.Value() != 0 {
		t.Errorf("unchanged state must not drift, got %g", m.Value())
	}

	// Doubling speed changes the energy; drift must become positive.
	particles[0].Vel = vec.Vec3{Y: 2 * v}
	m.Observe(particles, bodies, now)
	if m.Value() <= 0 {
		t.Error("expected positive drift after velocity change")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("Reset must clear the drift")
	}
}
