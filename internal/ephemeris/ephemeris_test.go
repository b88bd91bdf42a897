package ephemeris

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/soniakeys/unit"

	"github.com/orbitlab/minorbit/internal/solar"
	"github.com/orbitlab/minorbit/internal/vec"
)

func TestFixedSource(t *testing.T) {
	src := Fixed{"SUN": {X: 1, Y: 2, Z: 3}}

	pos, err := src.Position("SUN", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if pos != (vec.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("got %v", pos)
	}

	_, err = src.Position("PLANET X", time.Now())
	if !errors.Is(err, ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
}

func TestVSOP87SunAtOrigin(t *testing.T) {
	src := NewVSOP87("")
	pos, err := src.Position(solar.SunName, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if pos != (vec.Vec3{}) {
		t.Errorf("Sun must sit at the heliocentric origin, got %v", pos)
	}
}

func TestVSOP87UnknownBody(t *testing.T) {
	src := NewVSOP87("")
	_, err := src.Position("MOON", time.Now())
	if !errors.Is(err, ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
}

func TestVSOP87CoversCanonicalSet(t *testing.T) {
	for _, b := range solar.Canonical() {
		if b.Name == solar.SunName {
			continue
		}
		if _, ok := vsopIndex[b.Name]; !ok {
			t.Errorf("no VSOP87 series mapped for %s", b.Name)
		}
	}
}

func TestSphericalToCartesian(t *testing.T) {
	cases := []struct {
		l, b, r float64
		want    vec.Vec3
	}{
		{0, 0, 2, vec.Vec3{X: 2}},
		{math.Pi / 2, 0, 3, vec.Vec3{Y: 3}},
		{0, math.Pi / 2, 5, vec.Vec3{Z: 5}},
	}

	for i, c := range cases {
		got := sphericalToCartesian(unit.Angle(c.l), unit.Angle(c.b), c.r)
		if got.Sub(c.want).Norm() > 1e-12*c.r {
			t.Errorf("case %d: got %v, want %v", i, got, c.want)
		}
	}
}
