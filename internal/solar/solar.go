// Package solar defines the massive-body set and the test particles
// propagated through it.
package solar

import "github.com/orbitlab/minorbit/internal/vec"

// AU is one astronomical unit in kilometers, as used for validation error
// normalization.
const AU = 1.495979e8

// SunName is the identifier of the Sun in the canonical body set.
const SunName = "SUN"

// Body is a massive body whose position is re-resolved from the ephemeris
// every cycle. GM (km³/s²) never changes during a run.
type Body struct {
	Name string
	GM   float64
	Pos  vec.Vec3
}

// Particle is a massless minor planet. It feels the gravity of the massive
// bodies but perturbs nothing, including other particles.
type Particle struct {
	Designation string
	Pos         vec.Vec3
	Vel         vec.Vec3
}

// Canonical returns the fixed set of nine massive bodies in their canonical
// order: the eight planetary barycenters followed by the Sun. GM values are
// the DE-series barycentric parameters in km³/s².
func Canonical() []Body {
	return []Body{
		{Name: "MERCURY BARYCENTER", GM: 2.2031780000000021e+04},
		{Name: "VENUS BARYCENTER", GM: 3.2485859200000006e+05},
		{Name: "EARTH BARYCENTER", GM: 4.0350323550225981e+05},
		{Name: "MARS BARYCENTER", GM: 4.2828375214000022e+04},
		{Name: "JUPITER BARYCENTER", GM: 1.2671276480000021e+08},
		{Name: "SATURN BARYCENTER", GM: 3.7940585200000003e+07},
		{Name: "URANUS BARYCENTER", GM: 5.7945486000000080e+06},
		{Name: "NEPTUNE BARYCENTER", GM: 6.8365271005800236e+06},
		{Name: SunName, GM: 1.3271244004193938e+11},
	}
}
