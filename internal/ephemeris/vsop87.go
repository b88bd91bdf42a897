package ephemeris

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/unit"

	"github.com/orbitlab/minorbit/internal/solar"
	"github.com/orbitlab/minorbit/internal/vec"
)

// vsopIndex maps canonical body names to VSOP87 series numbers. The Earth
// series stands in for the Earth-Moon barycenter; the offset is well below
// the fixed-bodies-per-step error of the propagation itself.
var vsopIndex = map[string]int{
	"MERCURY BARYCENTER": planetposition.Mercury,
	"VENUS BARYCENTER":   planetposition.Venus,
	"EARTH BARYCENTER":   planetposition.Earth,
	"MARS BARYCENTER":    planetposition.Mars,
	"JUPITER BARYCENTER": planetposition.Jupiter,
	"SATURN BARYCENTER":  planetposition.Saturn,
	"URANUS BARYCENTER":  planetposition.Uranus,
	"NEPTUNE BARYCENTER": planetposition.Neptune,
}

// VSOP87 serves heliocentric ecliptic-of-J2000 positions from the VSOP87
// series. The Sun sits at the origin of this frame. Planet series load
// lazily from dir (or the VSOP87 environment variable when dir is empty) and
// are cached for the life of the source.
type VSOP87 struct {
	dir string

	mu      sync.Mutex
	planets map[int]*planetposition.V87Planet
}

func NewVSOP87(dir string) *VSOP87 {
	return &VSOP87{dir: dir, planets: make(map[int]*planetposition.V87Planet)}
}

func (v *VSOP87) Position(name string, epoch time.Time) (vec.Vec3, error) {
	if name == solar.SunName {
		return vec.Vec3{}, nil
	}

	idx, ok := vsopIndex[name]
	if !ok {
		return vec.Vec3{}, fmt.Errorf("%w: %s", ErrUnknownBody, name)
	}

	planet, err := v.planet(idx)
	if err != nil {
		return vec.Vec3{}, fmt.Errorf("ephemeris: loading series for %s: %w", name, err)
	}

	l, b, r := planet.Position2000(julian.TimeToJD(epoch))
	return sphericalToCartesian(l, b, r*solar.AU), nil
}

func (v *VSOP87) planet(idx int) (*planetposition.V87Planet, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if p, ok := v.planets[idx]; ok {
		return p, nil
	}

	var p *planetposition.V87Planet
	var err error
	if v.dir == "" {
		p, err = planetposition.LoadPlanet(idx)
	} else {
		p, err = planetposition.LoadPlanetPath(idx, v.dir)
	}
	if err != nil {
		return nil, err
	}
	v.planets[idx] = p
	return p, nil
}

// sphericalToCartesian converts ecliptic longitude/latitude and radius (km)
// to Cartesian coordinates.
func sphericalToCartesian(l, b unit.Angle, r float64) vec.Vec3 {
	sB, cB := math.Sincos(b.Rad())
	sL, cL := math.Sincos(l.Rad())
	return vec.Vec3{
		X: r * cB * cL,
		Y: r * cB * sL,
		Z: r * sB,
	}
}
