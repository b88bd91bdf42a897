package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/orbitlab/minorbit/internal/ephemeris"
	"github.com/orbitlab/minorbit/internal/integrator"
	"github.com/orbitlab/minorbit/internal/metrics"
	"github.com/orbitlab/minorbit/internal/solar"
	"github.com/orbitlab/minorbit/internal/vec"
)

const sunGM = 1.3271244004193938e11

func testSetup() ([]solar.Body, []solar.Particle, ephemeris.Source) {
	bodies := []solar.Body{
		{Name: solar.SunName, GM: sunGM},
		{Name: "MARS BARYCENTER", GM: 4.2828375214000022e4},
	}
	source := ephemeris.Fixed{
		solar.SunName:     {},
		"MARS BARYCENTER": {X: 2.2e8},
	}
	r := 1.495979e8
	v := math.Sqrt(sunGM / r)
	particles := []solar.Particle{
		{Designation: "2017 BX232", Pos: vec.Vec3{X: r}, Vel: vec.Vec3{Y: v}},
	}
	return bodies, particles, source
}

func testClock(t *testing.T) Clock {
	t.Helper()
	clock, err := NewClock(date(2024, 1, 1), date(2024, 1, 11), 48*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return clock
}

func TestRunRecords(t *testing.T) {
	bodies, particles, source := testSetup()
	initialPos := particles[0].Pos
	stepper, err := integrator.New("yoshida8", 1)
	if err != nil {
		t.Fatal(err)
	}

	eng := New(testClock(t), bodies, particles, source, stepper)
	res, err := eng.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Records) != 6 {
		t.Fatalf("got %d records, want 6", len(res.Records))
	}
	if !res.FinalEpoch.Equal(date(2024, 1, 13)) {
		t.Errorf("FinalEpoch = %v", res.FinalEpoch)
	}

	first := res.Records[0]
	if !first.Epoch.Equal(date(2024, 1, 1)) || first.Elapsed != 0 {
		t.Errorf("first record epoch %v elapsed %g", first.Epoch, first.Elapsed)
	}
	if first.Bodies[1] != (vec.Vec3{X: 2.2e8}) {
		t.Errorf("body position not resolved from source: %v", first.Bodies[1])
	}
	// Particle positions are sampled after the step, so even the first
	// record must differ from the initial state.
	if first.Particles[0] == initialPos {
		t.Error("first record holds pre-step particle position")
	}

	last := res.Records[5]
	if !last.Epoch.Equal(date(2024, 1, 11)) || last.Elapsed != 10*86400 {
		t.Errorf("last record epoch %v elapsed %g", last.Epoch, last.Elapsed)
	}
}

func TestRunDeterminism(t *testing.T) {
	run := func() []solar.Particle {
		bodies, particles, source := testSetup()
		stepper, err := integrator.New("yoshida8", 4)
		if err != nil {
			t.Fatal(err)
		}
		eng := New(testClock(t), bodies, particles, source, stepper)
		if _, err := eng.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		return eng.Particles()
	}

	a, b := run(), run()
	if a[0].Pos != b[0].Pos || a[0].Vel != b[0].Vel {
		t.Errorf("runs diverged: %+v vs %+v", a[0], b[0])
	}
}

func TestRunMetricsAndObservers(t *testing.T) {
	bodies, particles, source := testSetup()
	stepper, err := integrator.New("yoshida8", 1)
	if err != nil {
		t.Fatal(err)
	}

	eng := New(testClock(t), bodies, particles, source, stepper)
	eng.AddMetric(metrics.NewEnergyDrift())

	var cycles []int
	eng.AddObserver(ObserverFunc(func(cycle, total int, _ time.Time) {
		if total != 6 {
			t.Errorf("observer total = %d", total)
		}
		cycles = append(cycles, cycle)
	}))

	res, err := eng.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cycles) != 6 || cycles[0] != 1 || cycles[5] != 6 {
		t.Errorf("observer cycles = %v", cycles)
	}
	if _, ok := res.Metrics["energy_drift"]; !ok {
		t.Errorf("metrics = %v", res.Metrics)
	}
}

func TestRunSourceError(t *testing.T) {
	bodies, particles, _ := testSetup()
	source := ephemeris.Fixed{solar.SunName: {}} // no entry for Mars
	stepper, err := integrator.New("yoshida8", 1)
	if err != nil {
		t.Fatal(err)
	}

	eng := New(testClock(t), bodies, particles, source, stepper)
	_, err = eng.Run(context.Background())
	if err == nil {
		t.Fatal("expected retrieval failure")
	}
	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("error type %T", err)
	}
	if cerr.Cycle != 0 {
		t.Errorf("failed at cycle %d, want 0", cerr.Cycle)
	}
	if !errors.Is(err, ephemeris.ErrUnknownBody) {
		t.Errorf("cause not preserved: %v", err)
	}
}

func TestRunCancellation(t *testing.T) {
	bodies, particles, source := testSetup()
	stepper, err := integrator.New("yoshida8", 1)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := New(testClock(t), bodies, particles, source, stepper)
	if _, err := eng.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
