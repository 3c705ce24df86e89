package flight

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSimConfig() SimConfig {
	return SimConfig{
		DragCoefficient:       0.25,
		LiftCoefficientPerRPM: 0.00008,
		SpinDecayPerSecond:    0.02,
		Dt:                    0.01,
		MaxFlightSeconds:      15,
	}
}

func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	sim, err := NewSimulator(testSimConfig())
	require.NoError(t, err)
	return sim
}

func TestNewSimulatorValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*SimConfig)
	}{
		{"negative drag", func(c *SimConfig) { c.DragCoefficient = -1 }},
		{"negative lift", func(c *SimConfig) { c.LiftCoefficientPerRPM = -1 }},
		{"negative spin decay", func(c *SimConfig) { c.SpinDecayPerSecond = -0.1 }},
		{"zero dt", func(c *SimConfig) { c.Dt = 0 }},
		{"zero time cap", func(c *SimConfig) { c.MaxFlightSeconds = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := testSimConfig()
			tc.mutate(&cfg)
			_, err := NewSimulator(cfg)
			assert.Error(t, err)
		})
	}
}

// TestDriverShotRegression pins the calibrated model to a typical driver
// shot: 145 mph ball speed, 12 degree launch, 2500 rpm backspin, calm air.
func TestDriverShotRegression(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	res, err := sim.Simulate(Params{
		SpeedMPH:       145,
		LaunchAngleDeg: 12,
		BackspinRPM:    2500,
	})
	require.NoError(t, err)

	assert.InDelta(t, 243.3, res.CarryYards, 1.0)
	assert.InDelta(t, 31.3, res.ApexYards, 0.5)
	assert.InDelta(t, 6.36, res.FlightTimeSeconds, 0.05)

	// Physically plausible driver ranges.
	assert.GreaterOrEqual(t, res.CarryYards, 220.0)
	assert.LessOrEqual(t, res.CarryYards, 260.0)
	assert.GreaterOrEqual(t, res.ApexYards, 25.0)
	assert.LessOrEqual(t, res.ApexYards, 40.0)
	assert.GreaterOrEqual(t, res.FlightTimeSeconds, 5.5)
	assert.LessOrEqual(t, res.FlightTimeSeconds, 7.0)

	assert.InDelta(t, 0, res.CurveYards, 1e-9, "no side spin, no wind: no curve")
	assert.False(t, res.Truncated)
	assert.Less(t, res.FinalSpinRPM, 2500.0, "spin decays in flight")
	assert.Greater(t, res.FinalSpinRPM, 2000.0)
}

func TestHeadwindReducesCarry(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	calm, err := sim.Simulate(Params{SpeedMPH: 145, LaunchAngleDeg: 12, BackspinRPM: 2500})
	require.NoError(t, err)
	head, err := sim.Simulate(Params{
		SpeedMPH: 145, LaunchAngleDeg: 12, BackspinRPM: 2500,
		WindSpeedMPH: 10, WindDirectionDeg: 0,
	})
	require.NoError(t, err)

	assert.Greater(t, calm.CarryYards-head.CarryYards, 5.0,
		"a 10 mph headwind must cost measurable carry")
}

func TestMonotoneWindEffect(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	carry := func(windMPH, windDirDeg float64) float64 {
		res, err := sim.Simulate(Params{
			SpeedMPH: 145, LaunchAngleDeg: 12, BackspinRPM: 2500,
			WindSpeedMPH: windMPH, WindDirectionDeg: windDirDeg,
		})
		require.NoError(t, err)
		return res.CarryYards
	}

	prev := carry(0, 0)
	for _, w := range []float64{5, 10, 15, 20} {
		c := carry(w, 0)
		assert.Less(t, c, prev, "headwind %v mph must shorten carry", w)
		prev = c
	}

	prev = carry(0, 180)
	for _, w := range []float64{5, 10, 15, 20} {
		c := carry(w, 180)
		assert.Greater(t, c, prev, "tailwind %v mph must lengthen carry", w)
		prev = c
	}
}

// TestSideSpinSymmetry verifies the reflection property: negating the spin
// axis negates the curve and changes nothing else.
func TestSideSpinSymmetry(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	right, err := sim.Simulate(Params{SpeedMPH: 145, LaunchAngleDeg: 12, BackspinRPM: 2500, SpinAxisDeg: 20})
	require.NoError(t, err)
	left, err := sim.Simulate(Params{SpeedMPH: 145, LaunchAngleDeg: 12, BackspinRPM: 2500, SpinAxisDeg: -20})
	require.NoError(t, err)

	assert.Greater(t, right.CurveYards, 10.0, "a 20 degree axis tilt curves hard")
	assert.InDelta(t, right.CurveYards, -left.CurveYards, 1e-9)
	assert.InDelta(t, right.CarryYards, left.CarryYards, 1e-9)
	assert.InDelta(t, right.FlightTimeSeconds, left.FlightTimeSeconds, 1e-9)
}

func TestZeroSpeedIsOnePointTrajectory(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	res, err := sim.Simulate(Params{SpeedMPH: 0, LaunchAngleDeg: 12, BackspinRPM: 2500})
	require.NoError(t, err)

	require.Len(t, res.Points, 1)
	assert.Equal(t, Point{}, res.Points[0])
	assert.Zero(t, res.CarryYards)
	assert.Zero(t, res.ApexYards)
	assert.Zero(t, res.FlightTimeSeconds)
}

// TestTerminationAtExtremes drives the model at the top of its documented
// input range. High spin at high speed floats for a long time; the flight
// must still return, flagged, with finite numbers.
func TestTerminationAtExtremes(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	res, err := sim.Simulate(Params{
		SpeedMPH:       201.3, // 90 m/s
		LaunchAngleDeg: 45,
		BackspinRPM:    6000,
	})
	require.NoError(t, err)

	assert.True(t, res.Truncated, "a floating ball must hit the time cap, not loop")
	assert.LessOrEqual(t, res.FlightTimeSeconds, testSimConfig().MaxFlightSeconds+0.02)
	assert.False(t, math.IsNaN(res.CarryYards))
	assert.False(t, math.IsInf(res.ApexYards, 0))
	for _, p := range res.Points {
		require.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z))
	}
}

func TestPointsAreTimeOrderedFromOrigin(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	res, err := sim.Simulate(Params{SpeedMPH: 145, LaunchAngleDeg: 12, BackspinRPM: 2500})
	require.NoError(t, err)

	require.NotEmpty(t, res.Points)
	assert.Equal(t, Point{}, res.Points[0])
	for i := 1; i < len(res.Points); i++ {
		assert.Greater(t, res.Points[i].T, res.Points[i-1].T)
		assert.GreaterOrEqual(t, res.Points[i].Z, 0.0, "recorded points stay above ground")
	}
}

func TestEnvironmentAdjustments(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	shot := func(env Environment) float64 {
		res, err := sim.Simulate(Params{
			SpeedMPH: 145, LaunchAngleDeg: 12, BackspinRPM: 2500, Env: &env,
		})
		require.NoError(t, err)
		return res.CarryYards
	}

	seaLevel := shot(DefaultEnvironment())
	denver := shot(Environment{AltitudeMeters: 1600, TemperatureF: 70})
	assert.Greater(t, denver, seaLevel, "thin air carries farther")

	hot := shot(Environment{TemperatureF: 90})
	cold := shot(Environment{TemperatureF: 40})
	assert.Greater(t, hot, cold, "hot air carries farther than cold")
}

func TestSimulateRejectsNonFiniteParams(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	_, err := sim.Simulate(Params{SpeedMPH: math.NaN()})
	assert.Error(t, err)
	_, err = sim.Simulate(Params{SpeedMPH: 145, LaunchAngleDeg: math.Inf(1)})
	assert.Error(t, err)
}

func TestSimulateShapeUsesCatalogueParameters(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	straight, ok := ShotShapeByKey("straight")
	require.True(t, ok)
	slice, ok := ShotShapeByKey("high_slice")
	require.True(t, ok)

	sres, err := sim.SimulateShape(straight, 145, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, sres.CurveYards, 1e-9)

	cres, err := sim.SimulateShape(slice, 145, 0, 0)
	require.NoError(t, err)
	assert.Greater(t, cres.CurveYards, 0.0, "a slice curves right")
}
