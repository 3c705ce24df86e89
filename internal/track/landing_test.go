package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateInitialVelocity(t *testing.T) {
	t.Parallel()

	t.Run("too few points", func(t *testing.T) {
		t.Parallel()
		vx, vy, angle, speed := EstimateInitialVelocity([]TimedPoint{{X: 1, Y: 2, T: 0}})
		assert.Zero(t, vx)
		assert.Zero(t, vy)
		assert.Zero(t, angle)
		assert.Zero(t, speed)
	})

	t.Run("zero elapsed time", func(t *testing.T) {
		t.Parallel()
		_, _, _, speed := EstimateInitialVelocity([]TimedPoint{
			{X: 0, Y: 0, T: 1}, {X: 100, Y: 100, T: 1},
		})
		assert.Zero(t, speed, "zero dt must yield zero velocity, not Inf")
	})

	t.Run("forward and upward launch", func(t *testing.T) {
		t.Parallel()
		// Image y decreasing means the ball rises.
		vx, vy, angle, speed := EstimateInitialVelocity([]TimedPoint{
			{X: 100, Y: 200, T: 0},
			{X: 200, Y: 150, T: 0.5},
		})
		assert.InDelta(t, 200, vx, 1e-9)
		assert.InDelta(t, -100, vy, 1e-9)
		assert.Greater(t, angle, 0.0, "rising ball has positive launch angle")
		assert.InDelta(t, math.Hypot(200, 100), speed, 1e-9)
	})
}

func TestPredictRange(t *testing.T) {
	t.Parallel()

	e := NewLandingEstimator(100)

	assert.Zero(t, e.PredictRange(0, 45))

	// Range is maximal at 45 degrees.
	r30 := e.PredictRange(500, 30)
	r45 := e.PredictRange(500, 45)
	r60 := e.PredictRange(500, 60)
	assert.Greater(t, r45, r30)
	assert.Greater(t, r45, r60)
	// 30 and 60 degrees give the same drag-free range.
	assert.InDelta(t, r30, r60, 1e-6)
}

func TestTrajectorySamples(t *testing.T) {
	t.Parallel()

	e := NewLandingEstimator(100)

	xs, ys := e.Trajectory(0, 500, 300, -200, 60)
	require.Len(t, xs, 60)
	require.Len(t, ys, 60)

	// Starts at the launch point and returns to launch height.
	assert.InDelta(t, 0, xs[0], 1e-9)
	assert.InDelta(t, 500, ys[0], 1e-9)
	assert.InDelta(t, 500, ys[len(ys)-1], 1.0)

	// Monotone forward progress.
	for i := 1; i < len(xs); i++ {
		assert.Greater(t, xs[i], xs[i-1])
	}

	xs, ys = e.Trajectory(0, 0, 1, 1, 1)
	assert.Nil(t, xs)
	assert.Nil(t, ys)
}

func TestPredictLandingZone(t *testing.T) {
	t.Parallel()

	e := NewLandingEstimator(100)

	t.Run("zero vertical velocity lands at launch point", func(t *testing.T) {
		t.Parallel()
		zone := e.PredictLandingZone(50, 60, 10, 0, 20)
		assert.Equal(t, 50.0, zone.CenterX)
		assert.Equal(t, 60.0, zone.CenterY)
		assert.Equal(t, 20.0, zone.Radius)
		assert.Zero(t, zone.DistancePx)
	})

	t.Run("upward launch travels downrange", func(t *testing.T) {
		t.Parallel()
		zone := e.PredictLandingZone(0, 0, 400, -300, 20)
		assert.Greater(t, zone.CenterX, 0.0)
		assert.Greater(t, zone.DistancePx, 0.0)
		assert.InDelta(t, zone.DistancePx/100, zone.DistanceMeters, 1e-9)
	})
}

func TestNewLandingEstimatorGuardsScale(t *testing.T) {
	t.Parallel()

	e := NewLandingEstimator(0)
	assert.Equal(t, 1.0, e.PixelsPerMeter)
	e = NewLandingEstimator(-5)
	assert.Equal(t, 1.0, e.PixelsPerMeter)
}
