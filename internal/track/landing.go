package track

import (
	"math"
)

// Standard gravity in m/s².
const gravityMps2 = 9.81

// TimedPoint is one tracked ball position with its capture time.
type TimedPoint struct {
	X float64 // pixels
	Y float64 // pixels (image coordinates, y increases downward)
	T float64 // seconds
}

// LandingZone is a quick drag-free landing estimate in pixel space,
// produced before the full flight simulation is available.
type LandingZone struct {
	CenterX        float64
	CenterY        float64
	Radius         float64 // uncertainty radius, pixels
	DistancePx     float64
	DistanceMeters float64
}

// LandingEstimator predicts ball flight with plain kinematic equations
// (no drag, no spin). It operates in pixel space and converts distances to
// metres with a flat pixels-per-meter scale; accuracy depends on the
// calibration of that scale.
type LandingEstimator struct {
	PixelsPerMeter float64
}

// NewLandingEstimator creates an estimator with the given calibration scale.
// A non-positive scale falls back to 1 (pixel distances reported as metres).
func NewLandingEstimator(pixelsPerMeter float64) *LandingEstimator {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = 1
	}
	return &LandingEstimator{PixelsPerMeter: pixelsPerMeter}
}

// gravityPx returns gravitational acceleration in pixels/s² at the
// estimator's scale.
func (e *LandingEstimator) gravityPx() float64 {
	return gravityMps2 * e.PixelsPerMeter
}

// EstimateInitialVelocity derives launch velocity from the first and last
// tracked positions. Returns velocity components in pixels/second, the
// launch angle in degrees (image y inverted so positive is upward), and the
// speed magnitude. Fewer than two points, or zero elapsed time, yields all
// zeros rather than an error.
func EstimateInitialVelocity(positions []TimedPoint) (vx, vy, angleDeg, speed float64) {
	if len(positions) < 2 {
		return 0, 0, 0, 0
	}

	first := positions[0]
	last := positions[len(positions)-1]

	dt := last.T - first.T
	if dt <= 0 {
		return 0, 0, 0, 0
	}

	vx = (last.X - first.X) / dt
	vy = (last.Y - first.Y) / dt
	speed = math.Hypot(vx, vy)

	// Negative vy because image y increases downward.
	angleDeg = math.Atan2(-vy, vx) * 180 / math.Pi
	return vx, vy, angleDeg, speed
}

// PredictRange predicts the drag-free projectile range in pixels:
// R = v²·sin(2θ)/g.
func (e *LandingEstimator) PredictRange(speed, angleDeg float64) float64 {
	if speed == 0 {
		return 0
	}
	angleRad := angleDeg * math.Pi / 180
	return speed * speed * math.Sin(2*angleRad) / e.gravityPx()
}

// Trajectory samples the parabolic path from (x0, y0) with initial velocity
// (vx, vy) in pixel coordinates until the ball returns to its launch height.
// numPoints controls sampling density; fewer than two points returns nil.
func (e *LandingEstimator) Trajectory(x0, y0, vx, vy float64, numPoints int) (xs, ys []float64) {
	if numPoints < 2 {
		return nil, nil
	}

	g := e.gravityPx()
	var flightTime float64
	if vy != 0 {
		flightTime = math.Abs(2 * vy / g)
	}

	xs = make([]float64, numPoints)
	ys = make([]float64, numPoints)
	for i := 0; i < numPoints; i++ {
		t := flightTime * float64(i) / float64(numPoints-1)
		xs[i] = x0 + vx*t
		ys[i] = y0 + vy*t + 0.5*g*t*t
	}
	return xs, ys
}

// PredictLandingZone computes the predicted landing point with an
// uncertainty radius. Zero vertical velocity lands at the launch point.
func (e *LandingEstimator) PredictLandingZone(x0, y0, vx, vy, uncertaintyRadius float64) LandingZone {
	g := e.gravityPx()

	landingX := x0
	landingY := y0
	if vy != 0 {
		flightTime := math.Abs(2 * vy / g)
		landingX = x0 + vx*flightTime
		landingY = y0 + vy*flightTime + 0.5*g*flightTime*flightTime
	}

	distPx := math.Hypot(landingX-x0, landingY-y0)
	return LandingZone{
		CenterX:        landingX,
		CenterY:        landingY,
		Radius:         uncertaintyRadius,
		DistancePx:     distPx,
		DistanceMeters: distPx / e.PixelsPerMeter,
	}
}
