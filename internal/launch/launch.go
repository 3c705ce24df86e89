// Package launch derives the initial flight vector of a golf shot from the
// first tracked positions after impact.
//
// The calculator works from a short launch window of pixel-space points. With
// a plane calibration it reports real-world speed directly; without one it
// falls back to scale estimation from the known size of a golf ball. Every
// result carries a confidence score so downstream consumers can discard
// implausible vectors instead of simulating them.
package launch

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/fairway-data/carry.report/internal/config"
	"github.com/fairway-data/carry.report/internal/units"
)

// golfBallRadiusMeters is the regulation ball radius used for fallback scale
// estimation when no calibration is available.
const golfBallRadiusMeters = 0.0214

// Realistic measurement bounds used for confidence scoring and angle
// substitution.
const (
	minPlausibleSpeedMPH = 50.0
	maxPlausibleSpeedMPH = 250.0
	minPlausibleAngleDeg = 5.0
	maxPlausibleAngleDeg = 30.0
	maxLaunchAngleDeg    = 45.0
)

// AngleMethod records how the launch angle was obtained.
type AngleMethod string

const (
	// AngleMeasured means the angle came from the observed pixel trajectory.
	AngleMeasured AngleMethod = "measured"
	// AngleAssumedTypical means the observed angle was implausible and a
	// typical driver launch angle was substituted.
	AngleAssumedTypical AngleMethod = "assumed_typical"
)

// TrackedPoint is one smoothed ball position inside the launch window.
// T is seconds since capture start; Frame is the fallback clock when
// timestamps are unavailable.
type TrackedPoint struct {
	X     float64
	Y     float64
	T     float64
	Frame int
}

// Calibration maps pixel coordinates onto the ground plane in metres.
// Implementations are typically backed by a homography fitted during setup.
type Calibration interface {
	// PixelToMeters converts an image point to plane coordinates.
	PixelToMeters(x, y float64) (mx, my float64)
}

// ShotContext carries the phone sensor readings taken at capture time.
type ShotContext struct {
	CompassHeadingDeg float64 // camera facing, degrees clockwise from north
	CameraTiltDeg     float64 // upward tilt from the gyroscope
	FPS               float64 // frame clock, used when points carry no timestamps
}

// Vector is the computed launch state of a shot.
type Vector struct {
	// Insufficient marks a window too thin to compute anything. The rest of
	// the vector is zero and Confidence is 0; callers must check this (or
	// Confidence) before acting on the result.
	Insufficient       bool
	SpeedMPS           float64
	SpeedMPH           float64
	LaunchAngleDeg     float64
	AngleMethod        AngleMethod
	BearingDeg         float64 // absolute direction, degrees clockwise from north
	PixelOffsetDeg     float64 // image-plane offset folded into the bearing
	Confidence         float64 // 0..1
	PointsUsed         int
	DisplacementMeters float64
	ElapsedSeconds     float64
}

// Config holds the calculator's tunable parameters.
type Config struct {
	// WindowMaxPoints caps how many leading trajectory points feed the
	// calculation.
	WindowMaxPoints int
	// AssumedBallRadiusPx is the expected on-screen ball radius used for the
	// uncalibrated scale fallback.
	AssumedBallRadiusPx float64
	// DefaultAngleDeg is substituted when the measured angle is implausible.
	DefaultAngleDeg float64
}

// DefaultConfig returns calculator configuration loaded from the canonical
// tuning defaults file.
func DefaultConfig() Config {
	cfg := config.MustLoadDefaultConfig()
	return ConfigFromTuning(cfg)
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		WindowMaxPoints:     cfg.GetLaunchWindowMaxPoints(),
		AssumedBallRadiusPx: cfg.GetAssumedBallRadiusPx(),
		DefaultAngleDeg:     cfg.GetDefaultLaunchAngleDeg(),
	}
}

// Calculator computes launch vectors. The zero value is not usable; construct
// with NewCalculator.
type Calculator struct {
	cfg Config
	cal Calibration // may be nil
}

// NewCalculator creates a launch vector calculator. The calibration is
// optional; without it speed is estimated from the assumed ball radius.
func NewCalculator(cal Calibration, cfg Config) (*Calculator, error) {
	if cfg.WindowMaxPoints < 3 {
		return nil, fmt.Errorf("launch: window max points must be at least 3, got %d", cfg.WindowMaxPoints)
	}
	if cfg.AssumedBallRadiusPx <= 0 {
		return nil, fmt.Errorf("launch: assumed ball radius must be positive, got %f", cfg.AssumedBallRadiusPx)
	}
	if cfg.DefaultAngleDeg < 0 || cfg.DefaultAngleDeg > maxLaunchAngleDeg {
		return nil, fmt.Errorf("launch: default angle %f outside [0, %v]", cfg.DefaultAngleDeg, maxLaunchAngleDeg)
	}
	return &Calculator{cfg: cfg, cal: cal}, nil
}

// Calculate derives the launch vector from the leading trajectory points.
// Fewer than three points cannot support a calculation; that is a normal
// condition, reported through the Insufficient marker on a zero vector
// rather than an error.
func (c *Calculator) Calculate(points []TrackedPoint, sc ShotContext) *Vector {
	if len(points) < 3 {
		return &Vector{Insufficient: true}
	}

	window := points
	if len(window) > c.cfg.WindowMaxPoints {
		window = window[:c.cfg.WindowMaxPoints]
	}

	speedMPS, displacement, elapsed := c.speed(window, sc.FPS)
	angle, method := c.launchAngle(window, sc.CameraTiltDeg)
	bearing, pixelOffset := direction(window, sc.CompassHeadingDeg)

	speedMPH := units.MPSToMPH(speedMPS)
	conf := confidence(window, speedMPH, angle)

	return &Vector{
		SpeedMPS:           speedMPS,
		SpeedMPH:           speedMPH,
		LaunchAngleDeg:     angle,
		AngleMethod:        method,
		BearingDeg:         bearing,
		PixelOffsetDeg:     pixelOffset,
		Confidence:         conf,
		PointsUsed:         len(window),
		DisplacementMeters: displacement,
		ElapsedSeconds:     elapsed,
	}
}

// speed measures average speed across the window from its first and last
// points. Returns zeros when no time elapsed.
func (c *Calculator) speed(window []TrackedPoint, fps float64) (mps, displacementM, elapsed float64) {
	first, last := window[0], window[len(window)-1]

	dt := last.T - first.T
	if dt <= 0 {
		if fps <= 0 {
			fps = 30
		}
		dt = float64(last.Frame-first.Frame) / fps
	}
	if dt <= 0 {
		return 0, 0, 0
	}

	if c.cal != nil {
		fx, fy := c.cal.PixelToMeters(first.X, first.Y)
		lx, ly := c.cal.PixelToMeters(last.X, last.Y)
		displacementM = math.Hypot(lx-fx, ly-fy)
	} else {
		displacementPx := math.Hypot(last.X-first.X, last.Y-first.Y)
		pxPerMeter := c.cfg.AssumedBallRadiusPx / golfBallRadiusMeters
		displacementM = displacementPx / pxPerMeter
	}

	return displacementM / dt, displacementM, dt
}

// launchAngle measures the vertical launch angle over the first few frames,
// corrects for camera tilt, and substitutes a typical value when the
// measurement is implausible.
func (c *Calculator) launchAngle(window []TrackedPoint, tiltDeg float64) (float64, AngleMethod) {
	first := window[0]
	lastIdx := len(window) - 1
	if lastIdx > 5 {
		lastIdx = 5
	}
	last := window[lastIdx]

	dx := last.X - first.X
	dy := last.Y - first.Y

	var pixelAngle float64
	if math.Abs(dx) > 1 {
		// Image y grows downward, so a rising ball has negative dy.
		pixelAngle = math.Atan2(-dy, dx) * 180 / math.Pi
	}

	angle := pixelAngle + tiltDeg
	if angle < 0 {
		angle = 0
	}
	if angle > maxLaunchAngleDeg {
		angle = maxLaunchAngleDeg
	}

	if angle < minPlausibleAngleDeg || angle > maxPlausibleAngleDeg {
		return c.cfg.DefaultAngleDeg, AngleAssumedTypical
	}
	return angle, AngleMeasured
}

// direction folds the image-plane travel angle into the compass heading to
// produce an absolute bearing.
func direction(window []TrackedPoint, compassDeg float64) (bearing, pixelOffset float64) {
	first, last := window[0], window[len(window)-1]
	dx := last.X - first.X
	dy := last.Y - first.Y

	if math.Abs(dx) > 1 || math.Abs(dy) > 1 {
		pixelOffset = math.Atan2(dy, dx) * 180 / math.Pi
	}

	bearing = math.Mod(compassDeg+pixelOffset, 360)
	if bearing < 0 {
		bearing += 360
	}
	return bearing, pixelOffset
}

// confidence scores the vector in [0, 1] by stacking multiplicative penalties
// for thin windows, implausible magnitudes, and scattered trajectories.
func confidence(window []TrackedPoint, speedMPH, angleDeg float64) float64 {
	conf := 1.0

	if len(window) < 5 {
		conf *= 0.7
	}
	if speedMPH < minPlausibleSpeedMPH || speedMPH > maxPlausibleSpeedMPH {
		conf *= 0.5
	}
	if angleDeg < 0 || angleDeg > maxLaunchAngleDeg {
		conf *= 0.6
	}
	conf *= linearity(window)

	return math.Max(0, math.Min(1, conf))
}

// linearity returns the R-squared of the window's positions. A clean launch
// is nearly a straight line over the first frames; scatter indicates
// detection noise.
func linearity(window []TrackedPoint) float64 {
	xs := make([]float64, len(window))
	ys := make([]float64, len(window))
	for i, p := range window {
		xs[i] = p.X
		ys[i] = p.Y
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		// Degenerate spread on one axis; neither trusted nor damning.
		return 0.5
	}
	return r * r
}
