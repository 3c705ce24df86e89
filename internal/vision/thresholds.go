package vision

import (
	"fmt"
	"math"
)

// SwingMode selects the expected ball speed regime for threshold derivation.
type SwingMode string

const (
	SwingPutt  SwingMode = "putt"
	SwingChip  SwingMode = "chip"
	SwingDrive SwingMode = "drive"
)

// Ball speed ceilings per swing mode (metres/second).
const (
	PuttSpeedMaxMps  = 2.5  // Slow putting speed
	ChipSpeedMaxMps  = 10.0 // Chipping speed
	DriveSpeedMaxMps = 70.0 // Full driver swing (~156 mph)
)

// displacementSafetyMargin pads the per-frame displacement ceiling for
// measurement uncertainty.
const displacementSafetyMargin = 1.2

// LockParams are the per-mode track confirmation/drop counters.
type LockParams struct {
	HitsToLock   int
	MissesToDrop int
}

// Thresholds derives physically plausible pixel thresholds for ball
// tracking from camera geometry and the expected speed regime. They bound
// how far a real ball can move between frames and how small a movement is
// indistinguishable from jitter.
type Thresholds struct {
	Mode        SwingMode
	FPS         float64
	FrameWidth  int
	FrameHeight int
	FOVRadians  float64

	maxSpeedMps float64
}

// NewThresholds creates a threshold calculator. The horizontal field of
// view is given in degrees.
func NewThresholds(mode SwingMode, fps float64, frameWidth, frameHeight int, fovDegrees float64) (*Thresholds, error) {
	var maxSpeed float64
	switch mode {
	case SwingPutt:
		maxSpeed = PuttSpeedMaxMps
	case SwingChip:
		maxSpeed = ChipSpeedMaxMps
	case SwingDrive:
		maxSpeed = DriveSpeedMaxMps
	default:
		return nil, fmt.Errorf("vision: unknown swing mode %q", mode)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("vision: fps must be positive, got %f", fps)
	}
	if frameWidth <= 0 || frameHeight <= 0 {
		return nil, fmt.Errorf("vision: frame dimensions must be positive, got %dx%d", frameWidth, frameHeight)
	}
	if fovDegrees <= 0 || fovDegrees >= 180 {
		return nil, fmt.Errorf("vision: horizontal FOV must be in (0, 180) degrees, got %f", fovDegrees)
	}

	return &Thresholds{
		Mode:        mode,
		FPS:         fps,
		FrameWidth:  frameWidth,
		FrameHeight: frameHeight,
		FOVRadians:  fovDegrees * math.Pi / 180,
		maxSpeedMps: maxSpeed,
	}, nil
}

// MaxSpeedMps returns the speed ceiling for the configured mode.
func (t *Thresholds) MaxSpeedMps() float64 { return t.maxSpeedMps }

// MetersToPixels converts a real-world distance to pixels at the given
// camera-to-ball depth, using the pinhole relation
// tan(FOV/2) = (width/2) / depth.
func (t *Thresholds) MetersToPixels(distanceMeters, depthMeters float64) float64 {
	widthRealMeters := 2 * depthMeters * math.Tan(t.FOVRadians/2)
	metersPerPixel := widthRealMeters / float64(t.FrameWidth)
	return distanceMeters / metersPerPixel
}

// MaxDisplacementPx returns the maximum plausible pixel displacement per
// frame for the configured speed regime, padded by the safety margin.
// Candidate detections farther than this from the last position are
// physically impossible and can be rejected.
func (t *Thresholds) MaxDisplacementPx(depthMeters float64) int {
	maxDistanceMeters := t.maxSpeedMps / t.FPS
	return int(t.MetersToPixels(maxDistanceMeters, depthMeters) * displacementSafetyMargin)
}

// StabilityThresholdPx returns the pixel threshold below which movement is
// treated as jitter rather than real motion (1 cm at the given depth, with
// a 2 px floor against rounding error).
func (t *Thresholds) StabilityThresholdPx(depthMeters float64) int {
	const jitterMeters = 0.01
	px := int(t.MetersToPixels(jitterMeters, depthMeters))
	if px < 2 {
		return 2
	}
	return px
}

// Lock returns the confirmation/drop counters for the configured mode.
// Slow, predictable putts lock quickly; fast drives need more confirmation
// and tolerate fewer misses.
func (t *Thresholds) Lock() LockParams {
	switch t.Mode {
	case SwingPutt:
		return LockParams{HitsToLock: 2, MissesToDrop: 4}
	case SwingChip:
		return LockParams{HitsToLock: 3, MissesToDrop: 3}
	default:
		return LockParams{HitsToLock: 4, MissesToDrop: 2}
	}
}

// String summarises the derived thresholds at a nominal 3 m depth.
func (t *Thresholds) String() string {
	const depth = 3.0
	lock := t.Lock()
	return fmt.Sprintf("Thresholds(mode=%s, max_disp=%dpx, stability=%dpx, lock=%d, drop=%d)",
		t.Mode, t.MaxDisplacementPx(depth), t.StabilityThresholdPx(depth), lock.HitsToLock, lock.MissesToDrop)
}
