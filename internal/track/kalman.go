// Package track maintains the kinematic state of a single tracked ball.
//
// A constant-velocity Kalman filter smooths noisy per-frame pixel detections
// into a position+velocity estimate, coasting through short detection gaps
// and discarding the track after too many consecutive misses. State vector is
// [x, y, vx, vy]; only position is measured, velocity is inferred.
package track

import (
	"errors"
	"fmt"
	"math"

	"github.com/fairway-data/carry.report/internal/config"
)

// Internal numerical stability constants — not user-tunable.
const (
	// MinDeterminantThreshold is the minimum determinant for innovation
	// covariance inversion. Below this the update is rejected as singular.
	MinDeterminantThreshold = 1e-9

	// initialPositionVariance is the covariance diagonal assigned on the
	// first measurement (high uncertainty until the filter converges).
	initialPositionVariance = 100.0
)

// ErrSingularCovariance is returned when a degenerate noise configuration
// produces an innovation covariance that cannot be inverted. The filter
// state is left untouched; the frame is treated as "no update".
var ErrSingularCovariance = errors.New("track: singular innovation covariance")

// ErrNonFiniteState is returned when the filter state stops being finite
// after a guarded update. This indicates a logic bug rather than bad input;
// the filter resets itself before returning.
var ErrNonFiniteState = errors.New("track: non-finite filter state")

// Measurement is a single frame's ball observation in pixel coordinates.
type Measurement struct {
	X      float64
	Y      float64
	Radius float64
}

// State is the filter's belief about the ball after one update.
// Predicted is true when the state was propagated without a measurement
// (coasting through a missed frame).
type State struct {
	X         float64
	Y         float64
	VX        float64
	VY        float64
	Radius    float64
	Predicted bool
}

// Speed returns the state's velocity magnitude in pixels per second.
func (s *State) Speed() float64 {
	return math.Hypot(s.VX, s.VY)
}

// FilterConfig holds the three knobs that fully determine filter
// responsiveness versus smoothness, plus the miss budget.
type FilterConfig struct {
	ProcessNoise     float64 // Motion model uncertainty (higher → trust measurements more)
	MeasurementNoise float64 // Detection jitter variance (higher → trust prediction more)
	Dt               float64 // Assumed seconds between updates
	MaxMisses        int     // Consecutive misses before the track is discarded
}

// DefaultFilterConfig returns the filter configuration loaded from the
// canonical tuning defaults file (config/tuning.defaults.json).
// Panics if the file cannot be found — intended for tests and binaries
// that have already validated config availability.
func DefaultFilterConfig() FilterConfig {
	cfg := config.MustLoadDefaultConfig()
	return FilterConfigFromTuning(cfg)
}

// FilterConfigFromTuning builds a FilterConfig from a loaded TuningConfig.
// Use this in production code where the TuningConfig is already loaded.
func FilterConfigFromTuning(cfg *config.TuningConfig) FilterConfig {
	return FilterConfig{
		ProcessNoise:     cfg.GetProcessNoise(),
		MeasurementNoise: cfg.GetMeasurementNoise(),
		Dt:               cfg.GetFilterDt(),
		MaxMisses:        cfg.GetMaxMisses(),
	}
}

// Filter is a 4-state constant-velocity Kalman filter for one ball.
// It is owned by a single track; instances are not safe for concurrent use
// and each tracked ball must have its own Filter.
type Filter struct {
	cfg FilterConfig

	// State vector [x, y, vx, vy].
	x [4]float64
	// Covariance (4x4, row-major).
	p [16]float64
	// Process noise covariance (4x4, row-major), fixed at construction.
	q [16]float64

	initialized bool
	missCount   int
}

// NewFilter creates a filter after validating the configuration.
// Invalid numeric configuration is rejected here rather than surfacing as
// NaNs mid-update.
func NewFilter(cfg FilterConfig) (*Filter, error) {
	if cfg.ProcessNoise < 0 {
		return nil, fmt.Errorf("track: process noise must be non-negative, got %f", cfg.ProcessNoise)
	}
	if cfg.MeasurementNoise < 0 {
		return nil, fmt.Errorf("track: measurement noise must be non-negative, got %f", cfg.MeasurementNoise)
	}
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("track: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.MaxMisses < 1 {
		return nil, fmt.Errorf("track: max misses must be at least 1, got %d", cfg.MaxMisses)
	}

	f := &Filter{cfg: cfg}

	// Discrete white-noise acceleration model:
	// Q = q * [dt⁴/4   0      dt³/2   0    ]
	//         [0       dt⁴/4  0       dt³/2]
	//         [dt³/2   0      dt²     0    ]
	//         [0       dt³/2  0       dt²  ]
	dt := cfg.Dt
	q := cfg.ProcessNoise
	dt2 := dt * dt
	f.q = [16]float64{
		q * dt2 * dt2 / 4, 0, q * dt2 * dt / 2, 0,
		0, q * dt2 * dt2 / 4, 0, q * dt2 * dt / 2,
		q * dt2 * dt / 2, 0, q * dt2, 0,
		0, q * dt2 * dt / 2, 0, q * dt2,
	}

	return f, nil
}

// Initialized reports whether the filter currently holds a live track.
func (f *Filter) Initialized() bool { return f.initialized }

// MissCount returns the current consecutive-miss count.
func (f *Filter) MissCount() int { return f.missCount }

// Config returns the filter configuration.
func (f *Filter) Config() FilterConfig { return f.cfg }

// Velocity returns the current velocity estimate in pixels per second,
// or (0, 0) if the filter is not initialized.
func (f *Filter) Velocity() (vx, vy float64) {
	if !f.initialized {
		return 0, 0
	}
	return f.x[2], f.x[3]
}

// Reset discards all internal state, returning the filter to uninitialized.
func (f *Filter) Reset() {
	f.x = [4]float64{}
	f.p = [16]float64{}
	f.initialized = false
	f.missCount = 0
}

// Update advances the filter by one frame.
//
// With a measurement: initializes on first contact (zero velocity, high
// positional uncertainty), otherwise runs the predict/correct cycle and
// resets the miss counter. Without a measurement: increments the miss
// counter, discards the track once it reaches MaxMisses, otherwise coasts
// on the prediction alone and flags the returned state as Predicted.
//
// A nil state with nil error means "no track": either never initialized or
// just discarded. Callers re-initialize by feeding the next real detection.
func (f *Filter) Update(meas *Measurement) (*State, error) {
	if meas == nil {
		if !f.initialized {
			return nil, nil
		}

		f.missCount++
		if f.missCount >= f.cfg.MaxMisses {
			f.Reset()
			return nil, nil
		}

		f.predict()
		if err := f.checkFinite(); err != nil {
			return nil, err
		}
		return &State{
			X: f.x[0], Y: f.x[1],
			VX: f.x[2], VY: f.x[3],
			Radius:    0,
			Predicted: true,
		}, nil
	}

	if !f.initialized {
		f.x = [4]float64{meas.X, meas.Y, 0, 0}
		f.p = [16]float64{}
		for i := 0; i < 4; i++ {
			f.p[i*4+i] = initialPositionVariance
		}
		f.initialized = true
		f.missCount = 0
		return &State{
			X: meas.X, Y: meas.Y,
			VX: 0, VY: 0,
			Radius:    meas.Radius,
			Predicted: false,
		}, nil
	}

	f.predict()

	if err := f.correct(meas.X, meas.Y); err != nil {
		return nil, err
	}
	if err := f.checkFinite(); err != nil {
		return nil, err
	}

	f.missCount = 0
	return &State{
		X: f.x[0], Y: f.x[1],
		VX: f.x[2], VY: f.x[3],
		Radius:    meas.Radius,
		Predicted: false,
	}, nil
}

// predict applies the constant-velocity prediction step:
// x' = F·x, P' = F·P·Fᵀ + Q with
// F = [1 0 dt 0; 0 1 0 dt; 0 0 1 0; 0 0 0 1].
func (f *Filter) predict() {
	dt := f.cfg.Dt

	// Predict state.
	f.x[0] += f.x[2] * dt
	f.x[1] += f.x[3] * dt
	// Velocity unchanged in the constant-velocity model.

	// Compute F·P.
	// Row 0: P[0,j] + dt·P[2,j]
	// Row 1: P[1,j] + dt·P[3,j]
	// Rows 2, 3 unchanged.
	var fp [16]float64
	for j := 0; j < 4; j++ {
		fp[0*4+j] = f.p[0*4+j] + dt*f.p[2*4+j]
		fp[1*4+j] = f.p[1*4+j] + dt*f.p[3*4+j]
		fp[2*4+j] = f.p[2*4+j]
		fp[3*4+j] = f.p[3*4+j]
	}

	// Compute (F·P)·Fᵀ and add Q.
	for i := 0; i < 4; i++ {
		f.p[i*4+0] = fp[i*4+0] + dt*fp[i*4+2] + f.q[i*4+0]
		f.p[i*4+1] = fp[i*4+1] + dt*fp[i*4+3] + f.q[i*4+1]
		f.p[i*4+2] = fp[i*4+2] + f.q[i*4+2]
		f.p[i*4+3] = fp[i*4+3] + f.q[i*4+3]
	}
}

// correct blends the prediction with a position measurement, weighted by
// their respective uncertainties.
func (f *Filter) correct(zx, zy float64) error {
	// Innovation y = z − H·x with H = [1 0 0 0; 0 1 0 0].
	yX := zx - f.x[0]
	yY := zy - f.x[1]

	// Innovation covariance S = H·P·Hᵀ + R = P[0:2,0:2] + R.
	s00 := f.p[0*4+0] + f.cfg.MeasurementNoise
	s01 := f.p[0*4+1]
	s10 := f.p[1*4+0]
	s11 := f.p[1*4+1] + f.cfg.MeasurementNoise

	det := s00*s11 - s01*s10
	if det < MinDeterminantThreshold {
		return ErrSingularCovariance
	}

	invS00 := s11 / det
	invS01 := -s01 / det
	invS10 := -s10 / det
	invS11 := s00 / det

	// Kalman gain K = P·Hᵀ·S⁻¹ (4x2).
	var k [8]float64
	for i := 0; i < 4; i++ {
		k[i*2+0] = f.p[i*4+0]*invS00 + f.p[i*4+1]*invS10
		k[i*2+1] = f.p[i*4+0]*invS01 + f.p[i*4+1]*invS11
	}

	// Update state: x' = x + K·y.
	for i := 0; i < 4; i++ {
		f.x[i] += k[i*2+0]*yX + k[i*2+1]*yY
	}

	// Update covariance: P' = (I − K·H)·P.
	// (K·H)[i,j] is K[i,0] for j==0, K[i,1] for j==1, zero otherwise.
	var iMinusKH [16]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			identity := 0.0
			if i == j {
				identity = 1
			}
			var kh float64
			if j == 0 {
				kh = k[i*2+0]
			} else if j == 1 {
				kh = k[i*2+1]
			}
			iMinusKH[i*4+j] = identity - kh
		}
	}

	var newP [16]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for m := 0; m < 4; m++ {
				sum += iMinusKH[i*4+m] * f.p[m*4+j]
			}
			newP[i*4+j] = sum
		}
	}
	f.p = newP

	return nil
}

// checkFinite resets the filter and reports ErrNonFiniteState if any state
// or covariance-diagonal element is NaN or ±Inf.
func (f *Filter) checkFinite() error {
	for i := 0; i < 4; i++ {
		if math.IsNaN(f.x[i]) || math.IsInf(f.x[i], 0) {
			f.Reset()
			return ErrNonFiniteState
		}
		d := f.p[i*4+i]
		if math.IsNaN(d) || math.IsInf(d, 0) {
			f.Reset()
			return ErrNonFiniteState
		}
	}
	return nil
}
