package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for tuning parameters.
// All fields are optional pointers so a partial JSON file only overrides
// the values it names; the Get* accessors supply canonical defaults for
// everything else.
type TuningConfig struct {
	// Estimator params
	ProcessNoise     *float64 `json:"process_noise,omitempty"`
	MeasurementNoise *float64 `json:"measurement_noise,omitempty"`
	FilterDt         *float64 `json:"filter_dt,omitempty"`
	MaxMisses        *int     `json:"max_misses,omitempty"`

	// Acquisition/tracking pipeline params
	MissThreshold        *int     `json:"miss_threshold,omitempty"`
	WideScanInterval     *int     `json:"wide_scan_interval,omitempty"`
	ROIFollowHalfPx      *float64 `json:"roi_follow_half_px,omitempty"`
	WideROIMarginPx      *float64 `json:"wide_roi_margin_px,omitempty"`
	DetectorConfidence   *float64 `json:"detector_confidence,omitempty"`
	LocalSearchMaxRadius *float64 `json:"local_search_max_radius,omitempty"`

	// Launch vector params
	LaunchWindowMaxPoints *int     `json:"launch_window_max_points,omitempty"`
	AssumedBallRadiusPx   *float64 `json:"assumed_ball_radius_px,omitempty"`
	DefaultLaunchAngleDeg *float64 `json:"default_launch_angle_deg,omitempty"`

	// Flight physics params
	DragCoefficient       *float64 `json:"drag_coefficient,omitempty"`
	LiftCoefficientPerRPM *float64 `json:"lift_coefficient_per_rpm,omitempty"`
	SpinDecayPerSecond    *float64 `json:"spin_decay_per_second,omitempty"`
	SimulationDt          *float64 `json:"simulation_dt,omitempty"`
	MaxFlightSeconds      *float64 `json:"max_flight_seconds,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. Invalid numeric
// configuration is rejected here, at load time, rather than discovered
// mid-computation.
func (c *TuningConfig) Validate() error {
	if c.ProcessNoise != nil && *c.ProcessNoise < 0 {
		return fmt.Errorf("process_noise must be non-negative, got %f", *c.ProcessNoise)
	}
	if c.MeasurementNoise != nil && *c.MeasurementNoise < 0 {
		return fmt.Errorf("measurement_noise must be non-negative, got %f", *c.MeasurementNoise)
	}
	if c.FilterDt != nil && *c.FilterDt <= 0 {
		return fmt.Errorf("filter_dt must be positive, got %f", *c.FilterDt)
	}
	if c.MaxMisses != nil && *c.MaxMisses < 1 {
		return fmt.Errorf("max_misses must be at least 1, got %d", *c.MaxMisses)
	}
	if c.MissThreshold != nil && *c.MissThreshold < 1 {
		return fmt.Errorf("miss_threshold must be at least 1, got %d", *c.MissThreshold)
	}
	if c.WideScanInterval != nil && *c.WideScanInterval < 1 {
		return fmt.Errorf("wide_scan_interval must be at least 1, got %d", *c.WideScanInterval)
	}
	if c.DetectorConfidence != nil && (*c.DetectorConfidence < 0 || *c.DetectorConfidence > 1) {
		return fmt.Errorf("detector_confidence must be between 0 and 1, got %f", *c.DetectorConfidence)
	}
	if c.LaunchWindowMaxPoints != nil && *c.LaunchWindowMaxPoints < 3 {
		return fmt.Errorf("launch_window_max_points must be at least 3, got %d", *c.LaunchWindowMaxPoints)
	}
	if c.AssumedBallRadiusPx != nil && *c.AssumedBallRadiusPx <= 0 {
		return fmt.Errorf("assumed_ball_radius_px must be positive, got %f", *c.AssumedBallRadiusPx)
	}
	if c.DragCoefficient != nil && *c.DragCoefficient < 0 {
		return fmt.Errorf("drag_coefficient must be non-negative, got %f", *c.DragCoefficient)
	}
	if c.LiftCoefficientPerRPM != nil && *c.LiftCoefficientPerRPM < 0 {
		return fmt.Errorf("lift_coefficient_per_rpm must be non-negative, got %f", *c.LiftCoefficientPerRPM)
	}
	if c.SpinDecayPerSecond != nil && (*c.SpinDecayPerSecond < 0 || *c.SpinDecayPerSecond > 1) {
		return fmt.Errorf("spin_decay_per_second must be between 0 and 1, got %f", *c.SpinDecayPerSecond)
	}
	if c.SimulationDt != nil && *c.SimulationDt <= 0 {
		return fmt.Errorf("simulation_dt must be positive, got %f", *c.SimulationDt)
	}
	if c.MaxFlightSeconds != nil && *c.MaxFlightSeconds <= 0 {
		return fmt.Errorf("max_flight_seconds must be positive, got %f", *c.MaxFlightSeconds)
	}
	return nil
}

// Accessors with canonical defaults. The defaults mirror the values in
// config/tuning.defaults.json; the accessors keep partial configs safe.

func (c *TuningConfig) GetProcessNoise() float64 {
	if c.ProcessNoise != nil {
		return *c.ProcessNoise
	}
	return 1.0
}

func (c *TuningConfig) GetMeasurementNoise() float64 {
	if c.MeasurementNoise != nil {
		return *c.MeasurementNoise
	}
	return 10.0
}

func (c *TuningConfig) GetFilterDt() float64 {
	if c.FilterDt != nil {
		return *c.FilterDt
	}
	return 0.15
}

func (c *TuningConfig) GetMaxMisses() int {
	if c.MaxMisses != nil {
		return *c.MaxMisses
	}
	return 6
}

func (c *TuningConfig) GetMissThreshold() int {
	if c.MissThreshold != nil {
		return *c.MissThreshold
	}
	return 3
}

func (c *TuningConfig) GetWideScanInterval() int {
	if c.WideScanInterval != nil {
		return *c.WideScanInterval
	}
	return 5
}

func (c *TuningConfig) GetROIFollowHalfPx() float64 {
	if c.ROIFollowHalfPx != nil {
		return *c.ROIFollowHalfPx
	}
	return 50
}

func (c *TuningConfig) GetWideROIMarginPx() float64 {
	if c.WideROIMarginPx != nil {
		return *c.WideROIMarginPx
	}
	return 20
}

func (c *TuningConfig) GetDetectorConfidence() float64 {
	if c.DetectorConfidence != nil {
		return *c.DetectorConfidence
	}
	return 0.3
}

func (c *TuningConfig) GetLocalSearchMaxRadius() float64 {
	if c.LocalSearchMaxRadius != nil {
		return *c.LocalSearchMaxRadius
	}
	return 60
}

func (c *TuningConfig) GetLaunchWindowMaxPoints() int {
	if c.LaunchWindowMaxPoints != nil {
		return *c.LaunchWindowMaxPoints
	}
	return 10
}

func (c *TuningConfig) GetAssumedBallRadiusPx() float64 {
	if c.AssumedBallRadiusPx != nil {
		return *c.AssumedBallRadiusPx
	}
	return 10
}

func (c *TuningConfig) GetDefaultLaunchAngleDeg() float64 {
	if c.DefaultLaunchAngleDeg != nil {
		return *c.DefaultLaunchAngleDeg
	}
	return 12
}

func (c *TuningConfig) GetDragCoefficient() float64 {
	if c.DragCoefficient != nil {
		return *c.DragCoefficient
	}
	return 0.25
}

func (c *TuningConfig) GetLiftCoefficientPerRPM() float64 {
	if c.LiftCoefficientPerRPM != nil {
		return *c.LiftCoefficientPerRPM
	}
	return 0.00008
}

func (c *TuningConfig) GetSpinDecayPerSecond() float64 {
	if c.SpinDecayPerSecond != nil {
		return *c.SpinDecayPerSecond
	}
	return 0.02
}

func (c *TuningConfig) GetSimulationDt() float64 {
	if c.SimulationDt != nil {
		return *c.SimulationDt
	}
	return 0.01
}

func (c *TuningConfig) GetMaxFlightSeconds() float64 {
	if c.MaxFlightSeconds != nil {
		return *c.MaxFlightSeconds
	}
	return 15
}
