package vision

import (
	"fmt"

	"github.com/fairway-data/carry.report/internal/config"
	"github.com/fairway-data/carry.report/internal/monitoring"
)

// Phase is the pipeline's tracking lifecycle state.
type Phase string

const (
	PhaseSearching Phase = "searching" // No ROI; full-frame search every frame
	PhaseTracking  Phase = "tracking"  // ROI set and following the last known position
	PhaseLost      Phase = "lost"      // Miss budget exhausted; re-acquisition pending
)

// PipelineConfig holds the orchestration parameters for the two-stage
// detection pipeline.
type PipelineConfig struct {
	MissThreshold    int     // Consecutive local misses before the ROI is cleared
	WideScanInterval int     // Run the wide detector every Nth frame while tracking (drift correction)
	ROIFollowHalfPx  float64 // Half-size of the ROI box re-centred on each detection
	WideROIMarginPx  float64 // Margin added around a wide-detector bounding box
}

// DefaultPipelineConfig returns pipeline configuration loaded from the
// canonical tuning defaults file. Panics if the file cannot be found —
// intended for tests and binaries that have already validated config
// availability.
func DefaultPipelineConfig() PipelineConfig {
	cfg := config.MustLoadDefaultConfig()
	return PipelineConfigFromTuning(cfg)
}

// PipelineConfigFromTuning builds a PipelineConfig from a loaded TuningConfig.
func PipelineConfigFromTuning(cfg *config.TuningConfig) PipelineConfig {
	return PipelineConfig{
		MissThreshold:    cfg.GetMissThreshold(),
		WideScanInterval: cfg.GetWideScanInterval(),
		ROIFollowHalfPx:  cfg.GetROIFollowHalfPx(),
		WideROIMarginPx:  cfg.GetWideROIMarginPx(),
	}
}

// DebugInfo is a snapshot of pipeline internals for diagnostics and overlay
// rendering.
type DebugInfo struct {
	Phase             Phase
	WideAvailable     bool
	ROI               *Rect
	ConsecutiveMisses int
	FrameCount        int
	TrackingMode      string // "roi" or "full_frame"
}

// Pipeline orchestrates wide-area acquisition and local tracking for a
// single ball. Instances hold per-track mutable state and are not safe for
// concurrent use; each tracked ball needs its own Pipeline.
type Pipeline struct {
	cfg   PipelineConfig
	wide  WideDetector // may be nil
	local LocalDetector

	phase             Phase
	roi               *Rect
	consecutiveMisses int
	frameCount        int
}

// NewPipeline creates a pipeline around the given detectors. The local
// detector is required; the wide detector is optional and the pipeline
// silently degrades to full-frame local search without it.
func NewPipeline(wide WideDetector, local LocalDetector, cfg PipelineConfig) (*Pipeline, error) {
	if local == nil {
		return nil, fmt.Errorf("vision: local detector is required")
	}
	if cfg.MissThreshold < 1 {
		return nil, fmt.Errorf("vision: miss threshold must be at least 1, got %d", cfg.MissThreshold)
	}
	if cfg.WideScanInterval < 1 {
		return nil, fmt.Errorf("vision: wide scan interval must be at least 1, got %d", cfg.WideScanInterval)
	}
	return &Pipeline{
		cfg:   cfg,
		wide:  wide,
		local: local,
		phase: PhaseSearching,
	}, nil
}

// wideAvailable reports whether the wide detector can be invoked.
func (p *Pipeline) wideAvailable() bool {
	return p.wide != nil && p.wide.Available()
}

// ProcessFrame runs one frame through the detection pipeline and returns the
// ball detection, or nil when the ball is not visible this frame. A nil
// return is the normal miss signal consumed by the state estimator; detector
// errors are logged and treated as misses.
func (p *Pipeline) ProcessFrame(frame Frame) *Detection {
	p.frameCount++

	// Wide-area acquisition: initial search, re-acquisition after loss, and
	// periodic drift-correcting re-validation while tracking.
	shouldRunWide := p.wideAvailable() && (p.roi == nil ||
		p.consecutiveMisses > p.cfg.MissThreshold ||
		p.frameCount%p.cfg.WideScanInterval == 0)

	if shouldRunWide {
		bbox, err := p.wide.Detect(frame)
		if err != nil {
			monitoring.Logf("vision: wide detection failed: %v", err)
		} else if bbox != nil {
			roi := bbox.Expand(p.cfg.WideROIMarginPx)
			p.roi = &roi
		}
	}

	det, err := p.local.Detect(frame, p.roi)
	if err != nil {
		monitoring.Logf("vision: local detection failed: %v", err)
		det = nil
	}

	if det != nil {
		p.consecutiveMisses = 0
		p.phase = PhaseTracking

		// Follow the ball: re-centre the ROI around the new position.
		if p.roi != nil {
			half := p.cfg.ROIFollowHalfPx
			roi := Rect{
				X: det.Center.X - half,
				Y: det.Center.Y - half,
				W: 2 * half,
				H: 2 * half,
			}
			if roi.X < 0 {
				roi.X = 0
			}
			if roi.Y < 0 {
				roi.Y = 0
			}
			p.roi = &roi
		}
		return det
	}

	p.consecutiveMisses++
	if p.consecutiveMisses > p.cfg.MissThreshold {
		if p.roi != nil {
			monitoring.Logf("vision: ball lost for %d frames, clearing ROI", p.consecutiveMisses)
			p.roi = nil
			p.phase = PhaseLost
		} else if p.phase == PhaseLost {
			// Re-acquisition attempt also failed; back to full search.
			p.phase = PhaseSearching
		}
	}
	return nil
}

// Phase returns the pipeline's current lifecycle state.
func (p *Pipeline) Phase() Phase { return p.phase }

// ROI returns a copy of the current tracking region, or nil when searching
// the full frame.
func (p *Pipeline) ROI() *Rect {
	if p.roi == nil {
		return nil
	}
	roi := *p.roi
	return &roi
}

// Reset clears all tracking state, returning the pipeline to SEARCHING.
func (p *Pipeline) Reset() {
	p.roi = nil
	p.consecutiveMisses = 0
	p.frameCount = 0
	p.phase = PhaseSearching
}

// Debug returns a snapshot of pipeline internals.
func (p *Pipeline) Debug() DebugInfo {
	mode := "full_frame"
	if p.roi != nil {
		mode = "roi"
	}
	return DebugInfo{
		Phase:             p.phase,
		WideAvailable:     p.wideAvailable(),
		ROI:               p.ROI(),
		ConsecutiveMisses: p.consecutiveMisses,
		FrameCount:        p.frameCount,
		TrackingMode:      mode,
	}
}
