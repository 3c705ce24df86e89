// trace-replay feeds a recorded detection trace through the full chain:
// acquisition pipeline, Kalman tracking, launch vector calculation and
// flight simulation. It exists to replay captured shots offline when
// tuning thresholds, without a camera attached.
//
// A trace is a JSON file:
//
//	{
//	  "fps": 60,
//	  "pixels_per_meter": 0,
//	  "compass_heading_deg": 0,
//	  "camera_tilt_deg": 0,
//	  "frames": [
//	    {"x": 120, "y": 480, "r": 9, "t": 0.0},
//	    {"miss": true},
//	    ...
//	  ]
//	}
//
// pixels_per_meter of zero means uncalibrated; the launch calculator then
// falls back to its assumed on-screen ball radius.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fairway-data/carry.report/internal/config"
	"github.com/fairway-data/carry.report/internal/flight"
	"github.com/fairway-data/carry.report/internal/launch"
	"github.com/fairway-data/carry.report/internal/report"
	"github.com/fairway-data/carry.report/internal/track"
	"github.com/fairway-data/carry.report/internal/vision"
)

type traceFrame struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	R    float64 `json:"r"`
	T    float64 `json:"t"`
	Miss bool    `json:"miss"`
}

type trace struct {
	FPS               float64      `json:"fps"`
	PixelsPerMeter    float64      `json:"pixels_per_meter"`
	CompassHeadingDeg float64      `json:"compass_heading_deg"`
	CameraTiltDeg     float64      `json:"camera_tilt_deg"`
	Frames            []traceFrame `json:"frames"`
}

// traceWide replays recorded detections as the wide-area capability.
type traceWide struct{}

func (traceWide) Available() bool { return true }

func (traceWide) Detect(frame vision.Frame) (*vision.Rect, error) {
	tf, ok := frame.(*traceFrame)
	if !ok || tf.Miss {
		return nil, nil
	}
	r := tf.R
	if r <= 0 {
		r = 8
	}
	return &vision.Rect{X: tf.X - r, Y: tf.Y - r, W: 2 * r, H: 2 * r}, nil
}

// traceLocal replays recorded detections as the region-limited capability.
type traceLocal struct{}

func (traceLocal) Detect(frame vision.Frame, region *vision.Rect) (*vision.Detection, error) {
	tf, ok := frame.(*traceFrame)
	if !ok || tf.Miss {
		return nil, nil
	}
	p := vision.Point{X: tf.X, Y: tf.Y}
	if region != nil && !region.Contains(p) {
		return nil, nil
	}
	return &vision.Detection{Center: p, Radius: tf.R}, nil
}

// planeScale is a uniform pixels-per-meter calibration.
type planeScale struct {
	ppm float64
}

func (s planeScale) PixelToMeters(x, y float64) (float64, float64) {
	return x / s.ppm, y / s.ppm
}

func main() {
	var (
		tracePath  string
		configPath string
		spin       float64
		axis       float64
		plotsDir   string
	)

	flag.StringVar(&tracePath, "trace", "", "path to detection trace JSON (required)")
	flag.StringVar(&configPath, "config", "", "path to tuning config JSON (defaults when empty)")
	flag.Float64Var(&spin, "spin", 2500, "assumed backspin for the simulated flight (rpm)")
	flag.Float64Var(&axis, "axis", 0, "assumed spin axis tilt for the simulated flight (degrees)")
	flag.StringVar(&plotsDir, "plots", "", "optional directory for side/top profile PNGs")
	flag.Parse()

	if tracePath == "" {
		log.Fatalf("trace path is required")
	}

	tuning := config.EmptyTuningConfig()
	if configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	tr, err := loadTrace(tracePath)
	if err != nil {
		log.Fatalf("load trace: %v", err)
	}
	if tr.FPS <= 0 {
		tr.FPS = 30
	}

	pipeline, err := vision.NewPipeline(traceWide{}, traceLocal{}, vision.PipelineConfigFromTuning(tuning))
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}
	filter, err := track.NewFilter(track.FilterConfigFromTuning(tuning))
	if err != nil {
		log.Fatalf("filter: %v", err)
	}

	var points []launch.TrackedPoint
	detections := 0
	for i := range tr.Frames {
		tf := &tr.Frames[i]

		det := pipeline.ProcessFrame(tf)
		var meas *track.Measurement
		if det != nil {
			detections++
			meas = &track.Measurement{X: det.Center.X, Y: det.Center.Y, Radius: det.Radius}
		}

		st, err := filter.Update(meas)
		if err != nil {
			log.Fatalf("filter update at frame %d: %v", i, err)
		}
		if st == nil {
			continue
		}
		points = append(points, launch.TrackedPoint{X: st.X, Y: st.Y, T: tf.T, Frame: i})
	}
	fmt.Printf("replayed %d frames: %d detections, %d tracked points, final phase %v\n",
		len(tr.Frames), detections, len(points), pipeline.Phase())

	var cal launch.Calibration
	if tr.PixelsPerMeter > 0 {
		cal = planeScale{ppm: tr.PixelsPerMeter}
	}
	calc, err := launch.NewCalculator(cal, launch.ConfigFromTuning(tuning))
	if err != nil {
		log.Fatalf("calculator: %v", err)
	}

	vec := calc.Calculate(points, launch.ShotContext{
		CompassHeadingDeg: tr.CompassHeadingDeg,
		CameraTiltDeg:     tr.CameraTiltDeg,
		FPS:               tr.FPS,
	})
	if vec.Insufficient {
		log.Fatalf("trace too thin to compute a launch vector (%d tracked points)", len(points))
	}

	fmt.Printf("speed:      %.1f mph (%.2f m/s over %.3f m in %.3f s)\n",
		vec.SpeedMPH, vec.SpeedMPS, vec.DisplacementMeters, vec.ElapsedSeconds)
	fmt.Printf("angle:      %.1f deg (%s)\n", vec.LaunchAngleDeg, vec.AngleMethod)
	fmt.Printf("bearing:    %.1f deg\n", vec.BearingDeg)
	fmt.Printf("confidence: %.2f over %d points\n", vec.Confidence, vec.PointsUsed)

	sim, err := flight.NewSimulator(flight.SimConfigFromTuning(tuning))
	if err != nil {
		log.Fatalf("simulator: %v", err)
	}
	res, err := sim.Simulate(flight.Params{
		SpeedMPH:       vec.SpeedMPH,
		LaunchAngleDeg: vec.LaunchAngleDeg,
		BackspinRPM:    spin,
		SpinAxisDeg:    axis,
	})
	if err != nil {
		log.Fatalf("simulate: %v", err)
	}

	fmt.Printf("carry:      %.1f yd, apex %.1f yd, flight %.2f s\n",
		res.CarryYards, res.ApexYards, res.FlightTimeSeconds)

	if plotsDir != "" {
		files, err := report.SaveProfilePlots(plotsDir, "replay", res)
		if err != nil {
			log.Fatalf("save plots: %v", err)
		}
		fmt.Printf("wrote %s and %s\n", files.Side, files.Top)
	}
}

func loadTrace(path string) (*trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tr trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("parse trace: %w", err)
	}
	if len(tr.Frames) == 0 {
		return nil, fmt.Errorf("trace has no frames")
	}
	return &tr, nil
}
