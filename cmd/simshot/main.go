// simshot runs one ball-flight simulation from launch conditions given on
// the command line and prints the carry summary. It can optionally save
// PNG trajectory profiles and persist the shot to SQLite.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/fairway-data/carry.report/internal/config"
	"github.com/fairway-data/carry.report/internal/flight"
	"github.com/fairway-data/carry.report/internal/report"
	"github.com/fairway-data/carry.report/internal/storage"
)

func main() {
	var (
		speed      float64
		angle      float64
		spin       float64
		axis       float64
		wind       float64
		windDir    float64
		altitude   float64
		tempF      float64
		shape      string
		configPath string
		plotsDir   string
		dbPath     string
	)

	flag.Float64Var(&speed, "speed", 145, "ball speed (mph)")
	flag.Float64Var(&angle, "angle", 12, "launch angle (degrees)")
	flag.Float64Var(&spin, "spin", 2500, "backspin (rpm)")
	flag.Float64Var(&axis, "axis", 0, "spin axis tilt (degrees, positive curves right)")
	flag.Float64Var(&wind, "wind", 0, "wind speed (mph)")
	flag.Float64Var(&windDir, "wind-dir", 0, "wind direction (degrees: 0 head, 90 right, 180 tail)")
	flag.Float64Var(&altitude, "altitude", 0, "altitude (meters)")
	flag.Float64Var(&tempF, "temp", 70, "air temperature (F)")
	flag.StringVar(&shape, "shape", "", "simulate a catalogue shot shape instead of explicit angle/spin/axis (e.g. high_slice)")
	flag.StringVar(&configPath, "config", "", "path to tuning config JSON (defaults when empty)")
	flag.StringVar(&plotsDir, "plots", "", "optional directory for side/top profile PNGs")
	flag.StringVar(&dbPath, "db", "", "optional SQLite path; persists the shot when set")
	flag.Parse()

	tuning := config.EmptyTuningConfig()
	if configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	sim, err := flight.NewSimulator(flight.SimConfigFromTuning(tuning))
	if err != nil {
		log.Fatalf("simulator: %v", err)
	}

	env := flight.Environment{AltitudeMeters: altitude, TemperatureF: tempF}
	params := flight.Params{
		SpeedMPH:         speed,
		LaunchAngleDeg:   angle,
		BackspinRPM:      spin,
		SpinAxisDeg:      axis,
		WindSpeedMPH:     wind,
		WindDirectionDeg: windDir,
		Env:              &env,
	}

	name := "shot"
	if shape != "" {
		ss, ok := flight.ShotShapeByKey(shape)
		if !ok {
			var keys []string
			for _, s := range flight.ShotShapes() {
				keys = append(keys, s.Key)
			}
			log.Fatalf("unknown shape %q (have: %s)", shape, strings.Join(keys, ", "))
		}
		params.LaunchAngleDeg = ss.LaunchAngleDeg
		params.BackspinRPM = ss.BackspinRPM
		params.SpinAxisDeg = ss.SpinAxisDeg
		name = shape
	}

	res, err := sim.Simulate(params)
	if err != nil {
		log.Fatalf("simulate: %v", err)
	}

	fmt.Printf("carry:  %.1f yd\n", res.CarryYards)
	fmt.Printf("apex:   %.1f yd\n", res.ApexYards)
	fmt.Printf("curve:  %.1f yd %s\n", abs(res.CurveYards), curveLabel(res.CurveYards))
	fmt.Printf("flight: %.2f s\n", res.FlightTimeSeconds)
	fmt.Printf("spin:   %.0f rpm at landing\n", res.FinalSpinRPM)
	if res.Truncated {
		fmt.Println("note: flight-time cap reached before landing")
	}

	if plotsDir != "" {
		files, err := report.SaveProfilePlots(plotsDir, name, res)
		if err != nil {
			log.Fatalf("save plots: %v", err)
		}
		fmt.Printf("wrote %s and %s\n", files.Side, files.Top)
	}

	if dbPath != "" {
		store, err := storage.NewStore(dbPath)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer store.Close()

		shotID, err := store.SaveShot(params, res)
		if err != nil {
			log.Fatalf("persist shot: %v", err)
		}
		fmt.Printf("persisted %s to %s\n", shotID, dbPath)
	}
}

func curveLabel(curve float64) string {
	switch {
	case curve > 0:
		return "right"
	case curve < 0:
		return "left"
	default:
		return "straight"
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
