// Package flight simulates golf ball trajectories with a three-degree-of-
// freedom point mass model: gravity, quadratic drag, spin-induced Magnus
// lift, and constant horizontal wind, integrated with fourth-order
// Runge-Kutta steps.
//
// The package also carries the shot shape catalogue and the batch generator
// that pre-computes archetype lookup tables for AR overlay rendering.
package flight

import (
	"fmt"
	"math"

	"github.com/fairway-data/carry.report/internal/config"
	"github.com/fairway-data/carry.report/internal/units"
)

// Regulation golf ball properties.
const (
	BallMassKg    = 0.0459
	BallDiameterM = 0.0427
)

// Atmosphere and force model constants.
const (
	seaLevelAirDensity = 1.225 // kg/m^3 at 15 C
	gravityMps2        = 9.81

	// densityLossPerThousandFeet approximates the thinning of air with
	// altitude: about 4% density per 1000 ft.
	densityLossPerThousandFeet = 0.04

	// minRelativeSpeed floors the airspeed used to normalise force
	// directions. Below it the ball is treated as ballistic to avoid
	// dividing by a near-zero magnitude.
	minRelativeSpeed = 0.1

	// maxLiftCoefficient saturates the spin-derived lift coefficient. Real
	// golf balls stall around CL 0.25; without the cap, extreme spin at high
	// speed makes vertical lift outgrow drag and the integration diverges.
	maxLiftCoefficient = 0.25
)

// Environment describes the playing conditions a shot is simulated in.
type Environment struct {
	AltitudeMeters float64
	TemperatureF   float64
}

// DefaultEnvironment is sea level at 70 F.
func DefaultEnvironment() Environment {
	return Environment{AltitudeMeters: 0, TemperatureF: 70}
}

// airDensity corrects the sea-level density for altitude and temperature.
func airDensity(env Environment) float64 {
	altitudeFt := env.AltitudeMeters * units.FeetPerMeter
	densityRatio := 1 - (altitudeFt/1000)*densityLossPerThousandFeet

	tempC := (env.TemperatureF - 32) * 5 / 9
	tempRatio := (273 + 15.0) / (273 + tempC)

	return seaLevelAirDensity * densityRatio * tempRatio
}

// SimConfig holds the simulator's tunable coefficients and integration
// parameters.
type SimConfig struct {
	DragCoefficient       float64
	LiftCoefficientPerRPM float64
	SpinDecayPerSecond    float64
	Dt                    float64
	MaxFlightSeconds      float64
}

// DefaultSimConfig returns simulator configuration loaded from the canonical
// tuning defaults file.
func DefaultSimConfig() SimConfig {
	cfg := config.MustLoadDefaultConfig()
	return SimConfigFromTuning(cfg)
}

// SimConfigFromTuning builds a SimConfig from a loaded TuningConfig.
func SimConfigFromTuning(cfg *config.TuningConfig) SimConfig {
	return SimConfig{
		DragCoefficient:       cfg.GetDragCoefficient(),
		LiftCoefficientPerRPM: cfg.GetLiftCoefficientPerRPM(),
		SpinDecayPerSecond:    cfg.GetSpinDecayPerSecond(),
		Dt:                    cfg.GetSimulationDt(),
		MaxFlightSeconds:      cfg.GetMaxFlightSeconds(),
	}
}

// Params are the launch conditions of one simulated shot. Wind direction is
// degrees relative to the shot line: 0 is a headwind, 90 blows toward the
// golfer's right, 180 is a tailwind.
type Params struct {
	SpeedMPH         float64
	LaunchAngleDeg   float64
	BackspinRPM      float64
	SpinAxisDeg      float64 // positive tilts lift to the right, negative to the left
	WindSpeedMPH     float64
	WindDirectionDeg float64
	Env              *Environment // nil means DefaultEnvironment
}

// Point is one sampled trajectory position. X is downrange, Y lateral
// (positive right), Z height, all in metres; T in seconds.
type Point struct {
	X float64
	Y float64
	Z float64
	T float64
}

// Result is a completed flight simulation. Points are in metres; summary
// distances in yards per golf convention.
type Result struct {
	Points            []Point
	CarryYards        float64
	ApexYards         float64
	CurveYards        float64 // signed: positive right, negative left
	FlightTimeSeconds float64
	FinalSpinRPM      float64
	// Truncated reports that the flight-time cap fired before the ball
	// reached the ground.
	Truncated bool
}

// Simulator integrates ball flights. Safe for concurrent use; per-shot state
// lives on the stack of Simulate.
type Simulator struct {
	cfg      SimConfig
	ballArea float64
}

// NewSimulator creates a simulator, validating the configuration eagerly.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if cfg.DragCoefficient < 0 {
		return nil, fmt.Errorf("flight: drag coefficient must not be negative, got %f", cfg.DragCoefficient)
	}
	if cfg.LiftCoefficientPerRPM < 0 {
		return nil, fmt.Errorf("flight: lift coefficient must not be negative, got %f", cfg.LiftCoefficientPerRPM)
	}
	if cfg.SpinDecayPerSecond < 0 {
		return nil, fmt.Errorf("flight: spin decay must not be negative, got %f", cfg.SpinDecayPerSecond)
	}
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("flight: integration step must be positive, got %f", cfg.Dt)
	}
	if cfg.MaxFlightSeconds <= 0 {
		return nil, fmt.Errorf("flight: flight time cap must be positive, got %f", cfg.MaxFlightSeconds)
	}
	radius := BallDiameterM / 2
	return &Simulator{
		cfg:      cfg,
		ballArea: math.Pi * radius * radius,
	}, nil
}

// state is [x, y, z, vx, vy, vz, spinRPM, spinAxisDeg].
type state [8]float64

// Simulate runs one complete ball flight.
func (s *Simulator) Simulate(p Params) (*Result, error) {
	for _, v := range []float64{p.SpeedMPH, p.LaunchAngleDeg, p.BackspinRPM, p.SpinAxisDeg, p.WindSpeedMPH, p.WindDirectionDeg} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("flight: non-finite launch parameter %f", v)
		}
	}

	env := DefaultEnvironment()
	if p.Env != nil {
		env = *p.Env
	}
	rho := airDensity(env)

	v0 := units.MPHToMPS(p.SpeedMPH)
	if v0 <= 0 {
		// A ball that never leaves the tee: a one-point trajectory, not an
		// error.
		return &Result{
			Points:       []Point{{}},
			FinalSpinRPM: p.BackspinRPM,
		}, nil
	}

	angleRad := p.LaunchAngleDeg * math.Pi / 180
	windMps := units.MPHToMPS(p.WindSpeedMPH)
	windRad := p.WindDirectionDeg * math.Pi / 180
	// Headwind opposes the downrange axis.
	windX := -windMps * math.Cos(windRad)
	windY := windMps * math.Sin(windRad)

	st := state{
		0, 0, 0,
		v0 * math.Cos(angleRad),
		0,
		v0 * math.Sin(angleRad),
		p.BackspinRPM,
		p.SpinAxisDeg,
	}

	dt := s.cfg.Dt
	var (
		points []Point
		apex   float64
		t      float64
	)
	truncated := false
	for st[2] >= 0 && t < s.cfg.MaxFlightSeconds {
		points = append(points, Point{X: st[0], Y: st[1], Z: st[2], T: t})
		if st[2] > apex {
			apex = st[2]
		}
		next := s.rk4Step(st, dt, rho, windX, windY)
		if !finite(next) {
			truncated = true
			break
		}
		st = next
		t += dt
	}
	if st[2] >= 0 {
		truncated = true
	}

	carry := math.Hypot(st[0], st[1])
	return &Result{
		Points:            points,
		CarryYards:        units.MetersToYards(carry),
		ApexYards:         units.MetersToYards(apex),
		CurveYards:        units.MetersToYards(st[1]),
		FlightTimeSeconds: t,
		FinalSpinRPM:      st[6],
		Truncated:         truncated,
	}, nil
}

// SimulateShape runs a flight using a catalogued shot shape's launch angle
// and spin, at the given measured ball speed.
func (s *Simulator) SimulateShape(shape ShotShape, speedMPH, windSpeedMPH, windDirectionDeg float64) (*Result, error) {
	return s.Simulate(Params{
		SpeedMPH:         speedMPH,
		LaunchAngleDeg:   shape.LaunchAngleDeg,
		BackspinRPM:      shape.BackspinRPM,
		SpinAxisDeg:      shape.SpinAxisDeg,
		WindSpeedMPH:     windSpeedMPH,
		WindDirectionDeg: windDirectionDeg,
	})
}

// accelerations computes [ax, ay, az] for the current state.
func (s *Simulator) accelerations(st state, rho, windX, windY float64) (ax, ay, az float64) {
	// Wind only shears the horizontal airflow.
	vxRel := st[3] - windX
	vyRel := st[4] - windY
	vzRel := st[5]

	vRel := math.Sqrt(vxRel*vxRel + vyRel*vyRel + vzRel*vzRel)
	if vRel < minRelativeSpeed {
		return 0, 0, -gravityMps2
	}

	dragMag := 0.5 * rho * vRel * vRel * s.cfg.DragCoefficient * s.ballArea / BallMassKg
	dragX := -dragMag * vxRel / vRel
	dragY := -dragMag * vyRel / vRel
	dragZ := -dragMag * vzRel / vRel

	// Magnus lift grows with spin. The spin axis tilt splits it between
	// vertical lift (backspin keeps the ball airborne) and lateral force
	// (side tilt curves the shot).
	liftCoeff := s.cfg.LiftCoefficientPerRPM * st[6]
	if liftCoeff > maxLiftCoefficient {
		liftCoeff = maxLiftCoefficient
	}
	magnusMag := 0.5 * rho * vRel * vRel * liftCoeff * s.ballArea / BallMassKg
	axisRad := st[7] * math.Pi / 180
	liftZ := magnusMag * math.Cos(axisRad)
	liftY := magnusMag * math.Sin(axisRad)

	return dragX, dragY + liftY, dragZ + liftZ - gravityMps2
}

// derivative returns d(state)/dt.
func (s *Simulator) derivative(st state, rho, windX, windY float64) state {
	ax, ay, az := s.accelerations(st, rho, windX, windY)
	return state{
		st[3], st[4], st[5],
		ax, ay, az,
		-s.cfg.SpinDecayPerSecond * st[6],
		0,
	}
}

// rk4Step advances the state by one fourth-order Runge-Kutta step.
func (s *Simulator) rk4Step(st state, dt, rho, windX, windY float64) state {
	k1 := s.derivative(st, rho, windX, windY)
	k2 := s.derivative(advance(st, k1, dt/2), rho, windX, windY)
	k3 := s.derivative(advance(st, k2, dt/2), rho, windX, windY)
	k4 := s.derivative(advance(st, k3, dt), rho, windX, windY)

	var out state
	for i := range st {
		out[i] = st[i] + dt/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}

func advance(st, d state, h float64) state {
	var out state
	for i := range st {
		out[i] = st[i] + h*d[i]
	}
	return out
}

func finite(st state) bool {
	for _, v := range st {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
