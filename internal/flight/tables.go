package flight

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/fairway-data/carry.report/internal/monitoring"
)

// TableArchetype parameterises one row of the pre-computed lookup tables.
// Unlike the display catalogue these carry a typical ball speed, because the
// tables enumerate speed variants around it.
type TableArchetype struct {
	Name           string
	SpinRPM        float64
	SpinAxisDeg    float64
	LaunchAngleDeg float64
	BallSpeedMPH   float64
}

// TableArchetypes is the canonical nine-shape table set: high, medium and
// low flights, each straight and curving both ways.
var TableArchetypes = []TableArchetype{
	{Name: "high_slice", SpinRPM: 3500, SpinAxisDeg: 30, LaunchAngleDeg: 18, BallSpeedMPH: 150},
	{Name: "high_straight", SpinRPM: 3000, SpinAxisDeg: 0, LaunchAngleDeg: 16, BallSpeedMPH: 155},
	{Name: "high_hook", SpinRPM: 3500, SpinAxisDeg: -30, LaunchAngleDeg: 18, BallSpeedMPH: 150},
	{Name: "medium_fade", SpinRPM: 2500, SpinAxisDeg: 15, LaunchAngleDeg: 12, BallSpeedMPH: 160},
	{Name: "straight", SpinRPM: 2000, SpinAxisDeg: 0, LaunchAngleDeg: 11, BallSpeedMPH: 165},
	{Name: "medium_draw", SpinRPM: 2500, SpinAxisDeg: -15, LaunchAngleDeg: 12, BallSpeedMPH: 160},
	{Name: "low_fade", SpinRPM: 1800, SpinAxisDeg: 10, LaunchAngleDeg: 8, BallSpeedMPH: 170},
	{Name: "low_straight", SpinRPM: 1500, SpinAxisDeg: 0, LaunchAngleDeg: 7, BallSpeedMPH: 175},
	{Name: "low_draw", SpinRPM: 1800, SpinAxisDeg: -10, LaunchAngleDeg: 8, BallSpeedMPH: 170},
}

// speedPercents are the speed variants generated per archetype.
var speedPercents = []int{60, 70, 80, 90, 100, 110, 120}

// TablePoint is one serialised trajectory sample. Field naming and axis
// convention are a wire contract with AR-rendering consumers: x downrange,
// y height, z lateral, all in metres rounded to millimetres.
type TablePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	T float64 `json:"t"`
}

// Variant is one speed level of one archetype.
type Variant struct {
	SpeedMPH          float64      `json:"speed_mph"`
	CarryYards        float64      `json:"carry_yards"`
	MaxHeightYards    float64      `json:"max_height_yards"`
	CurveYards        float64      `json:"curve_yards"` // absolute; see CurveDirection
	CurveDirection    string       `json:"curve_direction"`
	FlightTimeSeconds float64      `json:"flight_time_seconds"`
	Points            []TablePoint `json:"points"`
}

// ArchetypeTable is the full variant set for one archetype.
type ArchetypeTable struct {
	DisplayName        string             `json:"display_name"`
	TypicalSpinRPM     float64            `json:"typical_spin_rpm"`
	SpinAxisDegrees    float64            `json:"spin_axis_degrees"`
	TypicalLaunchAngle float64            `json:"typical_launch_angle"`
	TypicalBallSpeed   float64            `json:"typical_ball_speed_mph"`
	CurveType          string             `json:"curve_type"`
	Variants           map[string]Variant `json:"variants"`
}

// ColorPalette is one rendering colour group.
type ColorPalette struct {
	Primary     string `json:"primary"`
	Secondary   string `json:"secondary"`
	Transparent string `json:"transparent"`
}

// ColorScheme maps shot families to overlay colours.
type ColorScheme struct {
	SliceShots    ColorPalette `json:"slice_shots"`
	StraightShots ColorPalette `json:"straight_shots"`
	HookShots     ColorPalette `json:"hook_shots"`
	GhostLine     ColorPalette `json:"ghost_line"`
}

// DefaultColorScheme returns the overlay colours shipped with the tables.
func DefaultColorScheme() ColorScheme {
	return ColorScheme{
		SliceShots:    ColorPalette{Primary: "#FF4444", Secondary: "#FF8888", Transparent: "rgba(255, 68, 68, 0.3)"},
		StraightShots: ColorPalette{Primary: "#44FF44", Secondary: "#88FF88", Transparent: "rgba(68, 255, 68, 0.3)"},
		HookShots:     ColorPalette{Primary: "#4444FF", Secondary: "#8888FF", Transparent: "rgba(68, 68, 255, 0.3)"},
		GhostLine:     ColorPalette{Primary: "#FFFFFF", Secondary: "#CCCCCC", Transparent: "rgba(255, 255, 255, 0.5)"},
	}
}

// TableUnits documents the units of the serialised tables.
type TableUnits struct {
	Position        string `json:"position"`
	DistanceDisplay string `json:"distance_display"`
	Time            string `json:"time"`
	Speed           string `json:"speed"`
}

// TableSet is the complete serialisable lookup table artifact.
type TableSet struct {
	Version     string                    `json:"version"`
	GeneratedBy string                    `json:"generated_by"`
	Description string                    `json:"description"`
	Units       TableUnits                `json:"units"`
	Archetypes  map[string]ArchetypeTable `json:"archetypes"`
	Colors      ColorScheme               `json:"colors"`
}

// MobileArchetype is the reduced per-archetype entry for bandwidth-limited
// clients: the 100% speed variant only, at a fifth of the point density.
type MobileArchetype struct {
	DisplayName string       `json:"display_name"`
	CurveType   string       `json:"curve_type"`
	CarryYards  float64      `json:"carry_yards"`
	CurveYards  float64      `json:"curve_yards"`
	Points      []TablePoint `json:"points"`
}

// MobileTableSet is the reduced artifact for mobile clients.
type MobileTableSet struct {
	Version    string                     `json:"version"`
	Colors     ColorScheme                `json:"colors"`
	Archetypes map[string]MobileArchetype `json:"archetypes"`
}

const (
	tableVersion     = "1.0"
	tableGeneratedBy = "tablegen"
	tableDescription = "Pre-calculated golf shot trajectories for AR overlay"

	// mobileSampleStride thins the 100% variant for the mobile tables.
	mobileSampleStride = 5
)

// TableGenerator fans the archetype/speed grid out across workers.
type TableGenerator struct {
	sim *Simulator
	// Parallelism caps the number of concurrently simulated archetypes;
	// zero means unbounded.
	Parallelism int
}

// NewTableGenerator creates a generator around the given simulator.
func NewTableGenerator(sim *Simulator) (*TableGenerator, error) {
	if sim == nil {
		return nil, fmt.Errorf("flight: simulator is required")
	}
	return &TableGenerator{sim: sim}, nil
}

// Generate computes all archetype variants. One variant's simulation failure
// is logged and skipped; the batch continues. Cancellation via the context
// aborts the whole batch with the context's error.
func (g *TableGenerator) Generate(ctx context.Context) (*TableSet, error) {
	tables := make([]ArchetypeTable, len(TableArchetypes))

	grp, ctx := errgroup.WithContext(ctx)
	if g.Parallelism > 0 {
		grp.SetLimit(g.Parallelism)
	}
	for i, arch := range TableArchetypes {
		i, arch := i, arch
		grp.Go(func() error {
			table, err := g.archetypeTable(ctx, arch)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, fmt.Errorf("flight: table generation aborted: %w", err)
	}

	set := &TableSet{
		Version:     tableVersion,
		GeneratedBy: tableGeneratedBy,
		Description: tableDescription,
		Units: TableUnits{
			Position:        "meters",
			DistanceDisplay: "yards",
			Time:            "seconds",
			Speed:           "mph",
		},
		Archetypes: make(map[string]ArchetypeTable, len(TableArchetypes)),
		Colors:     DefaultColorScheme(),
	}
	for i, arch := range TableArchetypes {
		set.Archetypes[arch.Name] = tables[i]
	}
	return set, nil
}

// archetypeTable simulates every speed variant of one archetype.
func (g *TableGenerator) archetypeTable(ctx context.Context, arch TableArchetype) (ArchetypeTable, error) {
	variants := make(map[string]Variant, len(speedPercents))
	for _, pct := range speedPercents {
		select {
		case <-ctx.Done():
			return ArchetypeTable{}, ctx.Err()
		default:
		}

		speed := arch.BallSpeedMPH * float64(pct) / 100
		res, err := g.sim.Simulate(Params{
			SpeedMPH:       speed,
			LaunchAngleDeg: arch.LaunchAngleDeg,
			BackspinRPM:    arch.SpinRPM,
			SpinAxisDeg:    arch.SpinAxisDeg,
		})
		if err != nil {
			monitoring.Logf("flight: skipping %s at %d%%: %v", arch.Name, pct, err)
			continue
		}
		variants[fmt.Sprintf("%dpct", pct)] = variantFromResult(speed, res)
	}

	return ArchetypeTable{
		DisplayName:        displayName(arch.Name),
		TypicalSpinRPM:     arch.SpinRPM,
		SpinAxisDegrees:    arch.SpinAxisDeg,
		TypicalLaunchAngle: arch.LaunchAngleDeg,
		TypicalBallSpeed:   arch.BallSpeedMPH,
		CurveType:          curveType(arch.SpinAxisDeg),
		Variants:           variants,
	}, nil
}

// Mobile reduces a full table set to the bandwidth-limited mobile artifact.
func (ts *TableSet) Mobile() *MobileTableSet {
	out := &MobileTableSet{
		Version:    ts.Version,
		Colors:     ts.Colors,
		Archetypes: make(map[string]MobileArchetype, len(ts.Archetypes)),
	}
	for name, table := range ts.Archetypes {
		full, ok := table.Variants["100pct"]
		if !ok {
			continue
		}
		var sampled []TablePoint
		for i := 0; i < len(full.Points); i += mobileSampleStride {
			sampled = append(sampled, full.Points[i])
		}
		out.Archetypes[name] = MobileArchetype{
			DisplayName: table.DisplayName,
			CurveType:   table.CurveType,
			CarryYards:  full.CarryYards,
			CurveYards:  full.CurveYards,
			Points:      sampled,
		}
	}
	return out
}

// variantFromResult serialises one simulation into the table contract: the
// simulator's lateral axis becomes the table's z, height becomes y.
func variantFromResult(speedMPH float64, res *Result) Variant {
	points := make([]TablePoint, len(res.Points))
	for i, p := range res.Points {
		points[i] = TablePoint{
			X: round3(p.X),
			Y: round3(p.Z),
			Z: round3(p.Y),
			T: round3(p.T),
		}
	}

	dir := "straight"
	if res.CurveYards > 0 {
		dir = "right"
	} else if res.CurveYards < 0 {
		dir = "left"
	}

	return Variant{
		SpeedMPH:          round1(speedMPH),
		CarryYards:        round1(res.CarryYards),
		MaxHeightYards:    round1(res.ApexYards),
		CurveYards:        round1(math.Abs(res.CurveYards)),
		CurveDirection:    dir,
		FlightTimeSeconds: round2(res.FlightTimeSeconds),
		Points:            points,
	}
}

func curveType(spinAxisDeg float64) string {
	switch {
	case spinAxisDeg > 0:
		return "slice"
	case spinAxisDeg < 0:
		return "hook"
	default:
		return "straight"
	}
}

// displayName turns "high_slice" into "High Slice".
func displayName(name string) string {
	out := []rune(name)
	upper := true
	for i, r := range out {
		if r == '_' {
			out[i] = ' '
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			out[i] = r - 'a' + 'A'
		}
		upper = false
	}
	return string(out)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
