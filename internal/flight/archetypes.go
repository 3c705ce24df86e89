package flight

// CurveSeverity grades how badly a shot shape bends offline.
type CurveSeverity string

const (
	SeverityNone     CurveSeverity = "none"
	SeverityMild     CurveSeverity = "mild"
	SeverityModerate CurveSeverity = "moderate"
	SeveritySevere   CurveSeverity = "severe"
	SeverityExtreme  CurveSeverity = "extreme"
)

// CurveDirection labels which way a shot bends.
type CurveDirection string

const (
	CurveLeft     CurveDirection = "left"
	CurveRight    CurveDirection = "right"
	CurveStraight CurveDirection = "straight"
)

// ShotShape is a canonical shot pattern with typical driver launch-monitor
// parameters and display metadata for overlay rendering. Values are typical
// for a driver at roughly 145 mph ball speed; irons and wedges spin far
// higher.
type ShotShape struct {
	Key                      string
	Name                     string
	LaunchAngleDeg           float64
	BackspinRPM              float64
	SpinAxisDeg              float64 // positive right, negative left
	Color                    string
	Description              string
	TypicalDistanceLossYards float64
	Severity                 CurveSeverity
}

// shotShapes is ordered from hardest right curve to hardest left, with the
// outliers at the end.
var shotShapes = []ShotShape{
	{
		Key: "high_slice", Name: "High Slice",
		LaunchAngleDeg: 16, BackspinRPM: 3500, SpinAxisDeg: 20,
		Color:                    "#FF5252",
		Description:              "High launch, strong right curve",
		TypicalDistanceLossYards: 30, Severity: SeveritySevere,
	},
	{
		Key: "medium_slice", Name: "Medium Slice",
		LaunchAngleDeg: 13, BackspinRPM: 3000, SpinAxisDeg: 15,
		Color:                    "#FF9800",
		Description:              "Medium launch, moderate right curve",
		TypicalDistanceLossYards: 20, Severity: SeverityModerate,
	},
	{
		Key: "low_fade", Name: "Low Fade",
		LaunchAngleDeg: 9, BackspinRPM: 2200, SpinAxisDeg: 8,
		Color:                    "#FFC107",
		Description:              "Low launch, gentle right curve (controlled)",
		TypicalDistanceLossYards: 5, Severity: SeverityMild,
	},
	{
		Key: "straight", Name: "Straight",
		LaunchAngleDeg: 12, BackspinRPM: 2500, SpinAxisDeg: 0,
		Color:                    "#4CAF50",
		Description:              "Neutral flight, minimal curve",
		TypicalDistanceLossYards: 0, Severity: SeverityNone,
	},
	{
		Key: "low_draw", Name: "Low Draw",
		LaunchAngleDeg: 9, BackspinRPM: 2200, SpinAxisDeg: -8,
		Color:                    "#2196F3",
		Description:              "Low launch, gentle left curve (controlled)",
		TypicalDistanceLossYards: 5, Severity: SeverityMild,
	},
	{
		Key: "medium_hook", Name: "Medium Hook",
		LaunchAngleDeg: 12, BackspinRPM: 2300, SpinAxisDeg: -15,
		Color:                    "#3F51B5",
		Description:              "Medium launch, moderate left curve",
		TypicalDistanceLossYards: 20, Severity: SeverityModerate,
	},
	{
		Key: "high_hook", Name: "High Hook",
		LaunchAngleDeg: 15, BackspinRPM: 2800, SpinAxisDeg: -25,
		Color:                    "#9C27B0",
		Description:              "High launch, strong left curve",
		TypicalDistanceLossYards: 30, Severity: SeveritySevere,
	},
	{
		Key: "low_snap_hook", Name: "Low Snap Hook",
		LaunchAngleDeg: 7, BackspinRPM: 1800, SpinAxisDeg: -30,
		Color:                    "#673AB7",
		Description:              "Low launch with severe left curve (often dives)",
		TypicalDistanceLossYards: 50, Severity: SeverityExtreme,
	},
	{
		Key: "high_balloon", Name: "High Balloon",
		LaunchAngleDeg: 18, BackspinRPM: 4500, SpinAxisDeg: 5,
		Color:                    "#00BCD4",
		Description:              "Very high launch, stalls in air, limited distance",
		TypicalDistanceLossYards: 40, Severity: SeverityMild,
	},
}

// ShotShapes returns the full catalogue in display order.
func ShotShapes() []ShotShape {
	out := make([]ShotShape, len(shotShapes))
	copy(out, shotShapes)
	return out
}

// ShotShapeByKey looks a shape up by its catalogue key.
func ShotShapeByKey(key string) (ShotShape, bool) {
	for _, s := range shotShapes {
		if s.Key == key {
			return s, true
		}
	}
	return ShotShape{}, false
}

// MatchShotShapeFromCurve estimates which catalogued shape best explains an
// observed lateral curve. Thresholds are asymmetric: hooks dive harder than
// slices balloon, so the left-side bands sit wider.
func MatchShotShapeFromCurve(curveYards float64, direction CurveDirection) string {
	curve := curveYards
	if curve < 0 {
		curve = -curve
	}

	if direction == CurveRight {
		switch {
		case curve > 40:
			return "high_slice"
		case curve > 25:
			return "medium_slice"
		case curve > 10:
			return "low_fade"
		default:
			return "straight"
		}
	}
	switch {
	case curve > 50:
		return "low_snap_hook"
	case curve > 35:
		return "high_hook"
	case curve > 20:
		return "medium_hook"
	case curve > 10:
		return "low_draw"
	default:
		return "straight"
	}
}
