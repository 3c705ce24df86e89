package flight

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateTestTables(t *testing.T) *TableSet {
	t.Helper()
	gen, err := NewTableGenerator(newTestSimulator(t))
	require.NoError(t, err)
	set, err := gen.Generate(context.Background())
	require.NoError(t, err)
	return set
}

func TestGenerateCoversFullGrid(t *testing.T) {
	t.Parallel()

	set := generateTestTables(t)

	require.Len(t, set.Archetypes, 9)
	for _, arch := range TableArchetypes {
		table, ok := set.Archetypes[arch.Name]
		require.True(t, ok, "missing archetype %q", arch.Name)
		require.Len(t, table.Variants, 7, "%s must carry all speed variants", arch.Name)

		for _, key := range []string{"60pct", "70pct", "80pct", "90pct", "100pct", "110pct", "120pct"} {
			v, ok := table.Variants[key]
			require.True(t, ok, "%s missing %s", arch.Name, key)
			assert.NotEmpty(t, v.Points)
			assert.Greater(t, v.CarryYards, 0.0)
		}

		hundred := table.Variants["100pct"]
		assert.InDelta(t, arch.BallSpeedMPH, hundred.SpeedMPH, 0.05)
	}

	assert.Equal(t, "1.0", set.Version)
	assert.Equal(t, "meters", set.Units.Position)
	assert.Equal(t, "yards", set.Units.DistanceDisplay)
	assert.Equal(t, "seconds", set.Units.Time)
	assert.Equal(t, "mph", set.Units.Speed)
	assert.Equal(t, "#44FF44", set.Colors.StraightShots.Primary)
}

func TestGenerateCurveMetadata(t *testing.T) {
	t.Parallel()

	set := generateTestTables(t)

	assert.Equal(t, "slice", set.Archetypes["high_slice"].CurveType)
	assert.Equal(t, "hook", set.Archetypes["high_hook"].CurveType)
	assert.Equal(t, "straight", set.Archetypes["straight"].CurveType)

	assert.Equal(t, "right", set.Archetypes["high_slice"].Variants["100pct"].CurveDirection)
	assert.Equal(t, "left", set.Archetypes["high_hook"].Variants["100pct"].CurveDirection)
	assert.Equal(t, "straight", set.Archetypes["straight"].Variants["100pct"].CurveDirection)

	// Curve magnitudes are reported absolute; the direction field carries
	// the sign.
	assert.GreaterOrEqual(t, set.Archetypes["high_hook"].Variants["100pct"].CurveYards, 0.0)

	// Faster swings of the same shape curve farther offline.
	slice := set.Archetypes["high_slice"].Variants
	assert.Greater(t, slice["120pct"].CurveYards, slice["60pct"].CurveYards)
}

func TestGeneratePointGeometry(t *testing.T) {
	t.Parallel()

	set := generateTestTables(t)
	v := set.Archetypes["high_straight"].Variants["100pct"]

	// Millimetre rounding on every coordinate.
	for _, p := range v.Points {
		for _, c := range []float64{p.X, p.Y, p.Z, p.T} {
			assert.InDelta(t, math.Round(c*1000)/1000, c, 1e-12)
		}
	}

	// Table convention: y is height. The peak of the y series must match
	// the variant's reported apex.
	var maxY float64
	for _, p := range v.Points {
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	assert.InDelta(t, v.MaxHeightYards, maxY*1.09361, 0.5)

	// Time-ordered, forward-only.
	for i := 1; i < len(v.Points); i++ {
		assert.Greater(t, v.Points[i].T, v.Points[i-1].T)
	}
}

// TestTableJSONContract locks the serialised key naming the AR renderers
// depend on.
func TestTableJSONContract(t *testing.T) {
	t.Parallel()

	set := generateTestTables(t)
	raw, err := json.Marshal(set)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	for _, key := range []string{"version", "generated_by", "description", "units", "archetypes", "colors"} {
		assert.Contains(t, doc, key)
	}

	arch := doc["archetypes"].(map[string]any)["high_slice"].(map[string]any)
	for _, key := range []string{"display_name", "typical_spin_rpm", "spin_axis_degrees", "typical_launch_angle", "typical_ball_speed_mph", "curve_type", "variants"} {
		assert.Contains(t, arch, key)
	}
	assert.Equal(t, "High Slice", arch["display_name"])

	variant := arch["variants"].(map[string]any)["100pct"].(map[string]any)
	for _, key := range []string{"speed_mph", "carry_yards", "max_height_yards", "curve_yards", "curve_direction", "flight_time_seconds", "points"} {
		assert.Contains(t, variant, key)
	}

	point := variant["points"].([]any)[0].(map[string]any)
	for _, key := range []string{"x", "y", "z", "t"} {
		assert.Contains(t, point, key)
	}

	colors := doc["colors"].(map[string]any)
	for _, key := range []string{"slice_shots", "straight_shots", "hook_shots", "ghost_line"} {
		assert.Contains(t, colors, key)
	}
}

func TestMobileTables(t *testing.T) {
	t.Parallel()

	set := generateTestTables(t)
	mobile := set.Mobile()

	require.Len(t, mobile.Archetypes, 9)
	assert.Equal(t, set.Version, mobile.Version)
	assert.Equal(t, set.Colors, mobile.Colors)

	for name, m := range mobile.Archetypes {
		full := set.Archetypes[name].Variants["100pct"]
		assert.Equal(t, full.CarryYards, m.CarryYards)
		assert.Equal(t, full.CurveYards, m.CurveYards)

		want := (len(full.Points) + mobileSampleStride - 1) / mobileSampleStride
		assert.Len(t, m.Points, want, "%s must sample every %dth point", name, mobileSampleStride)
		assert.Equal(t, full.Points[0], m.Points[0])
	}
}

func TestGenerateHonorsCancellation(t *testing.T) {
	t.Parallel()

	gen, err := NewTableGenerator(newTestSimulator(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = gen.Generate(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewTableGeneratorRequiresSimulator(t *testing.T) {
	t.Parallel()

	_, err := NewTableGenerator(nil)
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "High Slice", displayName("high_slice"))
	assert.Equal(t, "Straight", displayName("straight"))
	assert.Equal(t, "Low Snap Hook", displayName("low_snap_hook"))
}
