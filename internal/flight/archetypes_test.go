package flight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShotShapeCatalogue(t *testing.T) {
	t.Parallel()

	shapes := ShotShapes()
	require.Len(t, shapes, 9)

	seen := map[string]bool{}
	for _, s := range shapes {
		assert.False(t, seen[s.Key], "duplicate key %q", s.Key)
		seen[s.Key] = true
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Color)
		assert.NotEmpty(t, s.Description)
		assert.Greater(t, s.LaunchAngleDeg, 0.0)
		assert.Greater(t, s.BackspinRPM, 0.0)
	}

	// Mutating the returned slice must not corrupt the catalogue.
	shapes[0].Key = "mutated"
	again, ok := ShotShapeByKey("high_slice")
	require.True(t, ok)
	assert.Equal(t, "High Slice", again.Name)
}

func TestShotShapeByKey(t *testing.T) {
	t.Parallel()

	s, ok := ShotShapeByKey("low_snap_hook")
	require.True(t, ok)
	assert.Equal(t, SeverityExtreme, s.Severity)
	assert.Less(t, s.SpinAxisDeg, 0.0)

	_, ok = ShotShapeByKey("shank")
	assert.False(t, ok)
}

func TestMatchShotShapeFromCurve(t *testing.T) {
	t.Parallel()

	cases := []struct {
		curve     float64
		direction CurveDirection
		want      string
	}{
		{45, CurveRight, "high_slice"},
		{30, CurveRight, "medium_slice"},
		{15, CurveRight, "low_fade"},
		{5, CurveRight, "straight"},
		{55, CurveLeft, "low_snap_hook"},
		{40, CurveLeft, "high_hook"},
		{25, CurveLeft, "medium_hook"},
		{15, CurveLeft, "low_draw"},
		{5, CurveLeft, "straight"},
		// Sign of the magnitude is ignored; direction decides the side.
		{-30, CurveRight, "medium_slice"},
	}
	for _, tc := range cases {
		got := MatchShotShapeFromCurve(tc.curve, tc.direction)
		assert.Equal(t, tc.want, got, "curve %v %s", tc.curve, tc.direction)
	}
}
