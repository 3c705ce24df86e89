package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway-data/carry.report/internal/flight"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTableSet() *flight.TableSet {
	return &flight.TableSet{
		Version:     "1.0",
		GeneratedBy: "tablegen",
		Archetypes: map[string]flight.ArchetypeTable{
			"straight": {
				DisplayName: "Straight",
				CurveType:   "straight",
				Variants: map[string]flight.Variant{
					"100pct": {
						SpeedMPH:          165,
						CarryYards:        280.5,
						MaxHeightYards:    34.2,
						CurveYards:        0,
						CurveDirection:    "straight",
						FlightTimeSeconds: 6.8,
						Points: []flight.TablePoint{
							{X: 0, Y: 0, Z: 0, T: 0},
							{X: 0.721, Y: 0.153, Z: 0, T: 0.01},
						},
					},
					"60pct": {
						SpeedMPH:          99,
						CarryYards:        120.1,
						CurveDirection:    "straight",
						FlightTimeSeconds: 3.1,
						Points:            []flight.TablePoint{{X: 0, Y: 0, Z: 0, T: 0}},
					},
				},
			},
		},
	}
}

func TestSaveAndLoadTableRun(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	runID, err := s.SaveTableSet(sampleTableSet())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "run_"), "run IDs carry the run_ prefix, got %q", runID)

	run, err := s.GetTableRun(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, "1.0", run.Version)
	assert.Equal(t, "tablegen", run.GeneratedBy)
	assert.Equal(t, 1, run.ArchetypeCount)
	assert.Equal(t, 2, run.VariantCount)
	assert.NotEmpty(t, run.CreatedAt)
}

func TestGetTableRunMissing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.GetTableRun("run_missing")
	assert.Error(t, err)
}

func TestVariantPointsRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	set := sampleTableSet()

	runID, err := s.SaveTableSet(set)
	require.NoError(t, err)

	points, err := s.GetVariantPoints(runID, "straight", "100pct")
	require.NoError(t, err)

	want := set.Archetypes["straight"].Variants["100pct"].Points
	if diff := cmp.Diff(want, points); diff != "" {
		t.Errorf("stored points mismatch (-want +got):\n%s", diff)
	}

	_, err = s.GetVariantPoints(runID, "straight", "50pct")
	assert.Error(t, err, "unknown variant must not silently return data")
}

func TestListTableRuns(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.SaveTableSet(sampleTableSet())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := s.ListTableRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	runs, err = s.ListTableRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "run IDs must be unique")
		seen[id] = true
	}
}

func TestSaveAndListShots(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	params := flight.Params{
		SpeedMPH:       145,
		LaunchAngleDeg: 12,
		BackspinRPM:    2500,
		WindSpeedMPH:   10,
	}
	res := &flight.Result{
		CarryYards:        232.7,
		ApexYards:         31.1,
		CurveYards:        -4.5,
		FlightTimeSeconds: 6.4,
		Truncated:         false,
	}

	shotID, err := s.SaveShot(params, res)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(shotID, "shot_"))

	shots, err := s.RecentShots(5)
	require.NoError(t, err)
	require.Len(t, shots, 1)

	sh := shots[0]
	assert.Equal(t, shotID, sh.ID)
	assert.Equal(t, 145.0, sh.SpeedMPH)
	assert.Equal(t, 12.0, sh.LaunchAngleDeg)
	assert.Equal(t, 2500.0, sh.BackspinRPM)
	assert.Equal(t, 10.0, sh.WindSpeedMPH)
	assert.Equal(t, 232.7, sh.CarryYards)
	assert.Equal(t, -4.5, sh.CurveYards)
	assert.False(t, sh.Truncated)
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	version, dirty, err := s.MigrateVersion("migrations")
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, s.MigrateUp("migrations"))

	version, dirty, err = s.MigrateVersion("migrations")
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Running up again is a no-op, not an error.
	require.NoError(t, s.MigrateUp("migrations"))

	require.NoError(t, s.MigrateDown("migrations"))
}
