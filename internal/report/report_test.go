package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway-data/carry.report/internal/flight"
)

func simulatedShot(t *testing.T) *flight.Result {
	t.Helper()
	sim, err := flight.NewSimulator(flight.DefaultSimConfig())
	require.NoError(t, err)
	res, err := sim.Simulate(flight.Params{
		SpeedMPH:       145,
		LaunchAngleDeg: 12,
		BackspinRPM:    2500,
		SpinAxisDeg:    10,
	})
	require.NoError(t, err)
	return res
}

func TestSaveProfilePlots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files, err := SaveProfilePlots(dir, "fade", simulatedShot(t))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "fade_side.png"), files.Side)
	assert.Equal(t, filepath.Join(dir, "fade_top.png"), files.Top)

	for _, f := range []string{files.Side, files.Top} {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0), "plot %s must not be empty", f)
	}
}

func TestSaveProfilePlotsCreatesDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "plots")
	_, err := SaveProfilePlots(dir, "straight", simulatedShot(t))
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestSaveProfilePlotsRejectsEmptyResult(t *testing.T) {
	t.Parallel()

	_, err := SaveProfilePlots(t.TempDir(), "empty", &flight.Result{})
	assert.Error(t, err)

	_, err = SaveProfilePlots(t.TempDir(), "nil", nil)
	assert.Error(t, err)
}

func TestWriteComparisonHTML(t *testing.T) {
	t.Parallel()

	sim, err := flight.NewSimulator(flight.DefaultSimConfig())
	require.NoError(t, err)
	gen, err := flight.NewTableGenerator(sim)
	require.NoError(t, err)
	set, err := gen.Generate(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "comparison.html")
	require.NoError(t, WriteComparisonHTML(path, set))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(raw)

	assert.True(t, strings.Contains(doc, "<html"), "output should be a standalone HTML page")
	for _, arch := range flight.TableArchetypes {
		assert.Contains(t, doc, arch.Name)
	}
}

func TestWriteComparisonHTMLRejectsEmptySet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "comparison.html")
	assert.Error(t, WriteComparisonHTML(path, nil))
	assert.Error(t, WriteComparisonHTML(path, &flight.TableSet{}))
}
