// Package report renders simulated trajectories to disk: PNG side and
// top-down profiles via gonum/plot, and an HTML archetype comparison
// chart via go-echarts.
package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fairway-data/carry.report/internal/flight"
	"github.com/fairway-data/carry.report/internal/units"
)

// ProfileFiles names the PNGs written for one shot.
type ProfileFiles struct {
	Side string
	Top  string
}

// SaveProfilePlots writes side-view (downrange vs height) and top-down
// (downrange vs lateral) profiles of one simulated shot as PNGs under
// outputDir. The name becomes the file prefix, e.g. "straight_side.png".
func SaveProfilePlots(outputDir, name string, res *flight.Result) (*ProfileFiles, error) {
	if res == nil || len(res.Points) == 0 {
		return nil, fmt.Errorf("report: no trajectory points to plot")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	sidePts := make(plotter.XYs, len(res.Points))
	topPts := make(plotter.XYs, len(res.Points))
	for i, p := range res.Points {
		sidePts[i] = plotter.XY{X: units.MetersToYards(p.X), Y: units.MetersToYards(p.Z)}
		topPts[i] = plotter.XY{X: units.MetersToYards(p.X), Y: units.MetersToYards(p.Y)}
	}

	pSide := plot.New()
	pSide.Title.Text = fmt.Sprintf("%s - Side Profile (carry %.1f yd, apex %.1f yd)", name, res.CarryYards, res.ApexYards)
	pSide.X.Label.Text = "Downrange (yd)"
	pSide.Y.Label.Text = "Height (yd)"

	pTop := plot.New()
	pTop.Title.Text = fmt.Sprintf("%s - Top Down (curve %.1f yd)", name, res.CurveYards)
	pTop.X.Label.Text = "Downrange (yd)"
	pTop.Y.Label.Text = "Lateral (yd)"

	sideLine, err := plotter.NewLine(sidePts)
	if err != nil {
		return nil, fmt.Errorf("failed to build side profile line: %w", err)
	}
	sideLine.Color = color.RGBA{R: 33, G: 150, B: 243, A: 255}
	sideLine.Width = vg.Points(1.5)
	pSide.Add(sideLine)
	pSide.Legend.Add("trajectory", sideLine)
	pSide.Legend.Top = true

	topLine, err := plotter.NewLine(topPts)
	if err != nil {
		return nil, fmt.Errorf("failed to build top-down line: %w", err)
	}
	topLine.Color = color.RGBA{R: 76, G: 175, B: 80, A: 255}
	topLine.Width = vg.Points(1.5)
	pTop.Add(topLine)
	pTop.Legend.Add("trajectory", topLine)
	pTop.Legend.Top = true

	// Keep the lateral axis symmetric so a straight shot reads as a
	// straight horizontal line instead of an auto-scaled wiggle.
	maxLat := 1.0
	for _, pt := range topPts {
		if math.Abs(pt.Y) > maxLat {
			maxLat = math.Abs(pt.Y)
		}
	}
	pTop.Y.Min = -maxLat * 1.1
	pTop.Y.Max = maxLat * 1.1

	files := &ProfileFiles{
		Side: filepath.Join(outputDir, name+"_side.png"),
		Top:  filepath.Join(outputDir, name+"_top.png"),
	}
	if err := pSide.Save(10*vg.Inch, 4*vg.Inch, files.Side); err != nil {
		return nil, fmt.Errorf("failed to save side profile: %w", err)
	}
	if err := pTop.Save(10*vg.Inch, 4*vg.Inch, files.Top); err != nil {
		return nil, fmt.Errorf("failed to save top-down profile: %w", err)
	}
	return files, nil
}

// WriteComparisonHTML renders every archetype's full-speed variant as a
// top-down line overlay and writes the chart as a standalone HTML page.
func WriteComparisonHTML(path string, set *flight.TableSet) error {
	if set == nil || len(set.Archetypes) == 0 {
		return fmt.Errorf("report: no archetypes to compare")
	}

	names := make([]string, 0, len(set.Archetypes))
	for name := range set.Archetypes {
		names = append(names, name)
	}
	sort.Strings(names)

	maxAbs := 0.0
	series := make(map[string][]opts.ScatterData, len(names))
	for _, name := range names {
		table := set.Archetypes[name]
		full, ok := table.Variants["100pct"]
		if !ok {
			continue
		}
		data := make([]opts.ScatterData, 0, len(full.Points))
		for _, p := range full.Points {
			x := units.MetersToYards(p.X)
			z := units.MetersToYards(p.Z)
			if math.Abs(x) > maxAbs {
				maxAbs = math.Abs(x)
			}
			if math.Abs(z) > maxAbs {
				maxAbs = math.Abs(z)
			}
			data = append(data, opts.ScatterData{Value: []interface{}{x, z}})
		}
		series[name] = data
	}

	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Archetype Comparison", Theme: "dark", Width: "1200px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "Shot Archetypes (Top Down)", Subtitle: fmt.Sprintf("archetypes=%d speed=100%%", len(series))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: pad, Name: "Downrange (yd)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad / 2, Max: pad / 2, Name: "Lateral (yd)", NameLocation: "middle", NameGap: 30}),
	)

	for _, name := range names {
		data, ok := series[name]
		if !ok {
			continue
		}
		scatter.AddSeries(name, data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: archetypeColor(set, name)}),
		)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create comparison report: %w", err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("failed to render comparison chart: %w", err)
	}
	return nil
}

// archetypeColor picks the overlay colour for an archetype from the
// table set's colour scheme, keyed by its curve family.
func archetypeColor(set *flight.TableSet, name string) string {
	switch set.Archetypes[name].CurveType {
	case "slice":
		return set.Colors.SliceShots.Primary
	case "hook":
		return set.Colors.HookShots.Primary
	default:
		return set.Colors.StraightShots.Primary
	}
}
