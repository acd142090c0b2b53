// Package monitor renders clustering results for visual inspection: an
// interactive HTML scatter report via go-echarts and a static PNG via
// gonum/plot. Both are 2-D views and refuse higher-dimensional runs.
package monitor

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/purehull/internal/cluster"
	"github.com/banshee-data/purehull/internal/geom"
)

// ErrNot2D is returned when the records are not 2-dimensional. Callers
// log it and move on; plotting is never fatal to a run.
var ErrNot2D = errors.New("plotting requires 2-dimensional data")

// dimensionOf finds the coordinate dimension of the result, 0 when empty.
func dimensionOf(records []cluster.Record) int {
	for _, r := range records {
		for _, c := range r.Vertices {
			return len(c)
		}
		for _, c := range r.Points {
			return len(c)
		}
	}
	return 0
}

// sample returns coords thinned by a stride so no series exceeds maxPoints.
func sample(coords []geom.Coordinate, maxPoints int) []geom.Coordinate {
	if maxPoints <= 0 || len(coords) <= maxPoints {
		return coords
	}
	stride := (len(coords) + maxPoints - 1) / maxPoints
	out := make([]geom.Coordinate, 0, maxPoints)
	for i := 0; i < len(coords); i += stride {
		out = append(out, coords[i])
	}
	return out
}

// WriteHTMLReport renders one scatter series per cluster to w. Vertices
// and interior points of a cluster share a series; maxPoints caps the
// points drawn per cluster.
func WriteHTMLReport(w io.Writer, title string, records []cluster.Record, maxPoints int) error {
	if d := dimensionOf(records); d != 0 && d != 2 {
		return fmt.Errorf("%d-dimensional result: %w", d, ErrNot2D)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("clusters=%d", len(records))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y", NameLocation: "middle", NameGap: 30}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	for i, r := range records {
		coords := append(append([]geom.Coordinate{}, r.Vertices...), r.Points...)
		coords = sample(coords, maxPoints)
		data := make([]opts.ScatterData, 0, len(coords))
		for _, c := range coords {
			data = append(data, opts.ScatterData{Value: []interface{}{c[0], c[1]}})
		}
		name := fmt.Sprintf("cluster %d (label %d)", i+1, r.Label)
		scatter.AddSeries(name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("render scatter chart: %w", err)
	}
	return nil
}

// SaveHTML writes the HTML scatter report to path. The dimension check
// runs before the file is created so a skipped plot leaves nothing behind.
func SaveHTML(path, title string, records []cluster.Record, maxPoints int) error {
	if d := dimensionOf(records); d != 0 && d != 2 {
		return fmt.Errorf("%d-dimensional result: %w", d, ErrNot2D)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create HTML report: %w", err)
	}
	defer f.Close()
	return WriteHTMLReport(f, title, records, maxPoints)
}
