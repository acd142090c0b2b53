// Package cluster peels label-pure convex hulls off a labeled point set
// until every point has been consumed, emitting one record per hull.
package cluster

import (
	"fmt"
	"log"
	"sort"

	"github.com/banshee-data/purehull/internal/geom"
	"github.com/banshee-data/purehull/internal/hull"
)

// LabeledPoint is a coordinate with its class label.
type LabeledPoint = hull.LabeledPoint

// Dataset is an ordered point sequence. Order matters: the seed ridge and
// the pivot scans both follow it, so the same dataset always peels the
// same clusters.
type Dataset []LabeledPoint

// Record is one emitted cluster: the hull vertices, the points strictly
// inside the hull, and the enclosed volume.
type Record struct {
	Vertices []geom.Coordinate `json:"vertices"`
	Points   []geom.Coordinate `json:"points"`
	Size     int               `json:"size"`
	Volume   float64           `json:"volume"`

	Label int `json:"-"`
}

// Options tune the engine. The zero value uses the defaults.
type Options struct {
	// ZeroTolerance bounds the simplex volume treated as zero by the
	// colinear tie-break. Zero means hull.DefaultZeroTolerance.
	ZeroTolerance float64
	// SortClusters orders the output by size descending instead of peel
	// order. Peel order is the default so the first record stays the
	// first hull found, which the summary statistics reference.
	SortClusters bool
}

// Engine runs the peeling loop.
type Engine struct {
	tol          float64
	sortClusters bool
}

// NewEngine builds an engine from options.
func NewEngine(opts Options) *Engine {
	tol := opts.ZeroTolerance
	if tol == 0 {
		tol = hull.DefaultZeroTolerance
	}
	return &Engine{tol: tol, sortClusters: opts.SortClusters}
}

// Cluster partitions the dataset into pure clusters. Each iteration wraps
// a hull around the label of the first remaining point, consumes the
// points it encloses, and emits a record; points outside the hull carry
// over to the next iteration. An empty dataset yields an empty sequence.
func (e *Engine) Cluster(dataset Dataset) ([]Record, error) {
	records := []Record{}
	working := make(Dataset, len(dataset))
	copy(working, dataset)

	for len(working) > 0 {
		h, err := hull.Wrap(working, e.tol)
		if err != nil {
			return nil, fmt.Errorf("wrap hull for label of first remaining point: %w", err)
		}

		var next Dataset
		// Empty slices, not nil, so the record serializes [] for a hull
		// with no interior points.
		vertices := []geom.Coordinate{}
		points := []geom.Coordinate{}
		for _, p := range working {
			if h.Used(p.Coord) {
				vertices = append(vertices, p.Coord)
				continue
			}
			inside, err := h.Contains(p.Coord)
			if err != nil {
				return nil, fmt.Errorf("classify point against hull: %w", err)
			}
			if inside {
				points = append(points, p.Coord)
			} else {
				next = append(next, p)
			}
		}

		volume, err := h.Volume()
		if err != nil {
			return nil, fmt.Errorf("hull volume: %w", err)
		}

		rec := Record{
			Vertices: vertices,
			Points:   points,
			Size:     len(vertices) + len(points),
			Volume:   volume,
			Label:    h.Label,
		}
		records = append(records, rec)
		log.Printf("[Engine] peeled cluster %d: label=%d size=%d volume=%g remaining=%d",
			len(records), rec.Label, rec.Size, rec.Volume, len(next))

		working = next
	}

	if e.sortClusters {
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Size > records[j].Size
		})
	}
	return records, nil
}
