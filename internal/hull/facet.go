// Package hull grows label-pure convex hulls around one label of a point
// set by incremental gift wrapping. The driver pops open ridges from a FIFO
// queue and negotiates each pivot choice with a selector that accepts
// purity verdicts, so a candidate that would enclose a foreign-label point
// can be rejected in favor of a tighter wrap.
package hull

import (
	"sort"
	"strings"

	"github.com/banshee-data/purehull/internal/geom"
)

// LabeledPoint pairs a coordinate with its integer class label.
type LabeledPoint struct {
	Coord geom.Coordinate
	Label int
}

// Facet is an ordered (d-1)-simplex of d vertices. Orientation matters:
// the vertex order fixes the sign of the volume test against a pivot.
type Facet []geom.Coordinate

// Ridge is an ordered (d-2)-simplex of d-1 vertices, the shared boundary
// between two adjacent facets.
type Ridge []geom.Coordinate

// FormFacet builds the facet spanned by a ridge plus a pivot. The result
// is a fresh slice so later queue or hull mutations cannot alias it.
func FormFacet(edge Ridge, pivot geom.Coordinate) Facet {
	face := make(Facet, 0, len(edge)+1)
	face = append(face, edge...)
	face = append(face, pivot)
	return face
}

// key identifies a ridge by its exact vertex order.
func (r Ridge) key() string {
	var b strings.Builder
	for _, v := range r {
		b.WriteString(v.Key())
	}
	return b.String()
}

// undirectedKey identifies a ridge regardless of vertex order, so the two
// facets bordering it map to the same entry.
func (r Ridge) undirectedKey() string {
	keys := make([]string, len(r))
	for i, v := range r {
		keys[i] = v.Key()
	}
	sort.Strings(keys)
	return strings.Join(keys, "")
}
