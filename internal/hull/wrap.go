package hull

import (
	"errors"

	"github.com/banshee-data/purehull/internal/geom"
)

// ErrEmptyDataset is returned when Wrap is asked to hull nothing.
var ErrEmptyDataset = errors.New("empty dataset")

// Hull is one label-pure convex hull under construction or completed.
// Faces is append-only during the wrap; verts mirrors the pivot stack for
// backtracking while used records every vertex ever wrapped, including
// vertices of facets later popped by a backtrack.
type Hull struct {
	Faces []Facet
	Label int

	tol      float64
	verts    []geom.Coordinate
	used     map[string]bool
	distinct []geom.Coordinate
}

func (h *Hull) addVertex(c geom.Coordinate) {
	h.verts = append(h.verts, c)
	key := c.Key()
	if !h.used[key] {
		h.used[key] = true
		h.distinct = append(h.distinct, c)
	}
}

// Used reports whether the coordinate was wrapped as a hull vertex.
func (h *Hull) Used(c geom.Coordinate) bool {
	return h.used[c.Key()]
}

// Vertices returns the distinct hull vertices in wrap order.
func (h *Hull) Vertices() []geom.Coordinate {
	out := make([]geom.Coordinate, len(h.distinct))
	copy(out, h.distinct)
	return out
}

// Contains reports whether the coordinate lies on the inner side of every
// facet of the completed hull.
func (h *Hull) Contains(c geom.Coordinate) (bool, error) {
	return InsideHull(h.Faces, c, h.tol)
}

// pure reports whether no foreign-label point lies inside the hull built
// so far. Points whose coordinates are already wrapped vertices are
// skipped; a foreign point that became a vertex of an earlier facet cannot
// poison purity.
func (h *Hull) pure(dataset []LabeledPoint) (bool, error) {
	for _, p := range dataset {
		if p.Label == h.Label || h.used[p.Coord.Key()] {
			continue
		}
		inside, err := InsideHull(h.Faces, p.Coord, h.tol)
		if err != nil {
			return false, err
		}
		if inside {
			return false, nil
		}
	}
	return true, nil
}

// Wrap grows a pure hull around the label of the first dataset point by
// gift wrapping: pop an open ridge, run the pivot selector over the
// dataset, answer each candidate with a purity verdict, and wrap the
// winning pivot into a new facet whose own ridges join the queue. When no
// candidate survives the verdicts the driver backtracks: it restores the
// previous ridge, pops the last facet and pivot, and falls back to the
// first hull vertex.
func Wrap(dataset []LabeledPoint, tol float64) (*Hull, error) {
	if len(dataset) == 0 {
		return nil, ErrEmptyDataset
	}

	label, seed := seedRidge(dataset)
	h := &Hull{Label: label, tol: tol, used: make(map[string]bool)}

	// advance runs one full selector scan over the ridge and returns the
	// winning pivot. The excluded vertex is the one deleted from the facet
	// that spawned this ridge; wrapping it again would only rebuild that
	// facet reversed.
	advance := func(edge Ridge, excludeKey string) (geom.Coordinate, bool, error) {
		seeker := newPivotSeeker(dataset, edge, label, excludeKey, tol)
		cand, ok := seeker.First()
		for ok {
			var v Verdict
			if cand.Label == label {
				h.Faces = append(h.Faces, FormFacet(edge, cand.Pivot))
				pure, err := h.pure(dataset)
				h.Faces = h.Faces[:len(h.Faces)-1]
				if err != nil {
					return nil, false, err
				}
				if pure {
					v = Homogeneous
				} else {
					v = Heterogeneous
				}
			} else {
				inside, err := InsideHull(h.Faces, cand.Pivot, tol)
				if err != nil {
					return nil, false, err
				}
				if inside {
					v = OppositeInside
				} else {
					v = OppositeOutside
				}
			}
			cand, ok = seeker.Next(v)
		}
		if err := seeker.Err(); err != nil {
			return nil, false, err
		}
		pivot, found := seeker.Result()
		return pivot, found, nil
	}

	pivot, _, err := advance(seed, "")
	if err != nil {
		return nil, err
	}
	for _, v := range seed {
		h.addVertex(v)
	}
	if pivot == nil {
		// No same-label point at all beyond the seed; a degenerate
		// single-ridge hull still consumes the seed vertices.
		pivot = seed[0]
	}

	face := FormFacet(seed, pivot)
	h.addVertex(pivot)
	h.Faces = append(h.Faces, face)

	queue := &ridgeQueue{}
	enqueueFacet(face, queue)

	// facetCount tracks how many facets border each undirected ridge. A
	// ridge of a closed hull belongs to exactly two facets, so a popped
	// ridge that already has two is skipped.
	facetCount := make(map[string]int)
	countRidges(face, facetCount, 1)

	processed := make(map[string]bool)
	var edge, lastEdge Ridge
	for !queue.empty() {
		qr, _ := queue.pop()
		lastEdge = edge
		edge = qr.verts
		if processed[edge.key()] {
			continue
		}
		if facetCount[edge.undirectedKey()] >= 2 {
			continue
		}

		pivot, found, err := advance(edge, qr.excludeKey)
		if err != nil {
			return nil, err
		}
		if !found {
			pivot = h.verts[0]
			if lastEdge != nil {
				edge = lastEdge
			}
			if n := len(h.Faces); n > 0 {
				countRidges(h.Faces[n-1], facetCount, -1)
				h.Faces = h.Faces[:n-1]
			}
			h.verts = h.verts[:len(h.verts)-1]
		}

		face := FormFacet(edge, pivot)
		h.addVertex(pivot)
		h.Faces = append(h.Faces, face)
		enqueueFacet(face, queue)
		countRidges(face, facetCount, 1)
		processed[edge.key()] = true
	}

	return h, nil
}

// countRidges adjusts the bordering-facet count of each ridge of a facet.
func countRidges(face Facet, counts map[string]int, delta int) {
	for i := range face {
		ridge := make(Ridge, 0, len(face)-1)
		for j, v := range face {
			if j != i {
				ridge = append(ridge, v)
			}
		}
		counts[ridge.undirectedKey()] += delta
	}
}
