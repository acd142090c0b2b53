package hull

import "github.com/banshee-data/purehull/internal/geom"

// Verdict is the driver's reply to a proposed pivot.
type Verdict int

const (
	// Homogeneous accepts a same-label pivot: wrapping it keeps the hull pure.
	Homogeneous Verdict = iota
	// Heterogeneous rejects a same-label pivot that would enclose a
	// foreign-label point.
	Heterogeneous
	// OppositeInside records that a foreign-label pivot already lies inside
	// the hull built so far.
	OppositeInside
	// OppositeOutside dismisses a foreign-label pivot lying outside the hull.
	OppositeOutside
)

// Candidate is one proposed pivot together with the label of the point it
// came from. The driver chooses the verdict from that label.
type Candidate struct {
	Pivot geom.Coordinate
	Label int
}

// incumbent is the best pivot seen so far for one ridge, with the facet it
// would form and that facet's squared content for the next comparison.
type incumbent struct {
	pivot   geom.Coordinate
	face    Facet
	logArea float64
}

// pivotSeeker scans the dataset for the pivot that maximally wraps one
// ridge, one candidate at a time. It is the suspended half of a two-way
// exchange: First yields the initial same-label incumbent, every Next call
// consumes the driver's verdict for the previous candidate and yields the
// following one, and after the scan Result reports the winning pivot.
//
// Same-label points are proposed when they fall outside the incumbent
// facet (the incumbent no longer wraps far enough); foreign-label points
// when they fall inside it (they could poison the wrap). The driver's
// verdict decides whether the incumbent actually moves.
type pivotSeeker struct {
	dataset    []LabeledPoint
	edge       Ridge
	label      int
	excludeKey string
	tol        float64

	cursor  int
	homo    incumbent
	opp     *incumbent
	pending incumbent
	found   bool
	done    bool
	err     error
}

func newPivotSeeker(dataset []LabeledPoint, edge Ridge, label int, excludeKey string, tol float64) *pivotSeeker {
	return &pivotSeeker{
		dataset:    dataset,
		edge:       edge,
		label:      label,
		excludeKey: excludeKey,
		tol:        tol,
	}
}

// First seeds the incumbent with the first same-label point and yields it
// as the opening candidate. Returns false when no eligible same-label
// point exists; the driver then falls back to backtracking.
func (s *pivotSeeker) First() (Candidate, bool) {
	var seed geom.Coordinate
	for _, p := range s.dataset {
		if p.Label == s.label && p.Coord.Key() != s.excludeKey {
			seed = p.Coord
			break
		}
	}
	if seed == nil {
		s.done = true
		return Candidate{}, false
	}

	face := FormFacet(s.edge, seed)
	logArea, err := geom.SquaredContent([]geom.Coordinate(face))
	if err != nil {
		s.fail(err)
		return Candidate{}, false
	}
	s.homo = incumbent{pivot: seed, face: face, logArea: logArea}
	s.pending = s.homo
	return Candidate{Pivot: seed, Label: s.label}, true
}

// Next applies the verdict for the previously yielded candidate, then
// resumes the scan and yields the next one. Returns false when the scan is
// complete; the outcome is then available from Result.
func (s *pivotSeeker) Next(v Verdict) (Candidate, bool) {
	if s.done {
		return Candidate{}, false
	}
	switch v {
	case Homogeneous:
		s.homo = s.pending
		s.found = true
	case OppositeInside:
		opp := s.pending
		s.opp = &opp
	}
	return s.scan()
}

// scan advances the dataset cursor to the next point that challenges the
// incumbent and yields it.
func (s *pivotSeeker) scan() (Candidate, bool) {
	for s.cursor < len(s.dataset) {
		p := s.dataset[s.cursor]
		s.cursor++
		if p.Coord.Key() == s.excludeKey {
			continue
		}

		res, err := CheckInside(s.homo.face, p.Coord, s.edge, s.homo.logArea, s.tol)
		if err != nil {
			s.fail(err)
			return Candidate{}, false
		}
		updated := res.Inside
		if p.Label == s.label {
			updated = !updated
		}
		if !updated {
			continue
		}

		s.pending = incumbent{pivot: p.Coord, face: res.Face, logArea: res.LogArea}
		return Candidate{Pivot: p.Coord, Label: p.Label}, true
	}
	s.done = true
	return Candidate{}, false
}

// Result returns the winning pivot and whether any candidate was accepted.
// The pivot is the initial incumbent even when found is false, mirroring
// the scan's final yield; callers decide whether to use or discard it.
func (s *pivotSeeker) Result() (geom.Coordinate, bool) {
	if s.err != nil || s.homo.pivot == nil {
		return nil, false
	}
	return s.homo.pivot, s.found
}

// Opposite returns the best interior foreign-label pivot seen, if any.
func (s *pivotSeeker) Opposite() (geom.Coordinate, bool) {
	if s.opp == nil {
		return nil, false
	}
	return s.opp.pivot, true
}

// Err reports a geometry failure that aborted the scan.
func (s *pivotSeeker) Err() error {
	return s.err
}

func (s *pivotSeeker) fail(err error) {
	s.err = err
	s.done = true
}
