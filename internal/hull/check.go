package hull

import (
	"math"

	"github.com/banshee-data/purehull/internal/geom"
)

// DefaultZeroTolerance bounds the simplex volume below which a pivot is
// treated as coplanar with a facet and the area tie-break applies.
const DefaultZeroTolerance = 1e-8

// CheckResult carries the outcome of a facet-side test together with the
// replacement facet the pivot would form, so selector scans can reuse it
// as the next incumbent without recomputing.
type CheckResult struct {
	Inside  bool
	Face    Facet
	LogArea float64
}

// CheckInside reports whether pivot lies on the inner side of the oriented
// facet. edge and logArea describe the ridge the facet was grown from and
// the facet's squared content; the candidate facet edge+pivot is returned
// with its own squared content.
//
// A pivot coplanar with the facet (volume within tol of zero) counts as
// outside only when the candidate facet has strictly larger content, which
// steers degenerate wraps toward the widest facet in the hyperplane.
func CheckInside(face Facet, pivot geom.Coordinate, edge Ridge, logArea float64, tol float64) (CheckResult, error) {
	simplex := make([]geom.Coordinate, 0, len(face)+1)
	simplex = append(simplex, face...)
	simplex = append(simplex, pivot)
	sign, logVol, err := geom.SignedVolume(simplex)
	if err != nil {
		return CheckResult{}, err
	}

	cand := FormFacet(edge, pivot)
	candArea, err := geom.SquaredContent(cand)
	if err != nil {
		return CheckResult{}, err
	}

	degenerate := sign == 0 || math.Exp(logVol) <= tol
	if (degenerate && candArea > logArea) || sign < 0 {
		return CheckResult{Inside: false, Face: cand, LogArea: candArea}, nil
	}
	return CheckResult{Inside: true, Face: cand, LogArea: candArea}, nil
}

// Inside is CheckInside with the facet's own trailing ridge and content.
func Inside(face Facet, pivot geom.Coordinate, tol float64) (bool, error) {
	logArea, err := geom.SquaredContent([]geom.Coordinate(face))
	if err != nil {
		return false, err
	}
	res, err := CheckInside(face, pivot, Ridge(face[:len(face)-1]), logArea, tol)
	if err != nil {
		return false, err
	}
	return res.Inside, nil
}

// InsideHull reports whether pivot lies on the inner side of every facet.
func InsideHull(faces []Facet, pivot geom.Coordinate, tol float64) (bool, error) {
	for _, face := range faces {
		inside, err := Inside(face, pivot, tol)
		if err != nil {
			return false, err
		}
		if !inside {
			return false, nil
		}
	}
	return true, nil
}
