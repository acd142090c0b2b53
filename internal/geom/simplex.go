package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDimension is returned when a geometry kernel is called with the wrong
// number of vertices for the ambient dimension, or with points below R^2.
var ErrDimension = errors.New("invalid simplex dimension")

// SignedVolume computes the oriented d-content of the simplex spanned by
// d+1 vertices in R^d. It returns the sign of the determinant of the
// difference matrix (rows v_i - v_0) together with the natural log of its
// absolute value, so sign * exp(logVolume) recovers the determinant. A
// degenerate simplex yields sign 0 and logVolume -Inf.
func SignedVolume(simplex []Coordinate) (sign, logVolume float64, err error) {
	if len(simplex) == 0 {
		return 0, 0, fmt.Errorf("signed volume of empty simplex: %w", ErrDimension)
	}
	d := len(simplex[0])
	if d < 2 {
		return 0, 0, fmt.Errorf("signed volume needs ambient dimension >= 2, got %d: %w", d, ErrDimension)
	}
	if len(simplex) != d+1 {
		return 0, 0, fmt.Errorf("signed volume needs %d vertices in R^%d, got %d: %w", d+1, d, len(simplex), ErrDimension)
	}
	m, err := differenceMatrix(simplex, d)
	if err != nil {
		return 0, 0, err
	}
	logVolume, sign = mat.LogDet(m)
	if math.IsInf(logVolume, -1) || math.IsNaN(logVolume) {
		return 0, math.Inf(-1), nil
	}
	return sign, logVolume, nil
}

// SquaredContent computes the log of the squared (d-1)-content of a facet
// simplex given by d vertices in R^d, via the Gram determinant of the
// difference matrix M: log det(M M^T). A rank-deficient facet yields -Inf.
func SquaredContent(face []Coordinate) (float64, error) {
	if len(face) == 0 {
		return 0, fmt.Errorf("squared content of empty facet: %w", ErrDimension)
	}
	d := len(face[0])
	if d < 2 {
		return 0, fmt.Errorf("squared content needs ambient dimension >= 2, got %d: %w", d, ErrDimension)
	}
	if len(face) != d {
		return 0, fmt.Errorf("squared content needs %d vertices in R^%d, got %d: %w", d, d, len(face), ErrDimension)
	}
	m, err := differenceMatrix(face, d)
	if err != nil {
		return 0, err
	}
	var gram mat.Dense
	gram.Mul(m, m.T())
	logDet, _ := mat.LogDet(&gram)
	if math.IsNaN(logDet) {
		return math.Inf(-1), nil
	}
	return logDet, nil
}

// differenceMatrix builds the (n-1) x d matrix whose rows are v_i - v_0.
func differenceMatrix(vertices []Coordinate, d int) (*mat.Dense, error) {
	ref := vertices[0]
	if len(ref) != d {
		return nil, fmt.Errorf("vertex has %d components, want %d: %w", len(ref), d, ErrDimension)
	}
	m := mat.NewDense(len(vertices)-1, d, nil)
	for i, v := range vertices[1:] {
		if len(v) != d {
			return nil, fmt.Errorf("vertex %d has %d components, want %d: %w", i+1, len(v), d, ErrDimension)
		}
		for j := 0; j < d; j++ {
			m.Set(i, j, v[j]-ref[j])
		}
	}
	return m, nil
}
