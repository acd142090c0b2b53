// Package geom provides the numeric kernels for hull construction:
// coordinates, signed simplex volumes and facet contents. Magnitudes are
// kept in log space because dimension and coordinate scale vary wildly
// between datasets; callers compare log magnitudes and only exponentiate
// when summing final volumes.
package geom

import (
	"encoding/binary"
	"math"
)

// Coordinate is a point in R^d. Two coordinates are equal iff they match
// componentwise on exact float64 bit patterns.
type Coordinate []float64

// Key packs the coordinate's float64 bit patterns big-endian into a string
// so coordinates can be used as map keys. Equal in-memory values always
// produce the same key.
func (c Coordinate) Key() string {
	b := make([]byte, 8*len(c))
	for i, v := range c {
		binary.BigEndian.PutUint64(b[i*8:], math.Float64bits(v))
	}
	return string(b)
}

// Equal reports componentwise equality.
func (c Coordinate) Equal(o Coordinate) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Less orders coordinates lexicographically, componentwise.
func (c Coordinate) Less(o Coordinate) bool {
	n := len(c)
	if len(o) < n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		if c[i] != o[i] {
			return c[i] < o[i]
		}
	}
	return len(c) < len(o)
}

// Clone returns an independent copy of the coordinate.
func (c Coordinate) Clone() Coordinate {
	out := make(Coordinate, len(c))
	copy(out, c)
	return out
}
