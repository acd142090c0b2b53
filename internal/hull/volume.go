package hull

import (
	"math"

	"github.com/banshee-data/purehull/internal/geom"
)

// Volume sums the simplex fan from the first vertex of the first facet
// across all facets. For a closed hull the fan tiles the interior, so the
// sum of |det|/d! terms is the enclosed volume; facets containing the
// origin span degenerate simplices and contribute zero.
func (h *Hull) Volume() (float64, error) {
	if len(h.Faces) == 0 {
		return 0, nil
	}
	origin := h.Faces[0][0]
	d := len(origin)

	sum := 0.0
	for _, face := range h.Faces {
		simplex := make([]geom.Coordinate, 0, len(face)+1)
		simplex = append(simplex, face...)
		simplex = append(simplex, origin)
		_, logVol, err := geom.SignedVolume(simplex)
		if err != nil {
			return 0, err
		}
		if math.IsInf(logVol, -1) {
			continue
		}
		sum += math.Exp(logVol)
	}
	return sum / factorial(d), nil
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
