package hull

import (
	"sort"

	"github.com/banshee-data/purehull/internal/geom"
)

// seedRidge picks the label of the first dataset point and returns the
// d-1 lexicographically smallest distinct coordinates of that label as the
// initial ridge. When the label has fewer than d-1 distinct coordinates
// the ridge is padded by repeating the smallest one; the resulting hull is
// degenerate but the wrap still consumes the points and terminates.
func seedRidge(dataset []LabeledPoint) (int, Ridge) {
	label := dataset[0].Label
	d := len(dataset[0].Coord)

	seen := make(map[string]bool)
	var coords []geom.Coordinate
	for _, p := range dataset {
		if p.Label != label {
			continue
		}
		key := p.Coord.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		coords = append(coords, p.Coord)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })

	edge := make(Ridge, 0, d-1)
	for i := 0; i < d-1; i++ {
		if i < len(coords) {
			edge = append(edge, coords[i])
		} else {
			edge = append(edge, coords[0])
		}
	}
	return label, edge
}
