package cluster

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/purehull/internal/geom"
)

// LoadDataset reads a line-delimited dataset: each record is d real
// coordinate fields followed by an integer label, comma separated. Blank
// lines are dropped so a trailing newline is harmless. All records must
// share the same dimension, and d must be at least 2.
func LoadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return ParseDataset(string(data))
}

// ParseDataset parses dataset text. See LoadDataset for the format.
func ParseDataset(text string) (Dataset, error) {
	var dataset Dataset
	dim := 0
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: need at least 2 coordinates and a label, got %d fields", i+1, len(fields))
		}
		if dim == 0 {
			dim = len(fields) - 1
		} else if len(fields)-1 != dim {
			return nil, fmt.Errorf("line %d: dimension %d does not match first record's %d", i+1, len(fields)-1, dim)
		}

		coord := make(geom.Coordinate, dim)
		for j, f := range fields[:dim] {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: coordinate %d: %w", i+1, j+1, err)
			}
			coord[j] = v
		}
		label, err := strconv.Atoi(strings.TrimSpace(fields[dim]))
		if err != nil {
			return nil, fmt.Errorf("line %d: label: %w", i+1, err)
		}
		dataset = append(dataset, LabeledPoint{Coord: coord, Label: label})
	}
	return dataset, nil
}
