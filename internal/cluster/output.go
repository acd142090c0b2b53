package cluster

import (
	"encoding/json"
	"fmt"
	"os"
)

// Summary holds the meta-feature indicators of a clustering run. The last
// two are acknowledged placeholders: they currently report the first
// cluster's size and volume until the real statistics are designed.
type Summary struct {
	NumberOfClusters           int     `json:"Number of Clusters"`
	SizeVersusNumberOfClusters int     `json:"Size versus Number of Clusters"`
	VolumeVersusSize           float64 `json:"Volume versus Size"`
}

// Summarize derives the summary from a clustering result. Empty input
// produces an all-zero summary.
func Summarize(records []Record) Summary {
	s := Summary{NumberOfClusters: len(records)}
	if len(records) > 0 {
		s.SizeVersusNumberOfClusters = records[0].Size
		s.VolumeVersusSize = records[0].Volume
	}
	return s
}

// WriteClusters serializes the cluster records to path as a JSON array.
// An empty result writes [] rather than null.
func WriteClusters(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal clusters: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write clusters: %w", err)
	}
	return nil
}

// WriteSummary serializes the summary record to path as a JSON object.
func WriteSummary(path string, s Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
