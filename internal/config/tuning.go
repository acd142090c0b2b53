// Package config holds the JSON tuning knobs of the clustering engine.
// Fields are pointers so a partial config file only overrides what it
// names; the Get* accessors supply the defaults for the rest.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig is the root configuration for engine and reporting
// parameters. The same JSON shape is accepted for the -config flag and
// for stored run parameters.
type TuningConfig struct {
	// Engine params
	ZeroTolerance *float64 `json:"zero_tolerance,omitempty"`
	SortClusters  *bool    `json:"sort_clusters,omitempty"`

	// Reporting params
	PlotMaxPoints *int `json:"plot_max_points,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.ZeroTolerance != nil && *c.ZeroTolerance <= 0 {
		return fmt.Errorf("zero_tolerance must be positive, got %g", *c.ZeroTolerance)
	}
	if c.PlotMaxPoints != nil && *c.PlotMaxPoints <= 0 {
		return fmt.Errorf("plot_max_points must be positive, got %d", *c.PlotMaxPoints)
	}
	return nil
}

// GetZeroTolerance returns the zero_tolerance value or the default.
func (c *TuningConfig) GetZeroTolerance() float64 {
	if c.ZeroTolerance == nil {
		return 1e-8 // default
	}
	return *c.ZeroTolerance
}

// GetSortClusters returns the sort_clusters value or the default.
func (c *TuningConfig) GetSortClusters() bool {
	if c.SortClusters == nil {
		return false // default: keep peel order
	}
	return *c.SortClusters
}

// GetPlotMaxPoints returns the plot_max_points value or the default.
func (c *TuningConfig) GetPlotMaxPoints() int {
	if c.PlotMaxPoints == nil {
		return 10000
	}
	return *c.PlotMaxPoints
}
