package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()
	assert.Equal(t, 1e-8, cfg.GetZeroTolerance())
	assert.False(t, cfg.GetSortClusters())
	assert.Equal(t, 10000, cfg.GetPlotMaxPoints())
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, `{"zero_tolerance": 1e-6}`)
	cfg, err := LoadTuningConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1e-6, cfg.GetZeroTolerance())
	// Unset fields keep their defaults.
	assert.False(t, cfg.GetSortClusters())
	assert.Equal(t, 10000, cfg.GetPlotMaxPoints())
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `{"zero_tolerance": 0.001, "sort_clusters": true, "plot_max_points": 50}`)
	cfg, err := LoadTuningConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.001, cfg.GetZeroTolerance())
	assert.True(t, cfg.GetSortClusters())
	assert.Equal(t, 50, cfg.GetPlotMaxPoints())
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := LoadTuningConfig(writeConfig(t, `{"zero_tolerance": -1}`))
	assert.Error(t, err)

	_, err = LoadTuningConfig(writeConfig(t, `{"plot_max_points": 0}`))
	assert.Error(t, err)

	_, err = LoadTuningConfig(writeConfig(t, `not json`))
	assert.Error(t, err)
}

func TestLoadRequiresJSONExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	_, err := LoadTuningConfig(path)
	assert.Error(t, err)
}
