package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/purehull/internal/cluster"
	"github.com/banshee-data/purehull/internal/clusterdb"
)

// resetFlags clears the optional flag values between tests.
func resetFlags(t *testing.T) {
	t.Helper()
	*configPath = ""
	*dbPath = ""
	*runLabel = ""
	*plotHTML = ""
	*plotPNG = ""
}

func writeDataset(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const twoTriangleCSV = "0,0,0\n1,0,0\n0,1,0\n10,10,1\n11,10,1\n10,11,1\n"

func TestRunEndToEnd(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	dataset := writeDataset(t, dir, twoTriangleCSV)
	clustersPath := filepath.Join(dir, "clusters.json")
	summaryPath := filepath.Join(dir, "summary.json")

	require.NoError(t, run([]string{dataset, clustersPath, summaryPath}))

	var records []cluster.Record
	data, err := os.ReadFile(clustersPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, 3, records[0].Size)
	assert.InDelta(t, 0.5, records[0].Volume, 1e-9)

	var summary map[string]interface{}
	data, err = os.ReadFile(summaryPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.EqualValues(t, 2, summary["Number of Clusters"])
	assert.EqualValues(t, 3, summary["Size versus Number of Clusters"])
	assert.InDelta(t, 0.5, summary["Volume versus Size"].(float64), 1e-9)
}

func TestRunWithLogFile(t *testing.T) {
	resetFlags(t)
	defer log.SetOutput(os.Stderr)

	dir := t.TempDir()
	dataset := writeDataset(t, dir, "0,0,0\n1,0,0\n0,1,0\n")
	logPath := filepath.Join(dir, "run.log")

	require.NoError(t, run([]string{
		dataset,
		filepath.Join(dir, "clusters.json"),
		filepath.Join(dir, "summary.json"),
		logPath,
	}))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[Engine]")
}

func TestRunRecordsToDatabase(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	dataset := writeDataset(t, dir, twoTriangleCSV)
	*dbPath = filepath.Join(dir, "runs.db")
	*runLabel = "e2e"

	require.NoError(t, run([]string{
		dataset,
		filepath.Join(dir, "clusters.json"),
		filepath.Join(dir, "summary.json"),
	}))

	db, err := clusterdb.Open(*dbPath)
	require.NoError(t, err)
	defer db.Close()

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "e2e", runs[0].Label)
	assert.Equal(t, 2, runs[0].NumClusters)

	records, err := db.RunClusters(runs[0].RunID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRunWritesPlots(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	dataset := writeDataset(t, dir, twoTriangleCSV)
	*plotHTML = filepath.Join(dir, "clusters.html")
	*plotPNG = filepath.Join(dir, "clusters.png")

	require.NoError(t, run([]string{
		dataset,
		filepath.Join(dir, "clusters.json"),
		filepath.Join(dir, "summary.json"),
	}))

	for _, p := range []string{*plotHTML, *plotPNG} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Greater(t, info.Size(), int64(0), p)
	}
}

func TestRunSkipsPlotsFor3D(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	dataset := writeDataset(t, dir, "0,0,0,0\n1,0,0,0\n0,1,0,0\n0,0,1,0\n")
	*plotHTML = filepath.Join(dir, "clusters.html")

	// 3D data cannot be plotted, but the run itself must still succeed.
	require.NoError(t, run([]string{
		dataset,
		filepath.Join(dir, "clusters.json"),
		filepath.Join(dir, "summary.json"),
	}))
	_, err := os.Stat(*plotHTML)
	assert.Error(t, err)
}

func TestRunArgumentValidation(t *testing.T) {
	resetFlags(t)
	assert.Error(t, run(nil))
	assert.Error(t, run([]string{"a", "b"}))
	assert.Error(t, run([]string{"a", "b", "c", "d", "e"}))
}

func TestRunMissingDataset(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	err := run([]string{
		filepath.Join(dir, "missing.csv"),
		filepath.Join(dir, "clusters.json"),
		filepath.Join(dir, "summary.json"),
	})
	assert.Error(t, err)
}
