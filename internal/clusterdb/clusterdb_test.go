package clusterdb

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/purehull/internal/cluster"
	"github.com/banshee-data/purehull/internal/geom"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecords() []cluster.Record {
	return []cluster.Record{
		{
			Vertices: []geom.Coordinate{{0, 0}, {1, 0}, {0, 1}},
			Points:   []geom.Coordinate{},
			Size:     3,
			Volume:   0.5,
			Label:    0,
		},
		{
			Vertices: []geom.Coordinate{{5, 5}},
			Points:   []geom.Coordinate{},
			Size:     1,
			Volume:   0,
			Label:    1,
		},
	}
}

func TestInsertAndGetRun(t *testing.T) {
	db := openTestDB(t)

	summary, err := json.Marshal(cluster.Summarize(sampleRecords()))
	require.NoError(t, err)

	run := &Run{Dataset: "test.csv", Label: "baseline", SummaryJSON: summary}
	require.NoError(t, db.InsertRun(run, sampleRecords()))
	assert.NotEmpty(t, run.RunID)
	assert.NotZero(t, run.CreatedAt)
	assert.Equal(t, 2, run.NumClusters)

	got, err := db.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, "test.csv", got.Dataset)
	assert.Equal(t, "baseline", got.Label)
	assert.Equal(t, 2, got.NumClusters)
	assert.JSONEq(t, string(summary), string(got.SummaryJSON))
}

func TestRunClustersRoundTrip(t *testing.T) {
	db := openTestDB(t)

	run := &Run{Dataset: "test.csv"}
	want := sampleRecords()
	require.NoError(t, db.InsertRun(run, want))

	got, err := db.RunClusters(run.RunID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// JSON round-trips nil and empty slices identically, so records come
	// back with empty Points.
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cluster records mismatch (-want +got):\n%s", diff)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)

	first := &Run{Dataset: "a.csv", CreatedAt: 100}
	second := &Run{Dataset: "b.csv", CreatedAt: 200}
	require.NoError(t, db.InsertRun(first, nil))
	require.NoError(t, db.InsertRun(second, nil))

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b.csv", runs[0].Dataset)
	assert.Equal(t, "a.csv", runs[1].Dataset)
}

func TestGetRunMissing(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetRun("nope")
	assert.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an already-migrated database must not fail.
	db, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}

func TestRetryOnBusy(t *testing.T) {
	t.Run("retries busy errors", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked (5) (SQLITE_BUSY)")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		wantErr := errors.New("constraint violation")
		err := retryOnBusy(func() error {
			calls++
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			return errors.New("SQLITE_BUSY")
		})
		assert.Error(t, err)
		assert.Equal(t, 5, calls)
	})
}
