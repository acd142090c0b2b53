// Package clusterdb persists clustering runs in a sqlite database so
// result sets can be compared across datasets and tuning changes.
package clusterdb

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/purehull/internal/cluster"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the sqlite handle for clustering run storage.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the database at path and applies any pending
// migrations.
func Open(path string) (*DB, error) {
	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cluster database: %w", err)
	}
	db := &DB{handle}
	if err := db.migrateUp(); err != nil {
		handle.Close()
		return nil, err
	}
	return db, nil
}

// migrateUp applies the embedded migrations to the latest version.
func (db *DB) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{}
	// Note: we don't close m because it would close the underlying DB
	// connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// migrateLogger implements migrate.Logger interface
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}

// Run is one persisted clustering invocation.
type Run struct {
	RunID       string          `json:"run_id"`
	Dataset     string          `json:"dataset"`
	Label       string          `json:"label,omitempty"`
	NumClusters int             `json:"num_clusters"`
	SummaryJSON json.RawMessage `json:"summary_json,omitempty"`
	ParamsJSON  json.RawMessage `json:"params_json,omitempty"`
	CreatedAt   int64           `json:"created_at"`
}

// InsertRun persists a run together with its cluster records in one
// transaction. If RunID is empty, a UUID is generated.
func (db *DB) InsertRun(run *Run, records []cluster.Record) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}
	run.NumClusters = len(records)

	var paramsStr, summaryStr interface{}
	if len(run.ParamsJSON) > 0 {
		paramsStr = string(run.ParamsJSON)
	}
	if len(run.SummaryJSON) > 0 {
		summaryStr = string(run.SummaryJSON)
	}

	return retryOnBusy(func() error {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin run insert: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			INSERT INTO cluster_runs (
				run_id, dataset, label, num_clusters, summary_json, params_json, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.Dataset, run.Label, run.NumClusters, summaryStr, paramsStr, run.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for seq, rec := range records {
			verticesJSON, err := json.Marshal(rec.Vertices)
			if err != nil {
				return fmt.Errorf("marshal vertices of cluster %d: %w", seq, err)
			}
			pointsJSON, err := json.Marshal(rec.Points)
			if err != nil {
				return fmt.Errorf("marshal points of cluster %d: %w", seq, err)
			}
			_, err = tx.Exec(`
				INSERT INTO clusters (
					run_id, seq, label, size, volume, vertices_json, points_json
				) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				run.RunID, seq, rec.Label, rec.Size, rec.Volume, string(verticesJSON), string(pointsJSON),
			)
			if err != nil {
				return fmt.Errorf("insert cluster %d: %w", seq, err)
			}
		}

		return tx.Commit()
	})
}

// GetRun returns a single run by ID.
func (db *DB) GetRun(runID string) (*Run, error) {
	row := db.QueryRow(`
		SELECT run_id, dataset, label, num_clusters, summary_json, params_json, created_at
		FROM cluster_runs
		WHERE run_id = ?`, runID)

	var r Run
	var summaryStr, paramsStr sql.NullString
	err := row.Scan(&r.RunID, &r.Dataset, &r.Label, &r.NumClusters, &summaryStr, &paramsStr, &r.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if summaryStr.Valid {
		r.SummaryJSON = json.RawMessage(summaryStr.String)
	}
	if paramsStr.Valid {
		r.ParamsJSON = json.RawMessage(paramsStr.String)
	}
	return &r, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]*Run, error) {
	rows, err := db.Query(`
		SELECT run_id, dataset, label, num_clusters, summary_json, params_json, created_at
		FROM cluster_runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var summaryStr, paramsStr sql.NullString
		if err := rows.Scan(&r.RunID, &r.Dataset, &r.Label, &r.NumClusters, &summaryStr, &paramsStr, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		if summaryStr.Valid {
			r.SummaryJSON = json.RawMessage(summaryStr.String)
		}
		if paramsStr.Valid {
			r.ParamsJSON = json.RawMessage(paramsStr.String)
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// RunClusters reconstructs the cluster records of a run, in peel order.
func (db *DB) RunClusters(runID string) ([]cluster.Record, error) {
	rows, err := db.Query(`
		SELECT label, size, volume, vertices_json, points_json
		FROM clusters
		WHERE run_id = ?
		ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query clusters: %w", err)
	}
	defer rows.Close()

	var records []cluster.Record
	for rows.Next() {
		var rec cluster.Record
		var verticesJSON, pointsJSON string
		if err := rows.Scan(&rec.Label, &rec.Size, &rec.Volume, &verticesJSON, &pointsJSON); err != nil {
			return nil, fmt.Errorf("scan cluster row: %w", err)
		}
		if err := json.Unmarshal([]byte(verticesJSON), &rec.Vertices); err != nil {
			return nil, fmt.Errorf("decode vertices: %w", err)
		}
		if err := json.Unmarshal([]byte(pointsJSON), &rec.Points); err != nil {
			return nil, fmt.Errorf("decode points: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// retryOnBusy retries a write that failed with a sqlite busy error, up to
// 5 attempts with exponential backoff starting at 10ms. Non-busy errors
// return immediately.
func retryOnBusy(fn func() error) error {
	const maxAttempts = 5
	delay := 10 * time.Millisecond

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
		}
		err = fn()
		if err == nil || !isBusyErr(err) {
			return err
		}
	}
	return err
}

func isBusyErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
