// Command purehull clusters a labeled point set into label-pure convex
// hulls. It reads a CSV dataset, peels clusters, and writes the cluster
// records and a summary as JSON. Optionally it records the run in a
// sqlite database and renders 2D scatter plots.
//
// Usage:
//
//	purehull [flags] dataset clusters_out summary_out [log_file]
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/purehull/internal/cluster"
	"github.com/banshee-data/purehull/internal/clusterdb"
	"github.com/banshee-data/purehull/internal/config"
	"github.com/banshee-data/purehull/internal/monitor"
)

var (
	configPath = flag.String("config", "", "Path to a JSON tuning config")
	dbPath     = flag.String("db", "", "Record the run in this sqlite database")
	runLabel   = flag.String("run-label", "", "Free-form label stored with the run")
	plotHTML   = flag.String("plot-html", "", "Write an HTML scatter report here (2D data only)")
	plotPNG    = flag.String("plot-png", "", "Write a PNG scatter plot here (2D data only)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] dataset clusters_out summary_out [log_file]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		log.Fatalf("purehull: %v", err)
	}
}

func run(args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return fmt.Errorf("need dataset, clusters output and summary output paths (plus an optional log file), got %d arguments", len(args))
	}
	datasetPath, clustersPath, summaryPath := args[0], args[1], args[2]

	if len(args) == 4 {
		logFile, err := os.Create(args[3])
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			return err
		}
	}

	log.Printf("[Engine] loading dataset %s", datasetPath)
	dataset, err := cluster.LoadDataset(datasetPath)
	if err != nil {
		return err
	}
	log.Printf("[Engine] loaded %d points", len(dataset))

	engine := cluster.NewEngine(cluster.Options{
		ZeroTolerance: cfg.GetZeroTolerance(),
		SortClusters:  cfg.GetSortClusters(),
	})
	records, err := engine.Cluster(dataset)
	if err != nil {
		return err
	}
	summary := cluster.Summarize(records)
	log.Printf("[Engine] clustered into %d clusters", summary.NumberOfClusters)

	if err := cluster.WriteClusters(clustersPath, records); err != nil {
		return err
	}
	if err := cluster.WriteSummary(summaryPath, summary); err != nil {
		return err
	}

	if *dbPath != "" {
		if err := recordRun(cfg, datasetPath, summary, records); err != nil {
			return err
		}
	}

	if *plotHTML != "" {
		if err := monitor.SaveHTML(*plotHTML, "purehull "+datasetPath, records, cfg.GetPlotMaxPoints()); err != nil {
			if !skipPlotError(err) {
				return err
			}
		}
	}
	if *plotPNG != "" {
		if err := monitor.SavePNG(*plotPNG, "purehull "+datasetPath, records, cfg.GetPlotMaxPoints()); err != nil {
			if !skipPlotError(err) {
				return err
			}
		}
	}

	log.Printf("[Engine] completed")
	return nil
}

// recordRun stores the run and its clusters in the sqlite run store.
func recordRun(cfg *config.TuningConfig, datasetPath string, summary cluster.Summary, records []cluster.Record) error {
	db, err := clusterdb.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	paramsJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	run := &clusterdb.Run{
		Dataset:     datasetPath,
		Label:       *runLabel,
		SummaryJSON: summaryJSON,
		ParamsJSON:  paramsJSON,
	}
	if err := db.InsertRun(run, records); err != nil {
		return err
	}
	log.Printf("[Store] recorded run %s (%d clusters)", run.RunID, run.NumClusters)
	return nil
}

// skipPlotError reports whether a plotting failure should be logged and
// swallowed rather than failing the run.
func skipPlotError(err error) bool {
	if errors.Is(err, monitor.ErrNot2D) {
		log.Printf("[Monitor] skipping plot: %v", err)
		return true
	}
	return false
}
