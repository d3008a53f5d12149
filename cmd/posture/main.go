// Command posture runs the worm posture feature pipeline over a video's
// segmented frames: it reads frames JSON, extracts per-frame posture
// features and coiling events, and optionally persists the run to
// SQLite, renders an HTML report and writes PNG diagnostic plots.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/wormlab-data/posture.report/internal/config"
	"github.com/wormlab-data/posture.report/internal/report"
	"github.com/wormlab-data/posture.report/internal/worm"
	"github.com/wormlab-data/posture.report/internal/worm/monitor"
	sqlite "github.com/wormlab-data/posture.report/internal/worm/storage/sqlite"
)

var (
	framesFile = flag.String("frames", "", "Path to the input frames JSON file (required)")
	basisFile  = flag.String("basis", "", "Path to the eigenworm basis JSON file (optional)")
	fps        = flag.Float64("fps", 0, "Video frame rate in frames per second (required)")
	ventral    = flag.String("ventral", "", "Ventral side label: left, right or empty for unknown")
	dbFile     = flag.String("db", "", "Path to the SQLite feature database (optional)")
	reportFile = flag.String("report", "", "Path for the HTML feature report (optional)")
	plotDir    = flag.String("plot-dir", "", "Base directory for PNG diagnostic plots (optional)")
	configFile = flag.String("config", "", "Path to a tuning config JSON file (optional)")
	workers    = flag.Int("workers", 0, "Worker count for per-frame extraction (0 = one per CPU)")
)

func main() {
	flag.Parse()

	if *framesFile == "" {
		log.Fatal("missing required -frames flag")
	}
	if *fps <= 0 {
		log.Fatal("missing or invalid -fps flag (must be positive)")
	}

	params, err := loadParams()
	if err != nil {
		log.Fatalf("load params: %v", err)
	}
	params.FPS = *fps
	if *workers > 0 {
		params.Workers = *workers
	}

	var basis *worm.EigenwormBasis
	if *basisFile != "" {
		basis, err = worm.LoadEigenwormBasis(*basisFile)
		if err != nil {
			log.Fatalf("load eigenworm basis: %v", err)
		}
	} else {
		log.Print("no eigenworm basis configured; eigen projections will be undefined")
	}

	frames, err := loadFrames(*framesFile)
	if err != nil {
		log.Fatalf("load frames: %v", err)
	}
	applyVentral(frames, *ventral)
	log.Printf("loaded %d frames from %s", len(frames), *framesFile)

	pipeline := worm.NewPipeline(params, basis)
	result, err := pipeline.Run(frames)
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}
	logSummary(result)

	sourceName := filepath.Base(*framesFile)

	if *dbFile != "" {
		db, err := sqlite.Open(*dbFile)
		if err != nil {
			log.Fatalf("open feature database: %v", err)
		}
		defer db.Close()

		run := &sqlite.AnalysisRun{SourceName: sourceName, FPS: *fps}
		if err := sqlite.NewFeatureStore(db).SaveResult(run, result); err != nil {
			log.Fatalf("persist run: %v", err)
		}
		log.Printf("saved run %s to %s", run.RunID, *dbFile)
	}

	if *reportFile != "" {
		info := report.RunInfo{SourceName: sourceName, FPS: *fps}
		if err := report.WriteFile(*reportFile, info, result.Features, result.Coiling); err != nil {
			log.Fatalf("write report: %v", err)
		}
		log.Printf("wrote report to %s", *reportFile)
	}

	if *plotDir != "" {
		outDir := monitor.MakePlotOutputDir(*plotDir, *framesFile)
		plotter, err := monitor.NewPosturePlotter(outDir)
		if err != nil {
			log.Fatalf("create plotter: %v", err)
		}
		count, err := plotter.PlotFeatureSeries(result.Features)
		if err != nil {
			log.Fatalf("write plots: %v", err)
		}
		log.Printf("wrote %d plots to %s", count, outDir)
	}
}

// loadParams builds pipeline parameters from the tuning config file, or
// from defaults when none is given.
func loadParams() (worm.Params, error) {
	if *configFile == "" {
		return worm.DefaultParams(), nil
	}
	cfg, err := config.LoadTuningConfig(*configFile)
	if err != nil {
		return worm.Params{}, err
	}
	log.Printf("loaded tuning config from %s", *configFile)
	return worm.ParamsFromTuning(cfg), nil
}

// loadFrames reads the frame sequence from a JSON array of frames.
func loadFrames(path string) ([]worm.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read frames file: %w", err)
	}
	var frames []worm.Frame
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("parse frames JSON: %w", err)
	}
	return frames, nil
}

// applyVentral overrides the ventral label on every frame when the flag
// names a side. Frames keep their own labels otherwise.
func applyVentral(frames []worm.Frame, side string) {
	var v worm.VentralSide
	switch side {
	case "":
		return
	case "left":
		v = worm.VentralLeft
	case "right":
		v = worm.VentralRight
	default:
		log.Fatalf("invalid -ventral value %q (want left or right)", side)
	}
	for i := range frames {
		frames[i].Ventral = v
	}
}

// logSummary prints run-level statistics.
func logSummary(result *worm.Result) {
	segmented := 0
	definedBendCounts := 0
	var bendCountSum float64
	for _, ff := range result.Features {
		if ff.Segmented {
			segmented++
		}
		if !math.IsNaN(ff.BendCount) {
			definedBendCounts++
			bendCountSum += ff.BendCount
		}
	}
	log.Printf("analysed %d frames: %d segmented, %d coiling events",
		len(result.Features), segmented, len(result.Coiling))
	if definedBendCounts > 0 {
		log.Printf("mean bend count %.2f over %d frames",
			bendCountSum/float64(definedBendCounts), definedBendCounts)
	}
	for _, ev := range result.Coiling {
		log.Printf("coiling event: frames %d-%d (%.2fs)",
			ev.StartFrame, ev.EndFrame, ev.DurationSeconds)
	}
}
