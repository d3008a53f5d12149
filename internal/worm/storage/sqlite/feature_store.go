package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/wormlab-data/posture.report/internal/worm"
)

// AnalysisRun represents one pipeline execution over a video's frame
// sequence, persisted with the parameters that produced it.
type AnalysisRun struct {
	RunID      string          `json:"run_id"`
	SourceName string          `json:"source_name"`
	FPS        float64         `json:"fps"`
	FrameCount int             `json:"frame_count"`
	ParamsJSON json.RawMessage `json:"params_json,omitempty"`
	CreatedAt  int64           `json:"created_at"`
}

// FeatureStore provides persistence for analysis runs, per-frame
// feature records and coiling events.
type FeatureStore struct {
	db *sql.DB
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(db *DB) *FeatureStore {
	return &FeatureStore{db: db.DB}
}

// SaveResult persists a whole pipeline result under one run. If the
// run's RunID is empty a UUID is generated. The run row, features and
// coiling events are written in a single transaction.
func (s *FeatureStore) SaveResult(run *AnalysisRun, res *worm.Result) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}
	run.FrameCount = len(res.Features)
	if len(run.ParamsJSON) == 0 {
		data, err := json.Marshal(res.Params)
		if err != nil {
			return fmt.Errorf("marshal run params: %w", err)
		}
		run.ParamsJSON = data
	}

	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin run transaction: %w", err)
		}
		defer tx.Rollback()

		if err := insertRun(tx, run); err != nil {
			return err
		}
		if err := insertFeatures(tx, run.RunID, res.Features); err != nil {
			return err
		}
		if err := insertCoilingEvents(tx, run.RunID, res.Coiling); err != nil {
			return err
		}
		return tx.Commit()
	})
}

func insertRun(tx *sql.Tx, run *AnalysisRun) error {
	var paramsStr interface{}
	if len(run.ParamsJSON) > 0 {
		paramsStr = string(run.ParamsJSON)
	}
	_, err := tx.Exec(`
		INSERT INTO posture_runs (run_id, source_name, fps, frame_count, params_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SourceName, run.FPS, run.FrameCount, paramsStr, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func insertFeatures(tx *sql.Tx, runID string, features []worm.FrameFeatures) error {
	stmt, err := tx.Prepare(`
		INSERT INTO posture_features (
			run_id, frame_index, code, segmented,
			length, centroid_x, centroid_y,
			eccentricity, ellipse_orientation_deg,
			bend_head_mean, bend_head_stddev,
			bend_neck_mean, bend_neck_stddev,
			bend_midbody_mean, bend_midbody_stddev,
			bend_hips_mean, bend_hips_stddev,
			bend_tail_mean, bend_tail_stddev,
			bend_count, amplitude_max, amplitude_ratio,
			wavelength_primary, wavelength_secondary, track_length,
			orientation_deg, head_orientation_deg, tail_orientation_deg,
			eigen_proj_0, eigen_proj_1, eigen_proj_2,
			eigen_proj_3, eigen_proj_4, eigen_proj_5
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare feature insert: %w", err)
	}
	defer stmt.Close()

	for _, ff := range features {
		_, err := stmt.Exec(
			runID, ff.FrameIndex, int(ff.Code), ff.Segmented,
			nullFloat(ff.Length), nullFloat(ff.CentroidX), nullFloat(ff.CentroidY),
			nullFloat(ff.Eccentricity), nullFloat(ff.EllipseOrientDeg),
			nullFloat(ff.Bends[0].Mean), nullFloat(ff.Bends[0].StdDev),
			nullFloat(ff.Bends[1].Mean), nullFloat(ff.Bends[1].StdDev),
			nullFloat(ff.Bends[2].Mean), nullFloat(ff.Bends[2].StdDev),
			nullFloat(ff.Bends[3].Mean), nullFloat(ff.Bends[3].StdDev),
			nullFloat(ff.Bends[4].Mean), nullFloat(ff.Bends[4].StdDev),
			nullFloat(ff.BendCount), nullFloat(ff.AmplitudeMax), nullFloat(ff.AmplitudeRatio),
			nullFloat(ff.WavelengthPrimary), nullFloat(ff.WavelengthSecondary), nullFloat(ff.TrackLength),
			nullFloat(ff.OrientationDeg), nullFloat(ff.HeadOrientationDeg), nullFloat(ff.TailOrientationDeg),
			nullFloat(ff.EigenProjections[0]), nullFloat(ff.EigenProjections[1]), nullFloat(ff.EigenProjections[2]),
			nullFloat(ff.EigenProjections[3]), nullFloat(ff.EigenProjections[4]), nullFloat(ff.EigenProjections[5]),
		)
		if err != nil {
			return fmt.Errorf("insert features for frame %d: %w", ff.FrameIndex, err)
		}
	}
	return nil
}

func insertCoilingEvents(tx *sql.Tx, runID string, events []worm.CoilingEvent) error {
	for _, ev := range events {
		_, err := tx.Exec(`
			INSERT INTO posture_coiling_events (event_id, run_id, start_frame, end_frame, duration_seconds)
			VALUES (?, ?, ?, ?, ?)`,
			uuid.New().String(), runID, ev.StartFrame, ev.EndFrame, ev.DurationSeconds,
		)
		if err != nil {
			return fmt.Errorf("insert coiling event at frame %d: %w", ev.StartFrame, err)
		}
	}
	return nil
}

// GetRun returns a single analysis run by ID.
func (s *FeatureStore) GetRun(runID string) (*AnalysisRun, error) {
	row := s.db.QueryRow(`
		SELECT run_id, source_name, fps, frame_count, params_json, created_at
		FROM posture_runs
		WHERE run_id = ?`, runID)

	var run AnalysisRun
	var paramsStr sql.NullString
	err := row.Scan(&run.RunID, &run.SourceName, &run.FPS, &run.FrameCount, &paramsStr, &run.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if paramsStr.Valid {
		run.ParamsJSON = json.RawMessage(paramsStr.String)
	}
	return &run, nil
}

// ListRuns returns all runs ordered by creation time descending.
func (s *FeatureStore) ListRuns() ([]*AnalysisRun, error) {
	rows, err := s.db.Query(`
		SELECT run_id, source_name, fps, frame_count, params_json, created_at
		FROM posture_runs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*AnalysisRun
	for rows.Next() {
		var run AnalysisRun
		var paramsStr sql.NullString
		if err := rows.Scan(&run.RunID, &run.SourceName, &run.FPS, &run.FrameCount, &paramsStr, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		if paramsStr.Valid {
			run.ParamsJSON = json.RawMessage(paramsStr.String)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// FeaturesByRun returns the per-frame feature records of a run in frame
// order. NULL columns come back as NaN.
func (s *FeatureStore) FeaturesByRun(runID string) ([]worm.FrameFeatures, error) {
	rows, err := s.db.Query(`
		SELECT frame_index, code, segmented,
		       length, centroid_x, centroid_y,
		       eccentricity, ellipse_orientation_deg,
		       bend_head_mean, bend_head_stddev,
		       bend_neck_mean, bend_neck_stddev,
		       bend_midbody_mean, bend_midbody_stddev,
		       bend_hips_mean, bend_hips_stddev,
		       bend_tail_mean, bend_tail_stddev,
		       bend_count, amplitude_max, amplitude_ratio,
		       wavelength_primary, wavelength_secondary, track_length,
		       orientation_deg, head_orientation_deg, tail_orientation_deg,
		       eigen_proj_0, eigen_proj_1, eigen_proj_2,
		       eigen_proj_3, eigen_proj_4, eigen_proj_5
		FROM posture_features
		WHERE run_id = ?
		ORDER BY frame_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	var features []worm.FrameFeatures
	for rows.Next() {
		ff, err := scanFeatures(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, ff)
	}
	return features, rows.Err()
}

func scanFeatures(rows *sql.Rows) (worm.FrameFeatures, error) {
	var ff worm.FrameFeatures
	var code int
	// 31 nullable float columns in insert order.
	n := make([]sql.NullFloat64, 31)
	err := rows.Scan(
		&ff.FrameIndex, &code, &ff.Segmented,
		&n[0], &n[1], &n[2],
		&n[3], &n[4],
		&n[5], &n[6],
		&n[7], &n[8],
		&n[9], &n[10],
		&n[11], &n[12],
		&n[13], &n[14],
		&n[15], &n[16], &n[17],
		&n[18], &n[19], &n[20],
		&n[21], &n[22], &n[23],
		&n[24], &n[25], &n[26],
		&n[27], &n[28], &n[29],
	)
	if err != nil {
		return ff, fmt.Errorf("scan feature row: %w", err)
	}
	ff.Code = worm.FrameCode(code)
	ff.Length = floatOrNaN(n[0])
	ff.CentroidX = floatOrNaN(n[1])
	ff.CentroidY = floatOrNaN(n[2])
	ff.Eccentricity = floatOrNaN(n[3])
	ff.EllipseOrientDeg = floatOrNaN(n[4])
	for i := 0; i < 5; i++ {
		ff.Bends[i].Mean = floatOrNaN(n[5+2*i])
		ff.Bends[i].StdDev = floatOrNaN(n[6+2*i])
	}
	ff.BendCount = floatOrNaN(n[15])
	ff.AmplitudeMax = floatOrNaN(n[16])
	ff.AmplitudeRatio = floatOrNaN(n[17])
	ff.WavelengthPrimary = floatOrNaN(n[18])
	ff.WavelengthSecondary = floatOrNaN(n[19])
	ff.TrackLength = floatOrNaN(n[20])
	ff.OrientationDeg = floatOrNaN(n[21])
	ff.HeadOrientationDeg = floatOrNaN(n[22])
	ff.TailOrientationDeg = floatOrNaN(n[23])
	for i := 0; i < worm.EigenwormCount; i++ {
		ff.EigenProjections[i] = floatOrNaN(n[24+i])
	}
	return ff, nil
}

// CoilingEventsByRun returns a run's coiling events in temporal order.
func (s *FeatureStore) CoilingEventsByRun(runID string) ([]worm.CoilingEvent, error) {
	rows, err := s.db.Query(`
		SELECT start_frame, end_frame, duration_seconds
		FROM posture_coiling_events
		WHERE run_id = ?
		ORDER BY start_frame`, runID)
	if err != nil {
		return nil, fmt.Errorf("query coiling events: %w", err)
	}
	defer rows.Close()

	var events []worm.CoilingEvent
	for rows.Next() {
		var ev worm.CoilingEvent
		if err := rows.Scan(&ev.StartFrame, &ev.EndFrame, &ev.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scan coiling event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeleteRun removes a run and its features and events.
func (s *FeatureStore) DeleteRun(runID string) error {
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin delete transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM posture_coiling_events WHERE run_id = ?`, runID); err != nil {
			return fmt.Errorf("delete coiling events: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM posture_features WHERE run_id = ?`, runID); err != nil {
			return fmt.Errorf("delete features: %w", err)
		}
		result, err := tx.Exec(`DELETE FROM posture_runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("run %s not found", runID)
		}
		return tx.Commit()
	})
}

// nullFloat maps NaN to NULL for storage.
func nullFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// floatOrNaN maps NULL back to NaN on retrieval.
func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
