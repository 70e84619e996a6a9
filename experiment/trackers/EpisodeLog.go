package trackers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	"github.com/samuelfneumann/snakelearn/timestep"
)

// EpisodeRow is a single row of the episode log
type EpisodeRow struct {
	RunID   string  `parquet:"run_id,dict"`
	Episode int32   `parquet:"episode"`
	Score   int32   `parquet:"score"`
	Steps   int32   `parquet:"steps"`
	Return  float64 `parquet:"return"`
	Epsilon float64 `parquet:"epsilon"`
	Outcome string  `parquet:"outcome,dict"`
	End     string  `parquet:"end,dict"`
}

// EpisodeLog records one row per finished episode and saves them as a
// Parquet file
type EpisodeLog struct {
	rows     []EpisodeRow
	filename string
}

// NewEpisodeLog returns a new EpisodeLog which saves to filename
func NewEpisodeLog(filename string) *EpisodeLog {
	return &EpisodeLog{filename: filename}
}

// Track is a no-op, rows are recorded from episode summaries
func (e *EpisodeLog) Track(timestep.TimeStep) {}

// TrackEpisode records the summary of a finished episode
func (e *EpisodeLog) TrackEpisode(s tracker.Summary) {
	e.rows = append(e.rows, EpisodeRow{
		RunID:   s.Run.String(),
		Episode: int32(s.Episode),
		Score:   int32(s.Score),
		Steps:   int32(s.Steps),
		Return:  s.Return,
		Epsilon: s.Epsilon,
		Outcome: s.Outcome.String(),
		End:     s.End.String(),
	})
}

// Rows returns the recorded rows
func (e *EpisodeLog) Rows() []EpisodeRow {
	return append([]EpisodeRow(nil), e.rows...)
}

// Save atomically writes the recorded rows to disk
func (e *EpisodeLog) Save() error {
	if err := os.MkdirAll(filepath.Dir(e.filename), 0o755); err != nil {
		return fmt.Errorf("save: create output dir: %w", err)
	}

	tmpPath := e.filename + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, e.rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "episode_log_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("save: write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, e.filename); err != nil {
		return fmt.Errorf("save: rename parquet: %w", err)
	}
	return nil
}
