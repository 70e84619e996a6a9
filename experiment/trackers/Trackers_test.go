package trackers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	"github.com/samuelfneumann/snakelearn/game"
	ts "github.com/samuelfneumann/snakelearn/timestep"
	"github.com/samuelfneumann/snakelearn/vision"
)

// episode returns the timesteps of an episode with the given rewards
// after the first step and a final score
func episode(rewards []float64, score int) []ts.TimeStep {
	steps := []ts.TimeStep{ts.New(ts.First, 0, 0.9, vision.State{}, game.State{}, 0)}
	for i, r := range rewards {
		step := ts.New(ts.Mid, r, 0.9, vision.State{}, game.State{Score: score}, i+1)
		if i == len(rewards)-1 {
			step.SetEnd(ts.Terminal)
		}
		steps = append(steps, step)
	}
	return steps
}

func trackAll(tr tracker.Tracker, steps ...[]ts.TimeStep) {
	for _, ep := range steps {
		for _, step := range ep {
			tr.Track(step)
		}
	}
}

func TestReturn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "return.bin")
	r := NewReturn(path)
	trackAll(r, episode([]float64{0, 10, -10}, 1), episode([]float64{10}, 1))

	assert.Equal(t, []float64{0, 10}, r.Returns())
	mean, max := r.Stats()
	assert.Equal(t, 5.0, mean)
	assert.Equal(t, 10.0, max)

	require.NoError(t, r.Save())
	data, err := tracker.LoadData[float64](path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10}, data)
}

func TestReturnPanicsOnSkippedStep(t *testing.T) {
	r := NewReturn("")
	r.Track(ts.New(ts.First, 0, 0.9, vision.State{}, game.State{}, 0))
	assert.Panics(t, func() {
		r.Track(ts.New(ts.Mid, 0, 0.9, vision.State{}, game.State{}, 2))
	})
}

func TestEpisodeLengthAndScore(t *testing.T) {
	dir := t.TempDir()
	length := NewEpisodeLength(filepath.Join(dir, "length.bin"))
	score := NewScore(filepath.Join(dir, "score.bin"))

	eps := [][]ts.TimeStep{
		episode([]float64{0, 0, 10, -10}, 1),
		episode([]float64{10, 10}, 2),
	}
	trackAll(length, eps...)
	trackAll(score, eps...)
	require.NoError(t, length.Save())
	require.NoError(t, score.Save())

	lengths, err := tracker.LoadData[int](filepath.Join(dir, "length.bin"))
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2}, lengths)

	scores, err := tracker.LoadData[int](filepath.Join(dir, "score.bin"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, scores)
}

func TestLoadDataMissing(t *testing.T) {
	_, err := tracker.LoadData[int](filepath.Join(t.TempDir(), "none.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func summaries(run uuid.UUID) []tracker.Summary {
	return []tracker.Summary{
		{Run: run, Episode: 1, Score: 0, Steps: 7, Return: -10,
			Epsilon: 1, Outcome: game.CrashedWall, End: ts.Terminal},
		{Run: run, Episode: 2, Score: 3, Steps: 50, Return: 30,
			Epsilon: 0.5, Outcome: game.Ate, End: ts.Timeout},
	}
}

func TestEpisodeLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "episodes.parquet")
	run := uuid.New()

	log := NewEpisodeLog(path)
	for _, s := range summaries(run) {
		log.TrackEpisode(s)
	}
	require.Len(t, log.Rows(), 2)
	require.NoError(t, log.Save())
	assert.NoFileExists(t, path+".tmp")

	rows, err := parquet.ReadFile[EpisodeRow](path)
	require.NoError(t, err)
	assert.Equal(t, log.Rows(), rows)
	assert.Equal(t, run.String(), rows[0].RunID)
	assert.Equal(t, "crashed-wall", rows[0].Outcome)
	assert.Equal(t, "Timeout", rows[1].End)
	assert.Equal(t, int32(50), rows[1].Steps)
}

func TestChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.html")
	c := NewChart("q-learning", path)
	for _, s := range summaries(uuid.New()) {
		c.TrackEpisode(s)
	}
	require.NoError(t, c.Save())

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "q-learning")
	assert.Contains(t, string(html), "echarts")
}
