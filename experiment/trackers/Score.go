package trackers

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	"github.com/samuelfneumann/snakelearn/timestep"
)

// Score tracks and saves the number of food items eaten in each
// episode
type Score struct {
	scores   []int
	filename string
}

// NewScore returns a new Score tracker which saves to filename
func NewScore(filename string) *Score {
	return &Score{filename: filename}
}

// Track caches the final score of each episode
func (s *Score) Track(t timestep.TimeStep) {
	if t.Last() {
		s.scores = append(s.scores, t.Raw.Score)
	}
}

// Save saves the tracked scores to disk
func (s *Score) Save() error {
	if err := tracker.SaveData(s.filename, s.scores); err != nil {
		return fmt.Errorf("save: could not save scores: %w", err)
	}
	return nil
}
