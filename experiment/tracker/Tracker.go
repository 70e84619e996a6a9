// Package tracker defines Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/samuelfneumann/snakelearn/game"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

// EpisodeTracker is a Tracker that also receives the Summary of each
// finished episode
type EpisodeTracker interface {
	Tracker
	TrackEpisode(s Summary)
}

// Summary summarizes a single finished episode
type Summary struct {
	Run     uuid.UUID
	Episode int // Starts at 1
	Score   int
	Steps   int
	Return  float64
	Epsilon float64 // Exploration rate used during the episode
	Outcome game.Outcome
	End     ts.EndType
}

// LoadData loads and returns the data saved by a Tracker
func LoadData[T any](filename string) ([]T, error) {
	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loaddata: could not open data file: %w", err)
	}
	defer file.Close()

	// Create the decoder and the variable to store the data in
	dec := gob.NewDecoder(file)
	var data []T

	// Decode the data
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loaddata: could not decode data: %w", err)
	}

	return data, nil
}

// SaveData gob encodes data to filename
func SaveData[T any](filename string, data []T) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("savedata: could not open save file: %w", err)
	}

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		file.Close()
		return fmt.Errorf("savedata: could not encode data: %w", err)
	}
	return file.Close()
}
