package checkpointer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/snakelearn/agent"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// nEpisode implements checkpointing every N episodes
type nEpisode struct {
	interval int
	episodes int
	object   agent.Persister // Object to save
	log      logrus.FieldLogger

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each checkpoint should be saved in a separate file with each
	// file having an incremented number as a suffix (e.g. file1.bin,
	// file2.bin, ..., fileK.bin), then simply use the static function
	// FilenameEnumerator, which will return a function that will
	// enumerate filenames.
	//
	// Otherwise, if each checkpoint should be saved in a separate file,
	// but the filename does not matter, use the static function
	// FileTimer to generate the required naming function. For example:
	//
	// n := NewNEpisode(10, object, FileTimer("filename", ".bin"), log)
	filename func() string
}

// NewNEpisode returns a checkpointer that checkpoints every n episodes.
func NewNEpisode(n int, object agent.Persister, filename func() string,
	log logrus.FieldLogger) (Checkpointer, error) {
	if n < 1 {
		return nil, fmt.Errorf("newnepisode: interval must be positive"+
			"\n\twant(>0)\n\thave(%v)", n)
	}
	return &nEpisode{
		interval: n,
		object:   object,
		filename: filename,
		log:      log,
	}, nil
}

// Checkpoint counts finished episodes and saves the tracked object
// on the last timestep of every n-th episode
func (n *nEpisode) Checkpoint(t ts.TimeStep) error {
	if !t.Last() {
		return nil
	}

	n.episodes++
	if n.episodes%n.interval != 0 {
		return nil
	}

	filename := n.filename()
	if err := n.object.Save(filename); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	n.log.WithFields(logrus.Fields{
		"episode": n.episodes,
		"path":    filename,
	}).Debug("checkpoint saved")
	return nil
}
