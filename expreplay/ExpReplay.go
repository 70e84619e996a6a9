// Package expreplay implements a fixed-capacity experience replay
// buffer of snake transitions
package expreplay

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/timestep"
	"github.com/samuelfneumann/snakelearn/vision"
)

// Config implements a specific configuration of an ExperienceReplayer
type Config struct {
	// SampleSize is the number of transitions in each sampled batch
	SampleSize int

	// MaxReplayCapacity is the number of transitions kept before the
	// oldest are evicted
	MaxReplayCapacity int

	// MinReplayCapacity is the number of transitions required before
	// the buffer can be sampled. It is never less than SampleSize.
	MinReplayCapacity int
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.SampleSize < 1 {
		return fmt.Errorf("validate: sample size must be positive"+
			"\n\twant(>0)\n\thave(%v)", c.SampleSize)
	}
	if c.MaxReplayCapacity < c.SampleSize {
		return fmt.Errorf("validate: cannot have batch size (%v) > max "+
			"buffer capacity (%v)", c.SampleSize, c.MaxReplayCapacity)
	}
	if c.MinReplayCapacity > c.MaxReplayCapacity {
		return fmt.Errorf("validate: min capacity (%v) > max capacity (%v)",
			c.MinReplayCapacity, c.MaxReplayCapacity)
	}
	return nil
}

// Create creates and returns the ExperienceReplayer with the specified
// Config.
func (c Config) Create(seed uint64) (ExperienceReplayer, error) {
	return New(c.MinReplayCapacity, c.MaxReplayCapacity, c.SampleSize, seed)
}

// ExperienceReplayer implements an experience replay buffer
type ExperienceReplayer interface {
	// Add adds a transition to the buffer, evicting the oldest
	// transition if the buffer is full
	Add(t timestep.Transition) error

	// Sample samples a batch of experience from the buffer and returns
	// the batch of states, one-hot actions, rewards, discounts and next
	// states as row-major []float64
	Sample() (s, a, r, discount, nextS []float64, err error)

	// Capacity returns the current number of samples in the buffer
	Capacity() int

	// MaxCapacity returns the maximum allowable samples in the buffer
	MaxCapacity() int

	// MinCapacity returns the number of samples required to be in
	// the buffer before the buffer can be sampled
	MinCapacity() int

	// BatchSize returns the number of samples returned by Sample()
	BatchSize() int
}

// cache implements a concrete ExperienceReplayer as a ring buffer.
// Transitions are stored already encoded as network features.
type cache struct {
	stateCache     []float64
	actionCache    []float64
	rewardCache    []float64
	discountCache  []float64
	nextStateCache []float64

	// next is the index the next transition is written to and size
	// is the number of transitions stored. Once full, next is the
	// index of the oldest transition.
	next int
	size int

	rng *rand.Rand

	minCapacity int
	maxCapacity int
	batchSize   int
}

const (
	featureSize = vision.NumFeatures
	actionSize  = game.NumActions
)

// New creates and returns a new ExperienceReplayer that holds at most
// maxCapacity transitions and samples batches of batchSize transitions
// uniformly at random with replacement once it holds at least
// max(minCapacity, batchSize) transitions.
func New(minCapacity, maxCapacity, batchSize int,
	seed uint64) (ExperienceReplayer, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("new: batch size must be > 0")
	}
	if maxCapacity < batchSize {
		return nil, fmt.Errorf("new: cannot have batch size(%v) > max "+
			"buffer capacity (%v)", batchSize, maxCapacity)
	}
	if minCapacity < batchSize {
		minCapacity = batchSize
	}
	if minCapacity > maxCapacity {
		return nil, fmt.Errorf("new: min capacity (%v) > max capacity (%v)",
			minCapacity, maxCapacity)
	}

	return &cache{
		stateCache:     make([]float64, maxCapacity*featureSize),
		actionCache:    make([]float64, maxCapacity*actionSize),
		rewardCache:    make([]float64, maxCapacity),
		discountCache:  make([]float64, maxCapacity),
		nextStateCache: make([]float64, maxCapacity*featureSize),

		rng: rand.New(rand.NewSource(seed)),

		minCapacity: minCapacity,
		maxCapacity: maxCapacity,
		batchSize:   batchSize,
	}, nil
}

// Add adds a transition to the cache
func (c *cache) Add(t timestep.Transition) error {
	if !t.State.Valid() || !t.NextState.Valid() {
		return fmt.Errorf("add: illegal state in transition %v", t)
	}
	if !t.Action.Valid() {
		return fmt.Errorf("add: illegal action %d", t.Action)
	}

	index := c.next
	stateInd := index * featureSize
	copy(c.stateCache[stateInd:stateInd+featureSize], t.State.Features())
	copy(c.nextStateCache[stateInd:stateInd+featureSize],
		t.NextState.Features())

	actionInd := index * actionSize
	for i := 0; i < actionSize; i++ {
		c.actionCache[actionInd+i] = 0
	}
	c.actionCache[actionInd+int(t.Action)] = 1.0

	c.rewardCache[index] = t.Reward
	c.discountCache[index] = t.Discount

	c.next = (c.next + 1) % c.maxCapacity
	if c.size < c.maxCapacity {
		c.size++
	}
	return nil
}

// Sample samples and returns a batch of transitions from the replay
// buffer
func (c *cache) Sample() ([]float64, []float64, []float64, []float64,
	[]float64, error) {
	if c.Capacity() == 0 {
		err := &ExpReplayError{
			Op:  "sample",
			Err: errEmptyCache,
		}
		return nil, nil, nil, nil, nil, err
	}
	if c.Capacity() < c.MinCapacity() {
		err := &ExpReplayError{
			Op:  "sample",
			Err: errInsufficientSamples,
		}
		return nil, nil, nil, nil, nil, err
	}

	stateBatch := make([]float64, c.batchSize*featureSize)
	nextStateBatch := make([]float64, c.batchSize*featureSize)
	actionBatch := make([]float64, c.batchSize*actionSize)
	rewardBatch := make([]float64, c.batchSize)
	discountBatch := make([]float64, c.batchSize)

	for i := 0; i < c.batchSize; i++ {
		index := c.rng.Intn(c.size)

		batchStartInd := i * featureSize
		expStartInd := index * featureSize
		copy(stateBatch[batchStartInd:batchStartInd+featureSize],
			c.stateCache[expStartInd:expStartInd+featureSize],
		)
		copy(nextStateBatch[batchStartInd:batchStartInd+featureSize],
			c.nextStateCache[expStartInd:expStartInd+featureSize],
		)

		copy(actionBatch[i*actionSize:(i+1)*actionSize],
			c.actionCache[index*actionSize:(index+1)*actionSize])

		rewardBatch[i] = c.rewardCache[index]
		discountBatch[i] = c.discountCache[index]
	}

	return stateBatch, actionBatch, rewardBatch, discountBatch, nextStateBatch,
		nil
}

// Capacity returns the current number of elements in the cache that
// are available for sampling
func (c *cache) Capacity() int {
	return c.size
}

// MaxCapacity returns the maximum number of elements that are allowed
// in the cache
func (c *cache) MaxCapacity() int {
	return c.maxCapacity
}

// MinCapacity returns the minimum number of elements required in the
// cache before sampling is allowed
func (c *cache) MinCapacity() int {
	return c.minCapacity
}

// BatchSize returns the number of samples sampled using Sample() -
// a.k.a the batch size
func (c *cache) BatchSize() int {
	return c.batchSize
}

// oldest returns the index of the oldest stored transition
func (c *cache) oldest() int {
	if c.size < c.maxCapacity {
		return 0
	}
	return c.next
}

// String returns the string representation of the cache
func (c *cache) String() string {
	return fmt.Sprintf("ExpReplay | Size: %d  |  Max: %d  |  Min: %d  |  "+
		"Batch: %d", c.size, c.maxCapacity, c.minCapacity, c.batchSize)
}
