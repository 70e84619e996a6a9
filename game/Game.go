package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Config describes the board and food placement of a Game
type Config struct {
	Width  int
	Height int

	// FoodMinDistance is the minimum Euclidean distance between the
	// head and respawned food. Zero disables the constraint.
	FoodMinDistance float64

	Seed uint64
}

// Validate returns an error if the configuration cannot produce a game
func (c Config) Validate() error {
	if c.Width < 2 || c.Height < 3 {
		return fmt.Errorf("validate: board too small\n\twant(>= 2x3)"+
			"\n\thave(%dx%d)", c.Width, c.Height)
	}
	if c.FoodMinDistance < 0 {
		return fmt.Errorf("validate: food minimum distance must be "+
			"non-negative\n\twant(>= 0)\n\thave(%v)", c.FoodMinDistance)
	}
	return nil
}

// Game simulates a single snake on a rectangular board surrounded by
// walls. A Game is not safe for concurrent use.
type Game struct {
	config  Config
	rewards Rewards
	rng     *rand.Rand

	state   State
	outcome Outcome
}

// New creates a new Game and resets it so that it is ready to use
func New(c Config, r Rewards) (*Game, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	g := &Game{
		config:  c,
		rewards: r,
		rng:     rand.New(rand.NewSource(c.Seed)),
	}
	g.Reset()
	return g, nil
}

// Reset starts a new episode. The snake has length one, sits near the
// bottom centre of the board and heads north. The first food is
// placed in the top half of the board.
func (g *Game) Reset() State {
	head := Point{g.config.Width / 2, g.config.Height - 2}
	g.state = State{
		Body:    []Point{head},
		Heading: North,
		Width:   g.config.Width,
		Height:  g.config.Height,
	}
	g.outcome = Running

	food, _ := g.sampleFood(func(p Point) bool {
		return p.Y < g.config.Height/2
	})
	g.state.Food = food

	return g.state.Clone()
}

// Step advances the snake one cell after applying the relative action
// a. It returns the new state, the reward for the move and whether the
// episode has ended. Collisions are checked against the board before
// the snake grows, and the tail cell the snake is vacating is free
// unless the snake eats on this move.
//
// Step panics if a is not a valid Action.
func (g *Game) Step(a Action) (State, float64, bool) {
	if !a.Valid() {
		panic(fmt.Sprintf("step: illegal action %d", int(a)))
	}
	if g.outcome.Terminal() {
		panic("step: episode has ended, call Reset")
	}

	g.state.Heading = g.state.Heading.Turn(a)
	next := g.state.Head().Add(g.state.Heading.Delta())
	eating := next == g.state.Food

	switch {
	case !g.state.InBounds(next):
		g.outcome = CrashedWall
	case g.hitsBody(next, eating):
		g.outcome = CrashedBody
	default:
		g.move(next, eating)
	}

	return g.state.Clone(), g.rewards.For(g.outcome), g.outcome.Terminal()
}

// hitsBody returns whether moving the head to next collides with the
// body. Without growth the last cell moves out of the way.
func (g *Game) hitsBody(next Point, eating bool) bool {
	body := g.state.Body
	if !eating {
		body = body[:len(body)-1]
	}
	for _, b := range body {
		if b == next {
			return true
		}
	}
	return false
}

// move moves the head to next, growing if food is eaten
func (g *Game) move(next Point, eating bool) {
	body := make([]Point, 0, len(g.state.Body)+1)
	body = append(body, next)
	if eating {
		body = append(body, g.state.Body...)
	} else {
		body = append(body, g.state.Body[:len(g.state.Body)-1]...)
	}
	g.state.Body = body

	if !eating {
		g.outcome = Running
		return
	}

	g.state.Score++
	head := g.state.Head()
	minDistSq := g.config.FoodMinDistance * g.config.FoodMinDistance
	food, ok := g.sampleFood(func(p Point) bool {
		return float64(p.DistanceSq(head)) >= minDistSq
	})
	if !ok {
		g.outcome = Won
		return
	}
	g.state.Food = food
	g.outcome = Ate
}

// State returns a copy of the current state
func (g *Game) State() State {
	return g.state.Clone()
}

// Outcome returns the outcome of the last move
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Rewards returns the reward scheme of the game
func (g *Game) Rewards() Rewards {
	return g.rewards
}

// Config returns the configuration of the game
func (g *Game) Config() Config {
	return g.config
}

// SetState replaces the current state, which allows episodes to be
// started from arbitrary positions. The body must be non-empty, lie on
// the board and not overlap itself, and the food must be on a free
// cell. Width and Height are taken from the game's configuration.
func (g *Game) SetState(s State) error {
	s = s.Clone()
	s.Width, s.Height = g.config.Width, g.config.Height

	if len(s.Body) == 0 {
		return fmt.Errorf("setstate: snake must have a body")
	}
	seen := make(map[Point]bool, len(s.Body))
	for _, b := range s.Body {
		if !s.InBounds(b) {
			return fmt.Errorf("setstate: body cell %v out of bounds", b)
		}
		if seen[b] {
			return fmt.Errorf("setstate: body overlaps itself at %v", b)
		}
		seen[b] = true
	}
	if !s.InBounds(s.Food) || seen[s.Food] {
		return fmt.Errorf("setstate: food at %v is not on a free cell", s.Food)
	}
	if s.Heading < North || s.Heading > West {
		return fmt.Errorf("setstate: illegal heading %d", int(s.Heading))
	}

	g.state = s
	g.outcome = Running
	return nil
}
