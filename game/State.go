package game

import "fmt"

// State is a snapshot of the board. Body is ordered from head to tail
// and its cells are pairwise distinct while the snake is alive.
type State struct {
	Body    []Point
	Heading Direction
	Food    Point
	Width   int
	Height  int
	Score   int
}

// Head returns the cell occupied by the snake's head
func (s *State) Head() Point {
	return s.Body[0]
}

// Len returns the length of the snake
func (s *State) Len() int {
	return len(s.Body)
}

// InBounds returns whether p is a playable cell. Every cell outside
// the board is a wall.
func (s *State) InBounds(p Point) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// OnBody returns whether p is occupied by any part of the snake,
// including its head.
func (s *State) OnBody(p Point) bool {
	for _, b := range s.Body {
		if b == p {
			return true
		}
	}
	return false
}

// Blocked returns whether moving the head onto p would end the
// episode, that is whether p is a wall or part of the snake.
func (s *State) Blocked(p Point) bool {
	return !s.InBounds(p) || s.OnBody(p)
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	body := make([]Point, len(s.Body))
	copy(body, s.Body)
	s.Body = body
	return s
}

func (s State) String() string {
	return fmt.Sprintf("State | Head: %v  |  Heading: %v  |  Food: %v  |  "+
		"Length: %d  |  Score: %d", s.Body[0], s.Heading, s.Food, len(s.Body),
		s.Score)
}
