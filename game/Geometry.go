// Package game implements the rules of the snake game: the board, the
// snake's movement, food placement and the outcome of each move.
package game

import "fmt"

// Point is a cell on the board. X grows to the right and Y grows
// downwards, so the top left playable cell is (0, 0).
type Point struct {
	X, Y int
}

// Add returns the point p translated by q
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns the vector from q to p
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Dot returns the dot product of p and q
func (p Point) Dot(q Point) int {
	return p.X*q.X + p.Y*q.Y
}

// DistanceSq returns the squared Euclidean distance between p and q
func (p Point) DistanceSq(q Point) int {
	d := p.Sub(q)
	return d.Dot(d)
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Direction is an absolute heading on the board. Directions are
// ordered clockwise so that turning right adds one and turning left
// subtracts one.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Delta returns the unit vector of the direction
func (d Direction) Delta() Point {
	switch d {
	case North:
		return Point{0, -1}
	case East:
		return Point{1, 0}
	case South:
		return Point{0, 1}
	case West:
		return Point{-1, 0}
	}
	panic(fmt.Sprintf("delta: illegal direction %d", int(d)))
}

// Turn returns the heading that results from taking a relative
// action while travelling in direction d.
func (d Direction) Turn(a Action) Direction {
	switch a {
	case Left:
		return (d + 3) % 4
	case Right:
		return (d + 1) % 4
	}
	return d
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Action is a move relative to the snake's current heading. Actions
// are enumerated from 0 so that they can index action-value arrays.
type Action int

const (
	Left Action = iota
	Straight
	Right
)

// NumActions is the number of relative actions available in every state
const NumActions = 3

// Actions lists every action in index order
var Actions = [NumActions]Action{Left, Straight, Right}

// Valid returns whether a is one of the three relative actions
func (a Action) Valid() bool {
	return a >= Left && a <= Right
}

func (a Action) String() string {
	switch a {
	case Left:
		return "left"
	case Straight:
		return "straight"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}
