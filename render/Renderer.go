// Package render draws game states. Renderers are observers only and
// never influence the game.
package render

import "github.com/samuelfneumann/snakelearn/game"

// Renderer receives the game state after every step
type Renderer interface {
	Render(s game.State) error
}

// Multi renders to several Renderers in order, stopping at the first
// error
type Multi []Renderer

// Render implements the Renderer interface
func (m Multi) Render(s game.State) error {
	for _, r := range m {
		if err := r.Render(s); err != nil {
			return err
		}
	}
	return nil
}

// Cell is the content of a single board cell, walls included
type Cell byte

const (
	Empty Cell = '.'
	Wall  Cell = '#'
	Head  Cell = '@'
	Body  Cell = 'o'
	Food  Cell = '*'
)

// Grid returns the board of s with a one cell wall border. Row 0 is
// the top wall.
func Grid(s game.State) [][]Cell {
	grid := make([][]Cell, s.Height+2)
	for y := range grid {
		grid[y] = make([]Cell, s.Width+2)
		for x := range grid[y] {
			grid[y][x] = Empty
			if y == 0 || y == s.Height+1 || x == 0 || x == s.Width+1 {
				grid[y][x] = Wall
			}
		}
	}

	put := func(p game.Point, c Cell) {
		if s.InBounds(p) {
			grid[p.Y+1][p.X+1] = c
		}
	}
	put(s.Food, Food)
	for i := len(s.Body) - 1; i >= 0; i-- {
		if i == 0 {
			put(s.Body[i], Head)
		} else {
			put(s.Body[i], Body)
		}
	}
	return grid
}
