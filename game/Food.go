package game

// freeCells returns every playable cell not occupied by the snake, in
// row major order.
func (g *Game) freeCells() []Point {
	free := make([]Point, 0, g.state.Width*g.state.Height-len(g.state.Body))
	for y := 0; y < g.state.Height; y++ {
		for x := 0; x < g.state.Width; x++ {
			p := Point{x, y}
			if !g.state.OnBody(p) {
				free = append(free, p)
			}
		}
	}
	return free
}

// sampleFood uniformly samples a free cell satisfying prefer. If no
// free cell satisfies prefer, any free cell is sampled instead. The
// boolean return is false only when the board is full.
func (g *Game) sampleFood(prefer func(Point) bool) (Point, bool) {
	free := g.freeCells()
	if len(free) == 0 {
		return Point{}, false
	}

	preferred := make([]Point, 0, len(free))
	for _, p := range free {
		if prefer(p) {
			preferred = append(preferred, p)
		}
	}
	if len(preferred) > 0 {
		return preferred[g.rng.Intn(len(preferred))], true
	}
	return free[g.rng.Intn(len(free))], true
}
