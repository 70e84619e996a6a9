package render

import (
	"time"

	"github.com/samuelfneumann/snakelearn/game"
)

// Paced waits after each state drawn by the wrapped Renderer so that a
// person can follow, or play, the game
type Paced struct {
	Renderer
	delay time.Duration
	sleep func(time.Duration)
}

// NewPaced returns r waiting delay after every Render
func NewPaced(r Renderer, delay time.Duration) *Paced {
	return &Paced{Renderer: r, delay: delay, sleep: time.Sleep}
}

// Render implements the Renderer interface
func (p *Paced) Render(s game.State) error {
	if err := p.Renderer.Render(s); err != nil {
		return err
	}
	if p.delay > 0 {
		p.sleep(p.delay)
	}
	return nil
}
