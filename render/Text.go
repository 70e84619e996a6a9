package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/samuelfneumann/snakelearn/game"
)

// Text renders the board as text, one line per row
type Text struct {
	w      io.Writer
	au     aurora.Aurora
	redraw bool
}

// NewText returns a Text renderer writing to w. If colour is true,
// cells are coloured with ANSI escape codes. If redraw is true, the
// terminal is cleared before each frame.
func NewText(w io.Writer, colour, redraw bool) *Text {
	return &Text{w: w, au: aurora.NewAurora(colour), redraw: redraw}
}

// Render implements the Renderer interface
func (t *Text) Render(s game.State) error {
	var b strings.Builder
	if t.redraw {
		b.WriteString("\033[H\033[2J")
	}
	fmt.Fprintf(&b, "SCORE: %-5d LENGTH: %d\n", s.Score, s.Len())

	for _, row := range Grid(s) {
		for _, c := range row {
			b.WriteString(t.paint(c))
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(t.w, b.String())
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func (t *Text) paint(c Cell) string {
	s := string(c)
	switch c {
	case Wall:
		return t.au.Blue(s).String()
	case Head:
		return t.au.Bold(t.au.Green(s)).String()
	case Body:
		return t.au.Green(s).String()
	case Food:
		return t.au.Red(s).String()
	}
	return s
}

// Board returns the uncoloured text rendering of s
func Board(s game.State) string {
	var b strings.Builder
	for _, row := range Grid(s) {
		for _, c := range row {
			b.WriteByte(byte(c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
