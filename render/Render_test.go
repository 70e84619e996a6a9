package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/snakelearn/game"
)

func testState() game.State {
	return game.State{
		Body:    []game.Point{{X: 1, Y: 1}, {X: 1, Y: 2}},
		Heading: game.North,
		Food:    game.Point{X: 2, Y: 0},
		Width:   3,
		Height:  3,
		Score:   1,
	}
}

func TestBoard(t *testing.T) {
	want := "" +
		"#####\n" +
		"#..*#\n" +
		"#.@.#\n" +
		"#.o.#\n" +
		"#####\n"
	assert.Equal(t, want, Board(testState()))
}

func TestTextWithoutColour(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, false, false)
	require.NoError(t, r.Render(testState()))
	assert.Equal(t, "SCORE: 1     LENGTH: 2\n"+Board(testState()), buf.String())
}

func TestPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	r, err := NewPNG(dir, 4)
	require.NoError(t, err)

	require.NoError(t, r.Render(testState()))
	require.NoError(t, r.Render(testState()))
	assert.Equal(t, 2, r.Frames())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	img := Frame(testState(), 4)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestNewPNGRejectsCellSize(t *testing.T) {
	_, err := NewPNG(t.TempDir(), 0)
	assert.Error(t, err)
}

type countRenderer struct{ n int }

func (c *countRenderer) Render(game.State) error {
	c.n++
	return nil
}

func TestMulti(t *testing.T) {
	a, b := &countRenderer{}, &countRenderer{}
	require.NoError(t, Multi{a, b}.Render(testState()))
	assert.Equal(t, 1, a.n)
	assert.Equal(t, 1, b.n)
}

func TestPaced(t *testing.T) {
	inner := &countRenderer{}
	var slept []time.Duration
	p := NewPaced(inner, 150*time.Millisecond)
	p.sleep = func(d time.Duration) { slept = append(slept, d) }

	require.NoError(t, p.Render(testState()))
	require.NoError(t, p.Render(testState()))
	assert.Equal(t, 2, inner.n)
	assert.Equal(t, []time.Duration{150 * time.Millisecond,
		150 * time.Millisecond}, slept)

	// Nothing is drawn, so nothing is waited for
	failing := NewPaced(Multi{&failRenderer{}}, time.Second)
	failing.sleep = func(time.Duration) { t.Fatal("slept after a failed render") }
	assert.Error(t, failing.Render(testState()))
}

type failRenderer struct{}

func (failRenderer) Render(game.State) error { return errors.New("closed") }
