package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, w, h int) *Game {
	t.Helper()
	g, err := New(Config{Width: w, Height: h, FoodMinDistance: 2, Seed: 1},
		DefaultRewards())
	require.NoError(t, err)
	return g
}

func TestTurn(t *testing.T) {
	assert.Equal(t, West, North.Turn(Left))
	assert.Equal(t, East, North.Turn(Right))
	assert.Equal(t, North, North.Turn(Straight))
	assert.Equal(t, North, West.Turn(Right))
	assert.Equal(t, South, West.Turn(Left))
	for _, d := range []Direction{North, East, South, West} {
		assert.Equal(t, d, d.Turn(Left).Turn(Right))
	}
}

func TestReset(t *testing.T) {
	g := newTestGame(t, 15, 20)
	s := g.Reset()

	require.Equal(t, 1, s.Len())
	assert.Equal(t, Point{7, 18}, s.Head())
	assert.Equal(t, North, s.Heading)
	assert.Less(t, s.Food.Y, 10, "first food is placed in the top half")
	assert.False(t, s.OnBody(s.Food))
	assert.Equal(t, Running, g.Outcome())
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{Width: 1, Height: 1}, DefaultRewards())
	assert.Error(t, err)

	_, err = New(Config{Width: 5, Height: 5, FoodMinDistance: -1},
		DefaultRewards())
	assert.Error(t, err)
}

func TestWallCrash(t *testing.T) {
	g := newTestGame(t, 5, 5)
	require.NoError(t, g.SetState(State{
		Body:    []Point{{0, 0}},
		Heading: North,
		Food:    Point{4, 4},
	}))

	s, reward, done := g.Step(Straight)
	assert.True(t, done)
	assert.Equal(t, -10.0, reward)
	assert.Equal(t, CrashedWall, g.Outcome())
	assert.Equal(t, Point{0, 0}, s.Head(), "a crashed snake does not move")
}

func TestFoodCapture(t *testing.T) {
	g := newTestGame(t, 10, 10)
	require.NoError(t, g.SetState(State{
		Body:    []Point{{5, 5}, {5, 6}},
		Heading: North,
		Food:    Point{5, 4},
	}))

	s, reward, done := g.Step(Straight)
	assert.False(t, done)
	assert.Equal(t, 10.0, reward)
	assert.Equal(t, Ate, g.Outcome())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1, s.Score)
	assert.Equal(t, []Point{{5, 4}, {5, 5}, {5, 6}}, s.Body)
	assert.False(t, s.OnBody(s.Food))
	assert.GreaterOrEqual(t, s.Food.DistanceSq(s.Head()), 4)
}

func TestStepMovesWithoutGrowing(t *testing.T) {
	g := newTestGame(t, 10, 10)
	require.NoError(t, g.SetState(State{
		Body:    []Point{{5, 5}, {5, 6}, {5, 7}},
		Heading: North,
		Food:    Point{0, 0},
	}))

	s, reward, done := g.Step(Right)
	assert.False(t, done)
	assert.Equal(t, 0.0, reward)
	assert.Equal(t, East, s.Heading)
	assert.Equal(t, []Point{{6, 5}, {5, 5}, {5, 6}}, s.Body)
}

func TestTailCellIsFree(t *testing.T) {
	body := []Point{{1, 1}, {2, 1}, {2, 2}, {1, 2}}

	g := newTestGame(t, 5, 5)
	require.NoError(t, g.SetState(State{Body: body, Heading: West,
		Food: Point{4, 4}}))
	s, _, done := g.Step(Left)
	assert.False(t, done, "moving onto the vacating tail is legal")
	assert.Equal(t, Point{1, 2}, s.Head())
	assert.Equal(t, Running, g.Outcome())
}

func TestBodyCrash(t *testing.T) {
	g := newTestGame(t, 5, 5)
	require.NoError(t, g.SetState(State{
		Body:    []Point{{1, 1}, {2, 1}, {2, 2}, {1, 2}, {0, 2}},
		Heading: West,
		Food:    Point{4, 4},
	}))

	_, reward, done := g.Step(Left)
	assert.True(t, done)
	assert.Equal(t, -10.0, reward)
	assert.Equal(t, CrashedBody, g.Outcome())
}

func TestWin(t *testing.T) {
	g, err := New(Config{Width: 2, Height: 3, Seed: 3}, Rewards{Food: 1,
		Crash: -1, Win: 100})
	require.NoError(t, err)
	require.NoError(t, g.SetState(State{
		Body:    []Point{{0, 1}, {0, 2}, {1, 2}, {1, 1}, {1, 0}},
		Heading: North,
		Food:    Point{0, 0},
	}))

	s, reward, done := g.Step(Straight)
	assert.True(t, done)
	assert.Equal(t, Won, g.Outcome())
	assert.Equal(t, 100.0, reward)
	assert.Equal(t, 6, s.Len())
}

func TestIllegalActionPanics(t *testing.T) {
	g := newTestGame(t, 5, 5)
	assert.Panics(t, func() { g.Step(Action(3)) })
	assert.Panics(t, func() { g.Step(Action(-1)) })
}

func TestSetStateRejectsInvalid(t *testing.T) {
	g := newTestGame(t, 5, 5)
	assert.Error(t, g.SetState(State{Food: Point{1, 1}}))
	assert.Error(t, g.SetState(State{Body: []Point{{5, 0}}, Food: Point{1, 1}}))
	assert.Error(t, g.SetState(State{Body: []Point{{1, 1}, {1, 1}},
		Food: Point{2, 2}}))
	assert.Error(t, g.SetState(State{Body: []Point{{1, 1}}, Food: Point{1, 1}}))
}

func TestSeededGamesAreIdentical(t *testing.T) {
	a := newTestGame(t, 15, 20)
	b := newTestGame(t, 15, 20)

	actions := []Action{Straight, Left, Straight, Right, Right, Straight}
	for i := 0; i < 4; i++ {
		sa, sb := a.Reset(), b.Reset()
		require.Equal(t, sa, sb)
		for _, act := range actions {
			sa, _, doneA := a.Step(act)
			sb, _, doneB := b.Step(act)
			require.Equal(t, sa, sb)
			require.Equal(t, doneA, doneB)
			if doneA {
				break
			}
		}
	}
}

func TestStateCloneIsDeep(t *testing.T) {
	s := State{Body: []Point{{1, 1}, {1, 2}}}
	c := s.Clone()
	c.Body[0] = Point{9, 9}
	assert.Equal(t, Point{1, 1}, s.Body[0])
}

func BenchmarkStep(b *testing.B) {
	g, err := New(Config{Width: 15, Height: 20, FoodMinDistance: 2, Seed: 1},
		DefaultRewards())
	if err != nil {
		b.Fatal(err)
	}
	actions := []Action{Straight, Right, Right, Left, Left}

	for i := 0; i < b.N; i++ {
		if _, _, done := g.Step(actions[i%len(actions)]); done {
			g.Reset()
		}
	}
}
