package game

// Outcome describes the result of a single move
type Outcome int

const (
	Running Outcome = iota
	Ate
	CrashedWall
	CrashedBody
	Won
)

// Terminal returns whether the outcome ends the episode
func (o Outcome) Terminal() bool {
	return o == CrashedWall || o == CrashedBody || o == Won
}

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Ate:
		return "ate"
	case CrashedWall:
		return "crashed-wall"
	case CrashedBody:
		return "crashed-body"
	case Won:
		return "won"
	}
	return "unknown"
}

// Rewards maps move outcomes to scalar rewards
type Rewards struct {
	Food  float64 // Eating food without filling the board
	Crash float64 // Hitting a wall or the snake's own body
	Step  float64 // Any other move
	Win   float64 // Eating the food that fills the board
}

// DefaultRewards returns the reward scheme of the original game: +10
// for food, -10 for crashing and nothing otherwise.
func DefaultRewards() Rewards {
	return Rewards{Food: 10, Crash: -10, Step: 0, Win: 10}
}

// For returns the reward for outcome o
func (r Rewards) For(o Outcome) float64 {
	switch o {
	case Ate:
		return r.Food
	case CrashedWall, CrashedBody:
		return r.Crash
	case Won:
		return r.Win
	}
	return r.Step
}
