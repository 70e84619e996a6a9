// Package vision compresses a game.State into the small, heading
// relative observation that the agents learn from: the direction of
// the food and whether the cells to the left, front and right of the
// head are blocked.
package vision

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/game"
)

// FoodDirection is the octant containing the food as seen from the
// head when facing along the snake's heading
type FoodDirection int

const (
	Ahead FoodDirection = iota
	AheadLeft
	Left
	BehindLeft
	Behind
	BehindRight
	Right
	AheadRight
)

// NumFoodDirections is the number of distinct food octants
const NumFoodDirections = 8

var foodTokens = [NumFoodDirections]string{
	Ahead:       "ahead",
	AheadLeft:   "ahead-left",
	Left:        "left",
	BehindLeft:  "behind-left",
	Behind:      "behind",
	BehindRight: "behind-right",
	Right:       "right",
	AheadRight:  "ahead-right",
}

var foodByToken = func() map[string]FoodDirection {
	m := make(map[string]FoodDirection, NumFoodDirections)
	for i, token := range foodTokens {
		m[token] = FoodDirection(i)
	}
	return m
}()

// Valid returns whether f is one of the eight octants
func (f FoodDirection) Valid() bool {
	return f >= Ahead && f <= AheadRight
}

func (f FoodDirection) String() string {
	if !f.Valid() {
		return fmt.Sprintf("FoodDirection(%d)", int(f))
	}
	return foodTokens[f]
}

// Sensor is the reading of a single obstacle sensor. Obstacle is
// negative to match the sign convention of the persisted table keys.
type Sensor int

const (
	Clear    Sensor = 0
	Obstacle Sensor = -1
)

// Valid returns whether s is a legal sensor reading
func (s Sensor) Valid() bool {
	return s == Clear || s == Obstacle
}

func (s Sensor) String() string {
	switch s {
	case Clear:
		return "clear"
	case Obstacle:
		return "obstacle"
	}
	return fmt.Sprintf("Sensor(%d)", int(s))
}

// NumSensors is the number of obstacle sensors, one per relative action
const NumSensors = game.NumActions

// NumStates is the number of distinct encoded states
const NumStates = NumFoodDirections * (1 << NumSensors)

// NumFeatures is the length of the feature vector returned by
// State.Features
const NumFeatures = NumFoodDirections + NumSensors

// State is the encoded observation. Sensors are indexed by the
// relative action that would move the head onto the probed cell, so
// Sensors[game.Left] probes the cell to the left of the head. State is
// comparable and is used directly as a map key.
type State struct {
	Food    FoodDirection
	Sensors [NumSensors]Sensor
}

// Encode returns the encoding of s. It depends only on the geometry of
// the head, heading, food and body relative to one another.
func Encode(s game.State) State {
	head := s.Head()

	var sensors [NumSensors]Sensor
	for _, a := range game.Actions {
		probe := head.Add(s.Heading.Turn(a).Delta())
		if s.Blocked(probe) {
			sensors[a] = Obstacle
		}
	}

	return State{
		Food:    foodDirection(s.Food.Sub(head), s.Heading),
		Sensors: sensors,
	}
}

// foodDirection returns the octant of the vector d when facing h
func foodDirection(d game.Point, h game.Direction) FoodDirection {
	forward := h.Delta()
	right := h.Turn(game.Right).Delta()

	ahead := sign(d.Dot(forward))
	lateral := sign(d.Dot(right))

	switch {
	case ahead > 0 && lateral < 0:
		return AheadLeft
	case ahead > 0 && lateral > 0:
		return AheadRight
	case ahead < 0 && lateral < 0:
		return BehindLeft
	case ahead < 0 && lateral > 0:
		return BehindRight
	case ahead < 0:
		return Behind
	case lateral < 0:
		return Left
	case lateral > 0:
		return Right
	}
	return Ahead
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Blocked returns whether the sensor in the direction of a reports
// an obstacle
func (s State) Blocked(a game.Action) bool {
	return s.Sensors[a] == Obstacle
}

// Valid returns whether every component of s is in range
func (s State) Valid() bool {
	if !s.Food.Valid() {
		return false
	}
	for _, sensor := range s.Sensors {
		if !sensor.Valid() {
			return false
		}
	}
	return true
}

// Features returns a vector representation of s: a one-hot encoding
// of the food octant followed by one flag per sensor which is 1 when
// the sensor reports an obstacle.
func (s State) Features() []float64 {
	features := make([]float64, NumFeatures)
	features[s.Food] = 1.0
	for i, sensor := range s.Sensors {
		if sensor == Obstacle {
			features[NumFoodDirections+i] = 1.0
		}
	}
	return features
}

func (s State) String() string {
	return s.Key()
}
