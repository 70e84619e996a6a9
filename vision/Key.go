package vision

import (
	"fmt"
	"strings"
)

// Key returns the stable textual encoding of s used when persisting
// tables, for example "ahead-left[-1,+0,+0]". Sensors are listed in
// left, front, right order.
func (s State) Key() string {
	return fmt.Sprintf("%v[%+d,%+d,%+d]", s.Food, s.Sensors[0], s.Sensors[1],
		s.Sensors[2])
}

// ParseKey is the inverse of State.Key. Only canonical keys are
// accepted.
func ParseKey(key string) (State, error) {
	i := strings.IndexByte(key, '[')
	if i < 0 {
		return State{}, fmt.Errorf("parsekey: missing sensor readings in %q",
			key)
	}

	food, ok := foodByToken[key[:i]]
	if !ok {
		return State{}, fmt.Errorf("parsekey: unknown food direction %q",
			key[:i])
	}

	var left, front, right int
	if _, err := fmt.Sscanf(key[i:], "[%d,%d,%d]", &left, &front,
		&right); err != nil {
		return State{}, fmt.Errorf("parsekey: could not parse sensor "+
			"readings in %q: %v", key, err)
	}

	s := State{
		Food:    food,
		Sensors: [NumSensors]Sensor{Sensor(left), Sensor(front), Sensor(right)},
	}
	if !s.Valid() {
		return State{}, fmt.Errorf("parsekey: illegal sensor readings in %q",
			key)
	}
	if canonical := s.Key(); canonical != key {
		return State{}, fmt.Errorf("parsekey: non-canonical key"+
			"\n\twant(%v)\n\thave(%v)", canonical, key)
	}
	return s, nil
}
