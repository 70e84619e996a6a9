package human

import (
	"bufio"
	"io"
	"strings"

	"github.com/samuelfneumann/snakelearn/game"
)

// Keys is an agent.ActionSource that reads key presses from a reader,
// typically a terminal. Each a, j or h turns left, each d, l turns
// right and each w, k goes straight. Other bytes are ignored.
type Keys struct {
	actions chan game.Action
}

// NewKeys starts reading key presses from r until it is exhausted
func NewKeys(r io.Reader) *Keys {
	k := &Keys{actions: make(chan game.Action, 16)}
	go k.read(bufio.NewReader(r))
	return k
}

func (k *Keys) read(r *bufio.Reader) {
	defer close(k.actions)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return
		}
		if a, ok := ParseKey(b); ok {
			k.actions <- a
		}
	}
}

// ParseKey returns the action bound to key b
func ParseKey(b byte) (game.Action, bool) {
	switch {
	case strings.IndexByte("ajhAJH", b) >= 0:
		return game.Left, true
	case strings.IndexByte("wkWK", b) >= 0:
		return game.Straight, true
	case strings.IndexByte("dlDL", b) >= 0:
		return game.Right, true
	}
	return game.Straight, false
}

// NextAction returns the oldest unread key press without blocking
func (k *Keys) NextAction() (game.Action, bool) {
	select {
	case a, ok := <-k.actions:
		return a, ok
	default:
		return game.Straight, false
	}
}
