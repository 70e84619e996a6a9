// Package qtable implements a sparse table of action values indexed by
// encoded snake states
package qtable

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/utils/floatutils"
	"github.com/samuelfneumann/snakelearn/vision"
)

// ErrMalformed is returned, wrapped, when a persisted table cannot be
// decoded
var ErrMalformed = errors.New("malformed q-table")

// Values holds one action value for each of left, straight and right
type Values = [game.NumActions]float64

// Table maps encoded states to their action values. States that were
// never set have all-zero action values.
type Table struct {
	values map[vision.State]Values
}

// New returns a new, empty Table
func New() *Table {
	return &Table{values: make(map[vision.State]Values)}
}

// Values returns the action values of state s
func (t *Table) Values(s vision.State) Values {
	return t.values[s]
}

// Value returns the value of action a in state s
func (t *Table) Value(s vision.State, a game.Action) float64 {
	return t.values[s][a]
}

// Max returns the largest action value in state s
func (t *Table) Max(s vision.State) float64 {
	v := t.values[s]
	return floatutils.Max(v[:]...)
}

// Set sets the action values of state s
func (t *Table) Set(s vision.State, v Values) {
	t.values[s] = v
}

// SetValue sets the value of action a in state s, adding s to the
// table if needed
func (t *Table) SetValue(s vision.State, a game.Action, value float64) {
	v := t.values[s]
	v[a] = value
	t.values[s] = v
}

// Has returns whether s has been added to the table
func (t *Table) Has(s vision.State) bool {
	_, ok := t.values[s]
	return ok
}

// Len returns the number of states in the table
func (t *Table) Len() int {
	return len(t.values)
}

// States returns the states in the table ordered by their keys
func (t *Table) States() []vision.State {
	states := make([]vision.State, 0, len(t.values))
	for s := range t.values {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Key() < states[j].Key()
	})
	return states
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	c := New()
	for s, v := range t.values {
		c.values[s] = v
	}
	return c
}

// MarshalJSON implements the json.Marshaler interface. States are
// written by their text key, in key order.
func (t *Table) MarshalJSON() ([]byte, error) {
	doc := make(map[string]Values, len(t.values))
	for s, v := range t.values {
		if !floatutils.Finite(v[:]...) {
			return nil, fmt.Errorf("marshaljson: non-finite values %v in "+
				"state %v", v, s)
		}
		doc[s.Key()] = v
	}
	return json.Marshal(doc)
}

// UnmarshalJSON implements the json.Unmarshaler interface. The whole
// document must decode, otherwise the table is left unchanged.
func (t *Table) UnmarshalJSON(data []byte) error {
	var doc map[string][]float64
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshaljson: %w: %v", ErrMalformed, err)
	}
	if doc == nil {
		return fmt.Errorf("unmarshaljson: %w: document is not an object",
			ErrMalformed)
	}

	values := make(map[vision.State]Values, len(doc))
	for key, row := range doc {
		s, err := vision.ParseKey(key)
		if err != nil {
			return fmt.Errorf("unmarshaljson: %w: %v", ErrMalformed, err)
		}
		if len(row) != game.NumActions {
			return fmt.Errorf("unmarshaljson: %w: wrong number of action "+
				"values for %q\n\twant(%v)\n\thave(%v)", ErrMalformed, key,
				game.NumActions, len(row))
		}
		var v Values
		copy(v[:], row)
		values[s] = v
	}

	t.values = values
	return nil
}

// Load reads a table from the JSON document at path. If there is no
// such file, the returned error wraps fs.ErrNotExist.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	t := New()
	if err := t.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("load: %v: %w", path, err)
	}
	return t, nil
}

// Save writes the table to path as an indented JSON document. The file
// is replaced atomically so that an interrupted save never leaves a
// partial table behind.
func (t *Table) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "\t")
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func (t *Table) String() string {
	return fmt.Sprintf("QTable | States: %d", t.Len())
}
