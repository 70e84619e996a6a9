package agent

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/samuelfneumann/snakelearn/environment"
)

// TypedConfig implements functionality for typing a Config. In this
// way, a Config can explicitly have its type stored so that when
// deserializing the Config, we can deserialize it into its concrete
// type without knowing beforehand or declaring beforehand a variable
// of its concrete type.
//
// A TypedConfig with a nil Config stands for the registered defaults
// of its Type.
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig types the argument Config and returns it as a
// TypedConfig which explicitly holds its Type.
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Type: c.Type(), Config: c}
}

// UnmarshalJSON implements the json.Unmarshaller interface. Fields
// missing from the JSON keep their registered default values.
func (t *TypedConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshaljson: %w", err)
	}

	defaults, err := Default(raw.Type)
	if err != nil {
		return fmt.Errorf("unmarshaljson: %w", err)
	}

	// Decode into a deep copy so that slices and pointers in the
	// registered defaults are never written through
	value := reflect.New(reflect.TypeOf(defaults))
	encoded, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("unmarshaljson: could not copy %v defaults: %w",
			raw.Type, err)
	}
	if err := json.Unmarshal(encoded, value.Interface()); err != nil {
		return fmt.Errorf("unmarshaljson: could not copy %v defaults: %w",
			raw.Type, err)
	}
	if len(raw.Config) > 0 && string(raw.Config) != "null" {
		if err := json.Unmarshal(raw.Config, value.Interface()); err != nil {
			return fmt.Errorf("unmarshaljson: could not decode %v config: %w",
				raw.Type, err)
		}
	}

	t.Type = raw.Type
	t.Config = value.Elem().Interface().(Config)
	return nil
}

// Resolve returns the Config, falling back to the registered defaults
// of the Type if no Config is set
func (t TypedConfig) Resolve() (Config, error) {
	if t.Config != nil {
		if t.Config.Type() != t.Type {
			return nil, fmt.Errorf("resolve: config type mismatch"+
				"\n\twant(%v)\n\thave(%v)", t.Type, t.Config.Type())
		}
		return t.Config, nil
	}
	return Default(t.Type)
}

// WithType returns a TypedConfig of type agentType. If agentType is
// the current Type, the Config is kept; otherwise the registered
// defaults of agentType are used.
func (t TypedConfig) WithType(agentType Type) (TypedConfig, error) {
	if agentType == t.Type && t.Config != nil {
		return t, nil
	}
	c, err := Default(agentType)
	if err != nil {
		return TypedConfig{}, fmt.Errorf("withtype: %w", err)
	}
	return NewTypedConfig(c), nil
}

// Create validates the Config and creates the agent it describes
func (t TypedConfig) Create(env environment.Environment,
	opts Options) (Agent, error) {
	c, err := t.Resolve()
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: invalid %v config: %w", t.Type, err)
	}
	return c.CreateAgent(env, opts)
}
