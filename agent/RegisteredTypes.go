package agent

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/samuelfneumann/snakelearn/environment"
)

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
type Type string

const (
	Human     Type = "human"
	RuleBased Type = "rule-based"
	QLearning Type = "q-learning"
	Sarsa     Type = "sarsa"
	DeepQ     Type = "dqn"
)

// Registered types with the package. Once a Type has been registered
// with this map, a TypedConfig with that type can be created and
// deserialized.
//
// No Type's are registered wtih this package upon initialization.
// Each separate package is in charge of registering its Type with
// the package separately to avoid circular imports.
var registeredTypes = make(map[Type]Config)

// Register registers an agent's Type with its default Config so that
// upon deserialization of a TypedConfig, the Config is deserialized
// into the concrete type over these defaults.
//
// The default Config must be a struct value, not a pointer.
func Register(agentType Type, defaults Config) {
	if reflect.TypeOf(defaults).Kind() != reflect.Struct {
		panic(fmt.Sprintf("register: default config for %v must be a "+
			"struct value, have %T", agentType, defaults))
	}
	registeredTypes[agentType] = defaults
}

// Registered returns all registered Types in sorted order
func Registered() []Type {
	types := make([]Type, 0, len(registeredTypes))
	for t := range registeredTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Default returns the default Config registered for agentType
func Default(agentType Type) (Config, error) {
	c, ok := registeredTypes[agentType]
	if !ok {
		return nil, fmt.Errorf("default: unregistered agent type %q "+
			"(registered: %v)", agentType, Registered())
	}
	return c, nil
}

// New creates an agent of type agentType with its default Config
func New(agentType Type, env environment.Environment,
	opts Options) (Agent, error) {
	c, err := Default(agentType)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	return NewTypedConfig(c).Create(env, opts)
}
