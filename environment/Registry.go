package environment

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

// Factory constructs a registered Environment. The randomProb argument
// is the probability with which the environment replaces the action
// chosen at each step by a uniformly random action.
type Factory func(randomProb float64, seed uint64) (Environment, error)

// Registered environments. Once an id has been registered with this map,
// an Environment with that id can be created with Make.
//
// No environments are registered with this package upon initialization.
// Each package implementing environments registers its own ids to
// avoid circular imports.
var registered map[string]Factory

func init() {
	registered = make(map[string]Factory)
}

// Register registers an environment id with a Factory so that the
// environment can later be constructed by name with Make. Register
// panics if id is empty, factory is nil, or id is already registered.
func Register(id string, factory Factory) {
	if id == "" {
		panic("register: environment id cannot be empty")
	}
	if factory == nil {
		panic(fmt.Sprintf("register: nil factory for environment %v", id))
	}
	if _, ok := registered[id]; ok {
		panic(fmt.Sprintf("register: environment %v already registered", id))
	}

	log.Debug("registering environment", "id", id)
	registered[id] = factory
}

// Make constructs the environment registered under id
func Make(id string, randomProb float64, seed uint64) (Environment, error) {
	factory, ok := registered[id]
	if !ok {
		return nil, fmt.Errorf("make: no such environment %v", id)
	}

	env, err := factory(randomProb, seed)
	if err != nil {
		return nil, fmt.Errorf("make: could not create environment %v: %w",
			id, err)
	}
	return env, nil
}

// Registered returns the sorted ids of all registered environments
func Registered() []string {
	ids := make([]string, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
