// Package session keeps the per-user selection state of a parameter-entry
// UI: which effect is selected and the values currently entered for it.
package session

import (
	"fmt"
	"sync"

	"github.com/vk/beatfx/internal/effects"
)

// Selector tracks the selected effect and its current values. Values never
// survive an effect switch; selecting an effect always starts from its
// defaults. A Selector is safe for concurrent use.
type Selector struct {
	mu     sync.Mutex
	values effects.Values
}

// New returns a Selector with the first catalog effect selected.
func New() *Selector {
	return &Selector{values: effects.List()[0].Defaults()}
}

// Select switches to the named effect and applies its defaults.
func (s *Selector) Select(id string) error {
	def, ok := effects.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: '%s'", effects.ErrUnknownEffect, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = def.Defaults()
	return nil
}

// Selected returns the selected effect.
func (s *Selector) Selected() *effects.Definition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Effect()
}

// Set updates one value of the selected effect.
func (s *Selector) Set(param string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	def := s.values.Effect()
	if _, ok := def.Param(param); !ok {
		return fmt.Errorf("%w: effect '%s' has no param '%s'", effects.ErrUnknownParam, def.ID, param)
	}
	s.values = s.values.With(param, n)
	return nil
}

// Update applies several values at once. Nothing changes when any param id is
// unknown to the selected effect.
func (s *Selector) Update(values map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	def := s.values.Effect()
	for id := range values {
		if _, ok := def.Param(id); !ok {
			return fmt.Errorf("%w: effect '%s' has no param '%s'", effects.ErrUnknownParam, def.ID, id)
		}
	}
	next := s.values
	for id, n := range values {
		next = next.With(id, n)
	}
	s.values = next
	return nil
}

// State is a consistent snapshot of a Selector.
type State struct {
	Effect effects.ID
	Values map[string]int
	Err    error
}

// State returns the selected effect, its values and their validation error
// taken under one lock.
func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	def := s.values.Effect()
	return State{
		Effect: def.ID,
		Values: s.values.Map(),
		Err:    effects.Validate(def, s.values),
	}
}

// Values returns the current values keyed by param id.
func (s *Selector) Values() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Map()
}

// Error returns the validation error for the current values, or nil.
func (s *Selector) Error() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return effects.Validate(s.values.Effect(), s.values)
}

// Payload returns the serialized values for submission. It is blocked while
// the current values fail validation.
func (s *Selector) Payload() (effects.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := effects.CheckBounds(s.values); err != nil {
		return effects.Payload{}, err
	}
	def := s.values.Effect()
	if err := effects.Validate(def, s.values); err != nil {
		return effects.Payload{}, err
	}
	return effects.Payload{Type: def.ID, Params: effects.Serialize(def, s.values)}, nil
}
