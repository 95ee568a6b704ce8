// Package config holds the SPRESSO configuration surface: per-grant
// settings, endpoint tables, JSON schema bindings, forwarder selection
// strategies and caching policy — the Go-native reshaping of
// spresso/model/settings.py's dynamic Entry/Container/SelectionContainer
// hierarchy into generic, compile-time-checked containers.
package config

import "math/rand"

// Entry is anything a Container can hold, keyed by its own name.
type Entry interface {
	EntryName() string
}

// Container is a named collection of Entry values, generic over the
// concrete entry type so callers never type-assert their way back out.
type Container[T Entry] struct {
	items map[string]T
}

// NewContainer builds a Container pre-populated with entries.
func NewContainer[T Entry](entries ...T) *Container[T] {
	c := &Container[T]{items: make(map[string]T, len(entries))}
	for _, e := range entries {
		c.Update(e)
	}
	return c
}

// Update inserts or replaces an entry, keyed by its EntryName.
func (c *Container[T]) Update(e T) {
	if c.items == nil {
		c.items = make(map[string]T)
	}
	c.items[e.EntryName()] = e
}

// Get returns the entry registered under name, if any.
func (c *Container[T]) Get(name string) (T, bool) {
	e, ok := c.items[name]
	return e, ok
}

// All returns every entry in the container.
func (c *Container[T]) All() map[string]T {
	return c.items
}

// SelectionStrategy picks which entry SelectionContainer.Select returns.
type SelectionStrategy int

const (
	// StrategySelect returns the entry matching the requested name,
	// falling back to the "default" entry if there is no exact match.
	StrategySelect SelectionStrategy = iota
	// StrategyRandom ignores the requested name and returns a uniformly
	// random entry from the container.
	StrategyRandom
)

// DefaultEntryName is the key SelectionContainer falls back to under
// StrategySelect.
const DefaultEntryName = "default"

// SelectionContainer is a Container with a selection policy layered on
// top, mirroring spresso.model.settings.SelectionContainer's "random" and
// "select" strategies.
type SelectionContainer[T Entry] struct {
	Container[T]
	strategy SelectionStrategy
}

// NewSelectionContainer builds a SelectionContainer with the given
// strategy and initial entries.
func NewSelectionContainer[T Entry](strategy SelectionStrategy, entries ...T) *SelectionContainer[T] {
	return &SelectionContainer[T]{Container: *NewContainer(entries...), strategy: strategy}
}

// UpdateDefault registers value under DefaultEntryName, the fallback used
// by StrategySelect when no entry matches the requested name.
func (c *SelectionContainer[T]) UpdateDefault(value T) {
	if c.items == nil {
		c.items = make(map[string]T)
	}
	c.items[DefaultEntryName] = value
}

// Select returns an entry per the container's strategy. Under
// StrategySelect, name selects a specific entry falling back to the
// default; under StrategyRandom, name is ignored.
func (c *SelectionContainer[T]) Select(name string) (T, bool) {
	switch c.strategy {
	case StrategySelect:
		if e, ok := c.Get(name); ok {
			return e, true
		}
		return c.Get(DefaultEntryName)
	case StrategyRandom:
		items := c.All()
		if len(items) == 0 {
			var zero T
			return zero, false
		}
		keys := make([]string, 0, len(items))
		for k := range items {
			keys = append(keys, k)
		}
		return items[keys[rand.Intn(len(keys))]], true
	default:
		var zero T
		return zero, false
	}
}
