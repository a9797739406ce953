package multiply

// Note: Factory.Register takes the unexported coreMultiplier type, so only the
// Multiplier interface is mocked.

import (
	"fmt"
	"sort"
	"sync"
)

// Factory is a thread-safe registry of product strategies. Instances are
// created lazily and cached.
type Factory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreMultiplier
	multipliers map[string]Multiplier
}

// NewDefaultFactory returns a Factory with the standard strategies
// registered:
//   - "naive": triple loop, O(n³)
//   - "strassen": recursive, O(n^2.81), parallel top level
func NewDefaultFactory() *Factory {
	f := &Factory{
		creators:    make(map[string]func() coreMultiplier),
		multipliers: make(map[string]Multiplier),
	}
	f.Register("naive", func() coreMultiplier { return Naive{} })
	f.Register("strassen", func() coreMultiplier { return Strassen{} })
	return f
}

// Register adds or replaces a strategy. A cached instance of the same name
// is dropped so that the next Get uses the new creator.
func (f *Factory) Register(name string, creator func() coreMultiplier) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	delete(f.multipliers, name)
}

// Get returns the cached Multiplier registered under name, creating it on
// first use.
//
// Parameters:
//   - name: The registry key (e.g. "strassen").
//
// Returns:
//   - Multiplier: The decorated strategy.
//   - error: An error if no strategy is registered under name.
func (f *Factory) Get(name string) (Multiplier, error) {
	f.mu.RLock()
	if m, ok := f.multipliers[name]; ok {
		f.mu.RUnlock()
		return m, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.multipliers[name]; ok {
		return m, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm: %s", name)
	}
	m := NewMultiplier(creator())
	f.multipliers[name] = m
	return m, nil
}

// List returns the registered names in alphabetical order.
func (f *Factory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves an algorithm selector. "all" yields every registered
// strategy in List order; any other value must name a single strategy.
func (f *Factory) Select(algo string) ([]Multiplier, error) {
	if algo != "all" {
		m, err := f.Get(algo)
		if err != nil {
			return nil, err
		}
		return []Multiplier{m}, nil
	}
	names := f.List()
	out := make([]Multiplier, 0, len(names))
	for _, name := range names {
		m, err := f.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
