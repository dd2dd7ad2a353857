package breaker

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrDuplicateName is returned when a component name already owns a breaker.
	ErrDuplicateName = errors.New("duplicate component name")
	// ErrUnknownComponent is returned when no breaker exists for a name.
	ErrUnknownComponent = errors.New("unknown component")
)

// Breaker is a protective on/off latch for a single named component. Its
// state is independent of the component's own connect flag.
type Breaker struct {
	name    string
	tripped bool
}

// New returns a closed breaker for the named component.
func New(name string) *Breaker {
	return &Breaker{name: name}
}

// Name is a getter for the owning component name
func (b Breaker) Name() string {
	return b.name
}

// Trip opens the breaker. Idempotent.
func (b *Breaker) Trip() {
	b.tripped = true
}

// Reset closes the breaker. Idempotent.
func (b *Breaker) Reset() {
	b.tripped = false
}

// Tripped reports whether the breaker is open.
func (b Breaker) Tripped() bool {
	return b.tripped
}

// Panel owns one breaker per registered component name. Breakers are created
// when their component is added and are never removed.
type Panel struct {
	mux      *sync.Mutex
	breakers map[string]*Breaker
	order    []string
}

// NewPanel returns an empty breaker panel.
func NewPanel() *Panel {
	breakers := make(map[string]*Breaker)
	return &Panel{&sync.Mutex{}, breakers, nil}
}

// Add registers a breaker for name. Names are unique across the whole panel.
func (p *Panel) Add(name string) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	if _, exists := p.breakers[name]; exists {
		return fmt.Errorf("breaker %q: %w", name, ErrDuplicateName)
	}
	p.breakers[name] = New(name)
	p.order = append(p.order, name)
	return nil
}

// Get returns the breaker owned by name.
func (p *Panel) Get(name string) (*Breaker, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	b, exists := p.breakers[name]
	if !exists {
		return nil, fmt.Errorf("breaker %q: %w", name, ErrUnknownComponent)
	}
	return b, nil
}

// Tripped reports whether name's breaker is open. An unregistered name
// reads as not tripped.
func (p *Panel) Tripped(name string) bool {
	p.mux.Lock()
	defer p.mux.Unlock()
	if b, exists := p.breakers[name]; exists {
		return b.tripped
	}
	return false
}

// Snapshot returns the open/closed state of every breaker, keyed by name.
func (p *Panel) Snapshot() map[string]bool {
	p.mux.Lock()
	defer p.mux.Unlock()
	snap := make(map[string]bool, len(p.breakers))
	for name, b := range p.breakers {
		snap[name] = b.tripped
	}
	return snap
}

// Names returns every registered component name in insertion order.
func (p *Panel) Names() []string {
	p.mux.Lock()
	defer p.mux.Unlock()
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}
