package grid

import (
	"fmt"
	"log"

	"github.com/smartgrid/sgs_core/internal/pkg/breaker"
	"github.com/smartgrid/sgs_core/internal/pkg/msg"
)

// FaultEvent is broadcast on the Fault topic when a fault is injected or
// resolved.
type FaultEvent struct {
	Name     string `json:"Name"`
	Resolved bool   `json:"Resolved"`
}

// InjectFault asserts a manual fault on the named component: the name joins
// the active fault list and its breaker trips. Injecting on an
// already-faulted component is a no-op.
func (gm *Manager) InjectFault(name string) error {
	gm.mux.Lock()
	defer gm.mux.Unlock()

	b, err := gm.panel.Get(name)
	if err != nil {
		return err
	}

	for _, f := range gm.faults {
		if f == name {
			return nil
		}
	}

	gm.faults = append(gm.faults, name)
	b.Trip()
	log.Printf("[Fault] injected at %v", name)
	gm.publisher.Publish(msg.Fault, FaultEvent{Name: name})
	return nil
}

// ResolveFault clears a manual fault: the name leaves the active fault list,
// its breaker resets, and a balancing cycle runs immediately so the restored
// component is reconsidered.
func (gm *Manager) ResolveFault(name string) error {
	gm.mux.Lock()
	defer gm.mux.Unlock()

	at := -1
	for i, f := range gm.faults {
		if f == name {
			at = i
			break
		}
	}
	if at < 0 {
		return fmt.Errorf("fault %q: %w", name, breaker.ErrUnknownComponent)
	}

	b, err := gm.panel.Get(name)
	if err != nil {
		return err
	}

	gm.faults = append(gm.faults[:at], gm.faults[at+1:]...)
	b.Reset()
	log.Printf("[Fault] resolved: %v", name)
	gm.publisher.Publish(msg.Fault, FaultEvent{Name: name, Resolved: true})

	gm.runCycle()
	return nil
}
