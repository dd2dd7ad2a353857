package grid

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/smartgrid/sgs_core/internal/pkg/breaker"
	"github.com/smartgrid/sgs_core/internal/pkg/load"
	"github.com/smartgrid/sgs_core/internal/pkg/msg"
	"github.com/smartgrid/sgs_core/internal/pkg/source"
)

// ErrInvalidIndex is returned when a load index is out of range.
var ErrInvalidIndex = errors.New("load index out of range")

// Config represents the initial grid composition
type Config struct {
	Name    string          `json:"Name"`
	Sources []source.Config `json:"Sources"`
	Loads   []load.Config   `json:"Loads"`
}

// Manager owns every source, load and breaker on the grid and runs the
// balancing cycle. A single mutex serializes all mutations; callers issue
// one command at a time.
type Manager struct {
	mux       *sync.Mutex
	pid       uuid.UUID
	publisher *msg.PubSub
	rng       *rand.Rand
	name      string
	sources   []source.Source
	loads     []load.Load
	panel     *breaker.Panel
	faults    []string
}

// New returns a Manager populated from jsonConfig. Sources and loads are
// registered through the same paths the command surface uses, so each
// configured source triggers a balancing cycle as it comes online. Sources
// register before any load attaches demand: a grid whose supply covers its
// demand boots fully connected with every breaker closed. The caller owns
// seeding of rng.
func New(jsonConfig []byte, rng *rand.Rand) (Manager, error) {
	config := Config{}
	err := json.Unmarshal(jsonConfig, &config)
	if err != nil {
		return Manager{}, err
	}

	if rng == nil {
		return Manager{}, errors.New("grid: nil rng")
	}

	pid, err := uuid.NewUUID()
	if err != nil {
		return Manager{}, err
	}

	gm := Manager{
		mux:       &sync.Mutex{},
		pid:       pid,
		publisher: msg.NewPublisher(pid),
		rng:       rng,
		name:      config.Name,
		panel:     breaker.NewPanel(),
	}

	for _, cfg := range config.Sources {
		if err := gm.AddSource(cfg); err != nil {
			return Manager{}, fmt.Errorf("grid %q: %w", config.Name, err)
		}
	}
	for _, cfg := range config.Loads {
		if err := gm.AddLoad(cfg); err != nil {
			return Manager{}, fmt.Errorf("grid %q: %w", config.Name, err)
		}
	}

	return gm, nil
}

// PID is a getter for the manager PID
func (gm *Manager) PID() uuid.UUID {
	return gm.pid
}

// Name is a getter for the grid Name
func (gm *Manager) Name() string {
	return gm.name
}

// Subscribe registers pid for broadcasts on topic. Part of msg.Publisher.
func (gm *Manager) Subscribe(pid uuid.UUID, topic msg.Topic) <-chan msg.Msg {
	return gm.publisher.Subscribe(pid, topic)
}

// Unsubscribe removes pid from all broadcasts. Part of msg.Publisher.
func (gm *Manager) Unsubscribe(pid uuid.UUID) {
	gm.publisher.Unsubscribe(pid)
}

// AddSource registers a new source and its breaker, then immediately runs a
// balancing cycle so the grid settles with the new capacity. A name already
// owning a breaker is rejected and no state changes.
func (gm *Manager) AddSource(cfg source.Config) error {
	gm.mux.Lock()
	defer gm.mux.Unlock()

	src, err := source.New(cfg)
	if err != nil {
		return err
	}
	if err := gm.panel.Add(src.Name()); err != nil {
		return err
	}
	gm.sources = append(gm.sources, src)

	gm.runCycle()
	return nil
}

// AddLoad registers a new load and its breaker. No cycle is run.
func (gm *Manager) AddLoad(cfg load.Config) error {
	gm.mux.Lock()
	defer gm.mux.Unlock()

	l, err := load.New(cfg)
	if err != nil {
		return err
	}
	if err := gm.panel.Add(l.Name()); err != nil {
		return err
	}
	gm.loads = append(gm.loads, l)
	return nil
}

// SetLoadConnectivity is a manual override of a load's connect flag,
// independent of its breaker. No cycle is run.
func (gm *Manager) SetLoadConnectivity(index int, connected bool) error {
	gm.mux.Lock()
	defer gm.mux.Unlock()

	if index < 0 || index >= len(gm.loads) {
		return fmt.Errorf("load %d: %w", index, ErrInvalidIndex)
	}
	if connected {
		gm.loads[index].Reconnect()
	} else {
		gm.loads[index].Disconnect()
	}
	return nil
}

// BreakerSnapshot returns the open/closed state of every breaker by name.
func (gm *Manager) BreakerSnapshot() map[string]bool {
	gm.mux.Lock()
	defer gm.mux.Unlock()
	return gm.panel.Snapshot()
}

// Sources returns a copy of the registered sources in insertion order.
func (gm *Manager) Sources() []source.Source {
	gm.mux.Lock()
	defer gm.mux.Unlock()
	sources := make([]source.Source, len(gm.sources))
	copy(sources, gm.sources)
	return sources
}

// Loads returns a copy of the registered loads in insertion order.
func (gm *Manager) Loads() []load.Load {
	gm.mux.Lock()
	defer gm.mux.Unlock()
	loads := make([]load.Load, len(gm.loads))
	copy(loads, gm.loads)
	return loads
}

// Faults returns the active fault names in injection order.
func (gm *Manager) Faults() []string {
	gm.mux.Lock()
	defer gm.mux.Unlock()
	faults := make([]string, len(gm.faults))
	copy(faults, gm.faults)
	return faults
}
