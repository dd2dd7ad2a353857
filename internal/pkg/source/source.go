package source

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Kind discriminates the power source variants.
type Kind int

const (
	// Fixed sources generate their rated output every cycle.
	Fixed Kind = iota
	// Fluctuating sources redraw their output in [20,50) kW every cycle.
	Fluctuating
)

// Fluctuating output bounds, kW.
const (
	fluctuatingFloorKW = 20.0
	fluctuatingSpanKW  = 30.0
)

// ErrUnknownType is returned when a config names an unrecognized source type.
var ErrUnknownType = errors.New("unknown source type")

// Config represents the static properties of a power source
type Config struct {
	Name      string  `json:"Name"`
	Type      string  `json:"Type"`
	RatedKW   float64 `json:"RatedKW"`
	Renewable bool    `json:"Renewable"`
}

// Source is a data structure for a single generating asset.
type Source struct {
	pid       uuid.UUID
	config    Config
	kind      Kind
	renewable bool
	outputKW  float64
	connected bool
}

// New returns a configured Source. Type is one of "fixed", "renewable"
// (fixed output with the renewable flag set) or "fluctuating".
func New(config Config) (Source, error) {
	if config.Name == "" {
		return Source{}, errors.New("source config: empty Name")
	}

	var kind Kind
	renewable := config.Renewable
	switch config.Type {
	case "fixed":
		kind = Fixed
	case "renewable":
		kind = Fixed
		renewable = true
	case "fluctuating":
		kind = Fluctuating
		renewable = true
	default:
		return Source{}, fmt.Errorf("source %q type %q: %w", config.Name, config.Type, ErrUnknownType)
	}

	pid, err := uuid.NewUUID()
	if err != nil {
		return Source{}, err
	}

	return Source{
		pid:       pid,
		config:    config,
		kind:      kind,
		renewable: renewable,
		outputKW:  config.RatedKW,
		connected: true,
	}, nil
}

// PID is a getter for the source PID
func (s Source) PID() uuid.UUID {
	return s.pid
}

// Name is a getter for the source Name
func (s Source) Name() string {
	return s.config.Name
}

// Kind returns the source variant tag.
func (s Source) Kind() Kind {
	return s.kind
}

// Renewable reports whether the source is renewable.
func (s Source) Renewable() bool {
	return s.renewable
}

// RatedKW is a getter for the configured rated output.
func (s Source) RatedKW() float64 {
	return s.config.RatedKW
}

// OutputKW returns the output produced on the most recent cycle.
func (s Source) OutputKW() float64 {
	return s.outputKW
}

// Connected reports whether the source participates in the grid.
func (s Source) Connected() bool {
	return s.connected
}

// Disconnect removes the source from the grid. Its breaker is untouched.
func (s *Source) Disconnect() {
	s.connected = false
}

// Reconnect restores the source to the grid.
func (s *Source) Reconnect() {
	s.connected = true
}

// ProduceOutput computes the source output for one cycle and caches it for
// reporting. Fixed sources generate their rated output; fluctuating sources
// draw a new value in [20,50) kW from rng.
func (s *Source) ProduceOutput(rng *rand.Rand) float64 {
	switch s.kind {
	case Fluctuating:
		s.outputKW = fluctuatingFloorKW + rng.Float64()*fluctuatingSpanKW
	default:
		s.outputKW = s.config.RatedKW
	}
	return s.outputKW
}
