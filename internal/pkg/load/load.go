package load

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// DefaultPriority is assigned to loads whose config omits the Priority
// field. Higher numeric priority marks a more important load.
const DefaultPriority = 5

// Config represents the static properties of a load
type Config struct {
	Name     string  `json:"Name"`
	DemandKW float64 `json:"DemandKW"`
	Priority int     `json:"Priority"`
}

// UnmarshalJSON fills in DefaultPriority before decoding, so an omitted
// Priority field defaults to 5 while an explicit zero stays zero.
func (c *Config) UnmarshalJSON(data []byte) error {
	type config Config
	cfg := config{Priority: DefaultPriority}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	*c = Config(cfg)
	return nil
}

// Load is a data structure for a single demand asset. All shedding and
// restoration decisions live in the grid controller; a Load only holds state.
type Load struct {
	pid       uuid.UUID
	config    Config
	connected bool
}

// New returns a configured Load. Priority is taken as configured; zero is a
// legal (lowest-importance) priority.
func New(config Config) (Load, error) {
	if config.Name == "" {
		return Load{}, errors.New("load config: empty Name")
	}

	pid, err := uuid.NewUUID()
	if err != nil {
		return Load{}, err
	}

	return Load{pid: pid, config: config, connected: true}, nil
}

// PID is a getter for the load PID
func (l Load) PID() uuid.UUID {
	return l.pid
}

// Name is a getter for the load Name
func (l Load) Name() string {
	return l.config.Name
}

// DemandKW is a getter for the configured demand.
func (l Load) DemandKW() float64 {
	return l.config.DemandKW
}

// Priority is a getter for the load priority.
func (l Load) Priority() int {
	return l.config.Priority
}

// Connected reports whether the load draws from the grid.
func (l Load) Connected() bool {
	return l.connected
}

// Disconnect removes the load from the grid. Its breaker is untouched.
func (l *Load) Disconnect() {
	l.connected = false
}

// Reconnect restores the load to the grid.
func (l *Load) Reconnect() {
	l.connected = true
}
