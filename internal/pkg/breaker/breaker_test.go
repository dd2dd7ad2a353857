package breaker

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestTripReset(t *testing.T) {
	b := New("HydroStation")
	assert.Assert(t, b.Tripped() == false)

	b.Trip()
	assert.Assert(t, b.Tripped() == true)

	// idempotent
	b.Trip()
	assert.Assert(t, b.Tripped() == true)

	b.Reset()
	assert.Assert(t, b.Tripped() == false)

	b.Reset()
	assert.Assert(t, b.Tripped() == false)

	assert.Equal(t, b.Name(), "HydroStation")
}

func TestPanelAdd(t *testing.T) {
	p := NewPanel()

	assert.NilError(t, p.Add("SolarFarm-A"))
	assert.NilError(t, p.Add("Factory-A"))

	err := p.Add("SolarFarm-A")
	assert.Assert(t, errors.Is(err, ErrDuplicateName))

	// the rejected add must not disturb the registry
	assert.Equal(t, len(p.Names()), 2)
}

func TestPanelGet(t *testing.T) {
	p := NewPanel()
	assert.NilError(t, p.Add("House-B"))

	b, err := p.Get("House-B")
	assert.NilError(t, err)
	assert.Equal(t, b.Name(), "House-B")

	_, err = p.Get("Shop-C")
	assert.Assert(t, errors.Is(err, ErrUnknownComponent))
}

func TestPanelTripped(t *testing.T) {
	p := NewPanel()
	assert.NilError(t, p.Add("Factory-A"))

	assert.Assert(t, p.Tripped("Factory-A") == false)

	b, _ := p.Get("Factory-A")
	b.Trip()
	assert.Assert(t, p.Tripped("Factory-A") == true)

	// unregistered names read as closed
	assert.Assert(t, p.Tripped("nonexistent") == false)
}

func TestPanelSnapshot(t *testing.T) {
	p := NewPanel()
	assert.NilError(t, p.Add("SolarFarm-A"))
	assert.NilError(t, p.Add("Factory-A"))
	assert.NilError(t, p.Add("House-B"))

	b, _ := p.Get("Factory-A")
	b.Trip()

	snap := p.Snapshot()
	assert.Equal(t, len(snap), 3)
	assert.Assert(t, snap["SolarFarm-A"] == false)
	assert.Assert(t, snap["Factory-A"] == true)
	assert.Assert(t, snap["House-B"] == false)
}

func TestPanelNamesOrder(t *testing.T) {
	p := NewPanel()
	assert.NilError(t, p.Add("SolarFarm-A"))
	assert.NilError(t, p.Add("HydroStation"))
	assert.NilError(t, p.Add("Factory-A"))

	names := p.Names()
	assert.DeepEqual(t, names, []string{"SolarFarm-A", "HydroStation", "Factory-A"})
}
