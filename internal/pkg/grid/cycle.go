package grid

import (
	"log"
	"sort"

	"github.com/smartgrid/sgs_core/internal/pkg/msg"
)

// SourceStatus is one source's line in a cycle Report.
type SourceStatus struct {
	Name      string  `json:"Name"`
	KW        float64 `json:"KW"`
	Renewable bool    `json:"Renewable"`
	Connected bool    `json:"Connected"`
	Tripped   bool    `json:"Tripped"`
}

// LoadStatus is one load's line in a cycle Report.
type LoadStatus struct {
	Name      string  `json:"Name"`
	DemandKW  float64 `json:"DemandKW"`
	Priority  int     `json:"Priority"`
	Connected bool    `json:"Connected"`
	Tripped   bool    `json:"Tripped"`
}

// Report is the structured result of one balancing cycle. Totals are the
// final values after shedding or restoration.
type Report struct {
	TotalPowerKW  float64        `json:"TotalPowerKW"`
	TotalDemandKW float64        `json:"TotalDemandKW"`
	Sources       []SourceStatus `json:"Sources"`
	Loads         []LoadStatus   `json:"Loads"`
	Shed          []string       `json:"Shed"`
	Restored      []string       `json:"Restored"`
	ActiveFaults  []string       `json:"ActiveFaults"`
}

// RunCycle executes one balancing cycle: tally power against demand, then
// shed or restore loads by priority. The Report is returned and broadcast
// on the Status topic.
func (gm *Manager) RunCycle() Report {
	gm.mux.Lock()
	defer gm.mux.Unlock()
	return gm.runCycle()
}

// runCycle is the cycle body. Callers hold gm.mux.
func (gm *Manager) runCycle() Report {
	report := Report{}

	totalPower := 0.0
	for i := range gm.sources {
		src := &gm.sources[i]
		if gm.panel.Tripped(src.Name()) {
			continue
		}
		output := src.ProduceOutput(gm.rng)
		if src.Connected() {
			totalPower += output
		}
	}

	totalDemand := 0.0
	for i := range gm.loads {
		l := &gm.loads[i]
		if gm.panel.Tripped(l.Name()) {
			continue
		}
		if l.Connected() {
			totalDemand += l.DemandKW()
		}
	}

	log.Printf("[Grid] total power: %.1fkW total demand: %.1fkW", totalPower, totalDemand)

	if totalPower < totalDemand {
		log.Println("[Grid] power deficit detected, tripping loads by priority")
		report.Shed = gm.shedLoads(totalPower, &totalDemand)
	} else {
		report.Restored = gm.restoreLoads(totalPower, &totalDemand)
	}

	report.TotalPowerKW = totalPower
	report.TotalDemandKW = totalDemand
	report.Sources = gm.sourceStatus()
	report.Loads = gm.loadStatus()
	report.ActiveFaults = make([]string, len(gm.faults))
	copy(report.ActiveFaults, gm.faults)

	for _, name := range report.ActiveFaults {
		log.Printf("[Grid] active fault: %v", name)
	}

	gm.publisher.Publish(msg.Status, report)
	return report
}

// shedLoads disconnects connected loads in descending priority order until
// demand no longer exceeds power, tripping each shed load's breaker.
func (gm *Manager) shedLoads(totalPower float64, totalDemand *float64) []string {
	candidates := make([]int, 0, len(gm.loads))
	for i := range gm.loads {
		if gm.loads[i].Connected() {
			candidates = append(candidates, i)
		}
	}
	// stable: equal priorities shed in insertion order
	sort.SliceStable(candidates, func(a, b int) bool {
		return gm.loads[candidates[a]].Priority() > gm.loads[candidates[b]].Priority()
	})

	var shed []string
	for _, i := range candidates {
		l := &gm.loads[i]
		l.Disconnect()
		if b, err := gm.panel.Get(l.Name()); err == nil {
			b.Trip()
		}
		log.Printf("[Trip] load %v tripped due to overload", l.Name())
		shed = append(shed, l.Name())
		gm.publisher.Publish(msg.Trip, l.Name())
		*totalDemand -= l.DemandKW()
		if totalPower >= *totalDemand {
			break
		}
	}
	return shed
}

// restoreLoads reconnects restorable loads in ascending priority order.
// A candidate is restored only if the running surplus covers its demand;
// a tripped breaker always blocks restoration.
func (gm *Manager) restoreLoads(totalPower float64, totalDemand *float64) []string {
	candidates := make([]int, 0, len(gm.loads))
	for i := range gm.loads {
		l := &gm.loads[i]
		if !l.Connected() && !gm.panel.Tripped(l.Name()) {
			candidates = append(candidates, i)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return gm.loads[candidates[a]].Priority() < gm.loads[candidates[b]].Priority()
	})

	var restored []string
	for _, i := range candidates {
		l := &gm.loads[i]
		if totalPower >= *totalDemand+l.DemandKW() {
			l.Reconnect()
			log.Printf("[Reconnect] load %v reconnected", l.Name())
			restored = append(restored, l.Name())
			*totalDemand += l.DemandKW()
		}
	}
	return restored
}

func (gm *Manager) sourceStatus() []SourceStatus {
	status := make([]SourceStatus, len(gm.sources))
	for i, src := range gm.sources {
		status[i] = SourceStatus{
			Name:      src.Name(),
			KW:        src.OutputKW(),
			Renewable: src.Renewable(),
			Connected: src.Connected(),
			Tripped:   gm.panel.Tripped(src.Name()),
		}
	}
	return status
}

func (gm *Manager) loadStatus() []LoadStatus {
	status := make([]LoadStatus, len(gm.loads))
	for i, l := range gm.loads {
		status[i] = LoadStatus{
			Name:      l.Name(),
			DemandKW:  l.DemandKW(),
			Priority:  l.Priority(),
			Connected: l.Connected(),
			Tripped:   gm.panel.Tripped(l.Name()),
		}
	}
	return status
}
