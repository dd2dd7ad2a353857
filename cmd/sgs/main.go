package main

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"log"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/smartgrid/sgs_core/internal/pkg/grid"
	"github.com/smartgrid/sgs_core/internal/pkg/load"
	"github.com/smartgrid/sgs_core/internal/pkg/source"
)

func main() {
	log.Println("[Main] Starting SGS_Core v0.0.1")

	log.Println("[Main] Building Grid")
	gm, err := buildGrid("./config/grid.json")
	if err != nil {
		panic(err)
	}

	runMenu(&gm, bufio.NewScanner(os.Stdin))
	log.Println("[Main] Stopping simulator")
}

func buildGrid(configPath string) (grid.Manager, error) {
	jsonConfig, err := ioutil.ReadFile(configPath)
	if err != nil {
		return grid.Manager{}, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return grid.New(jsonConfig, rng)
}

func runMenu(gm *grid.Manager, in *bufio.Scanner) {
	for {
		fmt.Println("\n=== Smart Grid Menu ===")
		fmt.Println("1. Run simulation cycle")
		fmt.Println("2. Inject fault")
		fmt.Println("3. Resolve fault")
		fmt.Println("4. Disconnect load")
		fmt.Println("5. Reconnect load")
		fmt.Println("6. Show breaker states")
		fmt.Println("7. Add new load")
		fmt.Println("8. Add new source")
		fmt.Println("0. Exit")
		fmt.Print("Enter choice: ")

		switch prompt(in) {
		case "1":
			renderReport(gm.RunCycle())
		case "2":
			injectFault(gm, in)
		case "3":
			resolveFault(gm, in)
		case "4":
			setLoadConnectivity(gm, in, false)
		case "5":
			setLoadConnectivity(gm, in, true)
		case "6":
			renderBreakers(gm.BreakerSnapshot())
		case "7":
			addLoad(gm, in)
		case "8":
			addSource(gm, in)
		case "0":
			fmt.Println("Exiting simulation.")
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

func prompt(in *bufio.Scanner) string {
	if !in.Scan() {
		return "0"
	}
	return strings.TrimSpace(in.Text())
}

func renderReport(report grid.Report) {
	fmt.Println("\n=== Cycle ===")
	for _, src := range report.Sources {
		fmt.Printf("[Source] %v: %.1fkW, Connected: %v, Breaker: %v\n",
			src.Name, src.KW, yesNo(src.Connected), okTripped(src.Tripped))
	}
	for _, l := range report.Loads {
		fmt.Printf("[Load] %v: %.1fkW, Priority: %d, Connected: %v, Breaker: %v\n",
			l.Name, l.DemandKW, l.Priority, yesNo(l.Connected), okTripped(l.Tripped))
	}
	fmt.Printf("Total Power: %.1fkW\n", report.TotalPowerKW)
	fmt.Printf("Total Demand: %.1fkW\n", report.TotalDemandKW)
	for _, name := range report.Shed {
		fmt.Printf("[Trip] Load %v tripped due to overload.\n", name)
	}
	for _, name := range report.Restored {
		fmt.Printf("[Reconnect] Load %v reconnected.\n", name)
	}
	for _, name := range report.ActiveFaults {
		fmt.Printf("[Fault] Active: %v\n", name)
	}
}

func renderBreakers(snapshot map[string]bool) {
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\n[Breaker Status]")
	for _, name := range names {
		fmt.Printf("%v: %v\n", name, okTripped(snapshot[name]))
	}
}

func injectFault(gm *grid.Manager, in *bufio.Scanner) {
	fmt.Println("Select target to fault:")
	for _, src := range gm.Sources() {
		fmt.Printf("Source: %v\n", src.Name())
	}
	for _, l := range gm.Loads() {
		fmt.Printf("Load: %v\n", l.Name())
	}
	fmt.Print("Target name: ")
	name := prompt(in)

	if err := gm.InjectFault(name); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("[Fault] Injected at %v\n", name)
}

func resolveFault(gm *grid.Manager, in *bufio.Scanner) {
	faults := gm.Faults()
	if len(faults) == 0 {
		fmt.Println("No active faults.")
		return
	}
	fmt.Println("Active faults:")
	for _, name := range faults {
		fmt.Printf("%v\n", name)
	}
	fmt.Print("Fault name: ")
	name := prompt(in)

	if err := gm.ResolveFault(name); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("[Fault] Resolved: %v\n", name)
}

func setLoadConnectivity(gm *grid.Manager, in *bufio.Scanner, connected bool) {
	for i, l := range gm.Loads() {
		fmt.Printf("%d: %v\n", i, l.Name())
	}
	fmt.Print("Load index: ")
	index, err := strconv.Atoi(prompt(in))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	if err := gm.SetLoadConnectivity(index, connected); err != nil {
		fmt.Println("Error:", err)
	}
}

func addLoad(gm *grid.Manager, in *bufio.Scanner) {
	fmt.Print("Name: ")
	name := prompt(in)

	fmt.Print("Demand (kW): ")
	demand, err := strconv.ParseFloat(prompt(in), 64)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Print("Priority: ")
	priority, err := strconv.Atoi(prompt(in))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	if err := gm.AddLoad(load.Config{Name: name, DemandKW: demand, Priority: priority}); err != nil {
		fmt.Println("Error:", err)
	}
}

func addSource(gm *grid.Manager, in *bufio.Scanner) {
	fmt.Print("Name: ")
	name := prompt(in)

	fmt.Print("Rated power (kW): ")
	power, err := strconv.ParseFloat(prompt(in), 64)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Print("Type (fixed/renewable/fluctuating): ")
	srcType := prompt(in)

	if err := gm.AddSource(source.Config{Name: name, Type: srcType, RatedKW: power}); err != nil {
		fmt.Println("Error:", err)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func okTripped(tripped bool) string {
	if tripped {
		return "TRIPPED"
	}
	return "OK"
}
