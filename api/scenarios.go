/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built site populations for demos and manual testing. Each
  scenario is built relative to "today" so attendance, absences and work
  orders look current whenever it is loaded.

AVAILABLE SCENARIOS:
  nashik-site:    Two contractors, a recent absence, a blocked job and a
                  contractor due a payout
  quiet-week:     Full attendance, nothing blocked, balances under threshold
  payout-crunch:  Every contractor above the payout threshold

HOW SCENARIOS WORK:
  1. Build the population for today
  2. Replace the ledger contents atomically (payment history is cleared)
  3. If a sink is configured, save the population there too

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "nashik-site"}

ADDING NEW SCENARIOS:
  1. Add to 'scenarios' slice with ID, name, description
  2. Add a builder to 'scenarioBuilders'

SEE ALSO:
  - handlers.go: Handler and error helpers
  - cmd/server/main.go: -scenario flag boots with one of these
*/
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/workforce-ledger/workforce"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "nashik-site",
		Name:        "Nashik Site",
		Description: "Two crews, a recent absence, a blocked plumbing job and a contractor due a payout",
	},
	{
		ID:          "quiet-week",
		Name:        "Quiet Week",
		Description: "Full attendance, no blocked jobs, balances under the payout threshold",
	},
	{
		ID:          "payout-crunch",
		Name:        "Payout Crunch",
		Description: "Every contractor is carrying a balance above the payout threshold",
	},
}

var scenarioBuilders = map[string]func(today workforce.Date) workforce.Population{
	"nashik-site":   nashikSite,
	"quiet-week":    quietWeek,
	"payout-crunch": payoutCrunch,
}

// ScenarioPopulation builds the named scenario as of today.
func ScenarioPopulation(id string, today workforce.Date) (workforce.Population, error) {
	build, ok := scenarioBuilders[id]
	if !ok {
		return workforce.Population{}, fmt.Errorf("unknown scenario %q", id)
	}
	return build(today), nil
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.CurrentScenario()
	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario replaces the ledger contents with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	pop, err := ScenarioPopulation(req.ScenarioID, workforce.DateOf(h.Now()))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown scenario", err)
		return
	}

	if err := h.Ledger.Replace(pop); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	if h.Sink != nil {
		if err := h.Sink.Save(r.Context(), pop); err != nil {
			writeError(w, http.StatusInternalServerError, "Scenario loaded but not saved", err)
			return
		}
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()
	log.Printf("[Scenarios] Loaded %s: %d labourers, %d contractors, %d work orders",
		req.ScenarioID, len(pop.Labourers), len(pop.Contractors), len(pop.WorkOrders))

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// CurrentScenario returns the id of the last scenario loaded, or "".
func (h *Handler) CurrentScenario() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentScenario
}

// SetCurrentScenario records a scenario loaded outside the HTTP surface.
func (h *Handler) SetCurrentScenario(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentScenario = id
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

func num(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func present(d workforce.Date) workforce.AttendanceRecord {
	return workforce.AttendanceRecord{Date: d, Status: workforce.StatusPresent, Hours: num(8)}
}

// week returns six working days of attendance ending today, with overrides
// applied by days-ago offset.
func week(today workforce.Date, overrides map[int]workforce.AttendanceRecord) []workforce.AttendanceRecord {
	var out []workforce.AttendanceRecord
	for ago := 5; ago >= 0; ago-- {
		d := today.AddDays(-ago)
		rec := present(d)
		if o, ok := overrides[ago]; ok {
			o.Date = d
			rec = o
		}
		out = append(out, rec)
	}
	return out
}

func nashikSite(today workforce.Date) workforce.Population {
	absent := workforce.AttendanceRecord{Status: workforce.StatusAbsent}
	half := workforce.AttendanceRecord{Status: workforce.StatusHalf, Hours: num(4)}
	overtime := workforce.AttendanceRecord{Status: workforce.StatusOvertime, Hours: num(10)}
	finished := today.AddDays(-2)

	return workforce.Population{
		Labourers: []workforce.Labourer{
			{ID: "lab-1", Name: "Ravi Kumar", Role: "Mason", Rate: num(200), Attendance: week(today, map[int]workforce.AttendanceRecord{1: overtime})},
			{ID: "lab-2", Name: "Sunita Devi", Role: "Helper", Rate: num(150), Attendance: week(today, map[int]workforce.AttendanceRecord{1: absent})},
			{ID: "lab-3", Name: "Imran Shaikh", Role: "Electrician", Rate: num(250), Attendance: week(today, map[int]workforce.AttendanceRecord{3: half})},
			{ID: "lab-4", Name: "Prakash Jadhav", Role: "Plumber", Rate: num(220), Attendance: week(today, nil)},
		},
		Contractors: []workforce.Contractor{
			{ID: "con-1", Name: "Mahesh Patil", Company: "Patil Constructions", Contact: "+91 98200 00001", Balance: num(52000), Labourers: []workforce.LabourerID{"lab-1", "lab-2"}},
			{ID: "con-2", Name: "Farah Qureshi", Company: "Qureshi Services", Contact: "+91 98200 00002", Balance: num(18000), Labourers: []workforce.LabourerID{"lab-3", "lab-4"}},
		},
		WorkOrders: []workforce.WorkOrder{
			{ID: "wo-1", Title: "Slab casting, block B", ContractorID: "con-1", Labourers: []workforce.LabourerID{"lab-1", "lab-2"},
				Status: workforce.WorkOrderInProgress, StartDate: today.AddDays(-5), EstimatedHours: num(96), Location: "Nashik Road"},
			{ID: "wo-2", Title: "Bathroom plumbing", ContractorID: "con-2", Labourers: []workforce.LabourerID{"lab-4"},
				Status: workforce.WorkOrderBlocked, StartDate: today.AddDays(-4), EstimatedHours: num(40), Location: "Gangapur", Notes: "CPVC fittings not delivered"},
			{ID: "wo-3", Title: "Wiring, ground floor", ContractorID: "con-2", Labourers: []workforce.LabourerID{"lab-3"},
				Status: workforce.WorkOrderCompleted, StartDate: today.AddDays(-9), EndDate: &finished, EstimatedHours: num(32), Location: "Gangapur"},
			{ID: "wo-4", Title: "Site cleanup", Status: workforce.WorkOrderScheduled, StartDate: today.AddDays(2), EstimatedHours: num(16)},
		},
	}
}

func quietWeek(today workforce.Date) workforce.Population {
	return workforce.Population{
		Labourers: []workforce.Labourer{
			{ID: "lab-1", Name: "Ravi Kumar", Role: "Mason", Rate: num(200), Attendance: week(today, nil)},
			{ID: "lab-2", Name: "Sunita Devi", Role: "Helper", Rate: num(150), Attendance: week(today, nil)},
		},
		Contractors: []workforce.Contractor{
			{ID: "con-1", Name: "Mahesh Patil", Company: "Patil Constructions", Contact: "+91 98200 00001", Balance: num(12000), Labourers: []workforce.LabourerID{"lab-1", "lab-2"}},
		},
		WorkOrders: []workforce.WorkOrder{
			{ID: "wo-1", Title: "Compound wall", ContractorID: "con-1", Labourers: []workforce.LabourerID{"lab-1", "lab-2"},
				Status: workforce.WorkOrderInProgress, StartDate: today.AddDays(-5), EstimatedHours: num(80), Location: "Satpur"},
		},
	}
}

func payoutCrunch(today workforce.Date) workforce.Population {
	return workforce.Population{
		Labourers: []workforce.Labourer{
			{ID: "lab-1", Name: "Ravi Kumar", Role: "Mason", Rate: num(200), Attendance: week(today, nil)},
			{ID: "lab-2", Name: "Imran Shaikh", Role: "Electrician", Rate: num(250), Attendance: week(today, nil)},
			{ID: "lab-3", Name: "Prakash Jadhav", Role: "Plumber", Rate: num(220), Attendance: week(today, nil)},
		},
		Contractors: []workforce.Contractor{
			{ID: "con-1", Name: "Mahesh Patil", Company: "Patil Constructions", Contact: "+91 98200 00001", Balance: num(64000), Labourers: []workforce.LabourerID{"lab-1"}},
			{ID: "con-2", Name: "Farah Qureshi", Company: "Qureshi Services", Contact: "+91 98200 00002", Balance: num(48500), Labourers: []workforce.LabourerID{"lab-2"}},
			{ID: "con-3", Name: "Sanjay More", Company: "More & Sons", Contact: "+91 98200 00003", Balance: num(41000), Labourers: []workforce.LabourerID{"lab-3"}},
		},
	}
}
