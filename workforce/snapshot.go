/*
snapshot.go - Point-in-time view of the ledger

PURPOSE:
  A Snapshot is a self-contained copy of every collection, keyed by id,
  together with the insertion order of each collection. Payouts,
  suggestions and overview metrics are pure functions of a Snapshot, so
  they are recomputed on every read and never cached.

BUILDING:
  NewSnapshot validates and normalizes a Population:
  - ids must be non-empty and unique per collection
  - a labourer belongs to at most one contractor
  - contractor crews and work orders must reference known records
  - duplicate (labourer, date) attendance collapses, last entry wins
  - absent records drop any hours value; other records without positive
    hours get the attendance policy default
*/
package workforce

import "sort"

// Snapshot is an immutable view handed out by the Ledger.
type Snapshot struct {
	Labourers   map[LabourerID]Labourer
	Contractors map[ContractorID]Contractor
	WorkOrders  map[WorkOrderID]WorkOrder

	LabourerOrder   []LabourerID
	ContractorOrder []ContractorID
	WorkOrderOrder  []WorkOrderID
}

// NewSnapshot validates pop and builds a Snapshot that owns copies of its
// records, filling missing hours from DefaultAttendancePolicy.
func NewSnapshot(pop Population) (Snapshot, error) {
	return buildSnapshot(pop, DefaultAttendancePolicy())
}

func buildSnapshot(pop Population, policy AttendancePolicy) (Snapshot, error) {
	pop = pop.Clone()
	s := Snapshot{
		Labourers:   make(map[LabourerID]Labourer, len(pop.Labourers)),
		Contractors: make(map[ContractorID]Contractor, len(pop.Contractors)),
		WorkOrders:  make(map[WorkOrderID]WorkOrder, len(pop.WorkOrders)),
	}

	for _, l := range pop.Labourers {
		if l.ID == "" {
			return Snapshot{}, populationErrorf("labourer %q has an empty id", l.Name)
		}
		if _, dup := s.Labourers[l.ID]; dup {
			return Snapshot{}, populationErrorf("duplicate labourer id %q", l.ID)
		}
		attendance, err := normalizeAttendance(l.Attendance, policy)
		if err != nil {
			return Snapshot{}, populationErrorf("labourer %q: %v", l.ID, err)
		}
		l.Attendance = attendance
		s.Labourers[l.ID] = l
		s.LabourerOrder = append(s.LabourerOrder, l.ID)
	}

	owner := make(map[LabourerID]ContractorID)
	for _, c := range pop.Contractors {
		if c.ID == "" {
			return Snapshot{}, populationErrorf("contractor %q has an empty id", c.Name)
		}
		if _, dup := s.Contractors[c.ID]; dup {
			return Snapshot{}, populationErrorf("duplicate contractor id %q", c.ID)
		}
		for _, lid := range c.Labourers {
			if _, ok := s.Labourers[lid]; !ok {
				return Snapshot{}, populationErrorf("contractor %q references unknown labourer %q", c.ID, lid)
			}
			if prev, taken := owner[lid]; taken {
				return Snapshot{}, populationErrorf("labourer %q belongs to both %q and %q", lid, prev, c.ID)
			}
			owner[lid] = c.ID
		}
		s.Contractors[c.ID] = c
		s.ContractorOrder = append(s.ContractorOrder, c.ID)
	}

	for _, w := range pop.WorkOrders {
		if w.ID == "" {
			return Snapshot{}, populationErrorf("work order %q has an empty id", w.Title)
		}
		if _, dup := s.WorkOrders[w.ID]; dup {
			return Snapshot{}, populationErrorf("duplicate work order id %q", w.ID)
		}
		if !w.Status.Valid() {
			return Snapshot{}, populationErrorf("work order %q has unknown status %q", w.ID, w.Status)
		}
		if w.ContractorID != "" {
			if _, ok := s.Contractors[w.ContractorID]; !ok {
				return Snapshot{}, populationErrorf("work order %q references unknown contractor %q", w.ID, w.ContractorID)
			}
		}
		for _, lid := range w.Labourers {
			if _, ok := s.Labourers[lid]; !ok {
				return Snapshot{}, populationErrorf("work order %q references unknown labourer %q", w.ID, lid)
			}
		}
		s.WorkOrders[w.ID] = w
		s.WorkOrderOrder = append(s.WorkOrderOrder, w.ID)
	}

	return s, nil
}

func normalizeAttendance(records []AttendanceRecord, policy AttendancePolicy) ([]AttendanceRecord, error) {
	out := make([]AttendanceRecord, 0, len(records))
	index := make(map[Date]int, len(records))
	for _, rec := range records {
		if !rec.Status.Valid() {
			return nil, &InvalidStatusError{Kind: "attendance", Status: string(rec.Status)}
		}
		hours := rec.Hours
		rec.Hours = policy.HoursFor(rec.Status, &hours)
		if i, seen := index[rec.Date]; seen {
			out[i] = rec
			continue
		}
		index[rec.Date] = len(out)
		out = append(out, rec)
	}
	return out, nil
}

// clone deep-copies the snapshot so the copy shares nothing with s.
func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Labourers:       make(map[LabourerID]Labourer, len(s.Labourers)),
		Contractors:     make(map[ContractorID]Contractor, len(s.Contractors)),
		WorkOrders:      make(map[WorkOrderID]WorkOrder, len(s.WorkOrders)),
		LabourerOrder:   append([]LabourerID(nil), s.LabourerOrder...),
		ContractorOrder: append([]ContractorID(nil), s.ContractorOrder...),
		WorkOrderOrder:  append([]WorkOrderID(nil), s.WorkOrderOrder...),
	}
	for id, l := range s.Labourers {
		out.Labourers[id] = l.clone()
	}
	for id, c := range s.Contractors {
		out.Contractors[id] = c.clone()
	}
	for id, w := range s.WorkOrders {
		out.WorkOrders[id] = w.clone()
	}
	return out
}

// =============================================================================
// ORDERED ACCESS
// =============================================================================

func (s Snapshot) OrderedLabourers() []Labourer {
	out := make([]Labourer, 0, len(s.LabourerOrder))
	for _, id := range s.LabourerOrder {
		out = append(out, s.Labourers[id])
	}
	return out
}

func (s Snapshot) OrderedContractors() []Contractor {
	out := make([]Contractor, 0, len(s.ContractorOrder))
	for _, id := range s.ContractorOrder {
		out = append(out, s.Contractors[id])
	}
	return out
}

func (s Snapshot) OrderedWorkOrders() []WorkOrder {
	out := make([]WorkOrder, 0, len(s.WorkOrderOrder))
	for _, id := range s.WorkOrderOrder {
		out = append(out, s.WorkOrders[id])
	}
	return out
}

// Population returns the snapshot's records as an ordered Population.
func (s Snapshot) Population() Population {
	return Population{
		Labourers:   s.OrderedLabourers(),
		Contractors: s.OrderedContractors(),
		WorkOrders:  s.OrderedWorkOrders(),
	}.Clone()
}

// ContractorOf returns the contractor supervising a labourer.
func (s Snapshot) ContractorOf(id LabourerID) (Contractor, bool) {
	for _, cid := range s.ContractorOrder {
		c := s.Contractors[cid]
		for _, lid := range c.Labourers {
			if lid == id {
				return c, true
			}
		}
	}
	return Contractor{}, false
}

// AttendanceDates returns every distinct date recorded by any labourer, ascending.
func (s Snapshot) AttendanceDates() []Date {
	seen := make(map[Date]bool)
	var dates []Date
	for _, id := range s.LabourerOrder {
		for _, rec := range s.Labourers[id].Attendance {
			if !seen[rec.Date] {
				seen[rec.Date] = true
				dates = append(dates, rec.Date)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
