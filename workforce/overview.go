package workforce

import "github.com/shopspring/decimal"

// =============================================================================
// OVERVIEW - Headline metrics
// =============================================================================

// Overview holds the dashboard's headline numbers.
type Overview struct {
	LatestDate      *Date // nil when nothing has been recorded
	LabourerCount   int
	PresentOnLatest int
	PresentRate     int // whole percent present on LatestDate
	BlockedJobs     int
	TotalBalance    decimal.Decimal
}

// ComputeOverview counts attendance on the latest recorded date, blocked work
// orders and the summed contractor balance.
func ComputeOverview(s Snapshot) Overview {
	o := Overview{
		LabourerCount: len(s.LabourerOrder),
		TotalBalance:  decimal.Zero,
	}

	if dates := s.AttendanceDates(); len(dates) > 0 {
		latest := dates[len(dates)-1]
		o.LatestDate = &latest
		for _, labourer := range s.OrderedLabourers() {
			if rec, ok := labourer.AttendanceOn(latest); ok && rec.Status != StatusAbsent {
				o.PresentOnLatest++
			}
		}
		if o.LabourerCount > 0 {
			o.PresentRate = int(decimal.NewFromInt(int64(o.PresentOnLatest * 100)).
				Div(decimal.NewFromInt(int64(o.LabourerCount))).
				Round(0).IntPart())
		}
	}

	for _, order := range s.WorkOrders {
		if order.Status == WorkOrderBlocked {
			o.BlockedJobs++
		}
	}
	for _, c := range s.Contractors {
		o.TotalBalance = o.TotalBalance.Add(c.Balance)
	}
	return o
}

// =============================================================================
// CONTRACTOR LEDGER - Crew cost and runway
// =============================================================================

// ContractorPosition summarizes a contractor's crew cost against balance.
type ContractorPosition struct {
	Contractor    Contractor
	LabourerCount int
	DailyBurn     decimal.Decimal // sum of crew rates
	Runway        int64           // balance / max(burn, 1), rounded
}

// ComputeContractorLedger returns one position per contractor in insertion order.
func ComputeContractorLedger(s Snapshot) []ContractorPosition {
	one := decimal.NewFromInt(1)
	positions := make([]ContractorPosition, 0, len(s.ContractorOrder))
	for _, c := range s.OrderedContractors() {
		burn := decimal.Zero
		for _, lid := range c.Labourers {
			if l, ok := s.Labourers[lid]; ok {
				burn = burn.Add(l.Rate)
			}
		}
		positions = append(positions, ContractorPosition{
			Contractor:    c,
			LabourerCount: len(c.Labourers),
			DailyBurn:     burn,
			Runway:        c.Balance.Div(decimal.Max(burn, one)).Round(0).IntPart(),
		})
	}
	return positions
}

// =============================================================================
// WORK ORDER BOARD
// =============================================================================

// GroupWorkOrders buckets work orders by status, insertion order within each
// bucket. Every status has a key, possibly with an empty slice.
func GroupWorkOrders(s Snapshot) map[WorkOrderStatus][]WorkOrder {
	board := make(map[WorkOrderStatus][]WorkOrder, len(WorkOrderStatuses))
	for _, status := range WorkOrderStatuses {
		board[status] = []WorkOrder{}
	}
	for _, order := range s.OrderedWorkOrders() {
		board[order.Status] = append(board[order.Status], order)
	}
	return board
}
