package workforce

import (
	"sort"

	"github.com/shopspring/decimal"
)

// UnassignedContractor is the contractor name reported for a labourer no
// contractor supervises.
const UnassignedContractor = "Unassigned"

// =============================================================================
// PAYOUT SUMMARY
// =============================================================================

// PayoutSummary aggregates one labourer's attendance over a date range.
type PayoutSummary struct {
	LabourerID     LabourerID
	LabourerName   string
	Role           string
	ContractorID   ContractorID // empty when unassigned
	ContractorName string
	TotalDays      int
	TotalHours     decimal.Decimal
	Rate           decimal.Decimal
	PayableAmount  decimal.Decimal
}

// ComputePayouts aggregates attendance in [from, to] for every labourer with
// at least one record in range, in labourer insertion order. Absent days
// count as recorded but add no days and no hours. An inverted range yields
// an empty result.
func ComputePayouts(s Snapshot, from, to Date) []PayoutSummary {
	summaries := []PayoutSummary{}
	if from.After(to) {
		return summaries
	}

	for _, labourer := range s.OrderedLabourers() {
		matched := 0
		days := 0
		hours := decimal.Zero
		for _, rec := range labourer.Attendance {
			if !rec.Date.Within(from, to) {
				continue
			}
			matched++
			if rec.Status != StatusAbsent {
				days++
			}
			hours = hours.Add(rec.Hours)
		}
		if matched == 0 {
			continue
		}

		summary := PayoutSummary{
			LabourerID:     labourer.ID,
			LabourerName:   labourer.Name,
			Role:           labourer.Role,
			ContractorName: UnassignedContractor,
			TotalDays:      days,
			TotalHours:     hours,
			Rate:           labourer.Rate,
			PayableAmount:  hours.Mul(labourer.Rate),
		}
		if c, ok := s.ContractorOf(labourer.ID); ok {
			summary.ContractorID = c.ID
			summary.ContractorName = c.Name
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// TotalPayable sums PayableAmount across a statement.
func TotalPayable(summaries []PayoutSummary) decimal.Decimal {
	total := decimal.Zero
	for _, s := range summaries {
		total = total.Add(s.PayableAmount)
	}
	return total
}

// SortByPayable orders summaries by payable amount, highest first. Ties keep
// their input order.
func SortByPayable(summaries []PayoutSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].PayableAmount.GreaterThan(summaries[j].PayableAmount)
	})
}
