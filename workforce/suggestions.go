package workforce

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AbsenceWindowDays is how far back (inclusive) an absence still raises an alert.
const AbsenceWindowDays = 3

// Suggestion is an operational alert.
type Suggestion struct {
	Title    string
	Body     string
	Priority Priority
}

// GenerateSuggestions evaluates every rule against s and returns all that
// fire, in rule order: recent absences, blocked work orders, contractor
// balances above threshold. When nothing fires the result is a single
// low-priority all-clear entry, so it is never empty.
func GenerateSuggestions(s Snapshot, now time.Time, threshold decimal.Decimal) []Suggestion {
	today := DateOf(now)
	var suggestions []Suggestion

	for _, labourer := range s.OrderedLabourers() {
		absence, ok := latestAbsence(labourer, today)
		if !ok {
			continue
		}
		daysAgo := DaysBetween(absence.Date, today)
		if daysAgo > AbsenceWindowDays {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Title:    fmt.Sprintf("Resolve attendance dip for %s", labourer.Name),
			Body:     fmt.Sprintf("%s missed work %d day(s) ago. Trigger the attendance recovery playbook and align contractor.", labourer.Name, daysAgo),
			Priority: PriorityHigh,
		})
	}

	for _, order := range s.OrderedWorkOrders() {
		if order.Status != WorkOrderBlocked {
			continue
		}
		contractor := "Contractor"
		if c, ok := s.Contractors[order.ContractorID]; ok {
			contractor = c.Name
		}
		notes := order.Notes
		if strings.TrimSpace(notes) == "" {
			notes = "Reason not logged"
		}
		suggestions = append(suggestions, Suggestion{
			Title:    fmt.Sprintf("Unblock %s", order.Title),
			Body:     fmt.Sprintf("%s reports a block: %s. Prepare follow-up plan to secure fittings and reschedule crew.", contractor, notes),
			Priority: PriorityMedium,
		})
	}

	for _, contractor := range s.OrderedContractors() {
		if !contractor.Balance.GreaterThan(threshold) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Title:    fmt.Sprintf("Schedule payout for %s", contractor.Name),
			Body:     fmt.Sprintf("%s balance is %s. Prepare negotiation script to part-release funds.", contractor.Company, FormatRupees(contractor.Balance)),
			Priority: PriorityMedium,
		})
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, Suggestion{
			Title:    "All clear",
			Body:     "No urgent escalations detected. Continue monitoring attendance and work order timelines.",
			Priority: PriorityLow,
		})
	}
	return suggestions
}

// latestAbsence finds the most recent absent record dated today or earlier.
func latestAbsence(l Labourer, today Date) (AttendanceRecord, bool) {
	var latest AttendanceRecord
	found := false
	for _, rec := range l.Attendance {
		if rec.Status != StatusAbsent || rec.Date.After(today) {
			continue
		}
		if !found || rec.Date.After(latest.Date) {
			latest = rec
			found = true
		}
	}
	return latest, found
}

// FormatRupees renders an amount with the rupee sign and Indian digit
// grouping: 1234567.5 becomes ₹12,34,567.5.
func FormatRupees(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	text := amount.Round(2).String()
	whole, frac, _ := strings.Cut(text, ".")

	var grouped string
	if len(whole) <= 3 {
		grouped = whole
	} else {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(append(parts, tail), ",")
	}
	if frac != "" {
		grouped += "." + frac
	}
	return sign + "₹" + grouped
}
