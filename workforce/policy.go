package workforce

import "github.com/shopspring/decimal"

// =============================================================================
// ATTENDANCE POLICY - Default hours per status
// =============================================================================

// AttendancePolicy assigns the hours a status is worth when the caller does
// not supply a positive value. Absent is never looked up: absent days carry
// no hours.
type AttendancePolicy struct {
	Hours map[AttendanceStatus]decimal.Decimal
}

// DefaultAttendancePolicy is an 8 hour day, a 4 hour half day and a 10 hour
// overtime day.
func DefaultAttendancePolicy() AttendancePolicy {
	return AttendancePolicy{Hours: map[AttendanceStatus]decimal.Decimal{
		StatusPresent:  decimal.NewFromInt(8),
		StatusHalf:     decimal.NewFromInt(4),
		StatusOvertime: decimal.NewFromInt(10),
	}}
}

// HoursFor resolves the hours to store for a status. requested may be nil.
func (p AttendancePolicy) HoursFor(status AttendanceStatus, requested *decimal.Decimal) decimal.Decimal {
	if status == StatusAbsent {
		return decimal.Zero
	}
	if requested != nil && requested.IsPositive() {
		return *requested
	}
	return p.Hours[status]
}
