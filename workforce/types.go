/*
Package workforce provides the workforce ledger and payout computation engine.

PURPOSE:
  This package holds the authoritative in-memory state of a labour-contracting
  operation: labourers and their day-level attendance, contractors and their
  running balances, and the work orders crews are assigned to. On top of that
  state it computes payout statements for a date range and a prioritized list
  of operational alerts.

KEY CONCEPTS IN THIS FILE (types.go):
  - Labourer: A worker with an hourly rate and an attendance history
  - AttendanceRecord: One day's status/hours entry for one labourer
  - Contractor: Supervises a crew and carries a running balance
  - WorkOrder: A job with a lifecycle status and an assigned crew

DESIGN PRINCIPLES:
  1. Single owner: Only the Ledger mutates these records; callers get copies
  2. Precision: Rates, hours and balances use decimal.Decimal
  3. Type Safety: Strong typing for IDs prevents mixing labourer/contractor IDs
  4. Recompute on read: Payouts and suggestions are pure functions of a Snapshot

USAGE:
  ledger, err := workforce.NewLedger(population)
  err = ledger.RecordAttendance("lab-1", workforce.NewDate(2025, time.March, 3), workforce.StatusPresent, nil)
  summaries := ledger.ComputePayouts(from, to)

SEE ALSO:
  - ledger.go: The store and its mutation operations
  - payout.go: Payout computation
  - suggestions.go: Alert heuristics
*/
package workforce

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type LabourerID string
type ContractorID string
type WorkOrderID string

// =============================================================================
// STATUS TAGS
// =============================================================================

// AttendanceStatus is a labourer's status for a single day.
type AttendanceStatus string

const (
	StatusPresent  AttendanceStatus = "present"
	StatusAbsent   AttendanceStatus = "absent"
	StatusHalf     AttendanceStatus = "half"
	StatusOvertime AttendanceStatus = "overtime"
)

// AttendanceStatuses lists every status in display order.
var AttendanceStatuses = []AttendanceStatus{StatusPresent, StatusAbsent, StatusHalf, StatusOvertime}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalf, StatusOvertime:
		return true
	}
	return false
}

// WorkOrderStatus is a plain tag. Any status may follow any other; jobs get
// corrected by hand (completed back to in_progress, for example).
type WorkOrderStatus string

const (
	WorkOrderScheduled  WorkOrderStatus = "scheduled"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderCompleted  WorkOrderStatus = "completed"
	WorkOrderBlocked    WorkOrderStatus = "blocked"
)

// WorkOrderStatuses lists every work order status in board order.
var WorkOrderStatuses = []WorkOrderStatus{WorkOrderScheduled, WorkOrderInProgress, WorkOrderCompleted, WorkOrderBlocked}

func (s WorkOrderStatus) Valid() bool {
	switch s {
	case WorkOrderScheduled, WorkOrderInProgress, WorkOrderCompleted, WorkOrderBlocked:
		return true
	}
	return false
}

// Priority ranks a Suggestion.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// =============================================================================
// RECORDS
// =============================================================================

// AttendanceRecord is a single day's entry. A zero Hours value means the
// record carries no hours (always the case for absent days).
type AttendanceRecord struct {
	Date   Date
	Status AttendanceStatus
	Hours  decimal.Decimal
}

// HasHours reports whether the record carries an hours value.
func (r AttendanceRecord) HasHours() bool { return r.Hours.IsPositive() }

// Labourer is an individual worker. Rate is an hourly rate.
// Attendance is kept in insertion order with at most one record per date.
type Labourer struct {
	ID         LabourerID
	Name       string
	Role       string
	Rate       decimal.Decimal
	Attendance []AttendanceRecord
}

// AttendanceOn returns the record for date, if any.
func (l Labourer) AttendanceOn(date Date) (AttendanceRecord, bool) {
	for _, rec := range l.Attendance {
		if rec.Date.Equal(date) {
			return rec, true
		}
	}
	return AttendanceRecord{}, false
}

// Contractor supervises a crew. Balance is signed and may go negative
// after a payment release.
type Contractor struct {
	ID        ContractorID
	Name      string
	Company   string
	Contact   string
	Balance   decimal.Decimal
	Labourers []LabourerID
}

// WorkOrder is a schedulable job. EndDate is nil until the order first
// reaches completed.
type WorkOrder struct {
	ID             WorkOrderID
	Title          string
	ContractorID   ContractorID
	Labourers      []LabourerID
	Status         WorkOrderStatus
	StartDate      Date
	EndDate        *Date
	EstimatedHours decimal.Decimal
	Location       string
	Notes          string
}

// PaymentRelease is an audit entry written by Ledger.ReleasePayment.
type PaymentRelease struct {
	ID           string
	ContractorID ContractorID
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	ReleasedAt   Date
}

// =============================================================================
// COPY HELPERS
// =============================================================================

func (l Labourer) clone() Labourer {
	l.Attendance = append([]AttendanceRecord(nil), l.Attendance...)
	return l
}

func (c Contractor) clone() Contractor {
	c.Labourers = append([]LabourerID(nil), c.Labourers...)
	return c
}

func (w WorkOrder) clone() WorkOrder {
	w.Labourers = append([]LabourerID(nil), w.Labourers...)
	if w.EndDate != nil {
		end := *w.EndDate
		w.EndDate = &end
	}
	return w
}
