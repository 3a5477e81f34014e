/*
ledger.go - The workforce ledger store

PURPOSE:
  The Ledger is the single owner of labourers, contractors and work
  orders. It exposes one mutation entry point per concern and hands out
  deep copies for every read.

CRITICAL INVARIANTS:
  1. At most one attendance record per (labourer, date). Recording an
     already-recorded date replaces the record in place.
  2. Absent records never carry hours.
  3. Contractor balance changes only through ReleasePayment.
  4. Work order status changes only through SetWorkOrderStatus. EndDate
     is stamped the first time an order is completed and never moved.

CONCURRENCY:
  One sync.RWMutex covers the whole store. Mutations hold the write lock;
  reads hold the read lock while copying, so a read never observes a
  half-applied write. Every operation is O(1) to O(#labourers).

SEE ALSO:
  - snapshot.go: What reads return
  - payout.go, suggestions.go, overview.go: Pure functions over a Snapshot
*/
package workforce

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPayoutThreshold is the contractor balance above which a payout
// release is suggested.
var DefaultPayoutThreshold = decimal.NewFromInt(40000)

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	mu       sync.RWMutex
	state    Snapshot
	releases []PaymentRelease

	now       func() time.Time
	policy    AttendancePolicy
	threshold decimal.Decimal
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the wall clock used for end-date stamping and
// suggestion recency.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithAttendancePolicy(p AttendancePolicy) Option {
	return func(l *Ledger) { l.policy = p }
}

func WithPayoutThreshold(threshold decimal.Decimal) Option {
	return func(l *Ledger) { l.threshold = threshold }
}

// NewLedger validates pop and returns a Ledger that owns a copy of it.
func NewLedger(pop Population, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		now:       time.Now,
		policy:    DefaultAttendancePolicy(),
		threshold: DefaultPayoutThreshold,
	}
	for _, opt := range opts {
		opt(l)
	}
	state, err := buildSnapshot(pop, l.policy)
	if err != nil {
		return nil, err
	}
	l.state = state
	return l, nil
}

// Replace swaps the whole population atomically. The payment history is cleared.
func (l *Ledger) Replace(pop Population) error {
	state, err := buildSnapshot(pop, l.policy)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = state
	l.releases = nil
	return nil
}

func (l *Ledger) today() Date { return DateOf(l.now()) }

// =============================================================================
// COMMANDS
// =============================================================================

// RecordAttendance stores the day's status for a labourer, replacing any
// record already present for that date. hours may be nil; non-absent
// statuses without a positive value get the policy default.
func (l *Ledger) RecordAttendance(id LabourerID, date Date, status AttendanceStatus, hours *decimal.Decimal) error {
	if !status.Valid() {
		return &InvalidStatusError{Kind: "attendance", Status: string(status)}
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	labourer, ok := l.state.Labourers[id]
	if !ok {
		return &NotFoundError{Kind: "labourer", ID: string(id)}
	}
	l.putAttendanceLocked(labourer, AttendanceRecord{
		Date:   date,
		Status: status,
		Hours:  l.policy.HoursFor(status, hours),
	})
	return nil
}

// ToggleAttendance flips a day between status and absent: a day already
// marked with status becomes absent, anything else (including a day with no
// record) becomes status. Returns the stored record.
func (l *Ledger) ToggleAttendance(id LabourerID, date Date, status AttendanceStatus) (AttendanceRecord, error) {
	if !status.Valid() {
		return AttendanceRecord{}, &InvalidStatusError{Kind: "attendance", Status: string(status)}
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	labourer, ok := l.state.Labourers[id]
	if !ok {
		return AttendanceRecord{}, &NotFoundError{Kind: "labourer", ID: string(id)}
	}
	existing := StatusAbsent
	if rec, found := labourer.AttendanceOn(date); found {
		existing = rec.Status
	}
	next := status
	if existing == status {
		next = StatusAbsent
	}
	rec := AttendanceRecord{Date: date, Status: next, Hours: l.policy.HoursFor(next, nil)}
	l.putAttendanceLocked(labourer, rec)
	return rec, nil
}

func (l *Ledger) putAttendanceLocked(labourer Labourer, rec AttendanceRecord) {
	attendance := append([]AttendanceRecord(nil), labourer.Attendance...)
	replaced := false
	for i := range attendance {
		if attendance[i].Date.Equal(rec.Date) {
			attendance[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		attendance = append(attendance, rec)
	}
	labourer.Attendance = attendance
	l.state.Labourers[labourer.ID] = labourer
}

// ReleasePayment decrements a contractor's balance by amount. The balance
// has no floor and may go negative.
func (l *Ledger) ReleasePayment(id ContractorID, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	contractor, ok := l.state.Contractors[id]
	if !ok {
		return &NotFoundError{Kind: "contractor", ID: string(id)}
	}
	if !amount.IsPositive() {
		return &InvalidAmountError{Amount: amount}
	}
	contractor.Balance = contractor.Balance.Sub(amount)
	l.state.Contractors[id] = contractor

	l.releases = append(l.releases, PaymentRelease{
		ID:           uuid.NewString(),
		ContractorID: id,
		Amount:       amount,
		BalanceAfter: contractor.Balance,
		ReleasedAt:   l.today(),
	})
	return nil
}

// SetWorkOrderStatus overwrites a work order's status. Any transition is
// allowed. Completing an order without an end date stamps today.
func (l *Ledger) SetWorkOrderStatus(id WorkOrderID, status WorkOrderStatus) error {
	if !status.Valid() {
		return &InvalidStatusError{Kind: "work order", Status: string(status)}
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.state.WorkOrders[id]
	if !ok {
		return &NotFoundError{Kind: "work order", ID: string(id)}
	}
	order.Status = status
	if status == WorkOrderCompleted && order.EndDate == nil {
		end := l.today()
		order.EndDate = &end
	}
	l.state.WorkOrders[id] = order
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Snapshot returns a consistent deep copy of the whole store.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.clone()
}

func (l *Ledger) Labourers() map[LabourerID]Labourer       { return l.Snapshot().Labourers }
func (l *Ledger) Contractors() map[ContractorID]Contractor { return l.Snapshot().Contractors }
func (l *Ledger) WorkOrders() map[WorkOrderID]WorkOrder    { return l.Snapshot().WorkOrders }

func (l *Ledger) LabourerList() []Labourer     { return l.Snapshot().OrderedLabourers() }
func (l *Ledger) ContractorList() []Contractor { return l.Snapshot().OrderedContractors() }
func (l *Ledger) WorkOrderList() []WorkOrder   { return l.Snapshot().OrderedWorkOrders() }

// Labourer looks up a single labourer.
func (l *Ledger) Labourer(id LabourerID) (Labourer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	labourer, ok := l.state.Labourers[id]
	if !ok {
		return Labourer{}, &NotFoundError{Kind: "labourer", ID: string(id)}
	}
	return labourer.clone(), nil
}

// AttendanceDates returns the distinct attendance dates, ascending.
func (l *Ledger) AttendanceDates() []Date {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.AttendanceDates()
}

// PaymentReleases returns a contractor's release history, oldest first.
func (l *Ledger) PaymentReleases(id ContractorID) ([]PaymentRelease, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.state.Contractors[id]; !ok {
		return nil, &NotFoundError{Kind: "contractor", ID: string(id)}
	}
	out := []PaymentRelease{}
	for _, r := range l.releases {
		if r.ContractorID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l *Ledger) ComputePayouts(from, to Date) []PayoutSummary {
	return ComputePayouts(l.Snapshot(), from, to)
}

func (l *Ledger) GenerateSuggestions() []Suggestion {
	return GenerateSuggestions(l.Snapshot(), l.now(), l.threshold)
}

func (l *Ledger) Overview() Overview { return ComputeOverview(l.Snapshot()) }

func (l *Ledger) ContractorLedger() []ContractorPosition {
	return ComputeContractorLedger(l.Snapshot())
}

func (l *Ledger) WorkOrderBoard() map[WorkOrderStatus][]WorkOrder {
	return GroupWorkOrders(l.Snapshot())
}
