package workforce_test

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-ledger/workforce"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var now = time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func day(d int) workforce.Date { return workforce.NewDate(2025, time.March, d) }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func hoursPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func testPopulation() workforce.Population {
	return workforce.Population{
		Labourers: []workforce.Labourer{
			{ID: "lab-1", Name: "Ravi Kumar", Role: "Mason", Rate: dec(200)},
			{ID: "lab-2", Name: "Sunita Devi", Role: "Helper", Rate: dec(150)},
			{ID: "lab-3", Name: "Arjun Singh", Role: "Electrician", Rate: dec(300)},
		},
		Contractors: []workforce.Contractor{
			{ID: "con-1", Name: "Mahesh Patil", Company: "Patil Constructions", Contact: "+91 98200 00001", Balance: dec(40000), Labourers: []workforce.LabourerID{"lab-1", "lab-2"}},
			{ID: "con-2", Name: "Farah Khan", Company: "Khan Electricals", Contact: "+91 98200 00002", Balance: dec(12000)},
		},
		WorkOrders: []workforce.WorkOrder{
			{ID: "wo-1", Title: "Slab casting, Block A", ContractorID: "con-1", Labourers: []workforce.LabourerID{"lab-1"}, Status: workforce.WorkOrderScheduled, StartDate: day(1), EstimatedHours: dec(80), Location: "Pune"},
			{ID: "wo-2", Title: "Wiring, Tower 2", ContractorID: "con-2", Status: workforce.WorkOrderInProgress, StartDate: day(2), EstimatedHours: dec(40), Location: "Pune", Notes: "Awaiting conduit delivery"},
		},
	}
}

func newTestLedger(t *testing.T) *workforce.Ledger {
	t.Helper()
	ledger, err := workforce.NewLedger(testPopulation(), workforce.WithClock(fixedClock))
	require.NoError(t, err)
	return ledger
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestRecordAttendance_AppendsNewRecord(t *testing.T) {
	ledger := newTestLedger(t)

	err := ledger.RecordAttendance("lab-1", day(3), workforce.StatusPresent, nil)
	require.NoError(t, err)

	labourer, err := ledger.Labourer("lab-1")
	require.NoError(t, err)
	require.Len(t, labourer.Attendance, 1)
	assert.Equal(t, workforce.StatusPresent, labourer.Attendance[0].Status)
	assert.True(t, labourer.Attendance[0].Hours.Equal(dec(8)), "present defaults to 8 hours")
}

func TestRecordAttendance_SameDateReplaces(t *testing.T) {
	// GIVEN: Ravi recorded present on March 3
	// WHEN: Recording March 3 again as half day
	// THEN: Exactly one record for March 3, with the later values

	ledger := newTestLedger(t)
	require.NoError(t, ledger.RecordAttendance("lab-1", day(3), workforce.StatusPresent, nil))
	require.NoError(t, ledger.RecordAttendance("lab-1", day(4), workforce.StatusPresent, nil))
	require.NoError(t, ledger.RecordAttendance("lab-1", day(3), workforce.StatusHalf, hoursPtr(5)))

	labourer, err := ledger.Labourer("lab-1")
	require.NoError(t, err)
	require.Len(t, labourer.Attendance, 2)

	rec, ok := labourer.AttendanceOn(day(3))
	require.True(t, ok)
	assert.Equal(t, workforce.StatusHalf, rec.Status)
	assert.True(t, rec.Hours.Equal(dec(5)))
	assert.True(t, labourer.Attendance[0].Date.Equal(day(3)), "replacement keeps position")
}

func TestRecordAttendance_AbsentDropsHours(t *testing.T) {
	ledger := newTestLedger(t)

	require.NoError(t, ledger.RecordAttendance("lab-2", day(5), workforce.StatusAbsent, hoursPtr(9)))

	labourer, err := ledger.Labourer("lab-2")
	require.NoError(t, err)
	rec, ok := labourer.AttendanceOn(day(5))
	require.True(t, ok)
	assert.True(t, rec.Hours.IsZero())
	assert.False(t, rec.HasHours())
}

func TestRecordAttendance_PolicyHours(t *testing.T) {
	tests := []struct {
		status    workforce.AttendanceStatus
		requested *decimal.Decimal
		want      decimal.Decimal
	}{
		{workforce.StatusPresent, nil, dec(8)},
		{workforce.StatusHalf, nil, dec(4)},
		{workforce.StatusOvertime, nil, dec(10)},
		{workforce.StatusOvertime, hoursPtr(12), dec(12)},
		{workforce.StatusPresent, hoursPtr(0), dec(8)},
		{workforce.StatusAbsent, nil, decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			ledger := newTestLedger(t)
			require.NoError(t, ledger.RecordAttendance("lab-3", day(6), tt.status, tt.requested))
			labourer, err := ledger.Labourer("lab-3")
			require.NoError(t, err)
			assert.True(t, labourer.Attendance[0].Hours.Equal(tt.want), "got %s", labourer.Attendance[0].Hours)
		})
	}
}

func TestRecordAttendance_UnknownLabourer(t *testing.T) {
	ledger := newTestLedger(t)

	err := ledger.RecordAttendance("lab-404", day(3), workforce.StatusPresent, nil)

	assert.ErrorIs(t, err, workforce.ErrNotFound)
	var nf *workforce.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "labourer", nf.Kind)
	assert.True(t, workforce.IsNotFound(err))
}

func TestRecordAttendance_InvalidStatus(t *testing.T) {
	ledger := newTestLedger(t)

	err := ledger.RecordAttendance("lab-1", day(3), "holiday", nil)

	assert.ErrorIs(t, err, workforce.ErrInvalidStatus)
	assert.True(t, workforce.IsClientError(err))
}

func TestToggleAttendance(t *testing.T) {
	// GIVEN: No record for March 7
	// WHEN: Toggling present twice
	// THEN: First toggle marks present (8h), second flips to absent (no hours)

	ledger := newTestLedger(t)

	rec, err := ledger.ToggleAttendance("lab-1", day(7), workforce.StatusPresent)
	require.NoError(t, err)
	assert.Equal(t, workforce.StatusPresent, rec.Status)
	assert.True(t, rec.Hours.Equal(dec(8)))

	rec, err = ledger.ToggleAttendance("lab-1", day(7), workforce.StatusPresent)
	require.NoError(t, err)
	assert.Equal(t, workforce.StatusAbsent, rec.Status)
	assert.True(t, rec.Hours.IsZero())

	rec, err = ledger.ToggleAttendance("lab-1", day(7), workforce.StatusOvertime)
	require.NoError(t, err)
	assert.Equal(t, workforce.StatusOvertime, rec.Status)
	assert.True(t, rec.Hours.Equal(dec(10)))

	labourer, err := ledger.Labourer("lab-1")
	require.NoError(t, err)
	assert.Len(t, labourer.Attendance, 1)
}

func TestToggleAttendance_AbsentOnEmptyDay(t *testing.T) {
	// A missing record counts as absent, so toggling absent leaves it absent.
	ledger := newTestLedger(t)

	rec, err := ledger.ToggleAttendance("lab-2", day(7), workforce.StatusAbsent)
	require.NoError(t, err)
	assert.Equal(t, workforce.StatusAbsent, rec.Status)
}

// =============================================================================
// PAYMENTS
// =============================================================================

func TestReleasePayment_DecrementsBalance(t *testing.T) {
	ledger := newTestLedger(t)

	require.NoError(t, ledger.ReleasePayment("con-1", dec(5000)))

	assert.True(t, ledger.Contractors()["con-1"].Balance.Equal(dec(35000)))

	releases, err := ledger.PaymentReleases("con-1")
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.NotEmpty(t, releases[0].ID)
	assert.True(t, releases[0].BalanceAfter.Equal(dec(35000)))
	assert.True(t, releases[0].ReleasedAt.Equal(day(10)))
}

func TestReleasePayment_NonPositiveAmountRejected(t *testing.T) {
	ledger := newTestLedger(t)

	for _, amount := range []decimal.Decimal{decimal.Zero, dec(-100)} {
		err := ledger.ReleasePayment("con-1", amount)
		assert.ErrorIs(t, err, workforce.ErrInvalidAmount)
	}

	assert.True(t, ledger.Contractors()["con-1"].Balance.Equal(dec(40000)), "balance unchanged")
	releases, err := ledger.PaymentReleases("con-1")
	require.NoError(t, err)
	assert.Empty(t, releases)
}

func TestReleasePayment_BalanceMayGoNegative(t *testing.T) {
	ledger := newTestLedger(t)

	require.NoError(t, ledger.ReleasePayment("con-2", dec(15000)))

	assert.True(t, ledger.Contractors()["con-2"].Balance.Equal(dec(-3000)))
}

func TestReleasePayment_UnknownContractor(t *testing.T) {
	ledger := newTestLedger(t)

	err := ledger.ReleasePayment("con-404", dec(10))
	assert.ErrorIs(t, err, workforce.ErrNotFound)

	_, err = ledger.PaymentReleases("con-404")
	assert.ErrorIs(t, err, workforce.ErrNotFound)
}

// =============================================================================
// WORK ORDERS
// =============================================================================

func TestSetWorkOrderStatus_FreeTransitions(t *testing.T) {
	ledger := newTestLedger(t)

	sequence := []workforce.WorkOrderStatus{
		workforce.WorkOrderCompleted,
		workforce.WorkOrderInProgress,
		workforce.WorkOrderBlocked,
		workforce.WorkOrderScheduled,
		workforce.WorkOrderCompleted,
	}
	for _, status := range sequence {
		require.NoError(t, ledger.SetWorkOrderStatus("wo-1", status))
		assert.Equal(t, status, ledger.WorkOrders()["wo-1"].Status)
	}
}

func TestSetWorkOrderStatus_CompletedStampsEndDateOnce(t *testing.T) {
	// GIVEN: A work order with no end date
	// WHEN: Completing it, reopening it, then completing it later
	// THEN: The end date is the first completion day

	current := now
	ledger, err := workforce.NewLedger(testPopulation(), workforce.WithClock(func() time.Time { return current }))
	require.NoError(t, err)

	require.NoError(t, ledger.SetWorkOrderStatus("wo-1", workforce.WorkOrderCompleted))
	first := ledger.WorkOrders()["wo-1"].EndDate
	require.NotNil(t, first)
	assert.True(t, first.Equal(day(10)))

	require.NoError(t, ledger.SetWorkOrderStatus("wo-1", workforce.WorkOrderInProgress))
	current = now.AddDate(0, 0, 5)
	require.NoError(t, ledger.SetWorkOrderStatus("wo-1", workforce.WorkOrderCompleted))

	end := ledger.WorkOrders()["wo-1"].EndDate
	require.NotNil(t, end)
	assert.True(t, end.Equal(day(10)), "end date not moved, got %s", end)
}

func TestSetWorkOrderStatus_NonCompletedLeavesEndDateUnset(t *testing.T) {
	ledger := newTestLedger(t)

	require.NoError(t, ledger.SetWorkOrderStatus("wo-2", workforce.WorkOrderBlocked))

	assert.Nil(t, ledger.WorkOrders()["wo-2"].EndDate)
}

func TestSetWorkOrderStatus_Errors(t *testing.T) {
	ledger := newTestLedger(t)

	assert.ErrorIs(t, ledger.SetWorkOrderStatus("wo-404", workforce.WorkOrderBlocked), workforce.ErrNotFound)
	assert.ErrorIs(t, ledger.SetWorkOrderStatus("wo-1", "cancelled"), workforce.ErrInvalidStatus)
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func TestSnapshot_IsIsolatedFromStore(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.RecordAttendance("lab-1", day(3), workforce.StatusPresent, nil))

	snap := ledger.Snapshot()
	lab := snap.Labourers["lab-1"]
	lab.Attendance[0].Status = workforce.StatusAbsent
	snap.Labourers["lab-1"] = lab
	con := snap.Contractors["con-1"]
	con.Labourers[0] = "lab-3"

	fresh, err := ledger.Labourer("lab-1")
	require.NoError(t, err)
	assert.Equal(t, workforce.StatusPresent, fresh.Attendance[0].Status)
	assert.Equal(t, workforce.LabourerID("lab-1"), ledger.Contractors()["con-1"].Labourers[0])
}

func TestLists_PreserveInsertionOrder(t *testing.T) {
	ledger := newTestLedger(t)

	var ids []workforce.LabourerID
	for _, l := range ledger.LabourerList() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []workforce.LabourerID{"lab-1", "lab-2", "lab-3"}, ids)
	assert.Equal(t, workforce.ContractorID("con-2"), ledger.ContractorList()[1].ID)
	assert.Equal(t, workforce.WorkOrderID("wo-1"), ledger.WorkOrderList()[0].ID)
}

func TestAttendanceDates_DistinctAscending(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.RecordAttendance("lab-1", day(5), workforce.StatusPresent, nil))
	require.NoError(t, ledger.RecordAttendance("lab-2", day(3), workforce.StatusPresent, nil))
	require.NoError(t, ledger.RecordAttendance("lab-3", day(5), workforce.StatusAbsent, nil))

	dates := ledger.AttendanceDates()

	require.Len(t, dates, 2)
	assert.True(t, dates[0].Equal(day(3)))
	assert.True(t, dates[1].Equal(day(5)))
}

func TestReplace_SwapsPopulationAndClearsReleases(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.ReleasePayment("con-1", dec(100)))

	pop := testPopulation()
	pop.Labourers = pop.Labourers[:2]
	pop.WorkOrders = nil
	require.NoError(t, ledger.Replace(pop))

	assert.Len(t, ledger.Labourers(), 2)
	assert.Empty(t, ledger.WorkOrders())
	releases, err := ledger.PaymentReleases("con-1")
	require.NoError(t, err)
	assert.Empty(t, releases)
	assert.True(t, ledger.Contractors()["con-1"].Balance.Equal(dec(40000)))
}

func TestLedger_ConcurrentWritesAndReads(t *testing.T) {
	ledger := newTestLedger(t)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(2)
		go func(d int) {
			defer wg.Done()
			assert.NoError(t, ledger.RecordAttendance("lab-1", day(d), workforce.StatusPresent, nil))
			assert.NoError(t, ledger.ReleasePayment("con-1", dec(10)))
		}(i)
		go func() {
			defer wg.Done()
			_ = ledger.ComputePayouts(day(1), day(31))
			_ = ledger.GenerateSuggestions()
		}()
	}
	wg.Wait()

	labourer, err := ledger.Labourer("lab-1")
	require.NoError(t, err)
	assert.Len(t, labourer.Attendance, 20)
	assert.True(t, ledger.Contractors()["con-1"].Balance.Equal(dec(39800)))
}
