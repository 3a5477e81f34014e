package workforce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-ledger/workforce"
)

func TestComputePayouts_SumsHoursAtRate(t *testing.T) {
	// GIVEN: Ravi (rate 200) worked 8h and 4h inside the range
	// WHEN: Computing payouts
	// THEN: 12 hours, 2 days, 2400 payable

	ledger := newTestLedger(t)
	require.NoError(t, ledger.RecordAttendance("lab-1", day(3), workforce.StatusPresent, hoursPtr(8)))
	require.NoError(t, ledger.RecordAttendance("lab-1", day(4), workforce.StatusHalf, hoursPtr(4)))

	summaries := ledger.ComputePayouts(day(1), day(7))

	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, workforce.LabourerID("lab-1"), s.LabourerID)
	assert.Equal(t, "Ravi Kumar", s.LabourerName)
	assert.Equal(t, "Mahesh Patil", s.ContractorName)
	assert.Equal(t, workforce.ContractorID("con-1"), s.ContractorID)
	assert.Equal(t, 2, s.TotalDays)
	assert.True(t, s.TotalHours.Equal(dec(12)))
	assert.True(t, s.PayableAmount.Equal(dec(2400)))
}

func TestComputePayouts_AbsentExcludedFromDays(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.RecordAttendance("lab-2", day(3), workforce.StatusPresent, hoursPtr(8)))
	require.NoError(t, ledger.RecordAttendance("lab-2", day(4), workforce.StatusAbsent, nil))

	summaries := ledger.ComputePayouts(day(1), day(7))

	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].TotalDays)
	assert.True(t, summaries[0].TotalHours.Equal(dec(8)))
	assert.True(t, summaries[0].PayableAmount.Equal(dec(1200)))
}

func TestComputePayouts_OnlyAbsentStillListed(t *testing.T) {
	// An absent day is a recorded day: the labourer appears with zero totals.
	ledger := newTestLedger(t)
	require.NoError(t, ledger.RecordAttendance("lab-2", day(4), workforce.StatusAbsent, nil))

	summaries := ledger.ComputePayouts(day(4), day(4))

	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].TotalDays)
	assert.True(t, summaries[0].PayableAmount.IsZero())
}

func TestComputePayouts_RangeIsInclusive(t *testing.T) {
	ledger := newTestLedger(t)
	for _, d := range []int{2, 3, 5, 6} {
		require.NoError(t, ledger.RecordAttendance("lab-3", day(d), workforce.StatusPresent, nil))
	}

	summaries := ledger.ComputePayouts(day(3), day(5))

	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].TotalDays)
	assert.True(t, summaries[0].TotalHours.Equal(dec(16)))
}

func TestComputePayouts_InvertedRangeEmpty(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.RecordAttendance("lab-1", day(3), workforce.StatusPresent, nil))

	summaries := ledger.ComputePayouts(day(7), day(1))

	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestComputePayouts_UnassignedAndOrder(t *testing.T) {
	// GIVEN: Records for all three labourers, lab-3 has no contractor
	// THEN: Summaries follow insertion order and lab-3 is Unassigned

	ledger := newTestLedger(t)
	require.NoError(t, ledger.RecordAttendance("lab-3", day(3), workforce.StatusOvertime, nil))
	require.NoError(t, ledger.RecordAttendance("lab-2", day(3), workforce.StatusPresent, nil))
	require.NoError(t, ledger.RecordAttendance("lab-1", day(3), workforce.StatusHalf, nil))

	summaries := ledger.ComputePayouts(day(1), day(31))

	require.Len(t, summaries, 3)
	assert.Equal(t, workforce.LabourerID("lab-1"), summaries[0].LabourerID)
	assert.Equal(t, workforce.LabourerID("lab-2"), summaries[1].LabourerID)
	assert.Equal(t, workforce.LabourerID("lab-3"), summaries[2].LabourerID)
	assert.Equal(t, workforce.UnassignedContractor, summaries[2].ContractorName)
	assert.Empty(t, summaries[2].ContractorID)
	assert.True(t, summaries[2].PayableAmount.Equal(dec(3000)))
}

func TestComputePayouts_Idempotent(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.RecordAttendance("lab-1", day(3), workforce.StatusPresent, nil))
	before := ledger.Snapshot()

	first := ledger.ComputePayouts(day(1), day(7))
	second := ledger.ComputePayouts(day(1), day(7))

	assert.Equal(t, first, second)
	assert.Equal(t, before, ledger.Snapshot(), "computation must not mutate the store")
}

func TestTotalPayableAndSort(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.RecordAttendance("lab-1", day(3), workforce.StatusPresent, nil))  // 1600
	require.NoError(t, ledger.RecordAttendance("lab-2", day(3), workforce.StatusPresent, nil))  // 1200
	require.NoError(t, ledger.RecordAttendance("lab-3", day(3), workforce.StatusOvertime, nil)) // 3000

	summaries := ledger.ComputePayouts(day(1), day(7))
	assert.True(t, workforce.TotalPayable(summaries).Equal(dec(5800)))

	workforce.SortByPayable(summaries)
	assert.Equal(t, workforce.LabourerID("lab-3"), summaries[0].LabourerID)
	assert.Equal(t, workforce.LabourerID("lab-2"), summaries[2].LabourerID)
}
