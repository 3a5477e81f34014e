package workforce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-ledger/workforce"
)

func TestOverview_Empty(t *testing.T) {
	ledger := newTestLedger(t)

	o := ledger.Overview()

	assert.Nil(t, o.LatestDate)
	assert.Equal(t, 0, o.PresentRate)
	assert.Equal(t, 3, o.LabourerCount)
	assert.Equal(t, 0, o.BlockedJobs)
	assert.True(t, o.TotalBalance.Equal(dec(52000)))
}

func TestOverview_PresentRateOnLatestDate(t *testing.T) {
	// GIVEN: On the latest day two of three labourers worked (one half day)
	// THEN: 67% present, counted on that day only

	ledger := newTestLedger(t)
	require.NoError(t, ledger.RecordAttendance("lab-1", day(3), workforce.StatusAbsent, nil))
	require.NoError(t, ledger.RecordAttendance("lab-1", day(4), workforce.StatusPresent, nil))
	require.NoError(t, ledger.RecordAttendance("lab-2", day(4), workforce.StatusHalf, nil))
	require.NoError(t, ledger.RecordAttendance("lab-3", day(4), workforce.StatusAbsent, nil))
	require.NoError(t, ledger.SetWorkOrderStatus("wo-2", workforce.WorkOrderBlocked))

	o := ledger.Overview()

	require.NotNil(t, o.LatestDate)
	assert.True(t, o.LatestDate.Equal(day(4)))
	assert.Equal(t, 2, o.PresentOnLatest)
	assert.Equal(t, 67, o.PresentRate)
	assert.Equal(t, 1, o.BlockedJobs)
}

func TestContractorLedger_BurnAndRunway(t *testing.T) {
	ledger := newTestLedger(t)

	positions := ledger.ContractorLedger()

	require.Len(t, positions, 2)
	patil := positions[0]
	assert.Equal(t, workforce.ContractorID("con-1"), patil.Contractor.ID)
	assert.Equal(t, 2, patil.LabourerCount)
	assert.True(t, patil.DailyBurn.Equal(dec(350)))
	assert.Equal(t, int64(114), patil.Runway) // 40000 / 350 = 114.28

	khan := positions[1]
	assert.Equal(t, 0, khan.LabourerCount)
	assert.True(t, khan.DailyBurn.IsZero())
	assert.Equal(t, int64(12000), khan.Runway, "empty crew divides by 1")
}

func TestWorkOrderBoard_GroupsByStatus(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.SetWorkOrderStatus("wo-2", workforce.WorkOrderScheduled))

	board := ledger.WorkOrderBoard()

	require.Len(t, board, 4)
	require.Len(t, board[workforce.WorkOrderScheduled], 2)
	assert.Equal(t, workforce.WorkOrderID("wo-1"), board[workforce.WorkOrderScheduled][0].ID)
	assert.Equal(t, workforce.WorkOrderID("wo-2"), board[workforce.WorkOrderScheduled][1].ID)
	assert.Empty(t, board[workforce.WorkOrderBlocked])
}
