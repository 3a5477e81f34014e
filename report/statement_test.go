package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/workforce-ledger/report"
	"github.com/warp/workforce-ledger/workforce"
)

func day(d int) workforce.Date { return workforce.NewDate(2025, time.March, d) }

func openStatement(t *testing.T, summaries []workforce.PayoutSummary) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, report.WritePayoutStatement(&buf, day(1), day(7), summaries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(report.SheetName, ref)
	require.NoError(t, err)
	return v
}

func TestWritePayoutStatement(t *testing.T) {
	summaries := []workforce.PayoutSummary{
		{LabourerID: "lab-1", LabourerName: "Ravi Kumar", Role: "Mason", ContractorID: "con-1", ContractorName: "Mahesh Patil",
			TotalDays: 2, TotalHours: decimal.NewFromInt(12), Rate: decimal.NewFromInt(200), PayableAmount: decimal.NewFromInt(2400)},
		{LabourerID: "lab-2", LabourerName: "Sunita Devi", Role: "Helper", ContractorName: workforce.UnassignedContractor,
			TotalDays: 1, TotalHours: decimal.NewFromInt(8), Rate: decimal.NewFromInt(150), PayableAmount: decimal.NewFromInt(1200)},
	}
	f := openStatement(t, summaries)

	assert.Equal(t, []string{report.SheetName}, f.GetSheetList())

	assert.Equal(t, "Labourer ID", cell(t, f, "A1"))
	assert.Equal(t, "Payable", cell(t, f, "H1"))

	assert.Equal(t, "lab-1", cell(t, f, "A2"))
	assert.Equal(t, "Ravi Kumar", cell(t, f, "B2"))
	assert.Equal(t, "Mahesh Patil", cell(t, f, "D2"))
	assert.Equal(t, "2", cell(t, f, "E2"))
	assert.Equal(t, "12", cell(t, f, "F2"))
	assert.Equal(t, "2400", cell(t, f, "H2"))
	assert.Equal(t, workforce.UnassignedContractor, cell(t, f, "D3"))

	assert.Equal(t, "Total", cell(t, f, "A4"))
	assert.Equal(t, "3600", cell(t, f, "H4"))

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Payout statement 2025-03-01 to 2025-03-07", props.Title)
}

func TestWritePayoutStatement_Empty(t *testing.T) {
	f := openStatement(t, []workforce.PayoutSummary{})

	rows, err := f.GetRows(report.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2, "header and total only")
	assert.Equal(t, "Total", cell(t, f, "A2"))
	assert.Equal(t, "0", cell(t, f, "H2"))
}
