package seed_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/workforce-ledger/seed"
	"github.com/warp/workforce-ledger/workforce"
)

func TestReadFile(t *testing.T) {
	pop, err := seed.ReadFile("testdata/site.yaml")
	require.NoError(t, err)

	require.Len(t, pop.Labourers, 2)
	ravi := pop.Labourers[0]
	assert.Equal(t, "Ravi Kumar", ravi.Name)
	assert.True(t, ravi.Rate.Equal(decimal.NewFromInt(200)))
	require.Len(t, ravi.Attendance, 3)
	assert.True(t, ravi.Attendance[0].Date.Equal(workforce.NewDate(2025, time.March, 3)))
	assert.True(t, ravi.Attendance[0].Hours.Equal(decimal.NewFromInt(8)))
	assert.True(t, pop.Labourers[1].Rate.Equal(decimal.RequireFromString("150.5")))

	require.Len(t, pop.Contractors, 1)
	assert.True(t, pop.Contractors[0].Balance.Equal(decimal.NewFromInt(42000)))
	assert.Equal(t, "+91 98200 00001", pop.Contractors[0].Contact)

	require.Len(t, pop.WorkOrders, 1)
	assert.Equal(t, workforce.WorkOrderBlocked, pop.WorkOrders[0].Status)
	assert.Nil(t, pop.WorkOrders[0].EndDate)
}

func TestReadFile_LoadsIntoLedger(t *testing.T) {
	// Half day without hours picks up the policy default once loaded.
	pop, err := seed.ReadFile("testdata/site.yaml")
	require.NoError(t, err)

	ledger, err := workforce.NewLedger(pop)
	require.NoError(t, err)

	summaries := ledger.ComputePayouts(workforce.NewDate(2025, time.March, 1), workforce.NewDate(2025, time.March, 31))
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].TotalDays)
	assert.True(t, summaries[0].TotalHours.Equal(decimal.NewFromInt(12)), "8 recorded + 4 default")
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad date", "labourers:\n  - {id: lab-1, name: A, rate: 1, attendance: [{date: 03/03/2025, status: present}]}\n"},
		{"bad rate", "labourers:\n  - {id: lab-1, name: A, rate: lots}\n"},
		{"unknown field", "labourers:\n  - {id: lab-1, name: A, rate: 1, wage: 2}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Decode(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDecode_EmptyDocument(t *testing.T) {
	pop, err := seed.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, pop.Labourers)
}

func TestEncodeDecode(t *testing.T) {
	first, err := seed.ReadFile("testdata/site.yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, seed.Encode(&buf, first))
	decoded, err := seed.Decode(&buf)
	require.NoError(t, err)

	require.Len(t, decoded.Labourers, 2)
	assert.Equal(t, first.Labourers[0].Name, decoded.Labourers[0].Name)
	assert.Len(t, decoded.Labourers[0].Attendance, 3)
	assert.Equal(t, first.Contractors[0].Labourers, decoded.Contractors[0].Labourers)
	assert.Equal(t, first.WorkOrders[0].Notes, decoded.WorkOrders[0].Notes)
}
