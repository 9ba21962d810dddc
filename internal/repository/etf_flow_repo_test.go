package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flowPageSample = `
<html><body>
<table>
<tr><th>Date</th><th>IBIT</th><th>FBTC</th><th>Total</th></tr>
<tr><td><span>28 Aug 2025</span></td><td>120.4</td><td>35.1</td><td><b>155.5</b></td></tr>
<tr><td>27 Aug 2025</td><td>(80.0)</td><td>10.2</td><td>(69.8)</td></tr>
<tr><td>26 Aug 2025</td><td>-</td><td>-</td><td>-</td></tr>
<tr><td>25 Aug 2025</td><td>1,204.0</td><td>300.0</td><td>1,504.0</td></tr>
<tr><td>Total</td><td>55,000</td><td>12,000</td><td>67,000</td></tr>
<tr><td>Average</td><td></td><td></td><td>120.3</td></tr>
</table>
</body></html>`

func TestParseFlowRows(t *testing.T) {
	rows := parseFlowRows(flowPageSample, 0)
	require.Len(t, rows, 3)

	assert.Equal(t, "28 Aug 2025", rows[0].Date)
	assert.InDelta(t, 155.5, rows[0].TotalFlow, 1e-9)

	// Parenthesized totals are outflows.
	assert.Equal(t, "27 Aug 2025", rows[1].Date)
	assert.InDelta(t, -69.8, rows[1].TotalFlow, 1e-9)

	// Thousands separators are stripped; the dash-only row is skipped.
	assert.Equal(t, "25 Aug 2025", rows[2].Date)
	assert.InDelta(t, 1504.0, rows[2].TotalFlow, 1e-9)
}

func TestParseFlowRowsLimit(t *testing.T) {
	rows := parseFlowRows(flowPageSample, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, "28 Aug 2025", rows[0].Date)
	assert.Equal(t, "27 Aug 2025", rows[1].Date)
}

func TestParseFlowRowsEmptyPage(t *testing.T) {
	assert.Empty(t, parseFlowRows("<html><body>maintenance</body></html>", 0))
}

func TestParseFlowValue(t *testing.T) {
	tests := []struct {
		name   string
		cell   string
		want   float64
		wantOk bool
	}{
		{name: "plain inflow", cell: "155.5", want: 155.5, wantOk: true},
		{name: "parenthesized outflow", cell: "(69.8)", want: -69.8, wantOk: true},
		{name: "thousands separator", cell: "1,504.0", want: 1504.0, wantOk: true},
		{name: "zero", cell: "0.0", want: 0, wantOk: true},
		{name: "dash placeholder", cell: "-", wantOk: false},
		{name: "empty", cell: "", wantOk: false},
		{name: "text", cell: "Total", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseFlowValue(tt.cell)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCleanCell(t *testing.T) {
	assert.Equal(t, "28 Aug 2025", cleanCell(`<span class="d">28 Aug 2025</span>`))
	assert.Equal(t, "155.5", cleanCell(" <b>155.5</b> "))
}
