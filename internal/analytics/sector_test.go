package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateBySector(t *testing.T) {
	yearly := []YearlyReturn{
		{"INFY", 0.10},
		{"TCS", 0.30},
		{"HDFC", -0.05},
		{"SBIN", 0.15},
		{"ORPHAN", 0.90},
		{"BROKEN", math.NaN()},
	}
	table := SectorTable{
		Columns: []string{"ticker", "sector"},
		Rows: [][]string{
			{"INFY", "IT"},
			{"TCS", "IT"},
			{"HDFC", "BANKING"},
			{"SBIN", "BANKING"},
			{"BROKEN", "ENERGY"},
			{"NOLABEL", ""},
			{"GHOST", "MEDIA"},
		},
	}

	perf, err := AggregateBySector(yearly, table)
	require.NoError(t, err)

	require.Len(t, perf, 2, "sectors without a contributing ticker are absent")
	assert.Equal(t, "IT", perf[0].Sector)
	assert.InDelta(t, 0.20, perf[0].MeanReturn, 1e-12)
	assert.Equal(t, 2, perf[0].MemberCount)
	assert.Equal(t, "BANKING", perf[1].Sector)
	assert.InDelta(t, 0.05, perf[1].MeanReturn, 1e-12)
}

func TestAggregateBySectorMissingTickerColumn(t *testing.T) {
	table := SectorTable{Columns: []string{"symbol", "sector"}, Rows: [][]string{{"A", "IT"}}}

	_, err := AggregateBySector([]YearlyReturn{{"A", 0.1}}, table)

	var schema *SchemaError
	require.ErrorAs(t, err, &schema)
	assert.Equal(t, TickerColumn, schema.Column)
	assert.Contains(t, err.Error(), "symbol")
}

func TestSectorTableMap(t *testing.T) {
	table := SectorTable{
		Columns: []string{"sector", "ticker"},
		Rows: [][]string{
			{"IT", "INFY"},
			{"FINANCE", "INFY"},
			{" ENERGY ", " ONGC "},
			{"short row"},
		},
	}

	m, err := table.Map()
	require.NoError(t, err)

	assert.Equal(t, SectorMap{"INFY": "IT", "ONGC": "ENERGY"}, m)
}
