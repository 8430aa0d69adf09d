package economies

import (
	"context"
	"errors"
	"math"
	"testing"

	"gdp-etl/lib/htmlutil"
	"gdp-etl/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func defaultCleanOptions() CleanOptions {
	return Options{}.WithDefaults().CleanOptions()
}

func TestStripNonNumeric(t *testing.T) {
	testCases := []struct {
		raw      string
		stripped string
	}{
		{raw: "$1,234.5 million", stripped: "1234.5"},
		{raw: "N/A", stripped: ""},
		{raw: "26,854,599", stripped: "26854599"},
		{raw: "—", stripped: ""},
		{raw: "12[n 1]", stripped: "121"},
		{raw: "-5", stripped: "5"},
	}
	for _, test := range testCases {
		require.Equal(t, test.stripped, StripNonNumeric(test.raw), test.raw)
	}
}

func TestParseGDP(t *testing.T) {
	value, ok := ParseGDP("$1,234.5 million")
	require.True(t, ok)
	require.Equal(t, 1234.5, value)

	_, ok = ParseGDP("N/A")
	require.False(t, ok)

	_, ok = ParseGDP("1.2.3")
	require.False(t, ok)
}

func TestCleanSample(t *testing.T) {
	rows, err := Clean(context.Background(), sampleTable(), defaultCleanOptions())
	require.NoError(t, err)

	expected := []CountryGDP{
		{Country: "Samplestan", GDPUSDBillion: 150},
		{Country: "Microcountry", GDPUSDBillion: 50},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatalf("cleaned rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanDropsUnparseable(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows,
		[]string{"Nowhere", "Europe", "N/A", "2023"},
		[]string{"", "Europe", "10", "2023"},
		[]string{"Ragged"},
		[]string{"Dotted", "Asia", "1.2.3", "2023"},
	)

	rows, err := Clean(context.Background(), table, defaultCleanOptions())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Samplestan", rows[0].Country)
	require.Equal(t, "Microcountry", rows[1].Country)
}

func TestCleanEmptyTable(t *testing.T) {
	table := sampleTable()
	table.Rows = nil

	rows, err := Clean(context.Background(), table, defaultCleanOptions())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestCleanMissingColumn(t *testing.T) {
	table := sampleTable()
	table.Header[1][2] = "Estimated"

	_, err := Clean(context.Background(), table, defaultCleanOptions())
	require.Error(t, err)

	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, DefaultGDPLabel, missing.Label)
	require.Equal(t, "IMF[1][13]_Estimated", missing.Closest)
	require.Contains(t, err.Error(), "IMF[1][13]_Estimated")
}

func TestCleanRandomInput(t *testing.T) {
	table := htmlutil.Table{
		Header: [][]string{{"Country/Territory", "IMF[1][13]"}, {"Country/Territory", "Estimate"}},
	}
	table.Rows = append(table.Rows, []string{"World", "1"})
	for i := 0; i < 200; i++ {
		table.Rows = append(table.Rows, []string{
			testutil.RandomString(t, 1+i%7),
			testutil.RandomString(t, 1+i%5),
		})
	}

	rows, err := Clean(context.Background(), table, defaultCleanOptions())
	require.NoError(t, err)
	require.LessOrEqual(t, len(rows), len(table.Rows)-1)

	for _, r := range rows {
		require.NotEmpty(t, r.Country)
		require.NotEqual(t, "World", r.Country)
		require.False(t, math.IsNaN(r.GDPUSDBillion))
		require.False(t, math.IsInf(r.GDPUSDBillion, 0))
		require.GreaterOrEqual(t, r.GDPUSDBillion, 0.0)
	}
}
