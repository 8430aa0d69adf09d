package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parse(t testing.TB, doc string) []Table {
	tables, err := ParseTablesFromReader(context.Background(), strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	return tables
}

const gdpTable = `<html><body>
<table class="wikitable">
<tr>
	<th rowspan="2">Country/Territory</th>
	<th rowspan="2">UN region</th>
	<th colspan="2">IMF<sup>[1]</sup><sup>[13]</sup></th>
	<th colspan="2">World Bank<sup>[14]</sup></th>
</tr>
<tr>
	<th>Estimate</th><th>Year</th>
	<th>Estimate</th><th>Year</th>
</tr>
<tr>
	<td>World</td><td>—</td><td>105,568,776</td><td>2023</td><td>100,562,011</td><td>2022</td>
</tr>
<tr>
	<td> United    States </td><td>Americas</td><td>26,854,599</td><td>2023</td><td>25,462,700</td><td>2022</td>
</tr>
</table>
</body></html>`

func TestParseTablesMultiLevelHeader(t *testing.T) {
	tables := parse(t, gdpTable)
	require.Len(t, tables, 1)

	table := tables[0]
	require.Len(t, table.Header, 2)
	require.Len(t, table.Rows, 2)

	expected := []string{
		"Country/Territory_Country/Territory",
		"UN region_UN region",
		"IMF[1][13]_Estimate",
		"IMF[1][13]_Year",
		"World Bank[14]_Estimate",
		"World Bank[14]_Year",
	}
	if diff := cmp.Diff(expected, table.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, "World", table.Cell(0, 0))
	require.Equal(t, "United States", table.Cell(1, 0))
	require.Equal(t, "26,854,599", table.Cell(1, 2))
	require.Equal(t, "", table.Cell(1, 42))
	require.Equal(t, "", table.Cell(7, 0))
}

func TestParseTablesBodyRowspan(t *testing.T) {
	tables := parse(t, `<table>
		<thead><tr><th>a</th><th>b</th></tr></thead>
		<tbody>
			<tr><td rowspan="3">x</td><td>1</td></tr>
			<tr><td>2</td></tr>
		</tbody>
	</table>`)
	require.Len(t, tables, 1)

	expected := [][]string{
		{"x", "1"},
		{"x", "2"},
		{"x"},
	}
	if diff := cmp.Diff(expected, tables[0].Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"a", "b"}, tables[0].Columns())
}

func TestParseTablesSkipsEmptyAndHidden(t *testing.T) {
	tables := parse(t, `
		<table></table>
		<table style="display: none"><tr><td>hidden</td></tr></table>
		<table><tr><td>shown</td><td><span style="display:none">secret</span>visible</td></tr></table>
	`)
	require.Len(t, tables, 1)
	require.Equal(t, "shown", tables[0].Cell(0, 0))
	require.Equal(t, "visible", tables[0].Cell(0, 1))
	require.Equal(t, []string{"0", "1"}, tables[0].Columns())
}

func TestParseTablesNested(t *testing.T) {
	tables := parse(t, `<table>
		<tr><th>outer</th></tr>
		<tr><td>o1<table><tr><td>inner</td></tr></table></td></tr>
	</table>`)
	require.Len(t, tables, 2)

	require.Equal(t, []string{"outer"}, tables[0].Columns())
	require.Len(t, tables[0].Rows, 1)
	require.Equal(t, "o1inner", tables[0].Cell(0, 0))

	require.Len(t, tables[1].Header, 0)
	require.Equal(t, "inner", tables[1].Cell(0, 0))
}

func TestColumnsUnnamed(t *testing.T) {
	single := Table{Header: [][]string{{"a", ""}}}
	require.Equal(t, []string{"a", "Unnamed: 1"}, single.Columns())

	multi := Table{
		Header: [][]string{{"top", "top"}, {"", "b"}},
		Rows:   [][]string{{"1", "2", "3"}},
	}
	require.Equal(t, []string{
		"top_Unnamed: 0_level_1",
		"top_b",
		"Unnamed: 2_level_0_Unnamed: 2_level_1",
	}, multi.Columns())
}

func TestCollapseWhitespace(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "  plain  ", expected: "plain"},
		{in: "two\n\nlines", expected: "two lines"},
		{in: "wide    gap", expected: "wide gap"},
		{in: "single space", expected: "single space"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, CollapseWhitespace(test.in))
	}
}
