package economies

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NewTable returns a table writer rendering to w with the labels kept as is.
func NewTable(w io.Writer) table.Writer {
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault

	t := table.NewWriter()
	t.SetStyle(style)
	t.SetOutputMirror(w)
	return t
}

// Report prints the economies above threshold as a table.
func Report(w io.Writer, threshold float64, rows []CountryGDP) {
	fmt.Fprintf(w, "Economies above %s billion USD:\n", strconv.FormatFloat(threshold, 'f', -1, 64))

	t := NewTable(w)
	t.AppendHeader(table.Row{ColumnCountry, ColumnGDP})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: ColumnGDP, Align: text.AlignRight},
	})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Country, FormatFloat(r.GDPUSDBillion)})
	}
	t.Render()
}
