package economies

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gdp-etl/lib/htmlutil"
	"gdp-etl/lib/textutil"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type CleanOptions struct {
	// CountryLabel is the flattened source label renamed to Country.
	CountryLabel string
	// GDPLabel is the flattened source label renamed to GDP_USD_billion.
	GDPLabel string
}

// MissingColumnError is returned when the selected table does not carry one
// of the source labels that are renamed.
type MissingColumnError struct {
	Label     string
	Available []string
	// Closest is the available label most similar to Label.
	Closest string
}

func (e *MissingColumnError) Error() string {
	msg := fmt.Sprintf("source table has no column '%s'", e.Label)
	if e.Closest != "" {
		msg += fmt.Sprintf(" (closest: '%s')", e.Closest)
	}
	return fmt.Sprintf("%s, available columns: %s", msg, strings.Join(e.Available, ", "))
}

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// StripNonNumeric removes every character that is not an ASCII digit or a
// period.
func StripNonNumeric(raw string) string {
	return nonNumeric.ReplaceAllString(raw, "")
}

// ParseGDP strips raw and parses the remainder, ok is false when nothing
// finite is left.
func ParseGDP(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(StripNonNumeric(raw), 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

func findColumn(labels []string, label string) (int, error) {
	for i, l := range labels {
		if l == label {
			return i, nil
		}
	}
	closest, _ := textutil.ClosestMatch(label, labels)
	return -1, &MissingColumnError{
		Label:     label,
		Available: labels,
		Closest:   closest,
	}
}

// Clean reduces the raw table to its Country and GDP_USD_billion columns,
// drops the World aggregate and every row whose GDP cannot be parsed.
func Clean(ctx context.Context, table htmlutil.Table, opts CleanOptions) ([]CountryGDP, error) {
	_, span := tracer.Start(ctx, "Clean")
	defer span.End()

	labels := table.Columns()
	countryCol, err := findColumn(labels, opts.CountryLabel)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	gdpCol, err := findColumn(labels, opts.GDPLabel)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	countries := make([]string, len(table.Rows))
	gdps := make([]string, len(table.Rows))
	for i := range table.Rows {
		countries[i] = table.Cell(i, countryCol)
		gdps[i] = StripNonNumeric(table.Cell(i, gdpCol))
	}

	// unparseable strings become NaN in a Float series
	frame := dataframe.New(
		series.New(countries, series.String, ColumnCountry),
		series.New(gdps, series.Float, ColumnGDP),
	)
	frame = frame.Filter(dataframe.F{
		Colname:    ColumnCountry,
		Comparator: series.Neq,
		Comparando: worldRow,
	})
	frame = frame.Filter(dataframe.F{
		Colname:    ColumnCountry,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !el.IsNA() && el.String() != ""
		},
	})
	frame = frame.Filter(dataframe.F{
		Colname:    ColumnGDP,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !el.IsNA() && !math.IsInf(el.Float(), 0)
		},
	})
	if frame.Err != nil {
		span.RecordError(frame.Err)
		span.SetStatus(codes.Error, "failed to clean frame")
		return nil, fmt.Errorf("clean: %w", frame.Err)
	}

	names := frame.Col(ColumnCountry).Records()
	values := frame.Col(ColumnGDP).Float()
	result := make([]CountryGDP, len(names))
	for i := range names {
		result[i] = CountryGDP{
			Country:       names[i],
			GDPUSDBillion: values[i],
		}
	}

	span.SetAttributes(
		attribute.Int("rows.in", len(table.Rows)),
		attribute.Int("rows.out", len(result)),
	)
	return result, nil
}
