// Package economies extracts the nominal GDP table of the countries of the
// world from an archived Wikipedia page, cleans it down to a country and GDP
// column, loads it into a CSV file and a SQLite table, and reports the
// economies above a threshold.
package economies

import (
	"gdp-etl/lib/sqliteutil"
	"gdp-etl/lib/telemetry"
)

var tracer = telemetry.Tracer("gdpetl.services.economies")
var meter = telemetry.Meter("gdpetl.services.economies")
var loadedRowsGauge, _ = meter.Int64Gauge("loaded_rows")

const (
	DefaultSourceURL  = "https://web.archive.org/web/20230902185326/https://en.wikipedia.org/wiki/List_of_countries_by_GDP_%28nominal%29"
	DefaultTableIndex = 3

	DefaultCountryLabel = "Country/Territory_Country/Territory"
	DefaultGDPLabel     = "IMF[1][13]_Estimate"

	DefaultCSVPath = "Countries_by_GDP.csv"
	DefaultDBPath  = "World_Economies.db"
	DefaultLogFile = "etl_project_log.txt"

	DefaultThreshold = 100.0
)

const (
	ColumnCountry = "Country"
	ColumnGDP     = "GDP_USD_billion"

	// aggregate row of the source table
	worldRow = "World"
)

// CountryGDP is one row of the cleaned table.
type CountryGDP struct {
	Country       string
	GDPUSDBillion float64
}

// Options holds everything a run needs to know, the zero value of a field
// means its default.
type Options struct {
	SourceURL    string            `json:"source_url" yaml:"source_url"`
	TableIndex   *int              `json:"table_index" yaml:"table_index"`
	CountryLabel string            `json:"country_label" yaml:"country_label"`
	GDPLabel     string            `json:"gdp_label" yaml:"gdp_label"`
	CSVPath      string            `json:"csv_path" yaml:"csv_path"`
	DB           sqliteutil.Config `json:"db" yaml:"db"`
	LogFile      string            `json:"log_file" yaml:"log_file"`
	Threshold    *float64          `json:"threshold" yaml:"threshold"`
}

// WithDefaults fills every unset field with its default.
func (o Options) WithDefaults() Options {
	if o.SourceURL == "" {
		o.SourceURL = DefaultSourceURL
	}
	if o.TableIndex == nil {
		index := DefaultTableIndex
		o.TableIndex = &index
	}
	if o.CountryLabel == "" {
		o.CountryLabel = DefaultCountryLabel
	}
	if o.GDPLabel == "" {
		o.GDPLabel = DefaultGDPLabel
	}
	if o.CSVPath == "" {
		o.CSVPath = DefaultCSVPath
	}
	if o.DB.File == "" && o.DB.Url == "" {
		o.DB.File = DefaultDBPath
	}
	if o.LogFile == "" {
		o.LogFile = DefaultLogFile
	}
	if o.Threshold == nil {
		threshold := DefaultThreshold
		o.Threshold = &threshold
	}
	return o
}

func (o Options) CleanOptions() CleanOptions {
	return CleanOptions{
		CountryLabel: o.CountryLabel,
		GDPLabel:     o.GDPLabel,
	}
}
