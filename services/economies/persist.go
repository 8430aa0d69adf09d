package economies

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gdp-etl/services/economies/db"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrRowCountMismatch = errors.New("csv and database row counts differ")

// FormatFloat renders v in its shortest round-trip form, integral values keep
// a trailing ".0" and very large or very small magnitudes use an exponent.
func FormatFloat(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// WriteCSV writes rows with a header row to path, replacing any existing file.
func WriteCSV(ctx context.Context, path string, rows []CountryGDP) (err error) {
	_, span := tracer.Start(ctx, "WriteCSV")
	defer span.End()
	span.SetAttributes(attribute.String("path", path), attribute.Int("rows", len(rows)))

	f, err := os.Create(path)
	if err != nil {
		span.SetStatus(codes.Error, "failed to create csv")
		return fmt.Errorf("write csv: %w", err)
	}
	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("write csv: %w", closeErr)
		}
	}()

	w := csv.NewWriter(f)
	err = w.Write([]string{ColumnCountry, ColumnGDP})
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, r := range rows {
		err = w.Write([]string{r.Country, FormatFloat(r.GDPUSDBillion)})
		if err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		span.SetStatus(codes.Error, "failed to flush csv")
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// CountCSVRows returns the number of data rows (header excluded) of a csv
// file written by WriteCSV.
func CountCSVRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	return len(records) - 1, nil
}

type Store struct {
	db     *sql.DB
	qry    *db.Queries
	makeTx db.MakeTx
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:     database,
		qry:    db.New(database),
		makeTx: db.NewMakeTx(database),
	}
}

// Replace drops the Countries_by_GDP table, recreates it and inserts rows,
// all in one transaction.
func (s Store) Replace(ctx context.Context, rows []CountryGDP) error {
	ctx, span := tracer.Start(ctx, "Store.Replace")
	defer span.End()

	txqry, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to begin transaction")
		return err
	}
	defer discard()

	err = txqry.DropCountries(ctx)
	if err != nil {
		return fmt.Errorf("drop %s: %w", db.TableName, err)
	}
	err = txqry.CreateCountriesTable(ctx)
	if err != nil {
		return fmt.Errorf("create %s: %w", db.TableName, err)
	}
	for _, r := range rows {
		err = txqry.CreateCountry(ctx, db.CreateCountryParams{
			Country:       r.Country,
			GdpUsdBillion: r.GDPUSDBillion,
		})
		if err != nil {
			span.SetStatus(codes.Error, "failed to insert row")
			return fmt.Errorf("insert %s: %w", r.Country, err)
		}
	}

	err = commit()
	if err != nil {
		span.SetStatus(codes.Error, "failed to commit")
		return err
	}
	loadedRowsGauge.Record(ctx, int64(len(rows)))
	return nil
}

func (s Store) Count(ctx context.Context) (int, error) {
	n, err := s.qry.CountCountries(ctx)
	return int(n), err
}

func (s Store) All(ctx context.Context) ([]CountryGDP, error) {
	rows, err := s.qry.GetCountries(ctx)
	if err != nil {
		return nil, err
	}
	return fromDB(rows), nil
}

// Above returns the rows whose GDP is strictly greater than threshold, in
// insertion order.
func (s Store) Above(ctx context.Context, threshold float64) ([]CountryGDP, error) {
	ctx, span := tracer.Start(ctx, "Store.Above")
	defer span.End()
	span.SetAttributes(attribute.Float64("threshold", threshold))

	rows, err := s.qry.GetCountriesAbove(ctx, threshold)
	if err != nil {
		span.SetStatus(codes.Error, "failed to query")
		return nil, err
	}
	return fromDB(rows), nil
}

func (s Store) Close() error {
	return s.db.Close()
}

func fromDB(rows []db.CountriesByGdp) []CountryGDP {
	out := make([]CountryGDP, len(rows))
	for i, r := range rows {
		out[i] = CountryGDP{Country: r.Country, GDPUSDBillion: r.GdpUsdBillion}
	}
	return out
}
