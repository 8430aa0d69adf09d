package economies

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gdp-etl/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Pipeline struct {
	Options Options
	Fetcher *Fetcher
	Logger  *slog.Logger
}

// Result summarizes a completed run.
type Result struct {
	Loaded int
	Above  []CountryGDP
}

// Run extracts the source table, writes both sinks and prints the economies
// above the configured threshold to stdout.
func (p Pipeline) Run(ctx context.Context, stdout io.Writer) (Result, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.Run")
	defer span.End()

	opts := p.Options.WithDefaults()
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fetcher := p.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(FetcherOptions{Logger: logger})
	}

	result, err := p.run(ctx, opts, fetcher, logger, stdout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline failed")
		return Result{}, err
	}

	stats := telemetry.RecordPerfStats(ctx)
	logger.Debug(
		"perf sample",
		"cpu_percent", stats.CPUPercent,
		"allocated_mb", stats.AllocatedMB,
		"live_objects", stats.LiveObjects,
	)
	return result, nil
}

func (p Pipeline) run(ctx context.Context, opts Options, fetcher *Fetcher, logger *slog.Logger, stdout io.Writer) (Result, error) {
	logger.InfoContext(ctx, "ETL process started.")

	logger.InfoContext(ctx, fmt.Sprintf("Fetching data from %s", opts.SourceURL))
	tables, err := fetcher.FetchTables(ctx, opts.SourceURL)
	if err != nil {
		return Result{}, err
	}
	table, err := SelectTable(tables, *opts.TableIndex)
	if err != nil {
		return Result{}, err
	}
	logger.InfoContext(ctx, "Initial Table extracted", "columns", len(table.Columns()), "rows", len(table.Rows))

	rows, err := Clean(ctx, table, opts.CleanOptions())
	if err != nil {
		return Result{}, err
	}
	logger.InfoContext(ctx, fmt.Sprintf("Final dataset rows: %d", len(rows)))
	logger.InfoContext(ctx, "Data transformed successfully.")

	err = WriteCSV(ctx, opts.CSVPath, rows)
	if err != nil {
		return Result{}, err
	}

	database, err := opts.DB.OpenDB()
	if err != nil {
		return Result{}, err
	}
	store := NewStore(database)
	defer store.Close()

	err = store.Replace(ctx, rows)
	if err != nil {
		return Result{}, err
	}
	err = verifyCounts(ctx, opts.CSVPath, store)
	if err != nil {
		return Result{}, err
	}
	logger.InfoContext(ctx, "Data loaded successfully.", "db", opts.DB.String())

	above, err := store.Above(ctx, *opts.Threshold)
	if err != nil {
		return Result{}, err
	}
	Report(stdout, *opts.Threshold, above)

	err = store.Close()
	if err != nil {
		return Result{}, err
	}
	logger.InfoContext(ctx, "Database connection closed.")

	return Result{Loaded: len(rows), Above: above}, nil
}

func verifyCounts(ctx context.Context, csvPath string, store Store) error {
	ctx, span := tracer.Start(ctx, "verifyCounts")
	defer span.End()

	csvRows, err := CountCSVRows(csvPath)
	if err != nil {
		return fmt.Errorf("count csv rows: %w", err)
	}
	dbRows, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count table rows: %w", err)
	}
	span.SetAttributes(attribute.Int("csv", csvRows), attribute.Int("db", dbRows))
	if csvRows != dbRows {
		span.SetStatus(codes.Error, "row count mismatch")
		return fmt.Errorf("%w: csv has %d, table has %d", ErrRowCountMismatch, csvRows, dbRows)
	}
	return nil
}
