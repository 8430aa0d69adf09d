package economies

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gdp-etl/lib/htmlutil"
	"gdp-etl/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrTableIndexOutOfRange = errors.New("table index out of range")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type FetcherOptions struct {
	Timeout time.Duration
	Logger  *slog.Logger
	// Output receives a dump of every HTTP exchange, it may be nil.
	Output restyutil.InstrumentOutput
}

type Fetcher struct {
	http   *resty.Client
	logger *slog.Logger
}

func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(opts.Timeout)
	restyutil.InstrumentClient(client, tracer, opts.Logger, opts.Output)

	return &Fetcher{http: client, logger: opts.Logger}
}

// FetchTables retrieves the document at source and parses every table in it.
// Sources with an http(s) scheme are downloaded, file:// URLs and bare paths
// are read from disk.
func (f *Fetcher) FetchTables(ctx context.Context, source string) ([]htmlutil.Table, error) {
	ctx, span := tracer.Start(ctx, "Fetcher.FetchTables")
	defer span.End()
	span.SetAttributes(attribute.String("source", source))

	body, err := f.Fetch(ctx, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch document")
		return nil, err
	}
	f.logger.DebugContext(ctx, "fetched document", "source", source, "bytes", len(body))

	tables, err := htmlutil.ParseTablesFromReader(ctx, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse document")
		return nil, err
	}
	if len(tables) == 0 {
		err = fmt.Errorf("no tables found in %s", source)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return tables, nil
}

// Fetch returns the raw document at source.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	link, err := url.Parse(source)
	if err == nil && (link.Scheme == "http" || link.Scheme == "https") {
		res, err := f.http.R().
			SetContext(ctx).
			Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		if res.IsError() {
			return nil, fmt.Errorf("fetch %s: unexpected status %s", source, res.Status())
		}
		return res.Body(), nil
	}

	path := source
	if err == nil && link.Scheme == "file" {
		path = link.Path
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return body, nil
}

// SelectTable picks the table at a fixed position of the parsed document.
func SelectTable(tables []htmlutil.Table, index int) (htmlutil.Table, error) {
	if index < 0 || index >= len(tables) {
		return htmlutil.Table{}, fmt.Errorf(
			"%w: wanted table %d, document has %d",
			ErrTableIndexOutOfRange, index, len(tables),
		)
	}
	return tables[index], nil
}

// DescribeTable renders the flattened labels of a table on one line.
func DescribeTable(table htmlutil.Table) string {
	return strings.Join(table.Columns(), " | ")
}
