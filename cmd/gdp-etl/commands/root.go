package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gdp-etl/lib/telemetry"
	"gdp-etl/services/economies"

	"github.com/spf13/cobra"
)

const serviceName = "gdp-etl"

type flagValues struct {
	config     string
	url        string
	tableIndex int
	csv        string
	db         string
	logFile    string
	threshold  float64
	dumpHttp   string
	verbose    bool
	quiet      bool
}

var flags flagValues

// state shared by the subcommands once the persistent pre-run has finished
var (
	options   economies.Options
	logger    *slog.Logger
	closeLog  func() error
	providers telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "gdp-etl",
	Short: "gdp-etl loads the nominal GDP table of the world's economies into a CSV file and a SQLite table.",

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: setup,
	RunE:              runPipeline,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flags.config, "config", "", "Path to a json5 or yaml config file (default: etl.json5 searched upwards from the working directory).")
	f.StringVar(&flags.url, "url", economies.DefaultSourceURL, "The page to extract the table from, http(s) URLs and local paths are accepted.")
	f.IntVar(&flags.tableIndex, "table-index", economies.DefaultTableIndex, "Position of the GDP table among the tables of the page.")
	f.StringVar(&flags.csv, "csv", economies.DefaultCSVPath, "The CSV file to write.")
	f.StringVar(&flags.db, "db", economies.DefaultDBPath, "The SQLite database file, or a libsql:// or http(s):// URL.")
	f.StringVar(&flags.logFile, "log-file", economies.DefaultLogFile, "The file progress is appended to.")
	f.Float64Var(&flags.threshold, "threshold", economies.DefaultThreshold, "Report economies above this GDP, in billions of USD.")
	f.StringVar(&flags.dumpHttp, "dump-http", "", "Write every HTTP request and response to this directory.")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Also log to stderr, including debug records.")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "Do not show the progress spinner.")
}

func ExecuteContext(ctx context.Context) {
	if err := execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the command line and tears down the logger and the telemetry
// providers afterwards, failed runs included.
func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && logger != nil {
		logger.ErrorContext(ctx, "gdp-etl failed", "err", err.Error())
	}
	return errors.Join(err, teardown(ctx))
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	options, err = loadOptions(cmd)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	logger, closeLog, err = telemetry.NewLogger(telemetry.LoggerOptions{
		LogFile: options.LogFile,
		Console: flags.verbose,
		Verbose: flags.verbose,
	})
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(logger)

	providers, err = telemetry.SetupFromEnv(cmd.Context(), serviceName)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	return nil
}

func teardown(ctx context.Context) error {
	var errlist []error
	err := providers.Shutdown(ctx)
	if err != nil {
		errlist = append(errlist, fmt.Errorf("shutdown telemetry: %w", err))
	}
	providers = telemetry.Telemetry{}

	if closeLog != nil {
		err = closeLog()
		if err != nil {
			errlist = append(errlist, fmt.Errorf("close log file: %w", err))
		}
		closeLog = nil
	}
	return errors.Join(errlist...)
}
