package commands

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gdp-etl/lib/restyutil"
	"gdp-etl/services/economies"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the whole extraction, the same as invoking gdp-etl without a subcommand.",
	RunE:  runPipeline,
}

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	return s
}

func newFetcher() (*economies.Fetcher, error) {
	opts := economies.FetcherOptions{Logger: logger}
	if flags.dumpHttp != "" {
		output, err := restyutil.NewFilesystemOutput(flags.dumpHttp)
		if err != nil {
			return nil, fmt.Errorf("create http dump directory: %w", err)
		}
		opts.Output = output
	}
	return economies.NewFetcher(opts), nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	fetcher, err := newFetcher()
	if err != nil {
		return err
	}
	pipeline := economies.Pipeline{
		Options: options,
		Fetcher: fetcher,
		Logger:  logger,
	}

	s := newSpinner("extracting GDP table...")
	if !flags.quiet {
		s.Start()
	}

	// the report is buffered so it is not interleaved with the spinner
	var report bytes.Buffer
	_, err = pipeline.Run(cmd.Context(), &report)
	s.Stop()
	if err != nil {
		return fmt.Errorf("etl run failed: %w", err)
	}
	_, err = report.WriteTo(cmd.OutOrStdout())
	return err
}
