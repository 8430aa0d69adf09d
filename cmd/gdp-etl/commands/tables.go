package commands

import (
	"fmt"

	"gdp-etl/services/economies"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tablesCmd)
}

var tablesCmd = &cobra.Command{
	Use:   "tables [--url <page>]",
	Short: "Lists every table parsed from the page with its flattened column labels.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fetcher, err := newFetcher()
		if err != nil {
			return err
		}

		s := newSpinner("fetching page...")
		if !flags.quiet {
			s.Start()
		}
		tables, err := fetcher.FetchTables(cmd.Context(), options.SourceURL)
		s.Stop()
		if err != nil {
			return fmt.Errorf("fetch tables: %w", err)
		}

		t := economies.NewTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Index", "Selected", "Rows", "Columns", "Labels"})
		for i, tbl := range tables {
			selected := ""
			if i == *options.TableIndex {
				selected = "*"
			}
			t.AppendRow(table.Row{i, selected, len(tbl.Rows), tbl.Width(), economies.DescribeTable(tbl)})
		}
		t.Render()
		return nil
	},
}
