package commands

import (
	"fmt"

	"gdp-etl/services/economies"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query [--threshold <billions>]",
	Short: "Prints the economies above the threshold from an existing database without fetching anything.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := options.DB.OpenDB()
		if err != nil {
			return err
		}
		store := economies.NewStore(db)
		defer store.Close()

		rows, err := store.Above(ctx, *options.Threshold)
		if err != nil {
			return fmt.Errorf("query db: %w", err)
		}
		economies.Report(cmd.OutOrStdout(), *options.Threshold, rows)

		err = store.Close()
		if err != nil {
			return fmt.Errorf("close db: %w", err)
		}
		logger.InfoContext(ctx, "Database connection closed.")
		return nil
	},
}
