package commands

import (
	"errors"
	"os"
	"strings"

	"gdp-etl/lib/configutil"
	"gdp-etl/lib/sqliteutil"
	"gdp-etl/services/economies"

	"github.com/spf13/cobra"
)

const configName = "etl.json5"

// readConfigFile reads the explicit --config file, or etl.json5 from the
// working directory or one of its parents. Only the implicit lookup may
// find nothing.
func readConfigFile(path string) (economies.Options, error) {
	if path != "" {
		return configutil.ReadConfig[economies.Options](path)
	}
	opts, err := configutil.ReadRecursively[economies.Options](configName)
	if errors.Is(err, os.ErrNotExist) {
		return economies.Options{}, nil
	}
	return opts, err
}

func dbConfig(value string) sqliteutil.Config {
	if strings.Contains(value, "://") {
		return sqliteutil.Config{Url: value}
	}
	return sqliteutil.Config{File: value}
}

// loadOptions layers the config file over the defaults and the flags set on
// the command line over the config file.
func loadOptions(cmd *cobra.Command) (economies.Options, error) {
	opts, err := readConfigFile(flags.config)
	if err != nil {
		return economies.Options{}, err
	}

	changed := cmd.Flags().Changed
	if changed("url") {
		opts.SourceURL = flags.url
	}
	if changed("table-index") {
		index := flags.tableIndex
		opts.TableIndex = &index
	}
	if changed("csv") {
		opts.CSVPath = flags.csv
	}
	if changed("db") {
		db := dbConfig(flags.db)
		db.AuthToken = opts.DB.AuthToken
		opts.DB = db
	}
	if changed("log-file") {
		opts.LogFile = flags.logFile
	}
	if changed("threshold") {
		threshold := flags.threshold
		opts.Threshold = &threshold
	}

	return opts.WithDefaults(), nil
}
