package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gdp-etl/lib/serviceutil"
	"gdp-etl/services/economies"
)

func create(ctx context.Context, recreate, snapshot, libsql bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	err = os.MkdirAll("dev/.state", 0777)
	if err != nil {
		return err
	}

	opts := economies.Options{}
	if libsql {
		opts.DB.Url, err = CreateLocalStack()
	} else {
		opts.DB.File, err = CreateEmptyDB("World_Economies.db")
	}
	if err != nil {
		return err
	}

	if snapshot {
		opts.SourceURL, err = SnapshotSource(ctx, economies.DefaultSourceURL, "gdp.html")
		if err != nil {
			return err
		}
	}

	path, err := WriteConfig(opts)
	if err != nil {
		return err
	}
	slog.Info("run the etl against the dev environment with", "cmd", fmt.Sprintf("go run ./cmd/gdp-etl --config %s", path))
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	snapshot := flag.Bool("snapshot", false, "download the source page once and point the dev config at the local copy")
	libsql := flag.Bool("libsql", false, "start a libsql-server container and load into it instead of a local file")
	flag.Parse()

	err := create(context.Background(), *recreate, *snapshot, *libsql)
	if err != nil {
		serviceutil.Fatal("failed to create dev environment", err)
	}

	slog.Info("dev environment created sucessfully!")
}
