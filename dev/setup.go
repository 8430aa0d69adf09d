package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	devenv "gdp-etl/dev/env"
	"gdp-etl/lib/sqliteutil"
	"gdp-etl/services/economies"
	"gdp-etl/services/economies/db"
)

const libsqlPort = 8080

func cmd(name string, args ...string) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	fullCmd := name
	for _, a := range args {
		fullCmd += " "
		fullCmd += a
	}

	fmt.Printf("$ %s\n", fullCmd)
	err := cmd.Run()
	if err != nil {
		os.Exit(1)
	}
}

// CreateLocalStack starts a libsql-server container and returns its url.
func CreateLocalStack() (string, error) {
	cmd(
		"docker", "run", "-d",
		"--name", "gdp-etl-libsql",
		"-p", fmt.Sprintf("%d:8080", libsqlPort),
		"ghcr.io/tursodatabase/libsql-server:latest",
	)
	return fmt.Sprintf("http://127.0.0.1:%d", libsqlPort), nil
}

// CreateEmptyDB creates the dev database with an empty Countries_by_GDP
// table, an existing database is left untouched.
func CreateEmptyDB(filename string) (string, error) {
	path, err := devenv.ResolvePath(filepath.Join("<dev_state>", filename))
	if err != nil {
		return "", err
	}

	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("database already created at", path)
		return path, nil
	}

	fmt.Println("creating database at", path)
	database, err := sqliteutil.OpenDB(path)
	if err != nil {
		return "", err
	}
	defer database.Close()
	_, err = database.Exec(db.Schema)
	return path, err
}

// SnapshotSource downloads source once so dev runs read the local copy.
func SnapshotSource(ctx context.Context, source, filename string) (string, error) {
	path, err := devenv.ResolvePath(filepath.Join("<dev_state>", filename))
	if err != nil {
		return "", err
	}

	body, err := economies.NewFetcher(economies.FetcherOptions{}).Fetch(ctx, source)
	if err != nil {
		return "", err
	}
	err = os.WriteFile(path, body, 0644)
	if err != nil {
		return "", err
	}
	fmt.Println("saved", source, "to", path)
	return path, nil
}

// WriteConfig writes the dev config, json is valid json5.
func WriteConfig(opts economies.Options) (string, error) {
	path, err := devenv.ResolvePath(filepath.Join("<dev_state>", "etl.json5"))
	if err != nil {
		return "", err
	}
	state := filepath.Dir(path)
	opts.CSVPath = filepath.Join(state, economies.DefaultCSVPath)
	opts.LogFile = filepath.Join(state, economies.DefaultLogFile)

	contents, err := json.MarshalIndent(opts.WithDefaults(), "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, contents, 0644)
}
