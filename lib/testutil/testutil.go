package testutil

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"gdp-etl/lib/sqliteutil"
	"gdp-etl/lib/telemetry"

	"github.com/mazen160/go-random"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService initializes telemetry for the test and opens a database that
// is closed by the returned cleanup.
func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanupTelemetry := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	dbpath := ":memory:"
	if params.DbPath != "" {
		dbpath = params.DbPath
	}
	db, err := sqliteutil.OpenDB(dbpath)
	if err != nil {
		t.Fatal(err)
	}

	return ServiceResult{DB: db}, func() {
		err := db.Close()
		if err != nil {
			t.Fatal(err)
		}
		cleanupTelemetry()
	}
}

// TempPath returns a unique path inside the test's temp directory.
func TempPath(t testing.TB, ext string) string {
	name, err := random.String(12)
	if err != nil {
		t.Fatal(err)
	}
	return filepath.Join(t.TempDir(), name+ext)
}

// RandomString returns an alphanumeric string of length n.
func RandomString(t testing.TB, n int) string {
	s, err := random.String(n)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
