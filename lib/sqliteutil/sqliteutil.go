package sqliteutil

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Config struct {
	// File is a local database path, ":memory:" is allowed.
	File string `json:"file" yaml:"file"`
	// Url points to a remote libsql server, it takes precedence over File.
	Url       string `json:"url" yaml:"url"`
	AuthToken string `json:"auth_token" yaml:"auth_token"`
}

func (c Config) String() string {
	if c.Url != "" {
		return c.Url
	}
	return c.File
}

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

func (c Config) OpenDB() (*sql.DB, error) {
	if c.Url != "" {
		return openRemote(c.Url, c.AuthToken)
	}
	if c.File == "" {
		return nil, wrapOpenDB(fmt.Errorf("a path was not specified"))
	}
	return OpenDB(c.File)
}

// OpenDB opens (creating if absent) a local sqlite database.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, wrapOpenDB(err)
	}

	return db, nil
}

func openRemote(rawUrl, authToken string) (*sql.DB, error) {
	link, err := url.Parse(rawUrl)
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	switch link.Scheme {
	case "libsql", "http", "https", "ws", "wss":
	default:
		return nil, wrapOpenDB(fmt.Errorf("unsupported database url scheme '%s'", link.Scheme))
	}

	if authToken != "" {
		query := link.Query()
		query.Set("authToken", authToken)
		link.RawQuery = query.Encode()
	}

	db, err := sql.Open("libsql", link.String())
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
