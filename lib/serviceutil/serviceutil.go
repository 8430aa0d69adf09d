package serviceutil

import (
	"log/slog"
	"os"
)

// Fatal logs err on the default logger and exits with status 1.
func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}
