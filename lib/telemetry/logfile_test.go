package telemetry

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var linePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - (DEBUG|INFO|WARNING|ERROR) - `)

func TestLineHandlerFormat(t *testing.T) {
	var buff bytes.Buffer
	logger := slog.New(NewLineHandler(&buff, slog.LevelInfo))

	logger.Debug("hidden")
	logger.Info("fetching data", "url", "https://example.com/a b")
	logger.With("stage", "load").WithGroup("db").Warn("slow", "ms", 12)
	logger.Error("failed", slog.Group("err", "msg", "boom"))

	lines := strings.Split(strings.TrimSuffix(buff.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		require.Regexp(t, linePattern, line)
	}

	require.True(t, strings.HasSuffix(lines[0], ` - INFO - fetching data url="https://example.com/a b"`), lines[0])
	require.True(t, strings.HasSuffix(lines[1], ` - WARNING - slow stage=load db.ms=12`), lines[1])
	require.True(t, strings.HasSuffix(lines[2], ` - ERROR - failed err.msg=boom`), lines[2])
}

func TestNewLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etl_project_log.txt")

	for i := 0; i < 2; i++ {
		logger, closeLog, err := NewLogger(LoggerOptions{LogFile: path})
		require.NoError(t, err)
		logger.Info("ETL process started")
		require.NoError(t, closeLog())
	}

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(contents), "INFO - ETL process started\n"))
}

func TestNewLoggerFanout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	var console bytes.Buffer

	logger, closeLog, err := NewLogger(LoggerOptions{
		LogFile: path,
		Console: true,
		Stderr:  &console,
	})
	require.NoError(t, err)
	logger.Info("data loaded", "rows", 2)
	require.NoError(t, closeLog())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "INFO - data loaded rows=2")
	require.Contains(t, console.String(), "data loaded")
}
