package restyutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestInstrumentClientWritesMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<table><tr><td>ok</td></tr></table>"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	client := resty.New()
	InstrumentClient(client, nil, nil, out)

	res, err := client.R().SetContext(context.Background()).Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	contents, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(contents), "---- REQUEST ----\n\nGET "+server.URL))
	require.Contains(t, string(contents), "---- RESPONSE ----\n\n200 ")
	require.Contains(t, string(contents), "<td>ok</td>")
	require.Contains(t, string(contents), "<NO BODY>")
}

func TestFormatHeadersSorted(t *testing.T) {
	headers := http.Header{}
	headers.Add("B", "2")
	headers.Add("A", "1")
	headers.Add("A", "3")
	require.Equal(t, "A: 1\nA: 3\nB: 2", formatHeaders(headers))
	require.Equal(t, "", formatHeaders(http.Header{}))
}

func TestFormatRequestBody(t *testing.T) {
	get, err := http.NewRequest(http.MethodGet, "http://localhost/page", nil)
	require.NoError(t, err)
	require.Equal(t, "<NO BODY>", formatRequestBody(get))

	// a replay func that has nothing to replay
	get.Body = io.NopCloser(strings.NewReader(""))
	get.GetBody = func() (io.ReadCloser, error) { return nil, nil }
	require.Equal(t, "<NO BODY>", formatRequestBody(get))

	post, err := http.NewRequest(http.MethodPost, "http://localhost/form", strings.NewReader("a=1"))
	require.NoError(t, err)
	require.Equal(t, "a=1", formatRequestBody(post))

	require.Equal(t, "<NO BODY>", formatRequestBody(nil))
}
