package economies

import (
	"context"
	"os"
	"testing"

	"gdp-etl/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var sampleRows = []CountryGDP{
	{Country: "Samplestan", GDPUSDBillion: 150},
	{Country: "Microcountry", GDPUSDBillion: 50},
	{Country: "Commaland, The", GDPUSDBillion: 1234.5},
}

func TestFormatFloat(t *testing.T) {
	testCases := []struct {
		value    float64
		expected string
	}{
		{value: 150, expected: "150.0"},
		{value: 1234.5, expected: "1234.5"},
		{value: 0, expected: "0.0"},
		{value: 26854599, expected: "26854599.0"},
		{value: 0.1, expected: "0.1"},
		{value: 1e16, expected: "1e+16"},
		{value: 0.00001, expected: "1e-05"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, FormatFloat(test.value))
	}
}

func TestWriteCSV(t *testing.T) {
	path := testutil.TempPath(t, ".csv")

	err := WriteCSV(context.Background(), path, sampleRows)
	require.NoError(t, err)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := "Country,GDP_USD_billion\n" +
		"Samplestan,150.0\n" +
		"Microcountry,50.0\n" +
		"\"Commaland, The\",1234.5\n"
	require.Equal(t, expected, string(contents))

	count, err := CountCSVRows(path)
	require.NoError(t, err)
	require.Equal(t, len(sampleRows), count)
}

func TestWriteCSVOverwrites(t *testing.T) {
	path := testutil.TempPath(t, ".csv")

	require.NoError(t, WriteCSV(context.Background(), path, sampleRows))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteCSV(context.Background(), path, sampleRows[:1]))
	require.NoError(t, WriteCSV(context.Background(), path, sampleRows))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestWriteCSVEmpty(t *testing.T) {
	path := testutil.TempPath(t, ".csv")

	require.NoError(t, WriteCSV(context.Background(), path, nil))
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Country,GDP_USD_billion\n", string(contents))

	count, err := CountCSVRows(path)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestStoreReplace(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := store.Replace(ctx, sampleRows)
		require.NoError(t, err)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, len(sampleRows), count)

		all, err := store.All(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff(sampleRows, all); diff != "" {
			t.Fatalf("stored rows mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestStoreAbove(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, sampleRows))

	above, err := store.Above(ctx, DefaultThreshold)
	require.NoError(t, err)
	expected := []CountryGDP{
		{Country: "Samplestan", GDPUSDBillion: 150},
		{Country: "Commaland, The", GDPUSDBillion: 1234.5},
	}
	if diff := cmp.Diff(expected, above); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}

	// strictly greater
	above, err = store.Above(ctx, 150)
	require.NoError(t, err)
	require.Len(t, above, 1)
	require.Equal(t, "Commaland, The", above[0].Country)
}

func TestStoreReplaceEmpty(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, sampleRows))
	require.NoError(t, store.Replace(ctx, nil))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}
