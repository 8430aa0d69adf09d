package economies

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gdp-etl/lib/htmlutil"
	"gdp-etl/lib/testutil"

	_ "embed"
)

//go:embed testdata/gdp.html
var gdpPage []byte

func serveGDPPage(t testing.TB) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wiki/List_of_countries_by_GDP_(nominal)" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(gdpPage)
	}))
	t.Cleanup(server.Close)
	return server
}

func pageURL(server *httptest.Server) string {
	return server.URL + "/wiki/List_of_countries_by_GDP_(nominal)"
}

func setupStore(t testing.TB) (Store, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "economies",
	})
	return NewStore(res.DB), cleanup
}

func sampleTable() htmlutil.Table {
	return htmlutil.Table{
		Header: [][]string{
			{"Country/Territory", "UN region", "IMF[1][13]", "IMF[1][13]"},
			{"Country/Territory", "UN region", "Estimate", "Year"},
		},
		Rows: [][]string{
			{"World", "—", "100,000", "2023"},
			{"Samplestan", "Asia", "150", "2023"},
			{"Microcountry", "Oceania", "50", "2023"},
		},
	}
}
