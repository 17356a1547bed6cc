package pricesearch

import (
	"cdpricesearch/lib/platforms/cd"
	"cdpricesearch/lib/report"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const (
	carrierSearchPath  = "/de/spojeni-a-jizdenka/"
	carrierResultsPath = carrierSearchPath + "spojeni-tam/"
)

// fakeCarrier answers the two-step search like the booking site, results
// are looked up by the route the guid was handed out for.
type fakeCarrier struct {
	mutex        sync.Mutex
	hellers      map[string]int
	failedRoutes map[string]bool
	guids        []string
}

func (f *fakeCarrier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	switch {
	case r.URL.Path == carrierSearchPath:
		body, _ := io.ReadAll(r.Body)
		values, err := url.ParseQuery(string(body))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		route := queryKey(
			values.Get("dateTime[date]"),
			values.Get("stations[from][name]"),
			values.Get("stations[to][name]"),
		)
		if f.failedRoutes[route] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.guids = append(f.guids, route)
		fmt.Fprintf(w, `{'guid': '%d', 'ok': True}`, len(f.guids)-1)
	case strings.HasPrefix(r.URL.Path, carrierResultsPath):
		var index int
		_, err := fmt.Sscanf(strings.TrimPrefix(r.URL.Path, carrierResultsPath), "%d", &index)
		if err != nil || index >= len(f.guids) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(priceBody(f.hellers[f.guids[index]])))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestInvokeThroughCarrierClient(t *testing.T) {
	carrier := &fakeCarrier{
		hellers: map[string]int{
			queryKey("11.03.2020", "A", "B"): 100000,
			queryKey("11.03.2020", "B", "A"): 200000,
			queryKey("12.03.2020", "A", "B"): 50000,
		},
		failedRoutes: map[string]bool{
			queryKey("12.03.2020", "B", "A"): true,
		},
	}
	server := httptest.NewServer(carrier)
	defer server.Close()

	client, err := cd.NewClient(cd.ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	sink := &recordingSink{}
	service := newTestService(client, sink)

	res, err := service.Invoke(context.Background(), testConfig())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	expected := []report.Row{
		{Date: march11(), Origin: "A", Destination: "B", Price: report.NewPrice(39)},
		{Date: march11(), Origin: "B", Destination: "A", Price: report.NewPrice(78)},
		{Date: march11().AddDate(0, 0, 1), Origin: "A", Destination: "B", Price: report.NewPrice(19)},
		{Date: march11().AddDate(0, 0, 1), Origin: "B", Destination: "A", Price: report.ErrorPrice()},
	}
	diff := cmp.Diff(expected, res.Rows.Rows)
	if diff != "" {
		t.Fatal(diff)
	}

	require.Len(t, sink.reports, 1)
	require.Contains(t, sink.reports[0], "12.03.2020,B,A,Error\r\n")
	require.Len(t, carrier.guids, 3)
}
