package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/vidyavasavigunturu/trusted-shopper/internal/fetch"
)

func TestMetricsServer(t *testing.T) {
	srv := Start(9188)
	// Give it a tiny bit of time to start up
	time.Sleep(100 * time.Millisecond)

	defer srv.Stop(context.Background())

	RecordSearch("Amazon.in", "ok", 2*time.Second)
	RecordPage("Amazon.in", &fetch.Result{StatusCode: 200, Body: []byte("page")})
	RecordPage("Amazon.in", &fetch.Result{Error: "timeout"})
	ListingsFoundTotal.WithLabelValues("Amazon.in").Add(3)

	resp, err := http.Get("http://localhost:9188/metrics")
	if err != nil {
		t.Fatalf("failed to fetch metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	out := string(body)
	for _, metric := range []string{
		"shopper_searches_total",
		"shopper_search_duration_seconds",
		"shopper_pages_analyzed_total",
		"shopper_listings_found_total",
	} {
		if !strings.Contains(out, metric) {
			t.Errorf("expected metric %q in output", metric)
		}
	}
}

func TestRecordPageNil(t *testing.T) {
	// Must not panic.
	RecordPage("Amazon.in", nil)
}
