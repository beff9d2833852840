package prom

import (
	"net/http/httptest"
	"strings"
	"testing"

	"waypoint/internal/app/ports"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()
	r.RecordDiscovery()
	r.RecordDiscovery()
	r.RecordDiscoveryFailure()
	r.RecordTravel(ports.TravelResolved)
	r.RecordTravel(ports.TravelWorldUnavailable)
	r.RecordInvalidation("delete")

	if got := testutil.ToFloat64(r.discoveries); got != 2 {
		t.Fatalf("expected 2 discoveries, got %v", got)
	}
	if got := testutil.ToFloat64(r.failures); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(r.travel.WithLabelValues(ports.TravelWorldUnavailable)); got != 1 {
		t.Fatalf("expected 1 world_unavailable, got %v", got)
	}
	if got := testutil.ToFloat64(r.invalidations.WithLabelValues("delete")); got != 1 {
		t.Fatalf("expected 1 delete invalidation, got %v", got)
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	r := NewRecorder()
	r.RecordDiscovery()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "waypoint_discoveries_total 1") {
		t.Fatalf("missing counter in output:\n%s", rec.Body.String())
	}
}
