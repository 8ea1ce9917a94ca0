package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tripdesk/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are exported
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveExternal("itinerary", "GET /itinerary/{id}", 200, 8*time.Millisecond)
	observability.ObserveState("file", "hit")
	observability.ObservePayment("captured")
	observability.ObserveDashboard("admin", "total-hotels", nil)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{"tripdesk_http_requests_total", "tripdesk_external_requests_total", "tripdesk_state_events_total",
		"tripdesk_payment_steps_total", "tripdesk_dashboard_sections_total"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	l := observability.NewLogger("prod", "nonsense")
	if l.GetLevel().String() != "info" {
		t.Fatalf("level=%s want info", l.GetLevel())
	}
}
