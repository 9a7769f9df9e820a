package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/weft-dev/weft/pkg/dom"
)

func newTestMetrics(t *testing.T, opts ...MetricsOption) *Metrics {
	t.Helper()
	opts = append([]MetricsOption{WithRegistry(prometheus.NewRegistry())}, opts...)
	return NewMetrics(opts...)
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		if got := statusClass(tt.code); got != tt.want {
			t.Errorf("statusClass(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestMetricsHandlerCountsRequests(t *testing.T) {
	m := newTestMetrics(t)

	handler := m.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/", "/", "/missing"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/", "2xx")); got != 2 {
		t.Errorf("requests{/,2xx} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/missing", "4xx")); got != 1 {
		t.Errorf("requests{/missing,4xx} = %v, want 1", got)
	}
}

func TestMetricsHandlerDefaultStatus(t *testing.T) {
	m := newTestMetrics(t)

	// A handler that writes a body without an explicit WriteHeader
	// reports 200.
	handler := m.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/", "2xx")); got != 1 {
		t.Errorf("requests{/,2xx} = %v, want 1", got)
	}
}

func TestSessionHooks(t *testing.T) {
	m := newTestMetrics(t)
	hooks := m.SessionHooks()

	hooks.OnHydrate(dom.HydrationStats{Matched: 10, Discarded: 2})
	hooks.OnEvent(dom.Event{Type: "click"})
	hooks.OnEvent(dom.Event{Type: "click"})
	hooks.OnEvent(dom.Event{Type: "input"})
	hooks.OnPatches(3, 120)
	hooks.OnPatches(1, 40)
	hooks.OnClose()

	if got := testutil.ToFloat64(m.sessionsTotal); got != 1 {
		t.Errorf("sessions_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.activeSessions); got != 0 {
		t.Errorf("active_sessions = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("click")); got != 2 {
		t.Errorf("events{click} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("input")); got != 1 {
		t.Errorf("events{input} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.patchesTotal); got != 4 {
		t.Errorf("patches_total = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.patchBytesTotal); got != 160 {
		t.Errorf("patch_bytes_total = %v, want 160", got)
	}
	if got := testutil.ToFloat64(m.hydrationMatched); got != 10 {
		t.Errorf("hydration_matched_total = %v, want 10", got)
	}
	if got := testutil.ToFloat64(m.hydrationDiscarded); got != 2 {
		t.Errorf("hydration_discarded_total = %v, want 2", got)
	}
}

func TestMetricsCustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("myapp"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
	)
	m.SessionHooks().OnHydrate(dom.HydrationStats{})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "myapp_ui_sessions_total" {
			found = true
		}
	}
	if !found {
		t.Error("myapp_ui_sessions_total not registered")
	}
}
