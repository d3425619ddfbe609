package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRecordBeforeInitIsNoOp(t *testing.T) {
	// Collectors may not be registered yet in this process; recording must
	// never panic either way.
	RecordFetch("rendered")
	RecordCacheHit()
	RecordCacheMiss()
	RecordDecision("return_raw")
	ObserveStage("fetch", time.Millisecond)
}

func TestInitIdempotentAndServesMetrics(t *testing.T) {
	Init()
	Init()

	RecordFetch("rendered")
	RecordDecision("summarize")
	ObserveStage("extract", 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"webdigest_fetch_total", "webdigest_decision_total", "webdigest_stage_duration_seconds"} {
		if !strings.Contains(body, name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}
