package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestHandlerExposesDocstoreMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncUploads()
	IncExtractionFailed(".pdf")
	ObserveAgentForward(OutcomeStructured, 150*time.Millisecond)

	r := gin.New()
	r.GET("/metrics", Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, name := range []string{
		"docstore_uploads_total",
		`docstore_extraction_failed_total{format=".pdf"}`,
		`docstore_agent_forward_total{outcome="structured"}`,
		"docstore_agent_forward_duration_seconds_bucket",
	} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}
}
