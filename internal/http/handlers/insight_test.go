package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/repos"
	"github.com/caresight/caresight-backend/internal/services"
	"github.com/caresight/caresight-backend/internal/types"
)

// stubInsightService scripts service outcomes so handler translation logic can
// be tested without a database.
type stubInsightService struct {
	generateInsights []*types.Insight
	generateErr      error
	insight          *types.Insight
	err              error
	lastFilter       repos.InsightFilter
	lastNotes        string
	lastReason       string
}

func (s *stubInsightService) Generate(ctx context.Context, req services.GenerateInsightsRequest) ([]*types.Insight, error) {
	return s.generateInsights, s.generateErr
}

func (s *stubInsightService) Create(ctx context.Context, input services.CreateInsightInput) (*types.Insight, error) {
	return s.insight, s.err
}

func (s *stubInsightService) Get(ctx context.Context, id uuid.UUID) (*types.Insight, error) {
	return s.insight, s.err
}

func (s *stubInsightService) List(ctx context.Context, filter repos.InsightFilter) ([]*types.Insight, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return s.generateInsights, nil
}

func (s *stubInsightService) Update(ctx context.Context, id uuid.UUID, input services.UpdateInsightInput) (*types.Insight, error) {
	return s.insight, s.err
}

func (s *stubInsightService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func (s *stubInsightService) MarkReviewed(ctx context.Context, id, reviewerID uuid.UUID, notes string) (*types.Insight, error) {
	s.lastNotes = notes
	return s.insight, s.err
}

func (s *stubInsightService) Dismiss(ctx context.Context, id, reviewerID uuid.UUID, reason string) (*types.Insight, error) {
	s.lastReason = reason
	return s.insight, s.err
}

func (s *stubInsightService) Dashboard(ctx context.Context, patientID uuid.UUID) (*repos.DashboardSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &repos.DashboardSummary{
		TotalInsights:       2,
		InsightsByType:      map[string]int64{},
		InsightsByRiskLevel: map[string]int64{},
		RecentInsights:      []*types.Insight{},
	}, nil
}

func handlerTestRouter(t *testing.T, svc services.InsightService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init failed: %v", err)
	}
	h := NewInsightHandler(log, svc)

	r := gin.New()
	r.POST("/api/ai/generate/", h.GenerateInsights)
	r.GET("/api/ai/insights/", h.ListInsights)
	r.POST("/api/ai/insights/:id/mark_reviewed/", h.MarkReviewed)
	r.POST("/api/ai/insights/:id/dismiss/", h.Dismiss)
	r.GET("/api/ai/dashboard/", h.Dashboard)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGenerateInsights_SuccessEnvelope(t *testing.T) {
	insight := &types.Insight{ID: uuid.New(), Title: "AI-Generated Patient Analysis"}
	svc := &stubInsightService{generateInsights: []*types.Insight{insight}}
	r := handlerTestRouter(t, svc)

	rec := postJSON(t, r, "/api/ai/generate/", map[string]any{"patient_id": uuid.New()})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload["success"] != true {
		t.Fatalf("expected success=true, got %v", payload)
	}
	if payload["insights_generated"] != float64(1) {
		t.Fatalf("expected insights_generated=1, got %v", payload["insights_generated"])
	}
}

func TestGenerateInsights_UnknownPatientIs404(t *testing.T) {
	svc := &stubInsightService{generateErr: services.ErrPatientNotFound}
	r := handlerTestRouter(t, svc)

	rec := postJSON(t, r, "/api/ai/generate/", map[string]any{"patient_id": uuid.New()})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGenerateInsights_ProviderFailureIs500WithDetails(t *testing.T) {
	svc := &stubInsightService{generateErr: &services.ProviderError{Details: "rate limited"}}
	r := handlerTestRouter(t, svc)

	rec := postJSON(t, r, "/api/ai/generate/", map[string]any{"patient_id": uuid.New()})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload["error"] != "Failed to generate insights" {
		t.Fatalf("expected error field, got %v", payload)
	}
	if payload["details"] != "rate limited" {
		t.Fatalf("expected details field, got %v", payload)
	}
}

func TestGenerateInsights_MissingPatientIDIs400(t *testing.T) {
	svc := &stubInsightService{}
	r := handlerTestRouter(t, svc)

	rec := postJSON(t, r, "/api/ai/generate/", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListInsights_ParsesQueryFilters(t *testing.T) {
	svc := &stubInsightService{generateInsights: []*types.Insight{}}
	r := handlerTestRouter(t, svc)
	patientID := uuid.New()

	req := httptest.NewRequest(http.MethodGet,
		"/api/ai/insights/?patient_id="+patientID.String()+"&risk_level=high&status=new&critical_only=true", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastFilter.PatientID != patientID {
		t.Fatalf("patient_id not passed through: %v", svc.lastFilter.PatientID)
	}
	if svc.lastFilter.RiskLevel != "high" || svc.lastFilter.Status != "new" || !svc.lastFilter.CriticalOnly {
		t.Fatalf("filters not passed through: %+v", svc.lastFilter)
	}
}

func TestListInsights_BadPatientIDIs400(t *testing.T) {
	r := handlerTestRouter(t, &stubInsightService{})

	req := httptest.NewRequest(http.MethodGet, "/api/ai/insights/?patient_id=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMarkReviewed_ResponseBody(t *testing.T) {
	svc := &stubInsightService{insight: &types.Insight{ID: uuid.New()}}
	r := handlerTestRouter(t, svc)

	rec := postJSON(t, r, "/api/ai/insights/"+uuid.NewString()+"/mark_reviewed/", map[string]any{"review_notes": "follow up in 2 weeks"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload["status"] != "Insight marked as reviewed" {
		t.Fatalf("unexpected body %v", payload)
	}
	if svc.lastNotes != "follow up in 2 weeks" {
		t.Fatalf("review_notes not passed through, got %q", svc.lastNotes)
	}
}

func TestDismiss_ReasonPassedThrough(t *testing.T) {
	svc := &stubInsightService{insight: &types.Insight{ID: uuid.New()}}
	r := handlerTestRouter(t, svc)

	rec := postJSON(t, r, "/api/ai/insights/"+uuid.NewString()+"/dismiss/", map[string]any{"reason": "duplicate finding"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastReason != "duplicate finding" {
		t.Fatalf("reason not passed through, got %q", svc.lastReason)
	}
}

func TestDismiss_ResponseBody(t *testing.T) {
	svc := &stubInsightService{insight: &types.Insight{ID: uuid.New()}}
	r := handlerTestRouter(t, svc)

	rec := postJSON(t, r, "/api/ai/insights/"+uuid.NewString()+"/dismiss/", map[string]any{"reason": "noise"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload["status"] != "Insight dismissed" {
		t.Fatalf("unexpected body %v", payload)
	}
}

func TestMarkReviewed_MissingInsightIs404(t *testing.T) {
	svc := &stubInsightService{err: services.ErrInsightNotFound}
	r := handlerTestRouter(t, svc)

	rec := postJSON(t, r, "/api/ai/insights/"+uuid.NewString()+"/mark_reviewed/", map[string]any{})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDashboard_ReturnsSummary(t *testing.T) {
	r := handlerTestRouter(t, &stubInsightService{})

	req := httptest.NewRequest(http.MethodGet, "/api/ai/dashboard/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload["total_insights"] != float64(2) {
		t.Fatalf("expected total_insights=2, got %v", payload)
	}
}
