package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"peraturan/internal/crossref"
	"peraturan/internal/domain"
	"peraturan/internal/domain/models"
	"peraturan/internal/domain/services"
	"peraturan/internal/httputil"
	"peraturan/internal/ratelimit"
)

// fakeSuggestionService returns canned results per method.
type fakeSuggestionService struct {
	submitResult  *models.Suggestion
	submitErr     error
	listResult    []models.Suggestion
	verifyResult  *models.Suggestion
	verifyErr     error
	approveResult int64
	approveErr    error
	rejectErr     error

	lastApproveUseAI bool
	lastRejectNote   string
	lastActor        *models.Actor
}

func (f *fakeSuggestionService) Submit(_ context.Context, _ *services.SubmitSuggestionRequest) (*models.Suggestion, error) {
	return f.submitResult, f.submitErr
}

func (f *fakeSuggestionService) ListRecent(_ context.Context, _ int) ([]models.Suggestion, error) {
	return f.listResult, nil
}

func (f *fakeSuggestionService) Verify(_ context.Context, _ int64) (*models.Suggestion, error) {
	return f.verifyResult, f.verifyErr
}

func (f *fakeSuggestionService) Approve(_ context.Context, _ int64, actor *models.Actor, useAIContent bool) (int64, error) {
	f.lastActor = actor
	f.lastApproveUseAI = useAIContent
	return f.approveResult, f.approveErr
}

func (f *fakeSuggestionService) Reject(_ context.Context, _ int64, actor *models.Actor, note string) error {
	f.lastActor = actor
	f.lastRejectNote = note
	return f.rejectErr
}

type fakeNodeService struct {
	result *services.TokenizedNode
	err    error
}

func (f *fakeNodeService) GetTokenized(_ context.Context, _ int64) (*services.TokenizedNode, error) {
	return f.result, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func submitBody() string {
	return `{
		"work_id": 1,
		"node_id": 10,
		"node_type": "pasal",
		"current_content": "Teks lama",
		"suggested_content": "Teks baru"
	}`
}

// --- SuggestionHandler ---

func TestSubmitHandler_Created(t *testing.T) {
	svc := &fakeSuggestionService{submitResult: &models.Suggestion{ID: 7, Status: models.SuggestionPending}}
	h := NewSuggestionHandler(svc, ratelimit.NewLimiter(), discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/suggestions", strings.NewReader(submitBody()))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var got models.Suggestion
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != 7 {
		t.Errorf("id = %d", got.ID)
	}
}

func TestSubmitHandler_InvalidJSON(t *testing.T) {
	svc := &fakeSuggestionService{}
	h := NewSuggestionHandler(svc, ratelimit.NewLimiter(), discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/suggestions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestSubmitHandler_StaleSnapshot(t *testing.T) {
	svc := &fakeSuggestionService{submitErr: &domain.ConflictError{Message: "content has changed"}}
	h := NewSuggestionHandler(svc, ratelimit.NewLimiter(), discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/suggestions", strings.NewReader(submitBody()))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestSubmitHandler_RateLimited(t *testing.T) {
	svc := &fakeSuggestionService{submitResult: &models.Suggestion{ID: 1}}
	h := NewSuggestionHandler(svc, ratelimit.NewLimiter(), discardLogger())

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/suggestions", strings.NewReader(submitBody()))
		req.Header.Set("x-real-ip", "203.0.113.9")
		last = httptest.NewRecorder()
		h.Submit(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("11th request status = %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	var body map[string]interface{}
	if err := json.Unmarshal(last.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, ok := body["retry_after_seconds"]; !ok {
		t.Error("missing retry_after_seconds in body")
	}

	// A different client is unaffected
	req := httptest.NewRequest(http.MethodPost, "/api/suggestions", strings.NewReader(submitBody()))
	req.Header.Set("x-real-ip", "203.0.113.10")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("other client status = %d, want 201", rec.Code)
	}
}

// --- AdminHandler ---

// adminMux registers the admin routes so {id} path values resolve.
func adminMux(h *AdminHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/suggestions", h.ListSuggestions)
	mux.HandleFunc("POST /api/admin/suggestions/{id}/verify", h.VerifySuggestion)
	mux.HandleFunc("POST /api/admin/suggestions/{id}/approve", h.ApproveSuggestion)
	mux.HandleFunc("POST /api/admin/suggestions/{id}/reject", h.RejectSuggestion)
	return mux
}

func adminRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return httputil.WithActor(req, &models.Actor{ID: "3f9f2f64-7a3c-4a5e-9d2b-6c1e8a0d4b21", Email: "admin@example.com"})
}

func TestListSuggestions(t *testing.T) {
	svc := &fakeSuggestionService{listResult: []models.Suggestion{{ID: 2}, {ID: 1}}}
	mux := adminMux(NewAdminHandler(svc, discardLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, adminRequest(http.MethodGet, "/api/admin/suggestions?limit=2", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Suggestions []models.Suggestion `json:"suggestions"`
		Count       int                 `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Count != 2 || len(body.Suggestions) != 2 {
		t.Errorf("count = %d, suggestions = %d", body.Count, len(body.Suggestions))
	}
}

func TestListSuggestions_BadLimit(t *testing.T) {
	mux := adminMux(NewAdminHandler(&fakeSuggestionService{}, discardLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, adminRequest(http.MethodGet, "/api/admin/suggestions?limit=abc", ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestVerifySuggestion_UpstreamFailure(t *testing.T) {
	svc := &fakeSuggestionService{verifyErr: fmt.Errorf("%w: model timeout", domain.ErrUpstream)}
	mux := adminMux(NewAdminHandler(svc, discardLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/suggestions/5/verify", ""))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestVerifySuggestion_NotPending(t *testing.T) {
	svc := &fakeSuggestionService{verifyErr: &domain.NotFoundError{Message: "suggestion not found or no longer pending"}}
	mux := adminMux(NewAdminHandler(svc, discardLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/suggestions/5/verify", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestApproveSuggestion(t *testing.T) {
	svc := &fakeSuggestionService{approveResult: 42}
	mux := adminMux(NewAdminHandler(svc, discardLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/suggestions/5/approve", `{"use_ai_content": true}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !svc.lastApproveUseAI {
		t.Error("use_ai_content not passed through")
	}
	if svc.lastActor == nil || svc.lastActor.ID == "" {
		t.Error("actor not passed through")
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["revision_id"] != float64(42) {
		t.Errorf("revision_id = %v", body["revision_id"])
	}
}

func TestApproveSuggestion_NoBody(t *testing.T) {
	svc := &fakeSuggestionService{approveResult: 43}
	mux := adminMux(NewAdminHandler(svc, discardLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/suggestions/5/approve", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.lastApproveUseAI {
		t.Error("use_ai_content must default to false")
	}
}

func TestApproveSuggestion_ChunkedBody(t *testing.T) {
	svc := &fakeSuggestionService{approveResult: 44}
	mux := adminMux(NewAdminHandler(svc, discardLogger()))

	// Chunked transfer leaves ContentLength at -1; the body must still
	// be decoded.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/suggestions/5/approve",
		io.NopCloser(strings.NewReader(`{"use_ai_content": true}`)))
	req = httputil.WithActor(req, &models.Actor{ID: "3f9f2f64-7a3c-4a5e-9d2b-6c1e8a0d4b21", Email: "admin@example.com"})
	if req.ContentLength != -1 {
		t.Fatalf("ContentLength = %d, want -1", req.ContentLength)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !svc.lastApproveUseAI {
		t.Error("use_ai_content dropped for chunked body")
	}
}

func TestApproveSuggestion_MalformedBody(t *testing.T) {
	mux := adminMux(NewAdminHandler(&fakeSuggestionService{}, discardLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/suggestions/5/approve", `{"use_ai_content":`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestApproveSuggestion_BadID(t *testing.T) {
	mux := adminMux(NewAdminHandler(&fakeSuggestionService{}, discardLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/suggestions/abc/approve", ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRejectSuggestion(t *testing.T) {
	svc := &fakeSuggestionService{}
	mux := adminMux(NewAdminHandler(svc, discardLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/suggestions/5/reject", `{"review_note": "tidak sesuai"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.lastRejectNote != "tidak sesuai" {
		t.Errorf("review_note = %q", svc.lastRejectNote)
	}
}

func TestRejectSuggestion_ChunkedBody(t *testing.T) {
	svc := &fakeSuggestionService{}
	mux := adminMux(NewAdminHandler(svc, discardLogger()))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/suggestions/5/reject",
		io.NopCloser(strings.NewReader(`{"review_note": "perlu sumber"}`)))
	req = httputil.WithActor(req, &models.Actor{ID: "3f9f2f64-7a3c-4a5e-9d2b-6c1e8a0d4b21", Email: "admin@example.com"})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.lastRejectNote != "perlu sumber" {
		t.Errorf("review_note = %q, want it decoded from chunked body", svc.lastRejectNote)
	}
}

// --- NodeHandler ---

func TestGetNode(t *testing.T) {
	content := "Lihat Pasal 5."
	svc := &fakeNodeService{result: &services.TokenizedNode{
		Node: &models.DocumentNode{ID: 10, ContentText: content},
		Tokens: []crossref.Token{
			{Type: crossref.TypeText, Value: "Lihat "},
			{Type: crossref.TypePasal, Value: "Pasal 5", PasalNumber: "5", Href: "#pasal-5"},
			{Type: crossref.TypeText, Value: "."},
		},
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/nodes/{id}", NewNodeHandler(svc, discardLogger()).GetNode)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nodes/10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body services.TokenizedNode
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	joined := ""
	for _, tok := range body.Tokens {
		joined += tok.Value
	}
	if joined != content {
		t.Errorf("token values join to %q, want %q", joined, content)
	}
}

func TestGetNode_NotFound(t *testing.T) {
	svc := &fakeNodeService{err: &domain.NotFoundError{Message: "node not found"}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/nodes/{id}", NewNodeHandler(svc, discardLogger()).GetNode)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nodes/99", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}
