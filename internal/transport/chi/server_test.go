package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/makerly/tplsearch/internal/domain"
	"github.com/makerly/tplsearch/internal/domain/search/candidate"
	"github.com/makerly/tplsearch/internal/domain/search/query"
	enrichuc "github.com/makerly/tplsearch/internal/usecase/enrich"
	healthuc "github.com/makerly/tplsearch/internal/usecase/health"
	searchuc "github.com/makerly/tplsearch/internal/usecase/search"
)

// --- Fakes wired through the real usecase services ---

type fakeRecaller struct {
	textRows   []candidate.Candidate
	vectorRows []candidate.Candidate
	err        error
}

func (f *fakeRecaller) Recall(
	_ context.Context, _ []float32, _ string, _ query.Filters, _ int,
) ([]candidate.Candidate, []candidate.Candidate, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.textRows, f.vectorRows, nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

type fakeDisplayRepo struct {
	decorations []enrichuc.Decoration
	err         error
}

func (f *fakeDisplayRepo) Lookup(_ context.Context, _ []string) ([]enrichuc.Decoration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.decorations, nil
}

type fakePinger struct{}

func (f *fakePinger) Ping(_ context.Context) error { return nil }

func newTestServer(rec *fakeRecaller, emb *fakeEmbedder, display *fakeDisplayRepo) *Server {
	searchSvc := searchuc.New(rec, emb, searchuc.NewStandardRanker())
	enrichSvc := enrichuc.New(display)
	healthSvc := healthuc.New(&fakePinger{}, nil, nil)
	return NewServer(searchSvc, enrichSvc, healthSvc, 20, zap.NewNop())
}

func doSearch(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/search", strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.SearchTemplates(rr, req)
	return rr
}

func decodeSearch(t *testing.T, rr *httptest.ResponseRecorder) searchResponse {
	t.Helper()
	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// --- Tests ---

func TestSearchTemplates_OK(t *testing.T) {
	rec := &fakeRecaller{
		textRows: []candidate.Candidate{
			candidate.New("tpl-1", "t1", "posters", candidate.Metadata{CompositeScore: 80}, 0.9),
			candidate.New("tpl-2", "t1", "cards", candidate.Metadata{CompositeScore: 10}, 0.5),
		},
	}
	display := &fakeDisplayRepo{decorations: []enrichuc.Decoration{
		{ItemID: "tpl-1", Title: "Birthday Poster", CoverURL: "https://cdn.example.com/1.png"},
	}}
	s := newTestServer(rec, &fakeEmbedder{}, display)

	rr := doSearch(t, s, `{"query":"birthday poster"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeSearch(t, rr)

	if resp.Total != 2 || len(resp.Items) != 2 {
		t.Fatalf("total=%d items=%d, want 2/2", resp.Total, len(resp.Items))
	}
	if resp.Page != 1 || resp.PageSize != 20 {
		t.Errorf("page=%d page_size=%d, want defaults 1/20", resp.Page, resp.PageSize)
	}
	if resp.Items[0].ItemID != "tpl-1" {
		t.Errorf("top item = %q, want tpl-1", resp.Items[0].ItemID)
	}
	if resp.Items[0].Title != "Birthday Poster" {
		t.Errorf("top title = %q, want decorated", resp.Items[0].Title)
	}
	if resp.Items[1].Title != "" {
		t.Errorf("undecorated item title = %q, want empty", resp.Items[1].Title)
	}
	if resp.Items[0].SortFactors.Similarity != 0.9 {
		t.Errorf("sort factors similarity = %v, want 0.9", resp.Items[0].SortFactors.Similarity)
	}
	if len(resp.Facets) != 2 {
		t.Errorf("facets len = %d, want 2", len(resp.Facets))
	}
}

func TestSearchTemplates_InvalidBody_400(t *testing.T) {
	s := newTestServer(&fakeRecaller{}, &fakeEmbedder{}, &fakeDisplayRepo{})

	rr := doSearch(t, s, `{not json`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeBadRequest {
		t.Errorf("error code = %s, want %s", errResp.Code, codeBadRequest)
	}
}

func TestSearchTemplates_EmptyQuery_400(t *testing.T) {
	s := newTestServer(&fakeRecaller{}, &fakeEmbedder{}, &fakeDisplayRepo{})

	rr := doSearch(t, s, `{"query":"   "}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("error code = %s, want %s", errResp.Code, codeValidationFailed)
	}
}

func TestSearchTemplates_InvalidSortMode_400(t *testing.T) {
	s := newTestServer(&fakeRecaller{}, &fakeEmbedder{}, &fakeDisplayRepo{})

	rr := doSearch(t, s, `{"query":"poster","sort_mode":"trending"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSearchTemplates_EmbeddingFailure_502(t *testing.T) {
	s := newTestServer(&fakeRecaller{}, &fakeEmbedder{err: domain.ErrEmbeddingProvider}, &fakeDisplayRepo{})

	rr := doSearch(t, s, `{"query":"poster"}`)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
	}
	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeEmbeddingProvider {
		t.Errorf("error code = %s, want %s", errResp.Code, codeEmbeddingProvider)
	}
}

func TestSearchTemplates_StoreFailure_503(t *testing.T) {
	s := newTestServer(&fakeRecaller{err: domain.ErrStore}, &fakeEmbedder{}, &fakeDisplayRepo{})

	rr := doSearch(t, s, `{"query":"poster"}`)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestSearchTemplates_EnrichmentFailure_DegradesGracefully(t *testing.T) {
	rec := &fakeRecaller{
		textRows: []candidate.Candidate{
			candidate.New("tpl-1", "", "", candidate.Metadata{}, 0.9),
		},
	}
	s := newTestServer(rec, &fakeEmbedder{}, &fakeDisplayRepo{err: domain.ErrStore})

	rr := doSearch(t, s, `{"query":"poster"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d despite enrichment failure", rr.Code, http.StatusOK)
	}
	resp := decodeSearch(t, rr)
	if len(resp.Items) != 1 {
		t.Fatalf("items len = %d, want 1", len(resp.Items))
	}
	if resp.Items[0].Title != "" || resp.Items[0].CoverURL != "" {
		t.Error("items must be undecorated when display lookup fails")
	}
}

func TestSearchTemplates_FacetsOnly(t *testing.T) {
	rec := &fakeRecaller{
		textRows: []candidate.Candidate{
			candidate.New("tpl-1", "", "posters", candidate.Metadata{}, 0.9),
			candidate.New("tpl-2", "", "cards", candidate.Metadata{}, 0.8),
		},
	}
	s := newTestServer(rec, &fakeEmbedder{}, &fakeDisplayRepo{})

	rr := doSearch(t, s, `{"query":"poster","facets_only":true}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeSearch(t, rr)
	if len(resp.Items) != 0 {
		t.Errorf("facets-only items len = %d, want 0", len(resp.Items))
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
	if len(resp.Facets) != 2 {
		t.Errorf("facets len = %d, want 2", len(resp.Facets))
	}
}

func TestHealthCheck_Healthy(t *testing.T) {
	s := newTestServer(&fakeRecaller{}, &fakeEmbedder{}, &fakeDisplayRepo{})

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	s.HealthCheck(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != string(healthuc.Healthy) {
		t.Errorf("status = %q, want %q", resp.Status, healthuc.Healthy)
	}
	if resp.Checks["database"] != string(healthuc.CheckOK) {
		t.Errorf("database check = %q, want %q", resp.Checks["database"], healthuc.CheckOK)
	}
}
