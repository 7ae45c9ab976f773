package search_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/stoodlemayer/gameshelf/internal/search"
	"github.com/stoodlemayer/gameshelf/internal/testutil"
	"github.com/stoodlemayer/gameshelf/pkg/models"
)

func setupSearchMux(t *testing.T, cfg *viper.Viper) *http.ServeMux {
	t.Helper()

	m := search.New()
	if err := m.Init(cfg, zap.NewNop()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	mux := http.NewServeMux()
	for _, rt := range m.Routes() {
		mux.HandleFunc(fmt.Sprintf("%s /api/v1/search%s", rt.Method, rt.Path), rt.Handler)
	}
	return mux
}

func doJSON(mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandleRank(t *testing.T) {
	mux := setupSearchMux(t, viper.New())

	base := testutil.NewEntry("The Legend of Zelda II: The Adventure of Link")
	pack := testutil.NewEntry("Zelda II Collector's Pack")

	w := doJSON(mux, "POST", "/api/v1/search/rank", map[string]any{
		"query":      "zelda 2",
		"candidates": []models.CatalogEntry{pack, base},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Query   string               `json:"query"`
		Results []models.ScoredEntry `json:"results"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Query != "zelda 2" {
		t.Errorf("query echoed as %q, want zelda 2", resp.Query)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d entries, want 2", len(resp.Results))
	}
	if resp.Results[0].Entry.ID != base.ID {
		t.Errorf("first result = %q, want the base game", resp.Results[0].Entry.Name)
	}
}

func TestHandleRankInvalidBody(t *testing.T) {
	mux := setupSearchMux(t, viper.New())

	req := httptest.NewRequest("POST", "/api/v1/search/rank", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content-type = %q, want application/problem+json", ct)
	}
}

func TestHandleRankRateLimited(t *testing.T) {
	cfg := viper.New()
	cfg.Set("rate_limit_rps", 0.01)
	cfg.Set("rate_limit_burst", 1)
	mux := setupSearchMux(t, cfg)

	body := map[string]any{"query": "doom", "candidates": []models.CatalogEntry{}}

	if w := doJSON(mux, "POST", "/api/v1/search/rank", body); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", w.Code, http.StatusOK)
	}

	w := doJSON(mux, "POST", "/api/v1/search/rank", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	var p struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if p.Type != "https://gameshelf.dev/problems/rate-limited" {
		t.Errorf("problem type = %q, want rate-limited", p.Type)
	}
}
