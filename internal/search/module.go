package search

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/stoodlemayer/gameshelf/internal/plugin"
	"github.com/stoodlemayer/gameshelf/internal/server"
	"github.com/stoodlemayer/gameshelf/pkg/models"
)

// Module hosts the ranker behind the HTTP API.
type Module struct {
	logger  *zap.Logger
	config  *viper.Viper
	ranker  *Ranker
	limiter *rate.Limiter
}

// New creates the search module.
func New() *Module {
	return &Module{}
}

func (m *Module) Name() string    { return "search" }
func (m *Module) Version() string { return "0.3.0" }

func (m *Module) Init(config *viper.Viper, logger *zap.Logger) error {
	m.config = config
	m.logger = logger

	var opts []Option
	if n := config.GetInt("max_results"); n > 0 {
		opts = append(opts, WithMaxResults(n))
	}
	m.ranker = NewRanker(opts...)

	// Keystroke-driven callers debounce on their side, but a burst budget
	// keeps a misbehaving client from starving the process.
	rps := config.GetFloat64("rate_limit_rps")
	if rps <= 0 {
		rps = 10
	}
	burst := config.GetInt("rate_limit_burst")
	if burst <= 0 {
		burst = 20
	}
	m.limiter = rate.NewLimiter(rate.Limit(rps), burst)

	return nil
}

func (m *Module) Start(ctx context.Context) error { return nil }
func (m *Module) Stop() error                     { return nil }

func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "POST", Path: "/rank", Handler: m.handleRank},
		{Method: "GET", Path: "/live", Handler: m.handleLive},
	}
}

// rankRequest is the JSON body for POST /rank.
type rankRequest struct {
	Query      string                `json:"query"`
	Candidates []models.CatalogEntry `json:"candidates"`
}

// rankResponse is the ranked result list with score breakdowns.
type rankResponse struct {
	Query   string               `json:"query"`
	Results []models.ScoredEntry `json:"results"`
}

// handleRank scores and orders the submitted candidates for the query.
func (m *Module) handleRank(w http.ResponseWriter, r *http.Request) {
	if !m.limiter.Allow() {
		server.RateLimited(w, "ranking rate limit exceeded", r.URL.Path)
		return
	}

	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}

	rankCalls.Inc()
	rankCandidates.Observe(float64(len(req.Candidates)))

	results := m.ranker.RankScored(req.Query, req.Candidates)
	m.logger.Debug("ranked candidates",
		zap.String("query", req.Query),
		zap.Int("candidates", len(req.Candidates)),
		zap.Int("results", len(results)),
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rankResponse{Query: req.Query, Results: results})
}
