package resolve

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/stoodlemayer/gameshelf/internal/plugin"
	"github.com/stoodlemayer/gameshelf/internal/server"
	"github.com/stoodlemayer/gameshelf/pkg/compat"
	"github.com/stoodlemayer/gameshelf/pkg/models"
)

// DeviceSource supplies the user's declared devices. Implemented by the
// library module's repository; the resolver only reads.
type DeviceSource interface {
	ListAll(ctx context.Context) ([]models.Device, error)
}

// Module hosts the resolver behind the HTTP API.
type Module struct {
	logger   *zap.Logger
	config   *viper.Viper
	resolver *Resolver
	devices  DeviceSource
	verdicts *VerdictCache
}

// New creates the resolve module.
func New() *Module {
	return &Module{}
}

// UseDeviceSource wires the device repository. Called by main once the
// library module has been initialized; handlers check for a nil source.
func (m *Module) UseDeviceSource(src DeviceSource) {
	m.devices = src
}

func (m *Module) Name() string    { return "resolve" }
func (m *Module) Version() string { return "0.3.0" }

func (m *Module) Init(config *viper.Viper, logger *zap.Logger) error {
	m.config = config
	m.logger = logger
	m.resolver = NewResolver(compat.NewTable())

	ttl := config.GetDuration("verdict_cache_ttl")
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	m.verdicts = NewVerdictCache(ttl)

	return nil
}

func (m *Module) Start(ctx context.Context) error { return nil }
func (m *Module) Stop() error                     { return nil }

func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "POST", Path: "/devices", Handler: m.handleResolveDevices},
	}
}

// resolveRequest is the JSON body for POST /devices. Either CompatTier (a raw
// tier string from the verdict source) or CompatHint (a pre-computed boolean)
// may be supplied; the tier takes precedence when present.
type resolveRequest struct {
	Entry      *models.CatalogEntry `json:"entry"`
	CompatTier string               `json:"compat_tier,omitempty"`
	CompatHint bool                 `json:"compat_hint,omitempty"`
}

type resolveResponse struct {
	Devices     []models.Device `json:"devices"`
	FilteredOut int             `json:"filtered_out"`
	Retro       bool            `json:"retro"`
}

// handleResolveDevices filters the user's device library against the entry.
func (m *Module) handleResolveDevices(w http.ResponseWriter, r *http.Request) {
	if m.devices == nil {
		server.InternalError(w, "device source not configured", r.URL.Path)
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}

	all, err := m.devices.ListAll(r.Context())
	if err != nil {
		m.logger.Warn("failed to list devices", zap.Error(err))
		server.InternalError(w, "failed to list devices", r.URL.Path)
		return
	}

	// A request-supplied tier is fresher than anything memoized: map it and
	// refresh the cache. The cache only answers when the request carries no
	// tier of its own.
	hint := req.CompatHint
	if req.CompatTier != "" {
		hint = TierAcceptable(req.CompatTier)
		if req.Entry != nil && req.Entry.ID != "" {
			m.verdicts.Put(req.Entry.ID, hint)
		}
	} else if req.Entry != nil && req.Entry.ID != "" {
		if cached, ok := m.verdicts.Get(req.Entry.ID); ok {
			hint = cached
		}
	}

	resolved := m.resolver.ResolveDevices(req.Entry, all, hint)

	retro := false
	if req.Entry != nil {
		if y := req.Entry.ReleaseYear(); y != 0 && y < RetroYearCutoff {
			retro = true
		}
	}

	m.logger.Debug("resolved devices",
		zap.Int("total", len(all)),
		zap.Int("resolved", len(resolved)),
		zap.Bool("compat_hint", hint),
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resolveResponse{
		Devices:     resolved,
		FilteredOut: len(all) - len(resolved),
		Retro:       retro,
	})
}
