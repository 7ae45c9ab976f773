package library

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/stoodlemayer/gameshelf/internal/plugin"
	"github.com/stoodlemayer/gameshelf/internal/server"
	"github.com/stoodlemayer/gameshelf/internal/store"
	"github.com/stoodlemayer/gameshelf/pkg/models"
)

// Module hosts the device library behind the HTTP API.
type Module struct {
	logger *zap.Logger
	config *viper.Viper
	store  *store.SQLiteStore
	repo   DeviceRepository
}

// New creates the library module backed by the given store.
func New(st *store.SQLiteStore) *Module {
	return &Module{store: st}
}

// Repository returns the device repository for other modules (the resolver
// reads devices through it). Valid after Init.
func (m *Module) Repository() DeviceRepository {
	return m.repo
}

func (m *Module) Name() string    { return "library" }
func (m *Module) Version() string { return "0.3.0" }

func (m *Module) Init(config *viper.Viper, logger *zap.Logger) error {
	m.config = config
	m.logger = logger

	repo, err := NewSQLiteDeviceRepository(context.Background(), m.store)
	if err != nil {
		return err
	}
	m.repo = repo
	return nil
}

func (m *Module) Start(ctx context.Context) error { return nil }
func (m *Module) Stop() error                     { return nil }

func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/devices", Handler: m.handleListDevices},
		{Method: "POST", Path: "/devices", Handler: m.handleCreateDevice},
		{Method: "GET", Path: "/devices/{id}", Handler: m.handleGetDevice},
		{Method: "PUT", Path: "/devices/{id}", Handler: m.handleUpdateDevice},
		{Method: "DELETE", Path: "/devices/{id}", Handler: m.handleDeleteDevice},
	}
}

// deviceRequest is the JSON body for POST and PUT /devices.
type deviceRequest struct {
	Name     string                   `json:"name"`
	Category models.DeviceCategory    `json:"category"`
	Loadouts []models.PlatformLoadout `json:"loadouts"`
}

func (m *Module) handleListDevices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := DeviceFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	opts := ListOptions{
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if v := q.Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		opts.Offset, _ = strconv.Atoi(v)
	}

	result, err := m.repo.List(r.Context(), filter, opts)
	if err != nil {
		m.logger.Warn("failed to list devices", zap.Error(err))
		server.InternalError(w, "failed to list devices", r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (m *Module) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d, err := m.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			server.NotFound(w, "device "+id+" not found", r.URL.Path)
			return
		}
		m.logger.Warn("failed to get device", zap.String("id", id), zap.Error(err))
		server.InternalError(w, "failed to get device", r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}

func (m *Module) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if req.Name == "" {
		server.BadRequest(w, "name is required", r.URL.Path)
		return
	}
	if !req.Category.Valid() {
		server.BadRequest(w, "category must be one of computer, handheld, console, hybrid, mobile, custom", r.URL.Path)
		return
	}

	d := &models.Device{
		Name:     req.Name,
		Category: req.Category,
		Loadouts: req.Loadouts,
	}
	if err := m.repo.Create(r.Context(), d); err != nil {
		m.logger.Warn("failed to create device", zap.Error(err))
		server.InternalError(w, "failed to create device", r.URL.Path)
		return
	}

	m.logger.Info("device created", zap.String("id", d.ID), zap.String("name", d.Name))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

func (m *Module) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}

	existing, err := m.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			server.NotFound(w, "device "+id+" not found", r.URL.Path)
			return
		}
		server.InternalError(w, "failed to load device", r.URL.Path)
		return
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Category != "" {
		if !req.Category.Valid() {
			server.BadRequest(w, "invalid category", r.URL.Path)
			return
		}
		existing.Category = req.Category
	}
	if req.Loadouts != nil {
		existing.Loadouts = req.Loadouts
	}

	if err := m.repo.Update(r.Context(), existing); err != nil {
		m.logger.Warn("failed to update device", zap.String("id", id), zap.Error(err))
		server.InternalError(w, "failed to update device", r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existing)
}

func (m *Module) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := m.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			server.NotFound(w, "device "+id+" not found", r.URL.Path)
			return
		}
		m.logger.Warn("failed to delete device", zap.String("id", id), zap.Error(err))
		server.InternalError(w, "failed to delete device", r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
