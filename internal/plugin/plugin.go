// Package plugin defines the module interface and lifecycle registry that
// GameShelf engines are composed from at compile time.
package plugin

import (
	"context"
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Route represents an HTTP route exposed by a module. Routes are mounted
// under /api/v1/{module} by the server.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Plugin is the interface every GameShelf module implements.
type Plugin interface {
	// Name returns the module's unique identifier (e.g. "search", "resolve").
	Name() string

	// Version returns the module's semantic version.
	Version() string

	// Init initializes the module with its configuration section and a
	// named logger.
	Init(config *viper.Viper, logger *zap.Logger) error

	// Start begins any background operations.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the module.
	Stop() error

	// Routes returns the HTTP routes this module exposes.
	Routes() []Route
}
