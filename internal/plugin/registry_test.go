package plugin

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// fakeModule records lifecycle calls for registry tests.
type fakeModule struct {
	name    string
	inited  bool
	started bool
	stopped bool
	routes  []Route
}

func (f *fakeModule) Name() string    { return f.name }
func (f *fakeModule) Version() string { return "0.0.1" }
func (f *fakeModule) Init(*viper.Viper, *zap.Logger) error {
	f.inited = true
	return nil
}
func (f *fakeModule) Start(context.Context) error {
	f.started = true
	return nil
}
func (f *fakeModule) Stop() error {
	f.stopped = true
	return nil
}
func (f *fakeModule) Routes() []Route { return f.routes }

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	if err := r.Register(&fakeModule{name: "search"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&fakeModule{name: "search"}); err == nil {
		t.Error("duplicate Register should fail")
	}
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	m := &fakeModule{name: "artwork"}
	if err := r.Register(m); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := r.InitAll(viper.New()); err != nil {
		t.Fatalf("InitAll: %v", err)
	}
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	r.StopAll()

	if !m.inited || !m.started || !m.stopped {
		t.Errorf("lifecycle flags = init %v, start %v, stop %v, want all true",
			m.inited, m.started, m.stopped)
	}
}

func TestRegistryInitAllSkipsDisabled(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	m := &fakeModule{name: "resolve"}
	if err := r.Register(m); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cfg := viper.New()
	cfg.Set("modules.resolve.enabled", false)
	if err := r.InitAll(cfg); err != nil {
		t.Fatalf("InitAll: %v", err)
	}
	if m.inited {
		t.Error("disabled module should not be initialized")
	}
}

func TestRegistryAllRoutes(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	m := &fakeModule{name: "library", routes: []Route{{Method: "GET", Path: "/devices"}}}
	if err := r.Register(m); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&fakeModule{name: "selection"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	routes := r.AllRoutes()
	if len(routes) != 1 {
		t.Fatalf("AllRoutes returned %d modules, want 1 (routeless modules omitted)", len(routes))
	}
	if len(routes["library"]) != 1 {
		t.Errorf("library routes = %d, want 1", len(routes["library"]))
	}
}
