package resolve_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/stoodlemayer/gameshelf/internal/resolve"
	"github.com/stoodlemayer/gameshelf/internal/testutil"
	"github.com/stoodlemayer/gameshelf/pkg/models"
)

// stubDevices is a canned DeviceSource.
type stubDevices struct {
	devices []models.Device
	err     error
}

func (s *stubDevices) ListAll(ctx context.Context) ([]models.Device, error) {
	return s.devices, s.err
}

func setupResolveMux(t *testing.T, src resolve.DeviceSource) *http.ServeMux {
	t.Helper()

	m := resolve.New()
	if err := m.Init(viper.New(), zap.NewNop()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if src != nil {
		m.UseDeviceSource(src)
	}

	mux := http.NewServeMux()
	for _, rt := range m.Routes() {
		mux.HandleFunc(fmt.Sprintf("%s /api/v1/resolve%s", rt.Method, rt.Path), rt.Handler)
	}
	return mux
}

func doResolve(mux *http.ServeMux, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest("POST", "/api/v1/resolve/devices", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

type resolveTestResponse struct {
	Devices     []models.Device `json:"devices"`
	FilteredOut int             `json:"filtered_out"`
	Retro       bool            `json:"retro"`
}

func mixedDevices() []models.Device {
	return []models.Device{
		testutil.NewDevice(testutil.WithName("Desktop"), testutil.WithPlatforms("windows")),
		testutil.NewDevice(testutil.WithName("Handheld PC"), testutil.WithPlatforms("steamos", "linux")),
	}
}

func TestHandleResolveDevices(t *testing.T) {
	mux := setupResolveMux(t, &stubDevices{devices: mixedDevices()})

	entry := testutil.NewEntry("Windows Only Game",
		testutil.WithEntryPlatforms("PC (Microsoft Windows)"))

	w := doResolve(mux, map[string]any{"entry": entry})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp resolveTestResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Devices) != 1 || resp.Devices[0].Name != "Desktop" {
		t.Errorf("devices = %v, want only Desktop", resp.Devices)
	}
	if resp.FilteredOut != 1 {
		t.Errorf("filtered_out = %d, want 1", resp.FilteredOut)
	}
	if resp.Retro {
		t.Error("retro = true for an entry without a release date")
	}
}

func TestHandleResolveTierWidensToLinuxFamily(t *testing.T) {
	mux := setupResolveMux(t, &stubDevices{devices: mixedDevices()})

	entry := testutil.NewEntry("Windows Only Game",
		testutil.WithEntryPlatforms("PC (Microsoft Windows)"))

	w := doResolve(mux, map[string]any{"entry": entry, "compat_tier": "platinum"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp resolveTestResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Devices) != 2 {
		t.Errorf("devices with platinum tier = %d, want both", len(resp.Devices))
	}
}

func TestHandleResolveFreshTierOverridesCachedVerdict(t *testing.T) {
	mux := setupResolveMux(t, &stubDevices{devices: mixedDevices()})

	entry := testutil.NewEntry("Windows Only Game",
		testutil.WithEntryPlatforms("PC (Microsoft Windows)"))

	// Seed the cache with an acceptable verdict.
	w := doResolve(mux, map[string]any{"entry": entry, "compat_tier": "platinum"})
	if w.Code != http.StatusOK {
		t.Fatalf("seed request status = %d", w.Code)
	}

	// A downgraded tier on the same entry must win over the cached verdict.
	w = doResolve(mux, map[string]any{"entry": entry, "compat_tier": "borked"})
	var resp resolveTestResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Devices) != 1 || resp.Devices[0].Name != "Desktop" {
		t.Fatalf("devices after downgraded tier = %v, want only Desktop", resp.Devices)
	}

	// The downgrade also refreshed the cache: a tierless request sees it.
	w = doResolve(mux, map[string]any{"entry": entry})
	resp = resolveTestResponse{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Devices) != 1 {
		t.Errorf("devices on cached verdict = %d, want 1", len(resp.Devices))
	}
}

func TestHandleResolveCachedVerdictAnswersTierlessRequest(t *testing.T) {
	mux := setupResolveMux(t, &stubDevices{devices: mixedDevices()})

	entry := testutil.NewEntry("Windows Only Game",
		testutil.WithEntryPlatforms("PC (Microsoft Windows)"))

	if w := doResolve(mux, map[string]any{"entry": entry, "compat_tier": "gold"}); w.Code != http.StatusOK {
		t.Fatalf("seed request status = %d", w.Code)
	}

	w := doResolve(mux, map[string]any{"entry": entry})
	var resp resolveTestResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Devices) != 2 {
		t.Errorf("devices = %d, want 2 (memoized acceptable verdict)", len(resp.Devices))
	}
}

func TestHandleResolveRetroFlag(t *testing.T) {
	devices := []models.Device{
		testutil.NewDevice(testutil.WithName("Switch"), testutil.WithPlatforms("switch")),
	}
	mux := setupResolveMux(t, &stubDevices{devices: devices})

	entry := testutil.NewEntry("Classic Platformer",
		testutil.WithEntryPlatforms("NES"),
		testutil.WithReleaseYear(1988))

	w := doResolve(mux, map[string]any{"entry": entry})
	var resp resolveTestResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Retro {
		t.Error("retro = false for a 1988 release")
	}
	if len(resp.Devices) != 1 {
		t.Errorf("devices = %d, want the successor console", len(resp.Devices))
	}
}

func TestHandleResolveNoDeviceSource(t *testing.T) {
	mux := setupResolveMux(t, nil)

	w := doResolve(mux, map[string]any{})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status without device source = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestHandleResolveInvalidBody(t *testing.T) {
	mux := setupResolveMux(t, &stubDevices{})

	req := httptest.NewRequest("POST", "/api/v1/resolve/devices", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
