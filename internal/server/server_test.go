package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/unistate/devenv/internal/stack"
)

type fakeSource struct {
	statuses []stack.ServiceStatus
	err      error
}

func (f *fakeSource) Status(ctx context.Context) ([]stack.ServiceStatus, error) {
	return f.statuses, f.err
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := New(&fakeSource{}, nil)
	rec := get(t, s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	src := &fakeSource{statuses: []stack.ServiceStatus{
		{Name: "unistate-db-1", Service: "db", State: "running", Health: "healthy"},
	}}
	s := New(src, nil)

	rec := get(t, s, "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Services []stack.ServiceStatus `json:"services"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Services) != 1 || body.Services[0].Health != "healthy" {
		t.Errorf("services = %+v", body.Services)
	}
}

func TestStatusEndpointEmpty(t *testing.T) {
	s := New(&fakeSource{}, nil)
	rec := get(t, s, "/api/status")
	if !strings.Contains(rec.Body.String(), `"services":[]`) {
		t.Errorf("body = %s, want empty services array", rec.Body.String())
	}
}

func TestStatusEndpointSourceFailure(t *testing.T) {
	s := New(&fakeSource{err: errors.New("docker daemon unreachable")}, nil)
	rec := get(t, s, "/api/status")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "docker daemon unreachable") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestManifestEndpoint(t *testing.T) {
	manifest := []byte("services:\n  db:\n    image: postgres:16\n")
	s := New(&fakeSource{}, manifest)

	rec := get(t, s, "/api/manifest")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/yaml" {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Body.String() != string(manifest) {
		t.Errorf("body = %q", rec.Body.String())
	}
}
