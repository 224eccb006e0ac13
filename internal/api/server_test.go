package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"iobench/internal/bench"
	"iobench/internal/memstore"
)

func newTestServer() *Server {
	cfg := bench.Config{
		PayloadSize: 16,
		Rates:       []int{10, 20},
		Duration:    time.Second,
	}
	engine := bench.New(memstore.New(), cfg)
	return NewServer(":0", engine)
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	s.handleStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Running {
		t.Error("expected not running before Run")
	}
	if resp.Campaigns != 2 {
		t.Errorf("expected 2 campaigns, got %d", resp.Campaigns)
	}
	if resp.Duration != "1s" {
		t.Errorf("expected duration 1s, got %s", resp.Duration)
	}
}

func TestHandleStatusMethodNotAllowed(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/status", nil)
	rec := httptest.NewRecorder()
	s.handleStatus(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestHandleProgress(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
	rec := httptest.NewRecorder()
	s.handleProgress(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var p bench.Progress
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("failed to decode progress: %v", err)
	}
	if p.Running {
		t.Error("expected not running before Run")
	}
	if p.Campaigns != 2 {
		t.Errorf("expected 2 campaigns, got %d", p.Campaigns)
	}
}
