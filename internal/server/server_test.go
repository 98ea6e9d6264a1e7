package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/storage/sqlite"
)

type failingRemote struct{}

func (failingRemote) FetchHistory(context.Context, string) ([]models.FootprintRecord, error) {
	return nil, stderrors.New("database down")
}

func (failingRemote) CommitHistory(context.Context, string, models.FootprintRecord) (models.FootprintRecord, error) {
	return models.FootprintRecord{}, stderrors.New("database down")
}

func (failingRemote) DeleteHistory(context.Context, string, string) error {
	return stderrors.New("database down")
}

func setupServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "server.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return New(store)
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	s := setupServer(t)
	rr := do(t, s.Handler(), http.MethodGet, "/api/health", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Body.String() != `{"status":"ok"}` {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestHistoryLifecycle(t *testing.T) {
	s := setupServer(t)
	h := s.Handler()

	rr := do(t, h, http.MethodPost, "/api/history", CommitRequest{
		UserID: "alice",
		Item:   &models.FootprintRecord{ItemName: "Coffee", WaterFootprintLiters: 140},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", rr.Code, rr.Body.String())
	}
	var stored models.FootprintRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &stored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stored.ID == "" || stored.Timestamp == "" {
		t.Errorf("stored record missing server fields: %+v", stored)
	}

	rr = do(t, h, http.MethodGet, "/api/history?user_id=alice", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rr.Code)
	}
	var history []models.FootprintRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history) != 1 || history[0].ID != stored.ID {
		t.Fatalf("history = %+v", history)
	}

	rr = do(t, h, http.MethodGet, "/api/history?user_id=bob", nil)
	if rr.Body.String() != "[]" {
		t.Errorf("other identity history = %s, want []", rr.Body.String())
	}

	rr = do(t, h, http.MethodDelete, "/api/history/"+stored.ID+"?user_id=alice", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", rr.Code)
	}
	rr = do(t, h, http.MethodDelete, "/api/history/"+stored.ID+"?user_id=alice", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", rr.Code)
	}
}

func TestBadRequests(t *testing.T) {
	s := setupServer(t)
	h := s.Handler()

	tests := []struct {
		name   string
		method string
		target string
		body   any
		want   int
	}{
		{name: "get without user", method: http.MethodGet, target: "/api/history", want: http.StatusBadRequest},
		{name: "delete without user", method: http.MethodDelete, target: "/api/history/abc", want: http.StatusBadRequest},
		{name: "post without item", method: http.MethodPost, target: "/api/history", body: map[string]string{"user_id": "alice"}, want: http.StatusBadRequest},
		{name: "post without user", method: http.MethodPost, target: "/api/history", body: map[string]any{"item": map[string]any{"item_name": "Tea"}}, want: http.StatusBadRequest},
		{
			name:   "post negative liters",
			method: http.MethodPost,
			target: "/api/history",
			body:   CommitRequest{UserID: "alice", Item: &models.FootprintRecord{ItemName: "Tea", WaterFootprintLiters: -3}},
			want:   http.StatusBadRequest,
		},
		{name: "unknown path", method: http.MethodGet, target: "/api/nope", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.target, tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
			var payload map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil || payload["error"] == nil {
				t.Errorf("expected an error payload, got %s", rr.Body.String())
			}
		})
	}
}

func TestBackendFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(failingRemote{}).Handler()

	for _, tc := range []struct {
		method, target string
		body           any
	}{
		{http.MethodGet, "/api/history?user_id=alice", nil},
		{http.MethodPost, "/api/history", CommitRequest{UserID: "alice", Item: &models.FootprintRecord{ItemName: "Tea"}}},
		{http.MethodDelete, "/api/history/1?user_id=alice", nil},
	} {
		rr := do(t, h, tc.method, tc.target, tc.body)
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("%s %s status = %d, want 500", tc.method, tc.target, rr.Code)
		}
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New(failingRemote{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
