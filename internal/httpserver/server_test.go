package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/reactagent/calendar-service/internal/models"
	"github.com/reactagent/calendar-service/internal/pipeline"
)

type stubStore struct {
	pingErr error
}

func (s *stubStore) InsertEvent(context.Context, models.CalendarEvent) error  { return nil }
func (s *stubStore) InsertTrace(context.Context, models.ReasoningTrace) error { return nil }
func (s *stubStore) ListEventsByEmail(context.Context, string) ([]models.CalendarEvent, error) {
	return []models.CalendarEvent{}, nil
}
func (s *stubStore) ListTracesByEmail(context.Context, string) ([]models.ReasoningTrace, error) {
	return []models.ReasoningTrace{}, nil
}
func (s *stubStore) Ping(context.Context) error { return s.pingErr }

type stubPublisher struct{}

func (stubPublisher) Publish(context.Context, string, []byte) error { return nil }

func newRouter(t *testing.T, st *stubStore) http.Handler {
	t.Helper()
	p := pipeline.New(st, st, stubPublisher{}, zaptest.NewLogger(t).Sugar())
	return NewRouter(p, st, st)
}

func TestHealth(t *testing.T) {
	r := newRouter(t, &stubStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestReady(t *testing.T) {
	r := newRouter(t, &stubStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReady_StoreUnreachable(t *testing.T) {
	r := newRouter(t, &stubStore{pingErr: errors.New("connection refused")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSHeaders(t *testing.T) {
	r := newRouter(t, &stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:8000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
