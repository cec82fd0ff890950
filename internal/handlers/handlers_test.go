package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/reactagent/calendar-service/internal/models"
	"github.com/reactagent/calendar-service/internal/pipeline"
)

// memStore is an in-memory stand-in for the Postgres store covering both the
// pipeline capabilities and the read side.
type memStore struct {
	events []models.CalendarEvent
	traces []models.ReasoningTrace
	err    error
}

func (m *memStore) InsertEvent(_ context.Context, event models.CalendarEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *memStore) InsertTrace(_ context.Context, trace models.ReasoningTrace) error {
	if m.err != nil {
		return m.err
	}
	m.traces = append(m.traces, trace)
	return nil
}

func (m *memStore) ListEventsByEmail(_ context.Context, email string) ([]models.CalendarEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []models.CalendarEvent{}
	for _, e := range m.events {
		if e.Email == email {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) ListTracesByEmail(_ context.Context, email string) ([]models.ReasoningTrace, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []models.ReasoningTrace{}
	for _, tr := range m.traces {
		if tr.Email == email {
			out = append(out, tr)
		}
	}
	return out, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, []byte) error { return nil }

func newTestRouter(t *testing.T, st *memStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p := pipeline.New(st, st, noopPublisher{}, zaptest.NewLogger(t).Sugar())

	r := gin.New()
	RegisterQueryRoutes(r, p)
	RegisterReadRoutes(r, st)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProcessQuery_EndToEnd(t *testing.T) {
	st := &memStore{}
	r := newTestRouter(t, st)

	w := postJSON(t, r, "/api/process-query", models.ProcessQueryRequest{
		Email: "ops@plant.example",
		Query: "Schedule a production review meeting tomorrow at 10am",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result models.PipelineResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Thought)
	assert.NotEmpty(t, result.StreamID)
	require.NotNil(t, result.Event)
	assert.Contains(t, result.Event.Title, "production review")

	require.Len(t, st.events, 1)
	require.Len(t, st.traces, 1)
}

func TestProcessQuery_MissingFields(t *testing.T) {
	st := &memStore{}
	r := newTestRouter(t, st)

	for _, body := range []models.ProcessQueryRequest{
		{Email: "", Query: "schedule a meeting"},
		{Email: "ops@plant.example", Query: ""},
	} {
		w := postJSON(t, r, "/api/process-query", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Email and query are required")
	}

	assert.Empty(t, st.events)
	assert.Empty(t, st.traces)
}

func TestProcessQuery_InvalidJSON(t *testing.T) {
	r := newTestRouter(t, &memStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/process-query", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEvents_ByEmail(t *testing.T) {
	st := &memStore{
		events: []models.CalendarEvent{
			{ID: "e1", Email: "a@plant.example", Title: "supplier meeting"},
			{ID: "e2", Email: "b@plant.example", Title: "quality meeting"},
		},
	}
	r := newTestRouter(t, st)

	req := httptest.NewRequest(http.MethodGet, "/api/events/a@plant.example", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Events []models.CalendarEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "e1", resp.Events[0].ID)
}

func TestListLogs_ByEmail(t *testing.T) {
	st := &memStore{
		traces: []models.ReasoningTrace{
			{ID: "t1", Email: "a@plant.example", Query: "schedule a meeting"},
		},
	}
	r := newTestRouter(t, st)

	req := httptest.NewRequest(http.MethodGet, "/api/logs/a@plant.example", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Logs []models.ReasoningTrace `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, "t1", resp.Logs[0].ID)
}

func TestListEvents_StoreError(t *testing.T) {
	st := &memStore{err: errors.New("db down")}
	r := newTestRouter(t, st)

	req := httptest.NewRequest(http.MethodGet, "/api/events/a@plant.example", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
