// Package pipeline orchestrates one scheduling request end to end: run the
// agent, persist the accepted event, publish it to the stream, and record the
// reasoning trace. Storage and stream failures are absorbed so a degraded
// dependency never fails the primary request.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reactagent/calendar-service/internal/agent"
	"github.com/reactagent/calendar-service/internal/models"
	"github.com/reactagent/calendar-service/internal/stream"
)

// ErrMissingInput reports a request rejected before the pipeline ran.
var ErrMissingInput = errors.New("email and query are required")

// EventStore persists accepted calendar events.
type EventStore interface {
	InsertEvent(ctx context.Context, event models.CalendarEvent) error
}

// AuditLog persists one reasoning trace per processed query.
type AuditLog interface {
	InsertTrace(ctx context.Context, trace models.ReasoningTrace) error
}

// StreamPublisher sends one keyed payload to the event stream, best effort.
type StreamPublisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Pipeline composes the agent with the store, audit log and publisher
// capabilities. Safe for concurrent use: it holds no per-request state.
type Pipeline struct {
	agent     *agent.Agent
	events    EventStore
	audit     AuditLog
	publisher StreamPublisher
	logger    *zap.SugaredLogger
	newID     func() string
	now       func() time.Time
	timeout   time.Duration
}

// New wires a pipeline over the given capabilities.
func New(events EventStore, audit AuditLog, publisher StreamPublisher, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		agent:     agent.New(),
		events:    events,
		audit:     audit,
		publisher: publisher,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
		timeout:   5 * time.Second,
	}
}

// Process runs the full pipeline for one request. It returns ErrMissingInput
// when email or query is empty; otherwise it always returns a PipelineResult,
// with Success mirroring the observe-stage outcome. Store and publish
// failures are logged and absorbed, never surfaced to the caller.
func (p *Pipeline) Process(ctx context.Context, email, query string) (models.PipelineResult, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(query) == "" {
		return models.PipelineResult{}, ErrMissingInput
	}

	run := p.agent.Run(email, query)
	streamID := p.newID()

	if run.Observation.Success {
		p.persistEvent(ctx, *run.Observation.Event)
		p.publishEvent(ctx, streamID, email, run.Observation.Event)
	}

	p.recordTrace(ctx, email, query, streamID, run)

	return models.PipelineResult{
		Thought:     run.Thought,
		Action:      run.Action.Description,
		Observation: run.Observation.Message,
		Event:       run.Observation.Event,
		StreamID:    streamID,
		Success:     run.Observation.Success,
	}, nil
}

// sideEffectCtx bounds a store or publish call. The parent's cancellation is
// dropped: a request runs to completion once started, and durability work
// should not be cut short by the client hanging up.
func (p *Pipeline) sideEffectCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
}

func (p *Pipeline) persistEvent(ctx context.Context, event models.CalendarEvent) {
	ctx, cancel := p.sideEffectCtx(ctx)
	defer cancel()

	if err := p.events.InsertEvent(ctx, event); err != nil {
		p.logger.Errorw("calendar event insert failed", "event_id", event.ID, "error", err)
	}
}

func (p *Pipeline) publishEvent(ctx context.Context, streamID, email string, event *models.CalendarEvent) {
	ctx, cancel := p.sideEffectCtx(ctx)
	defer cancel()

	payload, err := json.Marshal(stream.Message{
		StreamID:  streamID,
		Email:     email,
		Event:     event,
		Timestamp: p.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.logger.Errorw("stream message marshal failed", "stream_id", streamID, "error", err)
		return
	}

	// Best effort: the publisher reports failures through its own logger.
	_ = p.publisher.Publish(ctx, streamID, payload)
}

func (p *Pipeline) recordTrace(ctx context.Context, email, query, streamID string, run agent.RunResult) {
	ctx, cancel := p.sideEffectCtx(ctx)
	defer cancel()

	result, err := json.Marshal(run.Observation)
	if err != nil {
		p.logger.Errorw("observation marshal failed", "stream_id", streamID, "error", err)
		result = []byte("{}")
	}

	trace := models.ReasoningTrace{
		ID:          p.newID(),
		Email:       email,
		Query:       query,
		Thought:     run.Thought,
		Action:      run.Action.Description,
		Observation: run.Observation.Message,
		Result:      string(result),
		StreamID:    streamID,
	}

	if err := p.audit.InsertTrace(ctx, trace); err != nil {
		p.logger.Errorw("reasoning trace insert failed", "trace_id", trace.ID, "error", err)
	}
}
