package store

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reactagent/calendar-service/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable persistence layer: an append-only event log
// (calendar_events) and an append-only audit log of agent runs (react_logs).
// Both tables are keyed by freshly generated ids and never updated in place,
// so concurrent inserts cannot conflict.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// InsertEvent appends an accepted calendar event.
func (p *PostgresStore) InsertEvent(ctx context.Context, event models.CalendarEvent) error {
	if event.ID == "" || event.Email == "" {
		return errors.New("event id and email required")
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO calendar_events(id, email, title, event_date, event_time, attendees, description)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, event.ID, event.Email, event.Title, event.Date, event.Time, event.Attendees, event.Description)

	return err
}

// InsertTrace appends one reasoning trace. Exactly one trace is written per
// processed query regardless of outcome.
func (p *PostgresStore) InsertTrace(ctx context.Context, trace models.ReasoningTrace) error {
	if trace.ID == "" || trace.Email == "" {
		return errors.New("trace id and email required")
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO react_logs(id, email, query, thought, action, observation, result, stream_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, trace.ID, trace.Email, trace.Query, trace.Thought, trace.Action, trace.Observation, trace.Result, trace.StreamID)

	return err
}

// ListEventsByEmail returns the identity's events, newest date first.
func (p *PostgresStore) ListEventsByEmail(ctx context.Context, email string) ([]models.CalendarEvent, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, email, title, event_date, event_time, attendees, description, created_at
		FROM calendar_events
		WHERE email = $1
		ORDER BY event_date DESC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.CalendarEvent{}
	for rows.Next() {
		var e models.CalendarEvent
		if err := rows.Scan(&e.ID, &e.Email, &e.Title, &e.Date, &e.Time, &e.Attendees, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// ListTracesByEmail returns the identity's ten most recent reasoning traces.
func (p *PostgresStore) ListTracesByEmail(ctx context.Context, email string) ([]models.ReasoningTrace, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, email, query, thought, action, observation, result, stream_id, created_at
		FROM react_logs
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 10
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	traces := []models.ReasoningTrace{}
	for rows.Next() {
		var t models.ReasoningTrace
		if err := rows.Scan(&t.ID, &t.Email, &t.Query, &t.Thought, &t.Action, &t.Observation, &t.Result, &t.StreamID, &t.CreatedAt); err != nil {
			return nil, err
		}
		traces = append(traces, t)
	}

	return traces, rows.Err()
}
