// Package stream publishes accepted calendar events onto a Redis stream for
// asynchronous consumers. Delivery is best effort: the service stays up and
// keeps serving requests when the stream is unreachable.
package stream

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/reactagent/calendar-service/internal/models"
)

// Message is the stream payload for one published event. StreamID matches the
// stream_id stored on the reasoning trace for the same request, so consumers
// can correlate the two without the event-store key.
type Message struct {
	StreamID  string                `json:"streamId"`
	Email     string                `json:"email"`
	Event     *models.CalendarEvent `json:"event"`
	Timestamp string                `json:"timestamp"`
}

// Publisher appends messages to a single Redis stream via XADD.
type Publisher struct {
	client *redis.Client
	stream string
	logger *zap.SugaredLogger
}

// NewPublisher creates a publisher for the given stream. Construction never
// fails: an unreachable broker only surfaces as publish errors, which callers
// absorb.
func NewPublisher(addr, stream string, logger *zap.SugaredLogger) *Publisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &Publisher{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// Ping tests broker connectivity. Used at startup to log degraded mode.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Publish appends one keyed payload to the stream. At-least-once is not
// guaranteed; the contract is a single attempt with the error reported back.
func (p *Publisher) Publish(ctx context.Context, key string, payload []byte) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"key":     key,
			"payload": payload,
		},
	}).Err()
	if err != nil {
		p.logger.Warnw("stream publish failed", "stream", p.stream, "key", key, "error", err)
	}
	return err
}
