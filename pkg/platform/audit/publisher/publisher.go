// Package publisher fans audit events out to a store and an optional
// streaming sink. Audit failures are logged and never fail the caller's
// operation.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	audit "github.com/nova19-exe/eBhutanza/pkg/platform/audit"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

// Sink streams events to an external consumer (Kafka in production).
type Sink interface {
	PublishJSON(ctx context.Context, topic, key string, v any) error
}

type Publisher struct {
	store  audit.Store
	sink   Sink
	topic  string
	logger *slog.Logger

	queue  chan audit.Event
	mu     sync.RWMutex // guards closed and sends on queue
	closed bool
	wg     sync.WaitGroup
	once   sync.Once
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// WithSink streams every stored event to topic.
func WithSink(sink Sink, topic string) Option {
	return func(p *Publisher) {
		p.sink = sink
		p.topic = topic
	}
}

// WithAsyncBuffer makes Emit non-blocking with a queue of size n.
// Close drains the queue.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.queue = make(chan audit.Event, n)
		}
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit stamps the event with request metadata and hands it off.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	event.Category = audit.AuditEvent(event.Action).Category()

	if p.enqueue(event) {
		return nil
	}
	p.write(context.WithoutCancel(ctx), event)
	return nil
}

// enqueue hands the event to the background writer. It reports false when
// there is no queue, the queue is full or the publisher is closed; the
// caller then writes synchronously.
func (p *Publisher) enqueue(event audit.Event) bool {
	if p.queue == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.queue <- event:
		return true
	default:
		return false
	}
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		p.write(ctx, event)
		cancel()
	}
}

func (p *Publisher) write(ctx context.Context, event audit.Event) {
	if err := p.store.Append(ctx, event); err != nil {
		p.logError(ctx, "audit append failed", event, err)
		return
	}
	if p.sink != nil {
		if err := p.sink.PublishJSON(ctx, p.topic, event.UserID.String(), event); err != nil {
			p.logError(ctx, "audit stream publish failed", event, err)
		}
	}
}

func (p *Publisher) logError(ctx context.Context, msg string, event audit.Event, err error) {
	if p.logger == nil {
		return
	}
	p.logger.ErrorContext(ctx, msg,
		"action", event.Action,
		"user_id", event.UserID,
		"request_id", event.RequestID,
		"error", err,
	)
}

// List returns a user's events.
func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	return p.store.ListByUser(ctx, userID)
}

// Close drains pending async events. Events emitted afterwards are written
// synchronously.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.queue == nil {
			return
		}
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
		p.wg.Wait()
	})
}
