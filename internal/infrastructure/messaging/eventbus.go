// Package messaging delivers domain events to in-process subscribers and,
// when Redis is configured, forwards them to a pub/sub channel.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// ErrEventBusClosed is returned after Close.
var ErrEventBusClosed = errors.New("messaging: event bus is closed")

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// InMemoryEventBus implements shared.EventBus for a single instance.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler
	asyncMode   bool
	workerPool  chan struct{}
	log         *logger.Logger
	metrics     *Metrics
	closed      bool
	closeCh     chan struct{}
	wg          sync.WaitGroup
}

// Config contains configuration for InMemoryEventBus.
type Config struct {
	// AsyncMode runs handlers on a bounded worker pool.
	AsyncMode      bool
	WorkerPoolSize int
	Logger         *logger.Logger
}

// DefaultConfig returns async delivery with 10 workers.
func DefaultConfig() Config {
	return Config{AsyncMode: true, WorkerPoolSize: 10}
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(config Config) *InMemoryEventBus {
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}
	if config.WorkerPoolSize <= 0 {
		config.WorkerPoolSize = 10
	}

	return &InMemoryEventBus{
		handlers:   make(map[shared.EventType][]shared.EventHandler),
		asyncMode:  config.AsyncMode,
		workerPool: make(chan struct{}, config.WorkerPoolSize),
		log:        config.Logger.With(logger.Component("eventbus")),
		metrics:    &Metrics{},
		closeCh:    make(chan struct{}),
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

// Subscribe registers a handler for a specific event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("messaging: handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// SubscribeAll registers a handler for all events.
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("messaging: handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}
	b.allHandlers = append(b.allHandlers, handler)
	return nil
}

// Publish hands the event to every matching handler. Handler errors are
// logged and never returned to the publisher.
func (b *InMemoryEventBus) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("messaging: event cannot be nil")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}
	handlers := make([]shared.EventHandler, 0, len(b.handlers[event.EventType()])+len(b.allHandlers))
	handlers = append(handlers, b.handlers[event.EventType()]...)
	handlers = append(handlers, b.allHandlers...)
	b.mu.RUnlock()

	b.metrics.published.Add(1)

	for _, handler := range handlers {
		if b.asyncMode {
			b.executeAsync(event, handler)
			continue
		}
		b.execute(event, handler)
	}
	return nil
}

func (b *InMemoryEventBus) executeAsync(event shared.Event, handler shared.EventHandler) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		select {
		case b.workerPool <- struct{}{}:
			defer func() { <-b.workerPool }()
		case <-b.closeCh:
			return
		}
		b.execute(event, handler)
	}()
}

func (b *InMemoryEventBus) execute(event shared.Event, handler shared.EventHandler) {
	start := time.Now()
	err := safeCall(handler, event)
	b.metrics.handled.Add(1)

	if err != nil {
		b.metrics.failed.Add(1)
		b.log.Error("event handler failed",
			logger.String("event_type", string(event.EventType())),
			logger.Latency(time.Since(start)),
			logger.Err(err),
		)
	}
}

func safeCall(handler shared.EventHandler, event shared.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(event)
}

// Close stops accepting events and waits for running handlers.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.closeCh)
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}

// Wait blocks until in-flight async handlers finish.
func (b *InMemoryEventBus) Wait() {
	b.wg.Wait()
}

// Metrics returns delivery counters.
func (b *InMemoryEventBus) Metrics() MetricsSnapshot {
	return b.metrics.Snapshot()
}

// Metrics counts deliveries.
type Metrics struct {
	published atomic.Int64
	handled   atomic.Int64
	failed    atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Published int64 `json:"published"`
	Handled   int64 `json:"handled"`
	Failed    int64 `json:"failed"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Published: m.published.Load(),
		Handled:   m.handled.Load(),
		Failed:    m.failed.Load(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBSCRIBERS
// ══════════════════════════════════════════════════════════════════════════════

// ChannelEvents is the Redis channel events are forwarded to.
const ChannelEvents = "skillswap:events"

// Publisher sends a JSON value to a pub/sub channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) error
}

// RedisForwarder returns a handler that forwards every event as an
// shared.EventEnvelope.
func RedisForwarder(pub Publisher, timeout time.Duration) shared.EventHandler {
	return func(event shared.Event) error {
		env, err := shared.NewEventEnvelope(event)
		if err != nil {
			return fmt.Errorf("encode %s: %w", event.EventType(), err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return pub.Publish(ctx, ChannelEvents, env)
	}
}

// AuditLogger returns a handler that writes every event to log.
func AuditLogger(log *logger.Logger) shared.EventHandler {
	return func(event shared.Event) error {
		fields := []logger.Field{
			logger.String("event_type", string(event.EventType())),
			logger.RelationshipID(event.AggregateID()),
		}
		for k, v := range event.Payload() {
			fields = append(fields, logger.Any(k, v))
		}
		log.Info("domain event", fields...)
		return nil
	}
}
