package hub

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

var (
	ErrHubFull   = errors.New("hub is at capacity")
	ErrHubClosed = errors.New("hub is closed")
)

// Sender writes whole frames to one peer.
type Sender interface {
	WriteFrame(frame []byte, deadline time.Time) error
	Close() error
}

// Config bounds the hub.
type Config struct {
	MaxConnections int
	SendBuffer     int
	WriteTimeout   time.Duration
}

// Hub owns the set of authenticated subscribers and fans events out to all of them.
type Hub struct {
	cfg     Config
	logger  *logger.Logger
	metrics *Metrics

	mu     sync.RWMutex
	subs   map[*Subscriber]struct{}
	closed bool

	wg sync.WaitGroup
}

var _ model.EventPublisher = (*Hub)(nil)

func New(cfg Config, metrics *Metrics, logger *logger.Logger) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 1
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		subs:    make(map[*Subscriber]struct{}),
	}
}

// Subscriber is one authenticated connection's outbound side.
type Subscriber struct {
	UserID uuid.UUID

	sender Sender
	queue  chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Done is closed once the subscriber's writer has stopped.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Register adds an authenticated peer and starts its writer.
func (h *Hub) Register(userID uuid.UUID, sender Sender) (*Subscriber, error) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscriber{
		UserID: userID,
		sender: sender,
		queue:  make(chan []byte, h.cfg.SendBuffer),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		cancel()
		return nil, ErrHubClosed
	}
	if h.cfg.MaxConnections > 0 && len(h.subs) >= h.cfg.MaxConnections {
		h.mu.Unlock()
		cancel()
		return nil, ErrHubFull
	}
	h.subs[sub] = struct{}{}
	h.wg.Add(1)
	h.mu.Unlock()

	h.metrics.Connections.Inc()
	go h.writeLoop(sub)

	h.logger.Debug("Hub: subscriber registered", "user_id", userID)

	return sub, nil
}

// Unregister removes sub and waits for its writer to stop. Calling it more
// than once is safe.
func (h *Hub) Unregister(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.remove(sub)
	<-sub.done
}

// Publish encodes event once and queues it for every subscriber without
// blocking. A subscriber with a full queue misses the event.
func (h *Hub) Publish(ctx context.Context, event model.DomainEvent) {
	frame, err := model.EncodeEvent(event)
	if err != nil {
		h.logger.Error("Hub: failed to encode event", "type", event.Type(), "error", err.Error())
		return
	}

	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	h.metrics.EventsPublished.Inc()

	for _, sub := range subs {
		select {
		case sub.queue <- frame:
		case <-sub.ctx.Done():
		default:
			h.metrics.DeliveriesDropped.Inc()
			h.logger.Warn("Hub: event dropped, subscriber queue full",
				"user_id", sub.UserID,
				"type", event.Type())
		}
	}
}

// Len returns the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close removes every subscriber, closes their senders and waits for all
// writers to stop. Register fails afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*Subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		h.remove(sub)
		_ = sub.sender.Close()
	}
	h.wg.Wait()
}

func (h *Hub) remove(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()

	sub.cancel()
	if ok {
		h.metrics.Connections.Dec()
	}
}

func (h *Hub) writeLoop(sub *Subscriber) {
	defer h.wg.Done()
	defer close(sub.done)

	for {
		select {
		case <-sub.ctx.Done():
			return
		case frame := <-sub.queue:
			deadline := time.Time{}
			if h.cfg.WriteTimeout > 0 {
				deadline = time.Now().Add(h.cfg.WriteTimeout)
			}
			if err := sub.sender.WriteFrame(frame, deadline); err != nil {
				h.logger.Info("Hub: write failed, dropping subscriber",
					"user_id", sub.UserID,
					"error", err.Error())
				h.remove(sub)
				_ = sub.sender.Close()
				return
			}
		}
	}
}
