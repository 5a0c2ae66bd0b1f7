package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/hub"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// State is the lifecycle stage of a push connection.
type State int

const (
	StateConnected State = iota
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "closed"
	}
}

var (
	ErrHandshakeFailed = errors.New("handshake failed")
	ErrGateClosed      = errors.New("connection closed")
)

// Authenticator resolves a bearer token to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Principal, error)
}

// Registry is the subscriber side of the hub.
type Registry interface {
	Register(userID uuid.UUID, sender hub.Sender) (*hub.Subscriber, error)
	Unregister(sub *hub.Subscriber)
}

// Gate guards one push connection. Until a valid AUTH message arrives the
// connection is not registered with the hub and receives nothing.
type Gate struct {
	sender   hub.Sender
	auth     Authenticator
	registry Registry
	metrics  *hub.Metrics
	logger   *logger.Logger

	mu        sync.Mutex
	state     State
	principal model.Principal
	sub       *hub.Subscriber
}

func NewGate(sender hub.Sender, auth Authenticator, registry Registry, metrics *hub.Metrics, logger *logger.Logger) *Gate {
	if metrics == nil {
		metrics = hub.NewMetrics(nil)
	}
	return &Gate{
		sender:   sender,
		auth:     auth,
		registry: registry,
		metrics:  metrics,
		logger:   logger,
		state:    StateConnected,
	}
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Principal returns the bound identity once the gate is authenticated.
func (g *Gate) Principal() (model.Principal, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.principal, g.state == StateAuthenticated
}

// Handle processes one inbound frame. A non-nil error means the connection
// has been closed and the caller must stop reading.
func (g *Gate) Handle(ctx context.Context, data []byte) error {
	switch g.State() {
	case StateClosed:
		return ErrGateClosed
	case StateAuthenticated:
		return nil
	}

	msg, err := DecodeInbound(data)
	if err != nil {
		g.metrics.InboundDropped.Inc()
		g.logger.Debug("Push gate: dropping malformed message", "error", err.Error())
		return nil
	}

	switch m := msg.(type) {
	case AuthMessage:
		return g.authenticate(ctx, m.Token)
	case UnknownMessage:
		g.metrics.InboundDropped.Inc()
		g.logger.Debug("Push gate: dropping message before handshake", "type", m.Type)
	}

	return nil
}

func (g *Gate) authenticate(ctx context.Context, token string) error {
	principal, err := g.auth.Authenticate(ctx, token)
	if err != nil {
		g.metrics.RecordHandshake(hub.HandshakeRejected)
		g.logger.Info("Push gate: handshake rejected", "error", err.Error())
		g.Close()
		return ErrHandshakeFailed
	}

	// The hub may deliver as soon as Register returns, so promote first.
	g.mu.Lock()
	if g.state != StateConnected {
		g.mu.Unlock()
		return ErrGateClosed
	}
	g.state = StateAuthenticated
	g.principal = principal
	g.mu.Unlock()

	sub, err := g.registry.Register(principal.ID, g.sender)
	if err != nil {
		if errors.Is(err, hub.ErrHubFull) {
			g.metrics.RecordHandshake(hub.HandshakeFull)
		} else {
			g.metrics.RecordHandshake(hub.HandshakeRejected)
		}
		g.logger.Warn("Push gate: failed to register subscriber",
			"user_id", principal.ID,
			"error", err.Error())
		g.Close()
		return ErrHandshakeFailed
	}

	g.mu.Lock()
	if g.state == StateClosed {
		g.mu.Unlock()
		g.registry.Unregister(sub)
		return ErrGateClosed
	}
	g.sub = sub
	g.mu.Unlock()

	g.metrics.RecordHandshake(hub.HandshakeAccepted)
	g.logger.Info("Push gate: connection authenticated",
		"user_id", principal.ID,
		"username", principal.Username)

	return nil
}

// Expire closes the gate if the handshake has not completed yet and reports
// whether it did.
func (g *Gate) Expire() bool {
	g.mu.Lock()
	if g.state != StateConnected {
		g.mu.Unlock()
		return false
	}
	g.mu.Unlock()

	g.metrics.RecordHandshake(hub.HandshakeTimeout)
	g.Close()
	return true
}

// Close moves the gate to StateClosed, closes the transport and removes the
// subscriber from the hub. Only the first call has any effect.
func (g *Gate) Close() {
	g.mu.Lock()
	if g.state == StateClosed {
		g.mu.Unlock()
		return
	}
	g.state = StateClosed
	sub := g.sub
	g.sub = nil
	g.mu.Unlock()

	_ = g.sender.Close()
	if sub != nil {
		g.registry.Unregister(sub)
	}
}
