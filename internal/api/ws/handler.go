package ws

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/dtroode/tasktracker-server/internal/hub"
	"github.com/dtroode/tasktracker-server/internal/logger"
)

// Config bounds a single push connection.
type Config struct {
	HandshakeTimeout time.Duration
	MaxMessageBytes  int
}

// Handler upgrades requests to websocket push connections.
type Handler struct {
	cfg      Config
	auth     Authenticator
	registry Registry
	metrics  *hub.Metrics
	logger   *logger.Logger
	server   websocket.Server
}

func NewHandler(cfg Config, auth Authenticator, registry Registry, metrics *hub.Metrics, logger *logger.Logger) *Handler {
	h := &Handler{
		cfg:      cfg,
		auth:     auth,
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
	// A nil Handshake accepts clients without an Origin header.
	h.server = websocket.Server{Handler: h.serveConn}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.server.ServeHTTP(w, r)
}

func (h *Handler) serveConn(conn *websocket.Conn) {
	if h.cfg.MaxMessageBytes > 0 {
		conn.MaxPayloadBytes = h.cfg.MaxMessageBytes
	}

	sender := &connSender{conn: conn}
	gate := NewGate(sender, h.auth, h.registry, h.metrics, h.logger)
	defer gate.Close()

	if h.cfg.HandshakeTimeout > 0 {
		timer := time.AfterFunc(h.cfg.HandshakeTimeout, func() {
			if gate.Expire() {
				h.logger.Info("Push gate: handshake timed out", "remote", conn.Request().RemoteAddr)
			}
		})
		defer timer.Stop()
	}

	ctx, cancel := context.WithCancel(conn.Request().Context())
	defer cancel()

	for {
		var data []byte
		if err := websocket.Message.Receive(conn, &data); err != nil {
			switch {
			case errors.Is(err, websocket.ErrFrameTooLarge):
				h.logger.Info("Push gate: inbound frame too large, closing", "remote", conn.Request().RemoteAddr)
			case errors.Is(err, io.EOF):
			default:
				h.logger.Debug("Push gate: read failed", "error", err.Error())
			}
			return
		}

		if err := gate.Handle(ctx, data); err != nil {
			return
		}
	}
}

// connSender serialises frame writes on one websocket.
type connSender struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

func (s *connSender) WriteFrame(frame []byte, deadline time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return websocket.Message.Send(s.conn, string(frame))
}

func (s *connSender) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
