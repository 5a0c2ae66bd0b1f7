package ws

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tasktracker-server/internal/hub"
	"github.com/dtroode/tasktracker-server/internal/mocks"
	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/testutil"
)

type recordingSender struct {
	frames chan []byte
	closes atomic.Int32
}

func newRecordingSender() *recordingSender {
	return &recordingSender{frames: make(chan []byte, 16)}
}

func (s *recordingSender) WriteFrame(frame []byte, _ time.Time) error {
	if s.closes.Load() > 0 {
		return errors.New("closed")
	}
	s.frames <- frame
	return nil
}

func (s *recordingSender) Close() error {
	s.closes.Add(1)
	return nil
}

func newGateHub(t *testing.T, maxConnections int) (*hub.Hub, *hub.Metrics) {
	metrics := hub.NewMetrics(prometheus.NewRegistry())
	h := hub.New(hub.Config{MaxConnections: maxConnections, SendBuffer: 4}, metrics, testutil.MakeNoopLogger())
	t.Cleanup(h.Close)
	return h, metrics
}

func TestGate_AuthPromotesAndRegisters(t *testing.T) {
	principal := model.Principal{ID: uuid.New(), Username: "alice"}
	auth := mocks.NewAuthenticator(t)
	auth.On("Authenticate", mock.Anything, "good").Return(principal, nil).Once()

	h, metrics := newGateHub(t, 0)
	sender := newRecordingSender()
	g := NewGate(sender, auth, h, metrics, testutil.MakeNoopLogger())

	require.NoError(t, g.Handle(context.Background(), []byte(`{"type":"AUTH","token":"good"}`)))
	assert.Equal(t, StateAuthenticated, g.State())
	got, ok := g.Principal()
	assert.True(t, ok)
	assert.Equal(t, principal, got)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, float64(1), promtestutil.ToFloat64(metrics.Handshakes.WithLabelValues(hub.HandshakeAccepted)))

	// A second AUTH after promotion is ignored.
	require.NoError(t, g.Handle(context.Background(), []byte(`{"type":"AUTH","token":"other"}`)))
	assert.Equal(t, StateAuthenticated, g.State())
}

func TestGate_InvalidTokenCloses(t *testing.T) {
	auth := mocks.NewAuthenticator(t)
	auth.On("Authenticate", mock.Anything, "bad").Return(model.Principal{}, model.NewErrUnauthorized(model.ErrTokenInvalidSignature))

	h, metrics := newGateHub(t, 0)
	sender := newRecordingSender()
	g := NewGate(sender, auth, h, metrics, testutil.MakeNoopLogger())

	err := g.Handle(context.Background(), []byte(`{"type":"AUTH","token":"bad"}`))
	assert.ErrorIs(t, err, ErrHandshakeFailed)
	assert.Equal(t, StateClosed, g.State())
	assert.Equal(t, int32(1), sender.closes.Load())
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, float64(1), promtestutil.ToFloat64(metrics.Handshakes.WithLabelValues(hub.HandshakeRejected)))
}

func TestGate_DropsMessagesBeforeHandshake(t *testing.T) {
	auth := mocks.NewAuthenticator(t)
	h, metrics := newGateHub(t, 0)
	sender := newRecordingSender()
	g := NewGate(sender, auth, h, metrics, testutil.MakeNoopLogger())

	for _, frame := range []string{`{"type":"PING"}`, `not json`, `{}`} {
		require.NoError(t, g.Handle(context.Background(), []byte(frame)))
	}

	h.Publish(context.Background(), model.ProjectCreated{Project: model.Project{ID: 1, Title: "X"}})

	assert.Equal(t, StateConnected, g.State())
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, sender.frames)
	assert.Equal(t, float64(3), promtestutil.ToFloat64(metrics.InboundDropped))
	auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestGate_AuthAfterUnknownMessagePromotes(t *testing.T) {
	principal := model.Principal{ID: uuid.New(), Username: "alice"}
	auth := mocks.NewAuthenticator(t)
	auth.On("Authenticate", mock.Anything, "good").Return(principal, nil).Once()

	h, metrics := newGateHub(t, 0)
	g := NewGate(newRecordingSender(), auth, h, metrics, testutil.MakeNoopLogger())

	require.NoError(t, g.Handle(context.Background(), []byte(`{"type":"HELLO"}`)))
	assert.Equal(t, StateConnected, g.State())

	require.NoError(t, g.Handle(context.Background(), []byte(`{"type":"AUTH","token":"good"}`)))
	assert.Equal(t, StateAuthenticated, g.State())
	assert.Equal(t, 1, h.Len())
}

// publishingRegistry publishes as soon as a subscriber is registered, the
// way a concurrent CRUD request would.
type publishingRegistry struct {
	*hub.Hub
}

func (r publishingRegistry) Register(userID uuid.UUID, sender hub.Sender) (*hub.Subscriber, error) {
	sub, err := r.Hub.Register(userID, sender)
	if err == nil {
		r.Hub.Publish(context.Background(), model.ProjectCreated{Project: model.Project{ID: 1, Title: "X"}})
	}
	return sub, err
}

// stateSender records the gate state at the moment each frame is written.
type stateSender struct {
	gate   atomic.Pointer[Gate]
	states chan State
}

func (s *stateSender) WriteFrame(_ []byte, _ time.Time) error {
	s.states <- s.gate.Load().State()
	return nil
}

func (s *stateSender) Close() error { return nil }

func TestGate_PromotesBeforeFirstDelivery(t *testing.T) {
	auth := mocks.NewAuthenticator(t)
	auth.On("Authenticate", mock.Anything, "good").Return(model.Principal{ID: uuid.New(), Username: "alice"}, nil)

	h, metrics := newGateHub(t, 0)
	sender := &stateSender{states: make(chan State, 1)}
	g := NewGate(sender, auth, publishingRegistry{Hub: h}, metrics, testutil.MakeNoopLogger())
	sender.gate.Store(g)

	require.NoError(t, g.Handle(context.Background(), []byte(`{"type":"AUTH","token":"good"}`)))

	select {
	case state := <-sender.states:
		assert.Equal(t, StateAuthenticated, state)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestGate_CloseDuringRegisterUnregisters(t *testing.T) {
	auth := mocks.NewAuthenticator(t)
	auth.On("Authenticate", mock.Anything, "good").Return(model.Principal{ID: uuid.New()}, nil)

	h, metrics := newGateHub(t, 0)
	sender := newRecordingSender()
	var g *Gate
	registry := &closingRegistry{Hub: h, gate: func() *Gate { return g }}
	g = NewGate(sender, auth, registry, metrics, testutil.MakeNoopLogger())

	err := g.Handle(context.Background(), []byte(`{"type":"AUTH","token":"good"}`))

	assert.ErrorIs(t, err, ErrGateClosed)
	assert.Equal(t, StateClosed, g.State())
	assert.Equal(t, 0, h.Len())
}

// closingRegistry closes the gate while Register is in flight.
type closingRegistry struct {
	*hub.Hub
	gate func() *Gate
}

func (r *closingRegistry) Register(userID uuid.UUID, sender hub.Sender) (*hub.Subscriber, error) {
	sub, err := r.Hub.Register(userID, sender)
	r.gate().Close()
	return sub, err
}

func TestGate_CloseIsIdempotent(t *testing.T) {
	principal := model.Principal{ID: uuid.New(), Username: "alice"}
	auth := mocks.NewAuthenticator(t)
	auth.On("Authenticate", mock.Anything, "good").Return(principal, nil)

	h, metrics := newGateHub(t, 0)
	sender := newRecordingSender()
	g := NewGate(sender, auth, h, metrics, testutil.MakeNoopLogger())
	require.NoError(t, g.Handle(context.Background(), []byte(`{"type":"AUTH","token":"good"}`)))

	g.Close()
	g.Close()

	assert.Equal(t, StateClosed, g.State())
	assert.Equal(t, int32(1), sender.closes.Load())
	assert.Equal(t, 0, h.Len())
	assert.ErrorIs(t, g.Handle(context.Background(), []byte(`{"type":"AUTH","token":"good"}`)), ErrGateClosed)
	_, ok := g.Principal()
	assert.False(t, ok)
}

func TestGate_Expire(t *testing.T) {
	principal := model.Principal{ID: uuid.New(), Username: "alice"}

	t.Run("before handshake", func(t *testing.T) {
		h, metrics := newGateHub(t, 0)
		g := NewGate(newRecordingSender(), mocks.NewAuthenticator(t), h, metrics, testutil.MakeNoopLogger())

		assert.True(t, g.Expire())
		assert.Equal(t, StateClosed, g.State())
		assert.Equal(t, float64(1), promtestutil.ToFloat64(metrics.Handshakes.WithLabelValues(hub.HandshakeTimeout)))
	})

	t.Run("after handshake", func(t *testing.T) {
		auth := mocks.NewAuthenticator(t)
		auth.On("Authenticate", mock.Anything, "good").Return(principal, nil)

		h, metrics := newGateHub(t, 0)
		g := NewGate(newRecordingSender(), auth, h, metrics, testutil.MakeNoopLogger())
		require.NoError(t, g.Handle(context.Background(), []byte(`{"type":"AUTH","token":"good"}`)))

		assert.False(t, g.Expire())
		assert.Equal(t, StateAuthenticated, g.State())
	})
}

func TestGate_HubFull(t *testing.T) {
	auth := mocks.NewAuthenticator(t)
	auth.On("Authenticate", mock.Anything, "good").Return(model.Principal{ID: uuid.New()}, nil)

	h, metrics := newGateHub(t, 1)
	first := NewGate(newRecordingSender(), auth, h, metrics, testutil.MakeNoopLogger())
	require.NoError(t, first.Handle(context.Background(), []byte(`{"type":"AUTH","token":"good"}`)))

	sender := newRecordingSender()
	second := NewGate(sender, auth, h, metrics, testutil.MakeNoopLogger())
	err := second.Handle(context.Background(), []byte(`{"type":"AUTH","token":"good"}`))

	assert.ErrorIs(t, err, ErrHandshakeFailed)
	assert.Equal(t, StateClosed, second.State())
	assert.Equal(t, int32(1), sender.closes.Load())
	assert.Equal(t, float64(1), promtestutil.ToFloat64(metrics.Handshakes.WithLabelValues(hub.HandshakeFull)))
}
