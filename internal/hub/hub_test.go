package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/testutil"
)

type fakeSender struct {
	frames chan []byte
	block  chan struct{}
	err    error

	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeSender() *fakeSender {
	return &fakeSender{frames: make(chan []byte, 64), closed: make(chan struct{})}
}

func (f *fakeSender) WriteFrame(frame []byte, _ time.Time) error {
	if f.err != nil {
		return f.err
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-f.closed:
			return errors.New("closed")
		}
	}
	f.frames <- frame
	return nil
}

func (f *fakeSender) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeSender) next(t *testing.T) map[string]any {
	t.Helper()
	select {
	case frame := <-f.frames:
		var msg map[string]any
		require.NoError(t, json.Unmarshal(frame, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func newTestHub(cfg Config) (*Hub, *Metrics) {
	metrics := NewMetrics(prometheus.NewRegistry())
	return New(cfg, metrics, testutil.MakeNoopLogger()), metrics
}

func TestHub_PublishReachesEverySubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, metrics := newTestHub(Config{SendBuffer: 8})
	defer h.Close()

	alice, bob := newFakeSender(), newFakeSender()
	_, err := h.Register(uuid.New(), alice)
	require.NoError(t, err)
	_, err = h.Register(uuid.New(), bob)
	require.NoError(t, err)

	h.Publish(context.Background(), model.ProjectCreated{Project: model.Project{ID: 1, Title: "X"}})

	for _, s := range []*fakeSender{alice, bob} {
		msg := s.next(t)
		assert.Equal(t, "ProjectCreated", msg["type"])
		assert.Equal(t, "X", msg["payload"].(map[string]any)["title"])
	}
	assert.Equal(t, float64(1), promtestutil.ToFloat64(metrics.EventsPublished))
	assert.Equal(t, float64(2), promtestutil.ToFloat64(metrics.Connections))
}

func TestHub_PreservesOrderPerSubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, _ := newTestHub(Config{SendBuffer: 16})
	defer h.Close()

	s := newFakeSender()
	_, err := h.Register(uuid.New(), s)
	require.NoError(t, err)

	for i := int64(1); i <= 10; i++ {
		h.Publish(context.Background(), model.TaskCreated{Task: model.Task{ID: i, Title: "t"}})
	}

	for i := 1; i <= 10; i++ {
		msg := s.next(t)
		assert.Equal(t, float64(i), msg["payload"].(map[string]any)["id"])
	}
}

func TestHub_SlowSubscriberDoesNotBlockOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, metrics := newTestHub(Config{SendBuffer: 1})
	defer h.Close()

	slow := newFakeSender()
	slow.block = make(chan struct{})
	fast := newFakeSender()

	_, err := h.Register(uuid.New(), slow)
	require.NoError(t, err)
	_, err = h.Register(uuid.New(), fast)
	require.NoError(t, err)

	const events = 5
	for i := int64(1); i <= events; i++ {
		h.Publish(context.Background(), model.TaskUpdated{Task: model.Task{ID: i}})
		fast.next(t)
	}

	assert.GreaterOrEqual(t, promtestutil.ToFloat64(metrics.DeliveriesDropped), float64(events-2))
}

func TestHub_WriteErrorRemovesSubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, metrics := newTestHub(Config{SendBuffer: 4})
	defer h.Close()

	broken := newFakeSender()
	broken.err = errors.New("broken pipe")

	sub, err := h.Register(uuid.New(), broken)
	require.NoError(t, err)

	h.Publish(context.Background(), model.TaskUpdated{Task: model.Task{ID: 1}})

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("writer did not stop")
	}
	<-broken.closed
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, float64(0), promtestutil.ToFloat64(metrics.Connections))
}

func TestHub_Capacity(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, _ := newTestHub(Config{MaxConnections: 1, SendBuffer: 1})
	defer h.Close()

	first, err := h.Register(uuid.New(), newFakeSender())
	require.NoError(t, err)

	_, err = h.Register(uuid.New(), newFakeSender())
	assert.ErrorIs(t, err, ErrHubFull)

	h.Unregister(first)
	_, err = h.Register(uuid.New(), newFakeSender())
	assert.NoError(t, err)
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, metrics := newTestHub(Config{SendBuffer: 1})
	defer h.Close()

	sub, err := h.Register(uuid.New(), newFakeSender())
	require.NoError(t, err)

	h.Unregister(sub)
	h.Unregister(sub)
	h.Unregister(nil)

	assert.Equal(t, 0, h.Len())
	assert.Equal(t, float64(0), promtestutil.ToFloat64(metrics.Connections))
}

func TestHub_RegisterAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	h, _ := newTestHub(Config{SendBuffer: 1})
	s := newFakeSender()
	_, err := h.Register(uuid.New(), s)
	require.NoError(t, err)

	h.Close()
	<-s.closed

	_, err = h.Register(uuid.New(), newFakeSender())
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	h, metrics := newTestHub(Config{SendBuffer: 1})
	defer h.Close()

	h.Publish(context.Background(), model.CollaboratorRemoved{Collaborator: model.Collaborator{ProjectID: 1}})
	assert.Equal(t, float64(1), promtestutil.ToFloat64(metrics.EventsPublished))
}
