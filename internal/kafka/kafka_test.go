package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
	fail   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("broker down")
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestProducer_FlushesOnClose(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, 8, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	p.Publish([]byte("o1"), []byte("a"))
	p.Publish([]byte("o1"), []byte("b"), kafka.Header{Key: "x-event-type", Value: []byte("OrderCreated")})
	cancel()
	p.Close()
	p.Close()
	p.WaitClosed()

	require.Len(t, w.msgs, 2)
	assert.Equal(t, "b", string(w.msgs[1].Value))
	assert.True(t, w.closed)

	p.Publish([]byte("o2"), []byte("late"))
	assert.Len(t, w.msgs, 2)
}

func TestProducer_WriteErrorsDoNotStopLoop(t *testing.T) {
	w := &fakeWriter{fail: true}
	p := newProducer(w, 1, zap.NewNop())
	p.Start(context.Background())

	p.Publish(nil, []byte("a"))
	p.Publish(nil, []byte("b"))
	p.Close()
	p.WaitClosed()

	assert.True(t, w.closed)
}

func TestProducer_FullInboxDropsInsteadOfBlocking(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, 1, zap.NewNop())

	assert.True(t, p.Publish([]byte("o1"), []byte("a")))
	assert.False(t, p.Publish([]byte("o1"), []byte("b")))

	p.Start(context.Background())
	p.Close()
	p.WaitClosed()
	assert.False(t, p.Publish([]byte("o1"), []byte("c")))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "a", string(w.msgs[0].Value))
}

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		OrderID string `json:"order_id"`
	}
	got, err := UnwrapPayload[payload](json.RawMessage(MustMarshal(payload{OrderID: "o1"})))
	require.NoError(t, err)
	assert.Equal(t, "o1", got.OrderID)

	_, err = UnwrapPayload[payload](json.RawMessage(`{`))
	assert.Error(t, err)
}
