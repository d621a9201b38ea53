package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/sepatu-storefront/status"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"go.uber.org/goleak"
)

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	fail   bool
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("broker down")
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestKafkaPublisher_FlushesOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := &recordingWriter{}
	p := newKafkaPublisher(w, 4)

	ev := NewStatusChanged("orders", "42", "user-1", "paid", status.Tertunda, 7)
	require.NoError(t, p.PublishStatus(context.Background(), ev))
	require.NoError(t, p.Close())

	require.Len(t, w.msgs, 1)
	assert.True(t, w.closed)
	assert.Equal(t, "orders:42", string(w.msgs[0].Key))

	var got StatusChanged
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, status.Dibayar, got.Display)
	assert.Equal(t, status.Tertunda, got.Previous)
	assert.Equal(t, "storefront-api", got.Producer)
	assert.NotEmpty(t, got.EventID)

	assert.ErrorIs(t, p.PublishStatus(context.Background(), ev), ErrPublisherClosed)
	assert.NoError(t, p.Close())
}

func TestKafkaPublisher_WriteErrorDoesNotStopLoop(t *testing.T) {
	defer goleak.VerifyNone(t)
	utils.SilenceLoggers()

	w := &recordingWriter{fail: true}
	p := newKafkaPublisher(w, 4)

	ev := NewStatusChanged("checkout_submissions", "sub-1", "", "failed", status.Tertunda, 3)
	require.NoError(t, p.PublishStatus(context.Background(), ev))
	require.NoError(t, p.PublishStatus(context.Background(), ev))
	require.NoError(t, p.Close())
	assert.Empty(t, w.msgs)
}
