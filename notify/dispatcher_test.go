package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dcode-github/property_listing_api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Message
	err  error
	gate chan struct{}
}

func (r *recordingNotifier) Notify(_ context.Context, msg Message) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestDispatcherDeliversAndDrainsOnClose(t *testing.T) {
	rec := &recordingNotifier{}
	d := NewDispatcher(rec, 8, time.Second, zap.NewNop())

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Notify(context.Background(), Message{To: "a@example.com"}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	assert.Equal(t, 5, rec.count())

	assert.ErrorIs(t, d.Notify(context.Background(), Message{}), ErrClosed)
	require.NoError(t, d.Close(ctx), "close is idempotent")
}

func TestDispatcherReportsFailures(t *testing.T) {
	rec := &recordingNotifier{err: errors.New("smtp down")}
	d := NewDispatcher(rec, 4, time.Second, zap.NewNop())

	var failures atomic.Int32
	d.OnFailure = func(error) { failures.Add(1) }

	require.NoError(t, d.Notify(context.Background(), Message{To: "a@example.com"}))
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, int32(1), failures.Load())
}

func TestDispatcherQueueFull(t *testing.T) {
	rec := &recordingNotifier{gate: make(chan struct{})}
	d := NewDispatcher(rec, 1, time.Second, zap.NewNop())

	// the worker holds the first message at the gate, the second fills the buffer
	require.NoError(t, d.Notify(context.Background(), Message{To: "1"}))
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, d.Notify(context.Background(), Message{To: "2"}))
	assert.ErrorIs(t, d.Notify(context.Background(), Message{To: "3"}), ErrQueueFull)

	close(rec.gate)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 2, rec.count())
}

func TestWelcomeMessage(t *testing.T) {
	msg := Welcome(&models.User{FirstName: "Ada", Email: "ada@example.com"})
	assert.Equal(t, "ada@example.com", msg.To)
	assert.True(t, strings.Contains(msg.Text, "Ada"))
	assert.NotEmpty(t, msg.HTML)
}

func TestSMTPMessageParts(t *testing.T) {
	s := NewSMTPNotifier("smtp.example.com", 587, "from@example.com", "", "", "", zap.NewNop())
	assert.Equal(t, "auto", s.TLSMode)

	m := s.message(Message{To: "to@example.com", Subject: "hi", Text: "plain", HTML: "<p>html</p>"})
	assert.Equal(t, []string{"to@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"hi"}, m.GetHeader("Subject"))

	d := NewSMTPNotifier("smtp.example.com", 465, "f", "", "", "ssl", zap.NewNop()).dialer()
	assert.True(t, d.SSL)
}
