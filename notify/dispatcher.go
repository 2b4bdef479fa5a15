package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrQueueFull = errors.New("notification queue full")
	ErrClosed    = errors.New("notification dispatcher closed")
)

// Dispatcher moves delivery off the request path. Notify only enqueues; one
// worker drains the queue into the wrapped Notifier.
type Dispatcher struct {
	next        Notifier
	log         *zap.Logger
	sendTimeout time.Duration
	// OnFailure, if set, is called once per failed delivery.
	OnFailure func(error)

	queue chan Message
	mu    sync.RWMutex
	done  chan struct{}
	once  sync.Once
	stop  bool
}

func NewDispatcher(next Notifier, buffer int, sendTimeout time.Duration, log *zap.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &Dispatcher{
		next:        next,
		log:         log,
		sendTimeout: sendTimeout,
		queue:       make(chan Message, buffer),
		done:        make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Notify(_ context.Context, msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stop {
		return ErrClosed
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		err := d.next.Notify(ctx, msg)
		cancel()
		if err != nil {
			d.log.Warn("notification failed", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
			if d.OnFailure != nil {
				d.OnFailure(err)
			}
		}
	}
}

// Close stops accepting messages and waits for the queue to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.once.Do(func() {
		d.mu.Lock()
		d.stop = true
		close(d.queue)
		d.mu.Unlock()
	})

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
