package kafka

import (
	"context"
	"sync"

	"github.com/segmentio/kafka-go"
)

// fakeReader replays queued results, then blocks until ctx is done.
type fakeReader struct {
	mu     sync.Mutex
	queue  []readResult
	reads  int
	closed bool
}

type readResult struct {
	msg kafka.Message
	err error
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{}
	for i, m := range msgs {
		if m.Topic == "" {
			m.Topic = "product-changes"
		}
		m.Offset = int64(i)
		r.queue = append(r.queue, readResult{msg: m})
	}
	return r
}

func (r *fakeReader) pushErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, readResult{err: err})
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		next := r.queue[0]
		r.queue = r.queue[1:]
		r.reads++
		r.mu.Unlock()
		return next.msg, next.err
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// handlerFunc adapts a function to Handler.
type handlerFunc func(ctx context.Context, payload []byte) error

func (f handlerFunc) Handle(ctx context.Context, payload []byte) error { return f(ctx, payload) }
