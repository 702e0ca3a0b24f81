package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/productsearch/internal/logger"
	"github.com/kailas-cloud/productsearch/internal/metrics"
	"github.com/kailas-cloud/productsearch/internal/usecase/indexing"
)

// reader is the part of *kafka.Reader the consumer uses.
type reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Handler processes one record payload.
type Handler interface {
	Handle(ctx context.Context, payload []byte) error
}

// RecordError is the handler failure that stopped the consumer.
type RecordError struct {
	Topic     string
	Partition int
	Offset    int64
	Err       error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %s/%d@%d: %v", e.Topic, e.Partition, e.Offset, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Consumer feeds records to a handler one at a time.
type Consumer struct {
	reader  reader
	handler Handler
	state   atomic.Value
}

// NewConsumer creates a consumer over r.
func NewConsumer(r reader, h Handler) *Consumer {
	c := &Consumer{reader: r, handler: h}
	c.setState(StateIdle)
	return c
}

// State returns the current state.
func (c *Consumer) State() State {
	return c.state.Load().(State) //nolint:forcetypeassert // only States are stored
}

func (c *Consumer) setState(s State) {
	c.state.Store(s)
	publishState(s)
}

// Run reads and handles records until ctx is done, the reader is closed, or a
// record fails. The first handler error stops the loop and is returned as a
// *RecordError; the record is not retried or skipped. Offsets already committed
// by the reader are not rolled back. Returns nil on shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("consumer started")

	for {
		c.setState(StateReceiving)
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				c.setState(StateIdle)
				log.Info("consumer stopped")
				return nil
			}
			c.setState(StateFailed)
			return fmt.Errorf("read message: %w", err)
		}

		metrics.ConsumerLastOffset.
			WithLabelValues(msg.Topic, strconv.Itoa(msg.Partition)).
			Set(float64(msg.Offset))

		rctx, rlog := logger.With(ctx,
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.ByteString("key", msg.Key),
		)
		rctx = indexing.ContextWithStageHook(rctx, func(s indexing.Stage) {
			c.setState(stateForStage(s))
		})

		if err := c.handler.Handle(rctx, msg.Value); err != nil {
			c.setState(StateFailed)
			rlog.Error("record failed, stopping consumer", zap.Error(err))
			return &RecordError{
				Topic:     msg.Topic,
				Partition: msg.Partition,
				Offset:    msg.Offset,
				Err:       err,
			}
		}
		c.setState(StateIdle)
	}
}

// Close releases the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("close reader: %w", err)
	}
	return nil
}

// StateName returns the current state as a string.
func (c *Consumer) StateName() string {
	return string(c.State())
}
