// Package kafka consumes product change events from a Kafka topic.
package kafka

import (
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/kailas-cloud/productsearch/internal/config"
)

const dialTimeout = 10 * time.Second

// NewReader builds a consumer-group reader for the configured topic.
// ReadMessage on a group reader commits offsets itself, every CommitInterval.
func NewReader(cfg config.KafkaConfig) (*kafka.Reader, error) {
	rc, err := readerConfig(cfg)
	if err != nil {
		return nil, err
	}
	return kafka.NewReader(rc), nil
}

func readerConfig(cfg config.KafkaConfig) (kafka.ReaderConfig, error) {
	if len(cfg.Brokers) == 0 {
		return kafka.ReaderConfig{}, errors.New("brokers are required")
	}
	if cfg.Topic == "" || cfg.GroupID == "" {
		return kafka.ReaderConfig{}, errors.New("topic and group id are required")
	}

	rc := kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		CommitInterval: time.Duration(cfg.CommitIntervalMs) * time.Millisecond,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		MaxWait:        time.Duration(cfg.MaxWaitMs) * time.Millisecond,
	}

	switch cfg.StartOffset {
	case "", "first":
		rc.StartOffset = kafka.FirstOffset
	case "last":
		rc.StartOffset = kafka.LastOffset
	default:
		return kafka.ReaderConfig{}, fmt.Errorf("unknown start offset %q", cfg.StartOffset)
	}

	dialer, err := newDialer(cfg)
	if err != nil {
		return kafka.ReaderConfig{}, err
	}
	rc.Dialer = dialer

	return rc, nil
}

// newDialer returns nil when neither TLS nor SASL is configured, so the reader uses its default.
func newDialer(cfg config.KafkaConfig) (*kafka.Dialer, error) {
	if !cfg.TLS && cfg.SASL.Mechanism == "" {
		return nil, nil
	}

	d := &kafka.Dialer{
		Timeout:   dialTimeout,
		DualStack: true,
	}
	if cfg.TLS {
		d.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	switch cfg.SASL.Mechanism {
	case "":
	case "plain":
		d.SASLMechanism = plain.Mechanism{
			Username: cfg.SASL.Username,
			Password: cfg.SASL.Password,
		}
	default:
		return nil, fmt.Errorf("unsupported sasl mechanism %q", cfg.SASL.Mechanism)
	}
	return d, nil
}
