package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrBrokerUnavailable is returned while the circuit breaker around the broker is open
var ErrBrokerUnavailable = errors.New("event broker unavailable")

// MessageWriter is the subset of *kafka.Writer used by KafkaPublisher
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a writer that hashes on the message key, so all events
// of one aggregate land on the same partition in order
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           cfg.WriteTimeout,
		BatchTimeout:           10 * time.Millisecond,
	}
}

// KafkaPublisher forwards outbox entries to a Kafka topic. The stored payload
// is sent as is, keyed by aggregate id.
type KafkaPublisher struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration
	logger  *zap.Logger
}

// NewKafkaPublisher wraps writer with a circuit breaker that opens after
// cfg.BreakerMaxFailures consecutive failures
func NewKafkaPublisher(writer MessageWriter, cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "kafka:" + cfg.Topic,
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &KafkaPublisher{
		writer:  writer,
		breaker: breaker,
		timeout: cfg.WriteTimeout,
		logger:  logger,
	}
}

// Send writes one outbox entry to the topic
func (p *KafkaPublisher) Send(ctx context.Context, entry *shared.OutboxEntry) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		writeCtx := ctx
		if p.timeout > 0 {
			var cancel context.CancelFunc
			writeCtx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		return struct{}{}, p.writer.WriteMessages(writeCtx, toMessage(entry))
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %v", ErrBrokerUnavailable, err)
	default:
		return fmt.Errorf("failed to write %s to kafka: %w", entry.EventType, err)
	}
}

// State returns the breaker state, for health reporting
func (p *KafkaPublisher) State() gobreaker.State {
	return p.breaker.State()
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(entry *shared.OutboxEntry) kafka.Message {
	return kafka.Message{
		Key:   []byte(entry.AggregateID.String()),
		Value: entry.Payload,
		Time:  entry.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(entry.EventType)},
			{Key: "event_id", Value: []byte(entry.EventID.String())},
			{Key: "aggregate_type", Value: []byte(entry.AggregateType)},
		},
	}
}

var _ Broker = (*KafkaPublisher)(nil)
