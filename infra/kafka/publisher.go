// Package kafka publishes computed charging schedules to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kilianp07/evload/core/factory"
	coremon "github.com/kilianp07/evload/core/monitoring"
	"github.com/kilianp07/evload/core/schedule"
	"github.com/kilianp07/evload/infra/logger"
)

// Config describes the target topic.
type Config struct {
	Brokers      []string      `json:"brokers"`
	Topic        string        `json:"topic"`
	RequiredAcks int           `json:"required_acks"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// messageWriter is the subset of kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements schedule.Publisher over Kafka. Messages are keyed by
// station type so every schedule of a station lands on the same partition.
type Publisher struct {
	w       messageWriter
	topic   string
	timeout time.Duration
	log     logger.Logger
}

// NewPublisher creates a synchronous writer for cfg.Topic.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	acks := kafka.RequireOne
	switch cfg.RequiredAcks {
	case -1:
		acks = kafka.RequireAll
	case 0:
		// default
	default:
		acks = kafka.RequiredAcks(cfg.RequiredAcks)
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: acks,
		Async:        false,
	}
	return newPublisher(w, cfg), nil
}

func newPublisher(w messageWriter, cfg Config) *Publisher {
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Publisher{w: w, topic: cfg.Topic, timeout: timeout, log: logger.New("kafka_publisher")}
}

// Publish writes env as a single JSON message.
func (p *Publisher) Publish(ctx context.Context, env schedule.Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	msg := kafka.Message{
		Key:   []byte(env.Station),
		Value: b,
		Time:  env.GeneratedAt,
		Headers: []kafka.Header{
			{Key: "run_id", Value: []byte(env.RunID)},
			{Key: "profile_family", Value: []byte(env.Family)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		coremon.CaptureException(err, map[string]string{"module": "kafka", "run_id": env.RunID, "topic": p.topic})
		return fmt.Errorf("kafka publish %s: %w", p.topic, err)
	}
	p.log.Infof("published schedule %s to %s", env.RunID, p.topic)
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error { return p.w.Close() }

func init() {
	_ = schedule.RegisterPublisher("kafka", func(conf map[string]any) (schedule.Publisher, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPublisher(c)
	})
}
