// Package eventbus publishes threat escalation events for downstream
// monitoring.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ThreatEvent is emitted whenever a session is assessed above clear.
type ThreatEvent struct {
	SessionID  string    `json:"session_id"`
	OriginHash string    `json:"origin_hash,omitempty"`
	Intent     string    `json:"intent"`
	Tier       string    `json:"tier"`
	Score      int       `json:"score"`
	Flags      []string  `json:"flags"`
	At         time.Time `json:"at"`
}

// Publisher delivers ThreatEvents. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev ThreatEvent) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, ThreatEvent) error { return nil }
func (Nop) Close() error                               { return nil }

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher writes events as JSON, keyed by session id so one
// session's events stay ordered on a partition.
type KafkaPublisher struct {
	writer kafkaWriter
}

var _ Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if trimmed := strings.TrimSpace(b); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("eventbus: kafka brokers required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, fmt.Errorf("eventbus: kafka topic required")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
	}
	return &KafkaPublisher{writer: w}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev ThreatEvent) error {
	if p == nil || p.writer == nil {
		return fmt.Errorf("eventbus: publisher not initialized")
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("eventbus: encode event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(ev.SessionID), Value: body}); err != nil {
		return fmt.Errorf("eventbus: write: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
