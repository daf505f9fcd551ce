package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// TransactionEvent is the wire payload fanned out to downstream delivery
// channels (in-app push, mailers). It carries enough to render a message
// without a follow-up lookup.
type TransactionEvent struct {
	TransactionID string   `json:"transaction_id"`
	Reference     string   `json:"reference"`
	Category      string   `json:"category"`
	Kind          string   `json:"kind"`
	Message       string   `json:"message"`
	OfficeName    string   `json:"office_name,omitempty"`
	ActorName     string   `json:"actor_name,omitempty"`
	Recipients    []string `json:"recipients,omitempty"`
}

type Publisher struct {
	writer *kafka.Writer
	topic  string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		topic: topic,
	}
}

func (p *Publisher) PublishTransactionEvent(ctx context.Context, event TransactionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.TransactionID),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
