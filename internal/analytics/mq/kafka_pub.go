package mq

import (
	"context"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

type kafkaQueue struct {
	w *kafka.Writer
}

// NewKafka writes events to topic. Writers are safe for concurrent use.
func NewKafka(brokers []string, topic string) Queue {
	if len(brokers) == 0 {
		return NewNoop()
	}
	if topic == "" {
		topic = "arcadehub.events"
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireOne,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &kafkaQueue{w: w}
}

func (q *kafkaQueue) Close() error { return q.w.Close() }

func (q *kafkaQueue) PublishEvent(evt map[string]any) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg := kafka.Message{Value: b}
	if id, ok := evt["game_id"].(string); ok && id != "" {
		msg.Key = []byte(id)
	}
	return q.w.WriteMessages(ctx, msg)
}
