package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaStream mirrors realtime events onto a Kafka topic for downstream consumers.
// Messages are keyed by room so one user's events stay ordered within a partition.
type KafkaStream struct {
	writer messageWriter
}

func NewKafkaStream(brokers []string, topic string) *KafkaStream {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		Async:                  true,
	}
	return &KafkaStream{writer: writer}
}

func (k *KafkaStream) Publish(ctx context.Context, room, event string, payload any) error {
	msg, err := newEventMessage(room, event, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(room),
		Value:   data,
		Headers: []kafka.Header{{Key: "event", Value: []byte(event)}},
	})
	if err != nil {
		return fmt.Errorf("kafka write error: %w", err)
	}
	return nil
}

func (k *KafkaStream) Close() error {
	return k.writer.Close()
}
