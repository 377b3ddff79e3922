package event

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"storefront/internal/domain/model"

	"github.com/segmentio/kafka-go"
)

// kafka.Writerの必要な部分だけ（テストで差し替える）
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// 注文イベントをKafkaへ送る。キーはuser_id（同じユーザーのイベントは同じパーティション）
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, ev model.OrderPlacedEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.UserID, 10)),
		Value: data,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KAFKA_BROKERS未設定時
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, model.OrderPlacedEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

// 送信先があればKafka、無ければNoop
func NewOrderPublisher(brokers []string, topic string) interface {
	PublishOrderPlaced(ctx context.Context, ev model.OrderPlacedEvent) error
	Close() error
} {
	if len(brokers) == 0 {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
