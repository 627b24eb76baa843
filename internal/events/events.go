package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"webshop/internal/model"
)

// Publisher announces completed sales to other systems.
type Publisher interface {
	PublishSale(ctx context.Context, sale *model.SoldBook) error
}

// MessageWriter is the part of *kafka.Writer used for publishing.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// SaleEvent is the JSON payload of a book.sold message.
type SaleEvent struct {
	Type         string    `json:"type"`
	SaleID       uint      `json:"sale_id"`
	BookID       uint      `json:"book_id"`
	UserID       uint      `json:"user_id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	CategoryID   *uint     `json:"category_id,omitempty"`
	Price        int       `json:"price"`
	PurchaseDate time.Time `json:"purchase_date"`
}

// EventBookSold is the type of a sale event.
const EventBookSold = "book.sold"

// KafkaPublisher writes sale events to a Kafka topic.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaWriter builds a writer for topic on brokers.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher wraps a writer, usually one from NewKafkaWriter.
func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// PublishSale sends one message keyed book.sold.<sale id>.
func (p *KafkaPublisher) PublishSale(ctx context.Context, sale *model.SoldBook) error {
	payload, err := json.Marshal(SaleEvent{
		Type:         EventBookSold,
		SaleID:       sale.ID,
		BookID:       sale.BookID,
		UserID:       sale.UserID,
		Title:        sale.Title,
		Author:       sale.Author,
		CategoryID:   sale.CategoryID,
		Price:        sale.Price,
		PurchaseDate: sale.PurchaseDate,
	})
	if err != nil {
		return fmt.Errorf("marshal sale %d: %w", sale.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%s.%d", EventBookSold, sale.ID)),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish sale %d: %w", sale.ID, err)
	}
	return nil
}

// Nop discards every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) PublishSale(context.Context, *model.SoldBook) error { return nil }
