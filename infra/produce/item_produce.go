package produce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-bucket-list/entity"
)

const (
	ItemExchange      = "bucket_item.exchange"
	ItemActivityQueue = "bucket_item.activity"
	ItemRoutingPrefix = "bucket_item."
	// ItemBindingKey matches every item lifecycle routing key.
	ItemBindingKey = ItemRoutingPrefix + "*"
)

type ItemEventMessage struct {
	EventID   string  `json:"event_id"`
	Type      string  `json:"type"`
	ItemID    uint64  `json:"item_id"`
	Title     *string `json:"title,omitempty"`
	Completed bool    `json:"completed"`
	Timestamp int64   `json:"timestamp"`
}

// Publisher is the part of *amqp.Channel the item service needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type ItemService struct {
	channel Publisher
	now     func() time.Time
}

func InitItemService(channel *amqp.Channel) *ItemService {
	err := channel.ExchangeDeclare(
		ItemExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Item exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		ItemActivityQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Item activity queue: " + err.Error())
	}

	err = channel.QueueBind(
		ItemActivityQueue,
		ItemBindingKey,
		ItemExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Item activity queue: " + err.Error())
	}

	return NewItemService(channel)
}

func NewItemService(channel Publisher) *ItemService {
	return &ItemService{
		channel: channel,
		now:     time.Now,
	}
}

func NewItemEventMessage(eventType entity.ActivityType, item *entity.BucketItem, at time.Time) ItemEventMessage {
	return ItemEventMessage{
		EventID:   uuid.NewString(),
		Type:      string(eventType),
		ItemID:    item.ID,
		Title:     item.Title,
		Completed: item.Completed,
		Timestamp: at.Unix(),
	}
}

func (s *ItemService) PublishItemEvent(ctx context.Context, eventType entity.ActivityType, item *entity.BucketItem) error {
	if !eventType.Valid() {
		return fmt.Errorf("unknown item event type %q", eventType)
	}
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	message := NewItemEventMessage(eventType, item, s.now())
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal item event: %w", err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		ItemExchange,                        // exchange
		ItemRoutingPrefix+string(eventType), // routing key
		false,                               // mandatory
		false,                               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    message.EventID,
			Timestamp:    time.Unix(message.Timestamp, 0),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish item event: %w", err)
	}

	return nil
}
