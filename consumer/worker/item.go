package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-bucket-list/entity"
	"github.com/tnqbao/gau-bucket-list/infra"
	"github.com/tnqbao/gau-bucket-list/infra/produce"
)

const maxRecordAttempts = 3

// errMalformedEvent marks messages that can never succeed and must not be requeued.
var errMalformedEvent = errors.New("malformed item event")

type ActivityRecorder interface {
	Record(ctx context.Context, activity entity.ItemActivity) error
}

// ItemConsumer folds item lifecycle events into the activity feed.
type ItemConsumer struct {
	channel    *amqp.Channel
	infra      *infra.Infra
	recorder   ActivityRecorder
	retryDelay time.Duration
	done       chan struct{}
}

func NewItemConsumer(channel *amqp.Channel, infra *infra.Infra, recorder ActivityRecorder) *ItemConsumer {
	return &ItemConsumer{
		channel:    channel,
		infra:      infra,
		recorder:   recorder,
		retryDelay: 2 * time.Second,
		done:       make(chan struct{}),
	}
}

// Done is closed once the consume loop has exited and no handler is in flight.
func (c *ItemConsumer) Done() <-chan struct{} {
	return c.done
}

func (c *ItemConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.ItemActivityQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register item activity consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Item Consumer] Started listening for item events on queue: %s", produce.ItemActivityQueue)

	go c.consume(ctx, msgs)

	return nil
}

func (c *ItemConsumer) consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			c.infra.Logger.InfoWithContextf(ctx, "[Item Consumer] Shutting down...")
			return
		case msg, ok := <-msgs:
			if !ok {
				c.infra.Logger.WarningWithContextf(ctx, "[Item Consumer] Channel closed")
				return
			}
			c.handleEvent(ctx, msg)
		}
	}
}

func (c *ItemConsumer) handleEvent(ctx context.Context, msg amqp.Delivery) {
	c.infra.Logger.DebugWithContextf(ctx, "[Item Consumer] Received message %s on %s", msg.MessageId, msg.RoutingKey)

	activity, err := parseItemEvent(msg.Body)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Item Consumer] Dropping message %s: %v", msg.MessageId, err)
		_ = msg.Nack(false, false)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= maxRecordAttempts; attempt++ {
		lastErr = c.recorder.Record(ctx, activity)
		if lastErr == nil {
			c.infra.Logger.InfoWithContextf(ctx, "[Item Consumer] Recorded %s activity for item %d", activity.Type, activity.ItemID)
			_ = msg.Ack(false)
			return
		}

		c.infra.Logger.ErrorWithContextf(ctx, lastErr, "[Item Consumer] Attempt %d/%d failed: %v", attempt, maxRecordAttempts, lastErr)

		if attempt < maxRecordAttempts {
			select {
			case <-ctx.Done():
				c.infra.Logger.WarningWithContextf(ctx, "[Item Consumer] Shutdown during retry, requeueing message %s", msg.MessageId)
				_ = msg.Nack(false, true)
				return
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}
	}

	c.infra.Logger.ErrorWithContextf(ctx, lastErr, "[Item Consumer] Failed after %d attempts, requeueing message", maxRecordAttempts)
	_ = msg.Nack(false, true)
}

func parseItemEvent(body []byte) (entity.ItemActivity, error) {
	var payload produce.ItemEventMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return entity.ItemActivity{}, fmt.Errorf("%w: %v", errMalformedEvent, err)
	}

	eventType := entity.ActivityType(payload.Type)
	if !eventType.Valid() {
		return entity.ItemActivity{}, fmt.Errorf("%w: unknown type %q", errMalformedEvent, payload.Type)
	}
	if payload.ItemID == 0 {
		return entity.ItemActivity{}, fmt.Errorf("%w: missing item id", errMalformedEvent)
	}

	eventID, err := uuid.Parse(payload.EventID)
	if err != nil {
		return entity.ItemActivity{}, fmt.Errorf("%w: event id: %v", errMalformedEvent, err)
	}

	return entity.ItemActivity{
		EventID:    eventID,
		Type:       eventType,
		ItemID:     payload.ItemID,
		Title:      payload.Title,
		Completed:  payload.Completed,
		OccurredAt: time.Unix(payload.Timestamp, 0).UTC(),
	}, nil
}
