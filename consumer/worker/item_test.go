package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/tnqbao/gau-bucket-list/entity"
	"github.com/tnqbao/gau-bucket-list/infra"
	"github.com/tnqbao/gau-bucket-list/infra/produce"
)

type ackResult struct {
	acked   bool
	nacked  bool
	requeue bool
}

// fakeAcknowledger captures how a delivery was settled.
type fakeAcknowledger struct {
	result ackResult
}

func (a *fakeAcknowledger) Ack(uint64, bool) error {
	a.result.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.result.nacked = true
	a.result.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	a.result.nacked = true
	a.result.requeue = requeue
	return nil
}

type fakeRecorder struct {
	failures int
	calls    int
	recorded []entity.ItemActivity
}

func (r *fakeRecorder) Record(_ context.Context, activity entity.ItemActivity) error {
	r.calls++
	if r.calls <= r.failures {
		return errors.New("redis unavailable")
	}
	r.recorded = append(r.recorded, activity)
	return nil
}

func newTestConsumer(recorder ActivityRecorder) *ItemConsumer {
	testInfra := &infra.Infra{Logger: infra.NewLoggerClient(slog.NewTextHandler(io.Discard, nil))}
	c := NewItemConsumer(nil, testInfra, recorder)
	c.retryDelay = time.Millisecond
	return c
}

func eventBody(t *testing.T, eventType entity.ActivityType, item *entity.BucketItem) []byte {
	t.Helper()
	body, err := json.Marshal(produce.NewItemEventMessage(eventType, item, time.Unix(1700000000, 0)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return body
}

func deliver(c *ItemConsumer, body []byte) ackResult {
	ack := &fakeAcknowledger{}
	c.handleEvent(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body})
	return ack.result
}

func TestHandleEvent(t *testing.T) {
	title := "Skydiving"
	valid := eventBody(t, entity.ActivityItemCreated, &entity.BucketItem{ID: 7, Title: &title})

	tests := []struct {
		name        string
		body        []byte
		failures    int
		wantResult  ackResult
		wantCalls   int
		wantRecords int
	}{
		{
			name:        "records and acks",
			body:        valid,
			wantResult:  ackResult{acked: true},
			wantCalls:   1,
			wantRecords: 1,
		},
		{
			name:        "retries transient failures",
			body:        valid,
			failures:    2,
			wantResult:  ackResult{acked: true},
			wantCalls:   3,
			wantRecords: 1,
		},
		{
			name:       "requeues after exhausting attempts",
			body:       valid,
			failures:   maxRecordAttempts,
			wantResult: ackResult{nacked: true, requeue: true},
			wantCalls:  maxRecordAttempts,
		},
		{
			name:       "drops invalid json",
			body:       []byte(`{"type":`),
			wantResult: ackResult{nacked: true},
		},
		{
			name:       "drops unknown event type",
			body:       []byte(`{"event_id":"0b6b7f3e-4f0e-4a53-9f3b-4d5f0c0a1b2c","type":"archived","item_id":1,"timestamp":1700000000}`),
			wantResult: ackResult{nacked: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &fakeRecorder{failures: tt.failures}
			result := deliver(newTestConsumer(recorder), tt.body)

			if result != tt.wantResult {
				t.Errorf("settled as %+v, want %+v", result, tt.wantResult)
			}
			if recorder.calls != tt.wantCalls {
				t.Errorf("Record called %d times, want %d", recorder.calls, tt.wantCalls)
			}
			if len(recorder.recorded) != tt.wantRecords {
				t.Errorf("recorded %d activities, want %d", len(recorder.recorded), tt.wantRecords)
			}
		})
	}
}

func TestParseItemEvent(t *testing.T) {
	title := "Visit Japan"
	body := eventBody(t, entity.ActivityItemUpdated, &entity.BucketItem{ID: 3, Title: &title, Completed: true})

	activity, err := parseItemEvent(body)
	if err != nil {
		t.Fatalf("parseItemEvent: %v", err)
	}
	if activity.Type != entity.ActivityItemUpdated || activity.ItemID != 3 || !activity.Completed {
		t.Errorf("activity = %+v", activity)
	}
	if activity.Title == nil || *activity.Title != title {
		t.Errorf("title = %v, want %q", activity.Title, title)
	}
	if !activity.OccurredAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("occurred at = %v", activity.OccurredAt)
	}

	malformed := [][]byte{
		[]byte(`nope`),
		[]byte(`{"event_id":"not-a-uuid","type":"created","item_id":1}`),
		[]byte(`{"event_id":"0b6b7f3e-4f0e-4a53-9f3b-4d5f0c0a1b2c","type":"created","item_id":0}`),
	}
	for _, body := range malformed {
		if _, err := parseItemEvent(body); !errors.Is(err, errMalformedEvent) {
			t.Errorf("parseItemEvent(%s) error = %v, want errMalformedEvent", body, err)
		}
	}
}

func TestHandleEvent_FeedsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	feed := infra.NewActivityFeed(infra.NewRedisClient(client), 10)
	consumer := newTestConsumer(feed)

	title := "Skydiving"
	item := &entity.BucketItem{ID: 1, Title: &title}
	for _, eventType := range []entity.ActivityType{entity.ActivityItemCreated, entity.ActivityItemUpdated, entity.ActivityItemDeleted} {
		if result := deliver(consumer, eventBody(t, eventType, item)); !result.acked {
			t.Fatalf("%s event not acked: %+v", eventType, result)
		}
	}

	recent, err := feed.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("feed has %d entries, want 3", len(recent))
	}
	if recent[0].Type != entity.ActivityItemDeleted || recent[2].Type != entity.ActivityItemCreated {
		t.Errorf("feed order = %s, %s, %s", recent[0].Type, recent[1].Type, recent[2].Type)
	}
}

func TestHandleEvent_ShutdownDuringBackoff(t *testing.T) {
	recorder := &fakeRecorder{failures: maxRecordAttempts}
	consumer := newTestConsumer(recorder)
	consumer.retryDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	title := "Skydiving"
	ack := &fakeAcknowledger{}
	msg := amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: eventBody(t, entity.ActivityItemCreated, &entity.BucketItem{ID: 1, Title: &title})}

	finished := make(chan struct{})
	go func() {
		consumer.handleEvent(ctx, msg)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("handleEvent kept sleeping after shutdown")
	}

	if ack.result != (ackResult{nacked: true, requeue: true}) {
		t.Errorf("settled as %+v, want requeue", ack.result)
	}
	if recorder.calls != 1 {
		t.Errorf("Record called %d times, want 1", recorder.calls)
	}
}

func TestConsume_SignalsDone(t *testing.T) {
	title := "Skydiving"
	body := eventBody(t, entity.ActivityItemCreated, &entity.BucketItem{ID: 1, Title: &title})

	t.Run("channel closed", func(t *testing.T) {
		recorder := &fakeRecorder{}
		consumer := newTestConsumer(recorder)
		msgs := make(chan amqp.Delivery, 1)
		msgs <- amqp.Delivery{Acknowledger: &fakeAcknowledger{}, DeliveryTag: 1, Body: body}
		close(msgs)

		go consumer.consume(context.Background(), msgs)

		select {
		case <-consumer.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("Done was not closed after the channel closed")
		}
		if len(recorder.recorded) != 1 {
			t.Errorf("recorded %d activities before exit, want 1", len(recorder.recorded))
		}
	})

	t.Run("context cancelled", func(t *testing.T) {
		consumer := newTestConsumer(&fakeRecorder{})
		ctx, cancel := context.WithCancel(context.Background())

		go consumer.consume(ctx, make(chan amqp.Delivery))
		cancel()

		select {
		case <-consumer.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("Done was not closed after cancellation")
		}
	})
}
