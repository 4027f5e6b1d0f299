package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityItemCreated ActivityType = "created"
	ActivityItemUpdated ActivityType = "updated"
	ActivityItemDeleted ActivityType = "deleted"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityItemCreated, ActivityItemUpdated, ActivityItemDeleted:
		return true
	}
	return false
}

// ItemActivity is one entry of the activity feed kept in Redis.
type ItemActivity struct {
	EventID    uuid.UUID    `json:"event_id"`
	Type       ActivityType `json:"type"`
	ItemID     uint64       `json:"item_id"`
	Title      *string      `json:"title"`
	Completed  bool         `json:"completed"`
	OccurredAt time.Time    `json:"occurred_at"`
}
