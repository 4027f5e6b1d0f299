package controller

import (
	"context"

	"github.com/tnqbao/gau-bucket-list/config"
	"github.com/tnqbao/gau-bucket-list/entity"
	"github.com/tnqbao/gau-bucket-list/infra"
	"github.com/tnqbao/gau-bucket-list/repository"
)

type ItemEventPublisher interface {
	PublishItemEvent(ctx context.Context, eventType entity.ActivityType, item *entity.BucketItem) error
}

type ActivityReader interface {
	Recent(ctx context.Context, n int64) ([]entity.ItemActivity, error)
	Limit() int64
}

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	// Events and Activity are nil when the activity feed is disabled.
	Events   ItemEventPublisher
	Activity ActivityReader
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil || repo.BucketItemRepo == nil {
		panic("Failed to initialize Repository")
	}
	ctrl := &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
	}
	if infra.Produce != nil && infra.Produce.ItemService != nil {
		ctrl.Events = infra.Produce.ItemService
	}
	if infra.Activity != nil {
		ctrl.Activity = infra.Activity
	}
	return ctrl
}

const (
	outcomeSuccess  = "success"
	outcomeNotFound = "not_found"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

func (ctrl *Controller) recordOperation(ctx context.Context, operation, outcome string) {
	if ctrl.Infra.Telemetry == nil {
		return
	}
	ctrl.Infra.Telemetry.Metrics.RecordOperation(ctx, operation, outcome)
}

// publishItemEvent never fails the request; the mutation is already committed.
func (ctrl *Controller) publishItemEvent(ctx context.Context, eventType entity.ActivityType, item *entity.BucketItem) {
	if ctrl.Events == nil {
		return
	}
	if err := ctrl.Events.PublishItemEvent(ctx, eventType, item); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[BucketItem] Failed to publish %s event for item %d: %v", eventType, item.ID, err)
		return
	}
	ctrl.Infra.Logger.DebugWithContextf(ctx, "[BucketItem] Published %s event for item %d", eventType, item.ID)
}
