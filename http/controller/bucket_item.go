package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-bucket-list/entity"
	"github.com/tnqbao/gau-bucket-list/http/controller/dto"
	"github.com/tnqbao/gau-bucket-list/repository"
	"github.com/tnqbao/gau-bucket-list/utils"
)

const (
	msgItemNotFound   = "Item not found"
	msgInvalidItemID  = "Invalid item id"
	msgInvalidPayload = "Invalid request payload"
	msgInternalError  = "Internal server error"
)

var (
	errUnassignedID = errors.New("saved item has no id")
	errRowMoved     = errors.New("saved item changed identity")
)

// parseItemID accepts ids that fit a signed 64-bit column.
func parseItemID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 63)
}

func (ctrl *Controller) ListItems(c *gin.Context) {
	ctx := c.Request.Context()
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[BucketItem] Received ListItems request")

	items, err := ctrl.Repository.BucketItemRepo.FindAll(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[BucketItem] Failed to list items: %v", err)
		ctrl.recordOperation(ctx, "list", outcomeError)
		utils.JSON500(c, msgInternalError)
		return
	}
	if items == nil {
		items = []entity.BucketItem{}
	}

	ctrl.recordOperation(ctx, "list", outcomeSuccess)
	utils.JSON200(c, items)
}

func (ctrl *Controller) GetItem(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := parseItemID(c)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[BucketItem] Invalid item id %q", c.Param("id"))
		ctrl.recordOperation(ctx, "get", outcomeInvalid)
		utils.JSON400(c, msgInvalidItemID)
		return
	}

	item, err := ctrl.Repository.BucketItemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			ctrl.recordOperation(ctx, "get", outcomeNotFound)
			utils.JSON404(c, msgItemNotFound)
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[BucketItem] Failed to get item %d: %v", id, err)
		ctrl.recordOperation(ctx, "get", outcomeError)
		utils.JSON500(c, msgInternalError)
		return
	}

	ctrl.recordOperation(ctx, "get", outcomeSuccess)
	utils.JSON200(c, item)
}

func (ctrl *Controller) CreateItem(c *gin.Context) {
	ctx := c.Request.Context()
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[BucketItem] Received CreateItem request")

	var req dto.BucketItemRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[BucketItem] Failed to bind CreateItem request: %v", err)
		ctrl.recordOperation(ctx, "create", outcomeInvalid)
		utils.JSON400(c, msgInvalidPayload)
		return
	}
	if req.HasID() {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[BucketItem] Ignoring client-supplied id %s on create", string(req.ID))
	}

	item := &entity.BucketItem{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	saved, err := ctrl.Repository.BucketItemRepo.Save(ctx, item)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[BucketItem] Failed to create item: %v", err)
		ctrl.recordOperation(ctx, "create", outcomeError)
		utils.JSON500(c, msgInternalError)
		return
	}
	if !saved.IsPersisted() {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, errUnassignedID, "[BucketItem] Store returned item without id on create")
		ctrl.recordOperation(ctx, "create", outcomeError)
		utils.JSON500(c, msgInternalError)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[BucketItem] Successfully created item with ID: %d", saved.ID)
	ctrl.recordOperation(ctx, "create", outcomeSuccess)
	ctrl.publishItemEvent(ctx, entity.ActivityItemCreated, saved)
	utils.JSON201(c, saved)
}

func (ctrl *Controller) UpdateItem(c *gin.Context) {
	ctx := c.Request.Context()
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[BucketItem] Received UpdateItem request")

	id, err := parseItemID(c)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[BucketItem] Invalid item id %q", c.Param("id"))
		ctrl.recordOperation(ctx, "update", outcomeInvalid)
		utils.JSON400(c, msgInvalidItemID)
		return
	}

	var req dto.BucketItemRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[BucketItem] Failed to bind UpdateItem request: %v", err)
		ctrl.recordOperation(ctx, "update", outcomeInvalid)
		utils.JSON400(c, msgInvalidPayload)
		return
	}

	item, err := ctrl.Repository.BucketItemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[BucketItem] Item %d not found for update", id)
			ctrl.recordOperation(ctx, "update", outcomeNotFound)
			utils.JSON404(c, msgItemNotFound)
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[BucketItem] Failed to load item %d: %v", id, err)
		ctrl.recordOperation(ctx, "update", outcomeError)
		utils.JSON500(c, msgInternalError)
		return
	}

	item.Title = req.Title
	item.Description = req.Description
	item.Completed = req.Completed

	saved, err := ctrl.Repository.BucketItemRepo.Save(ctx, item)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[BucketItem] Failed to update item %d: %v", id, err)
		ctrl.recordOperation(ctx, "update", outcomeError)
		utils.JSON500(c, msgInternalError)
		return
	}
	if !saved.SameRow(item) {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, errRowMoved, "[BucketItem] Store saved item %d as row %d", id, saved.ID)
		ctrl.recordOperation(ctx, "update", outcomeError)
		utils.JSON500(c, msgInternalError)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[BucketItem] Successfully updated item with ID: %d", saved.ID)
	ctrl.recordOperation(ctx, "update", outcomeSuccess)
	ctrl.publishItemEvent(ctx, entity.ActivityItemUpdated, saved)
	utils.JSON200(c, saved)
}

func (ctrl *Controller) DeleteItem(c *gin.Context) {
	ctx := c.Request.Context()
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[BucketItem] Received DeleteItem request")

	id, err := parseItemID(c)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[BucketItem] Invalid item id %q", c.Param("id"))
		ctrl.recordOperation(ctx, "delete", outcomeInvalid)
		utils.JSON400(c, msgInvalidItemID)
		return
	}

	exists, err := ctrl.Repository.BucketItemRepo.ExistsByID(ctx, id)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[BucketItem] Error checking item existence: %v", err)
		ctrl.recordOperation(ctx, "delete", outcomeError)
		utils.JSON500(c, msgInternalError)
		return
	}
	if !exists {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[BucketItem] Item %d not found for delete", id)
		ctrl.recordOperation(ctx, "delete", outcomeNotFound)
		utils.JSON404(c, msgItemNotFound)
		return
	}

	if err := ctrl.Repository.BucketItemRepo.DeleteByID(ctx, id); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[BucketItem] Failed to delete item %d: %v", id, err)
		ctrl.recordOperation(ctx, "delete", outcomeError)
		utils.JSON500(c, msgInternalError)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[BucketItem] Successfully deleted item with ID: %d", id)
	ctrl.recordOperation(ctx, "delete", outcomeSuccess)
	ctrl.publishItemEvent(ctx, entity.ActivityItemDeleted, &entity.BucketItem{ID: id})
	c.Status(http.StatusOK)
}
