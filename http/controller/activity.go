package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-bucket-list/utils"
)

const defaultActivityLimit int64 = 20

func (ctrl *Controller) ListActivity(c *gin.Context) {
	ctx := c.Request.Context()

	if ctrl.Activity == nil {
		utils.JSON503(c, "Activity feed is disabled")
		return
	}

	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.JSON400(c, "Invalid limit")
			return
		}
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	if feedLimit := ctrl.Activity.Limit(); limit > feedLimit {
		limit = feedLimit
	}

	activities, err := ctrl.Activity.Recent(ctx, limit)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Activity] Failed to read activity feed: %v", err)
		utils.JSON500(c, msgInternalError)
		return
	}

	utils.JSON200(c, activities)
}
