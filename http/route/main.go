package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-bucket-list/http/controller"
	middlewares "github.com/tnqbao/gau-bucket-list/http/middleware"
	"github.com/tnqbao/gau-bucket-list/http/web"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware, middles.RequestIDMiddleware, middles.TraceMiddleware)

	r.GET("/healthz", ctrl.HealthCheck)

	assets, err := web.Assets()
	if err != nil {
		panic(err)
	}
	index, err := web.IndexHTML()
	if err != nil {
		panic(err)
	}
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	r.StaticFS("/static", assets)

	apiRoutes := r.Group("/api")
	{
		itemRoutes := apiRoutes.Group("/items")
		{
			itemRoutes.GET("", ctrl.ListItems)
			itemRoutes.POST("", ctrl.CreateItem)
			itemRoutes.GET("/activity", ctrl.ListActivity)
			itemRoutes.GET("/:id", ctrl.GetItem)
			itemRoutes.PUT("/:id", ctrl.UpdateItem)
			itemRoutes.DELETE("/:id", ctrl.DeleteItem)
		}
	}
	return r
}
