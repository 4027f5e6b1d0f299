package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-bucket-list/http/controller"
)

type Middlewares struct {
	CORSMiddleware      gin.HandlerFunc
	RequestIDMiddleware gin.HandlerFunc
	TraceMiddleware     gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors := CORSMiddleware(ctrl.Config.EnvConfig)
	requestID := RequestIDMiddleware()
	tracing := TraceMiddleware(ctrl.Config.EnvConfig.Grafana.ServiceName)

	return &Middlewares{
		CORSMiddleware:      cors,
		RequestIDMiddleware: requestID,
		TraceMiddleware:     tracing,
	}, nil
}
