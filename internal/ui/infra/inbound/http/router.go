package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterUIRoutes(r *gin.Engine, handler *UIHandler) {
	r.GET("/", handler.Index)
	r.GET("/stream", handler.Stream)
	r.GET("/estado", handler.Status)
	r.GET("/health", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/paneles/:panel/toggle", handler.TogglePanel)
	r.POST("/consultas/:seccion", handler.Query)
	r.POST("/eventos", handler.CreateEvent)
}
