package server

import "github.com/gin-gonic/gin"

// NewRouter builds the HTTP router over the trigger handlers.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.Health)

	v1 := r.Group("/v1")
	{
		v1.POST("/documents", h.Ingest)
		v1.POST("/sync", h.Sync)
		v1.POST("/query", h.Query)
	}
	return r
}
