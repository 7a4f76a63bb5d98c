package http

import "github.com/gin-gonic/gin"

// RegisterRoutes maps the chat endpoints under rg.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	rg.POST("", h.Ask)

	sessions := rg.Group("/sessions")
	sessions.GET("/:id/history", h.History)
	sessions.DELETE("/:id", h.Reset)
}
