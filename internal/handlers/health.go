package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Root - GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Product Hunt Server is running.")
}

// Health - GET /health : le serveur répond même si Mongo est injoignable.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	database := "up"
	if err := h.db.Ping(ctx); err != nil {
		database = "down"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": database})
}
