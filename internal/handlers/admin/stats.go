package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"producthunt_back_end/internal/middleware"
	"producthunt_back_end/internal/models"
)

type StatsStore interface {
	Stats(ctx context.Context) (models.Stats, error)
}

type StatsHandler struct {
	store StatsStore
	log   zerolog.Logger
}

func NewStatsHandler(store StatsStore, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{store: store, log: log}
}

// GetStats - GET /stats : compteurs estimés des collections principales.
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture statistiques")
		return
	}
	c.JSON(http.StatusOK, stats)
}
