package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"producthunt_back_end/internal/database"
)

// RespondError traduit une erreur du store en réponse HTTP. Seules les 500 sont loggées.
func RespondError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, database.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	default:
		LoggerFrom(c, log).Error().Err(err).Msg("❌ " + msg)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
