package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"producthunt_back_end/internal/database"
	"producthunt_back_end/internal/models"
)

type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// RequireAdmin vérifie en base que l'utilisateur du token a le rôle "admin".
// Doit être chaîné après AuthRequired.
func RequireAdmin(users UserFinder, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := Email(c)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, forbidden)
			return
		}

		user, err := users.FindUserByEmail(c.Request.Context(), email)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			LoggerFrom(c, log).Error().Err(err).Str("email", email).Msg("❌ Erreur lecture rôle")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, forbidden)
			return
		}
		c.Next()
	}
}

// RequireSelf refuse (403) quand le paramètre d'URL ne correspond pas à l'email du token.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param(param) != Email(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, forbidden)
			return
		}
		c.Next()
	}
}
