package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"producthunt_back_end/internal/utils"
)

const (
	ClaimsKey = "claims"
	EmailKey  = "email"
)

var (
	unauthorized = gin.H{"message": "unauthorized access"}
	forbidden    = gin.H{"message": "forbidden access"}
)

// AuthRequired rejette (401) toute requête sans Bearer token valide.
// En cas de succès, les claims décodés et l'email sont placés dans le contexte.
func AuthRequired(secret []byte, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized)
			return
		}

		claims, err := utils.ParseJWT(parts[1], secret)
		if err != nil {
			LoggerFrom(c, log).Debug().Err(err).Msg("❌ Token refusé")
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(EmailKey, utils.ClaimEmail(claims))
		c.Next()
	}
}

// Claims retourne les claims posés par AuthRequired.
func Claims(c *gin.Context) jwt.MapClaims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(jwt.MapClaims); ok {
			return claims
		}
	}
	return nil
}

// Email retourne l'email du token, vide hors route authentifiée.
func Email(c *gin.Context) string {
	return c.GetString(EmailKey)
}
