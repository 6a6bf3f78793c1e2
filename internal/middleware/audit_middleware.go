package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	ActionRoleChange    = "user.role_change"
	ActionProductDelete = "product.delete"
	ActionCouponCreate  = "coupon.create"
	ActionCouponDelete  = "coupon.delete"

	ResourceUser    = "user"
	ResourceProduct = "product"
	ResourceCoupon  = "coupon"
)

// AuditCriticalActions trace une action privilégiée après traitement, réussie ou non.
func AuditCriticalActions(log zerolog.Logger, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		event := LoggerFrom(c, log).Info()
		if status < 200 || status >= 300 {
			event = LoggerFrom(c, log).Warn()
		}
		event.
			Str("audit_action", action).
			Str("resource", resource).
			Str("resource_id", c.Param("id")).
			Str("actor", Email(c)).
			Int("status", status).
			Bool("success", status >= 200 && status < 300).
			Msg("audit")
	}
}
