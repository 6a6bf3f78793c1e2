package payment

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"producthunt_back_end/internal/database"
	"producthunt_back_end/internal/middleware"
	"producthunt_back_end/internal/models"
)

var ErrInvalidExpiry = errors.New("expiryDate must be a valid date")

// Formats acceptés pour expiryDate, du plus courant au plus précis.
var expiryLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

type CouponStore interface {
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	ActiveCoupons(ctx context.Context, now time.Time) ([]models.Coupon, error)
	InsertCoupon(ctx context.Context, c models.Coupon) (primitive.ObjectID, error)
	DeleteCoupon(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type CouponHandler struct {
	store CouponStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewCouponHandler(store CouponStore, log zerolog.Logger) *CouponHandler {
	return &CouponHandler{store: store, log: log, now: time.Now}
}

// GetCoupons - GET /coupons
func (h *CouponHandler) GetCoupons(c *gin.Context) {
	coupons, err := h.store.ListCoupons(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture coupons")
		return
	}
	c.JSON(http.StatusOK, coupons)
}

// GetActiveCoupons - GET /coupons/active : coupons non expirés
func (h *CouponHandler) GetActiveCoupons(c *gin.Context) {
	coupons, err := h.store.ActiveCoupons(c.Request.Context(), h.now())
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture coupons actifs")
		return
	}
	c.JSON(http.StatusOK, coupons)
}

// CreateCoupon - POST /coupons (admin)
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req models.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid coupon", "details": err.Error()})
		return
	}

	coupon, err := NewCoupon(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	id, err := h.store.InsertCoupon(c.Request.Context(), coupon)
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur création coupon")
		return
	}

	middleware.LoggerFrom(c, h.log).Info().Str("coupon_id", id.Hex()).Str("code", coupon.Code).Msg("✅ Coupon créé")
	c.JSON(http.StatusCreated, models.Inserted(id))
}

// DeleteCoupon - DELETE /coupons/:id (admin)
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	id, err := database.ParseID(c.Param("id"))
	if err != nil {
		middleware.RespondError(c, h.log, err, "ID coupon invalide")
		return
	}

	deleted, err := h.store.DeleteCoupon(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur suppression coupon")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "coupon not found"})
		return
	}

	c.JSON(http.StatusOK, models.DeleteResult{Acknowledged: true, DeletedCount: deleted})
}

// NewCoupon normalise la requête : code par défaut, remise numérique, date obligatoire.
func NewCoupon(req models.CreateCouponRequest) (models.Coupon, error) {
	expiry, err := ParseExpiry(req.ExpiryDate)
	if err != nil {
		return models.Coupon{}, err
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = models.DefaultCouponCode
	}

	return models.Coupon{
		Code:       code,
		Discount:   ParseDiscount(req.Discount),
		ExpiryDate: expiry,
	}, nil
}

// ParseExpiry accepte une date textuelle ou un timestamp en millisecondes.
func ParseExpiry(v any) (time.Time, error) {
	if ms, ok := v.(float64); ok {
		if math.IsNaN(ms) || math.IsInf(ms, 0) {
			return time.Time{}, ErrInvalidExpiry
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	}

	s, ok := v.(string)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return time.Time{}, ErrInvalidExpiry
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidExpiry
}

// ParseDiscount accepte un nombre JSON ou une chaîne numérique, sinon 0.
func ParseDiscount(v any) float64 {
	f, _ := toFloat(v)
	return f
}

// toFloat convertit un nombre JSON ou une chaîne numérique finie.
func toFloat(v any) (float64, bool) {
	var f float64
	switch d := v.(type) {
	case float64:
		f = d
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(d), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
