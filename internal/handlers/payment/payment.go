package payment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"producthunt_back_end/internal/middleware"
	"producthunt_back_end/internal/models"
)

// Gateway crée un payment intent et retourne son client secret.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, price float64) (string, error)
}

type PaymentStore interface {
	InsertPayment(ctx context.Context, payment models.Document) (primitive.ObjectID, error)
	ListPayments(ctx context.Context) ([]models.Document, error)
}

type Handler struct {
	store   PaymentStore
	gateway Gateway
	log     zerolog.Logger
}

func NewHandler(store PaymentStore, gateway Gateway, log zerolog.Logger) *Handler {
	return &Handler{store: store, gateway: gateway, log: log}
}

// CreatePaymentIntent - POST /create-payment-intent
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "price must be a positive number"})
		return
	}
	price, ok := ParsePrice(req.Price)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "price must be a positive number"})
		return
	}

	secret, err := h.gateway.CreatePaymentIntent(c.Request.Context(), price)
	if err != nil {
		middleware.LoggerFrom(c, h.log).Error().Err(err).Float64("price", price).Msg("❌ Erreur Stripe")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.PaymentIntentResponse{ClientSecret: secret})
}

// CreatePayment - POST /payments : le corps est enregistré tel quel.
func (h *Handler) CreatePayment(c *gin.Context) {
	var payment models.Document
	if err := c.ShouldBindJSON(&payment); err != nil || payment == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "payment must be a JSON object"})
		return
	}

	id, err := h.store.InsertPayment(c.Request.Context(), payment)
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur enregistrement paiement")
		return
	}

	middleware.LoggerFrom(c, h.log).Info().Str("payment_id", id.Hex()).Str("email", middleware.Email(c)).Msg("💳 Paiement enregistré")
	c.JSON(http.StatusCreated, models.Inserted(id))
}

// GetPayments - GET /payments (admin)
func (h *Handler) GetPayments(c *gin.Context) {
	payments, err := h.store.ListPayments(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture paiements")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ParsePrice accepte un nombre JSON ou une chaîne numérique strictement positifs.
func ParsePrice(v any) (float64, bool) {
	f, ok := toFloat(v)
	return f, ok && f > 0
}
