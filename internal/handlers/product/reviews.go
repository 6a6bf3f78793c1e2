package product

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"producthunt_back_end/internal/middleware"
	"producthunt_back_end/internal/models"
)

type ReviewStore interface {
	ReviewsForProduct(ctx context.Context, productID string) ([]models.Document, error)
	InsertReview(ctx context.Context, review models.Document) (primitive.ObjectID, error)
}

type ReviewHandler struct {
	store ReviewStore
	log   zerolog.Logger
}

func NewReviewHandler(store ReviewStore, log zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{store: store, log: log}
}

// GetProductReviews - GET /reviews/:productId
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	reviews, err := h.store.ReviewsForProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture avis")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// CreateReview - POST /reviews : le corps est stocké tel quel.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var review models.Document
	if err := c.ShouldBindJSON(&review); err != nil || review == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "review must be a JSON object"})
		return
	}

	id, err := h.store.InsertReview(c.Request.Context(), review)
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur création avis")
		return
	}
	c.JSON(http.StatusCreated, models.Inserted(id))
}
