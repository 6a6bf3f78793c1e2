package product

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"producthunt_back_end/internal/database"
	"producthunt_back_end/internal/middleware"
	"producthunt_back_end/internal/models"
)

type Store interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	FeaturedProducts(ctx context.Context) ([]models.Product, error)
	TrendingProducts(ctx context.Context) ([]models.Product, error)
	AcceptedProducts(ctx context.Context, q database.AcceptedQuery) ([]models.Product, int64, error)
	FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	InsertProduct(ctx context.Context, p models.Product) (primitive.ObjectID, error)
	ProductsByOwner(ctx context.Context, email string) ([]models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (int64, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Handler struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewHandler(store Store, log zerolog.Logger) *Handler {
	return &Handler{store: store, log: log, now: time.Now}
}

// GetAllProducts - GET /products
func (h *Handler) GetAllProducts(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture produits")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetFeaturedProducts - GET /featured/products
func (h *Handler) GetFeaturedProducts(c *gin.Context) {
	products, err := h.store.FeaturedProducts(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture produits featured")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetTrendingProducts - GET /trending/products
func (h *Handler) GetTrendingProducts(c *gin.Context) {
	products, err := h.store.TrendingProducts(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture produits trending")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetAcceptedProducts - GET /accepted/products?search=&page=&limit=
func (h *Handler) GetAcceptedProducts(c *gin.Context) {
	q, err := parseAcceptedQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	products, total, err := h.store.AcceptedProducts(c.Request.Context(), q)
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture produits acceptés")
		return
	}

	c.JSON(http.StatusOK, models.ProductPage{
		Products:   products,
		TotalPages: database.TotalPages(total, q.Limit),
	})
}

func parseAcceptedQuery(c *gin.Context) (database.AcceptedQuery, error) {
	q := database.AcceptedQuery{
		Search: c.Query("search"),
		Page:   database.DefaultPage,
		Limit:  database.DefaultLimit,
	}

	if v := c.Query("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 64)
		if err != nil || page < 1 {
			return q, errors.New("page must be a positive integer")
		}
		q.Page = page
	}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 1 {
			return q, errors.New("limit must be a positive integer")
		}
		q.Limit = min(limit, database.MaxLimit)
	}

	// (page-1)*limit doit tenir dans un int64
	if q.Page-1 > math.MaxInt64/q.Limit {
		return q, errors.New("page is out of range")
	}

	return q, nil
}

// GetProduct - GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := database.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
		return
	}

	p, err := h.store.FindProduct(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture produit")
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateProduct - POST /products (token requis)
func (h *Handler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product", "details": err.Error()})
		return
	}

	p := req.NewProduct(h.now())
	id, err := h.store.InsertProduct(c.Request.Context(), p)
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur création produit")
		return
	}

	middleware.LoggerFrom(c, h.log).Info().Str("product_id", id.Hex()).Str("owner", p.Owner.Email).Msg("✅ Produit créé")
	c.JSON(http.StatusCreated, models.Inserted(id))
}

// GetProductsByOwner - GET /my/products?email=
func (h *Handler) GetProductsByOwner(c *gin.Context) {
	products, err := h.store.ProductsByOwner(c.Request.Context(), c.Query("email"))
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture produits du propriétaire")
		return
	}
	c.JSON(http.StatusOK, products)
}

// DeleteProduct - DELETE /products/:id (propriétaire, admin ou modérateur)
// Les avis du produit ne sont pas supprimés.
func (h *Handler) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := database.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
		return
	}

	p, err := h.store.FindProduct(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture produit")
		return
	}

	email := middleware.Email(c)
	if p.Owner.Email != email {
		user, err := h.store.FindUserByEmail(ctx, email)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			middleware.RespondError(c, h.log, err, "Erreur lecture rôle")
			return
		}
		if !user.IsStaff() {
			c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}
	}

	deleted, err := h.store.DeleteProduct(ctx, id)
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur suppression produit")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}

	c.JSON(http.StatusOK, models.DeleteResult{Acknowledged: true, DeletedCount: deleted})
}
