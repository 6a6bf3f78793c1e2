package routes

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"producthunt_back_end/internal/handlers"
	"producthunt_back_end/internal/handlers/admin"
	"producthunt_back_end/internal/handlers/payment"
	"producthunt_back_end/internal/handlers/product"
	"producthunt_back_end/internal/handlers/users"
	"producthunt_back_end/internal/middleware"
	"producthunt_back_end/internal/models"
)

// Store regroupe toutes les opérations de persistance utilisées par les routes.
type Store interface {
	product.Store
	product.ReviewStore
	payment.CouponStore
	payment.PaymentStore
	users.Store
	admin.StatsStore
	handlers.Pinger
}

type Deps struct {
	Store       Store
	Gateway     payment.Gateway
	Uploader    handlers.Uploader // nil si MinIO n'est pas configuré
	Limiter     middleware.Limiter
	TokenSecret []byte
	CORSOrigins []string
	Log         zerolog.Logger
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	log := d.Log

	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	health := handlers.NewHealthHandler(d.Store)
	products := product.NewHandler(d.Store, log)
	reviews := product.NewReviewHandler(d.Store, log)
	coupons := payment.NewCouponHandler(d.Store, log)
	payments := payment.NewHandler(d.Store, d.Gateway, log)
	userHandler := users.NewHandler(d.Store, d.TokenSecret, log)
	stats := admin.NewStatsHandler(d.Store, log)
	images := handlers.NewImageHandler(d.Uploader, log)

	auth := middleware.AuthRequired(d.TokenSecret, log)
	adminOnly := middleware.RequireAdmin(d.Store, log)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.AuditCriticalActions(log, action, resource)
	}

	r.GET("/", health.Root)
	r.GET("/health", health.Health)

	// Auth
	r.POST("/jwt", middleware.RateLimit("jwt", d.Limiter, log), userHandler.IssueToken)

	// Produits
	r.GET("/products", products.GetAllProducts)
	r.GET("/featured/products", products.GetFeaturedProducts)
	r.GET("/trending/products", products.GetTrendingProducts)
	r.GET("/accepted/products", products.GetAcceptedProducts)
	r.GET("/products/:id", products.GetProduct)
	r.GET("/my/products", products.GetProductsByOwner)
	r.POST("/products", auth, products.CreateProduct)
	r.DELETE("/products/:id", auth, audit(middleware.ActionProductDelete, middleware.ResourceProduct), products.DeleteProduct)

	// Avis
	r.GET("/reviews/:productId", reviews.GetProductReviews)
	r.POST("/reviews", auth, reviews.CreateReview)

	// Coupons
	r.GET("/coupons", coupons.GetCoupons)
	r.GET("/coupons/active", coupons.GetActiveCoupons)
	r.POST("/coupons", auth, adminOnly, audit(middleware.ActionCouponCreate, middleware.ResourceCoupon), coupons.CreateCoupon)
	r.DELETE("/coupons/:id", auth, adminOnly, audit(middleware.ActionCouponDelete, middleware.ResourceCoupon), coupons.DeleteCoupon)

	// Paiements
	r.POST("/create-payment-intent", auth, payments.CreatePaymentIntent)
	r.POST("/payments", auth, payments.CreatePayment)
	r.GET("/payments", auth, adminOnly, payments.GetPayments)

	// Utilisateurs
	r.POST("/users", middleware.RateLimit("users", d.Limiter, log), userHandler.CreateUser)
	r.GET("/users", auth, adminOnly, userHandler.GetUsers)
	r.GET("/users/admin/:email", auth, middleware.RequireSelf("email"), userHandler.CheckAdmin)
	r.GET("/users/moderator/:email", auth, middleware.RequireSelf("email"), userHandler.CheckModerator)
	r.PATCH("/users/admin/:id", auth, adminOnly, audit(middleware.ActionRoleChange, middleware.ResourceUser), userHandler.SetRole(models.RoleAdmin))
	r.PATCH("/users/moderator/:id", auth, adminOnly, audit(middleware.ActionRoleChange, middleware.ResourceUser), userHandler.SetRole(models.RoleModerator))

	// Admin
	r.GET("/stats", auth, adminOnly, stats.GetStats)

	// Images
	r.POST("/images", auth, images.UploadImage)
}
