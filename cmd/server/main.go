package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"producthunt_back_end/internal/cache"
	"producthunt_back_end/internal/config"
	"producthunt_back_end/internal/database"
	"producthunt_back_end/internal/logger"
	"producthunt_back_end/internal/middleware"
	"producthunt_back_end/internal/routes"
	"producthunt_back_end/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	if cfg.TokenSecret == "" {
		log.Fatal().Msg("❌ ACCESS_TOKEN_SECRET manquant")
	}
	if cfg.StripeSecretKey == "" {
		log.Warn().Msg("⚠️ STRIPE_SECRET_KEY manquant, les payment intents échoueront")
	}

	ctx := context.Background()

	client, err := database.ConnectMongo(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Impossible de créer le client MongoDB")
	}
	store := database.NewStore(client, cfg.DBName)

	deps := routes.Deps{
		Store:       store,
		Gateway:     services.NewStripeGateway(cfg.StripeSecretKey),
		Limiter:     newLimiter(ctx, cfg, log),
		TokenSecret: []byte(cfg.TokenSecret),
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	}
	if minioClient := database.ConnectMinIO(ctx, cfg, log); minioClient != nil {
		deps.Uploader = services.NewMinioUploader(minioClient, cfg.MinioBucket, cfg.MinioEndpoint, cfg.MinioUseSSL)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("🚀 Serveur Product Hunt lancé")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ Erreur serveur HTTP")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("🛑 Arrêt du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ Arrêt forcé du serveur")
	}
	if err := store.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ Erreur déconnexion MongoDB")
	}
	log.Info().Msg("✅ Serveur arrêté")
}

// newLimiter partage le compteur via Redis quand il est disponible, sinon limite en mémoire.
func newLimiter(ctx context.Context, cfg config.Config, log zerolog.Logger) middleware.Limiter {
	if rdb := database.ConnectRedis(ctx, cfg, log); rdb != nil {
		return middleware.NewWindowLimiter(cache.NewCounter(rdb, "ratelimit:"), cfg.RateLimitPerMinute, time.Minute)
	}
	return middleware.NewLocalLimiter(cfg.RateLimitPerMinute)
}
