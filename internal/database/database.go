package database

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"producthunt_back_end/internal/config"
)

const connectTimeout = 10 * time.Second

// ConnectMongo crée le client partagé par tous les handlers.
// Un échec du ping est seulement loggé : le serveur HTTP démarre quand même.
func ConnectMongo(ctx context.Context, cfg config.Config, log zerolog.Logger) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Error().Err(err).Msg("❌ Ping MongoDB échoué, le serveur démarre quand même")
	} else {
		log.Info().Str("db", cfg.DBName).Msg("✅ Connecté à MongoDB")
	}

	return client, nil
}

// ConnectRedis retourne nil quand REDIS_HOST n'est pas défini.
func ConnectRedis(ctx context.Context, cfg config.Config, log zerolog.Logger) *redis.Client {
	if cfg.RedisHost == "" {
		log.Info().Msg("ℹ️ REDIS_HOST absent, limitation de débit en mémoire")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("❌ Erreur connexion Redis, limitation de débit en mémoire")
		client.Close()
		return nil
	}
	log.Info().Str("addr", cfg.RedisHost).Msg("✅ Connecté à Redis")
	return client
}

// ConnectMinIO retourne nil quand MinIO n'est pas configuré ; l'upload d'images est alors désactivé.
func ConnectMinIO(ctx context.Context, cfg config.Config, log zerolog.Logger) *minio.Client {
	if !cfg.MinioEnabled() {
		log.Info().Msg("ℹ️ MinIO non configuré, upload d'images désactivé")
		return nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		log.Error().Err(err).Msg("❌ Erreur connexion MinIO")
		return nil
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		log.Error().Err(err).Msg("❌ Erreur vérification bucket MinIO")
		return nil
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			log.Error().Err(err).Msg("❌ Erreur création bucket MinIO")
			return nil
		}
		log.Info().Str("bucket", cfg.MinioBucket).Msg("🪣 Bucket créé")
	}

	log.Info().Str("endpoint", cfg.MinioEndpoint).Msg("✅ Connecté à MinIO")
	return client
}
