package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort      = "5000"
	defaultDBName    = "productHunt"
	defaultDBCluster = "cluster0.xj6bm.mongodb.net"
	defaultRateLimit = 30
)

type Config struct {
	Port string

	MongoURI string
	DBName   string

	TokenSecret     string
	StripeSecretKey string

	RedisHost     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	CORSOrigins        []string
	RateLimitPerMinute int

	LogLevel  string
	LogPretty bool
}

// Load charge le .env s'il existe puis lit la configuration depuis l'environnement.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	}
	return FromEnv()
}

// FromEnv lit la configuration sans toucher au .env (utilisé par les tests)
func FromEnv() Config {
	cfg := Config{
		Port:            getEnv("PORT", defaultPort),
		MongoURI:        mongoURI(),
		DBName:          getEnv("DB_NAME", defaultDBName),
		TokenSecret:     os.Getenv("ACCESS_TOKEN_SECRET"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		RedisHost:       os.Getenv("REDIS_HOST"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		MinioEndpoint:   os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:  os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:  os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:     getEnv("MINIO_BUCKET", "producthunt-images"),
		MinioUseSSL:     getBool("MINIO_USE_SSL", false),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPretty:       getBool("LOG_PRETTY", false),
	}

	cfg.RateLimitPerMinute = defaultRateLimit
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitPerMinute = n
		}
	}

	return cfg
}

// mongoURI privilégie MONGODB_URI, sinon construit l'URI SRV Atlas depuis DB_USER/DB_PASS
func mongoURI() string {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}
	user, pass := os.Getenv("DB_USER"), os.Getenv("DB_PASS")
	if user == "" || pass == "" {
		return "mongodb://localhost:27017"
	}
	cluster := getEnv("DB_CLUSTER", defaultDBCluster)
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0", user, pass, cluster)
}

func (c Config) MinioEnabled() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != "" && c.MinioSecretKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
