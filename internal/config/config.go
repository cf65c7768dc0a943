package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type MinIO struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Enabled reports whether image uploads have somewhere to go.
func (m MinIO) Enabled() bool {
	return m.Endpoint != ""
}

type Config struct {
	Env  string
	Port int

	DBURL      string
	DBMaxConns int32
	Store      string

	MigrateOnStart bool

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	RequestTimeout time.Duration
	MaxBodyBytes   int64
	MaxUploadBytes int64

	CORSAllowedOrigins []string

	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64

	MinIO MinIO
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set outside dev and test")

func Load() Config {
	// a missing .env is fine, the environment wins anyway
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env file", "err", err)
	}

	env := getEnv("APP_ENV", "dev")

	return Config{
		Env:                env,
		Port:               getEnvInt("PORT", 5000),
		DBURL:              getEnv("DATABASE_URL", buildDBURL()),
		DBMaxConns:         int32(getEnvInt("DB_MAX_CONNS", 5)),
		Store:              strings.ToLower(getEnv("STORE", StorePostgres)),
		MigrateOnStart:     getEnvBool("MIGRATE_ON_START", true),
		JWTSecret:          getEnv("JWT_SECRET", devSecret(env)),
		JWTTTL:             getEnvDuration("JWT_TTL", 24*time.Hour),
		BcryptCost:         getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 3*time.Second),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 10<<20)),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		OTelEnabled:        getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio:    getEnvFloat("OTEL_SAMPLE_RATIO", 1),
		MinIO: MinIO{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "recipe-images"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
	}
}

// Validate catches settings that would make the server insecure or unusable.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}

	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return errors.New("BCRYPT_COST out of range")
	}

	if c.OTelSampleRatio < 0 || c.OTelSampleRatio > 1 {
		return errors.New("OTEL_SAMPLE_RATIO must be between 0 and 1")
	}

	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		return errors.New("STORE must be postgres or memory")
	}

	return nil
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "recipehub")
	pass := getEnv("DB_PASSWORD", "recipehub")
	name := getEnv("DB_NAME", "recipehub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

// only dev and test get a baked-in secret
func devSecret(env string) string {
	if env == "dev" || env == "test" {
		return "dev-secret-change-me"
	}
	return ""
}

// WithTimeout bounds a unit of work; a nil parent means context.Background.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer in env, using default", "key", key, "value", v)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration in env, using default", "key", key, "value", v)
			return fallback
		}
		return d
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			slog.Warn("invalid float in env, using default", "key", key, "value", v)
			return fallback
		}
		return f
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
