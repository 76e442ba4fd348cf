package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CatalogBackendREST     = "rest"
	CatalogBackendSupabase = "supabase"
)

type Config struct {
	// Design Lab API
	DesignLabAPIBaseURL string
	DesignLabAPITimeout time.Duration

	// Product catalog
	CatalogBackend string

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseStorageBucket  string

	// Auth
	JWTSecret string

	// Sessions and event log; both optional
	RedisURL    string
	DatabaseURL string

	// Uploads
	UploadMaxBytes int64
	LayerMaxSize   int

	// Server
	Port               string
	Environment        string
	CORSAllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DesignLabAPIBaseURL: getEnv("DESIGNLAB_API_BASE_URL", ""),
		DesignLabAPITimeout: time.Duration(getEnvAsInt("DESIGNLAB_API_TIMEOUT_SECONDS", 30)) * time.Second,

		CatalogBackend: strings.ToLower(getEnv("CATALOG_BACKEND", CatalogBackendREST)),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "design-lab-layers"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		RedisURL:    getEnv("REDIS_URL", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		UploadMaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10*1024*1024)),
		LayerMaxSize:   getEnvAsInt("LAYER_MAX_SIZE", 200),

		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DesignLabAPIBaseURL == "" {
		return fmt.Errorf("DESIGNLAB_API_BASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.CatalogBackend {
	case CatalogBackendREST:
	case CatalogBackendSupabase:
		if c.SupabaseURL == "" || c.SupabasePublishableKey == "" {
			return fmt.Errorf("CATALOG_BACKEND=supabase requires SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY")
		}
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q", c.CatalogBackend)
	}
	return nil
}

// StorageEnabled reports whether image uploads can be stored.
func (c *Config) StorageEnabled() bool {
	return c.SupabaseURL != "" && c.SupabasePublishableKey != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
