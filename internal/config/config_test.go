package config_test

import (
	"testing"
	"time"

	"garment-designlab/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DESIGNLAB_API_BASE_URL", "https://designlab.example.com")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DESIGNLAB_API_TIMEOUT_SECONDS", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("LAYER_MAX_SIZE", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.DesignLabAPITimeout)
	assert.Equal(t, config.CatalogBackendREST, cfg.CatalogBackend)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 200, cfg.LayerMaxSize)
	assert.Equal(t, int64(10*1024*1024), cfg.UploadMaxBytes)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.StorageEnabled())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DESIGNLAB_API_BASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DESIGNLAB_API_BASE_URL is required")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  config.Config{DesignLabAPIBaseURL: "http://x", JWTSecret: "s", CatalogBackend: "rest"},
		},
		{
			name:    "missing secret",
			cfg:     config.Config{DesignLabAPIBaseURL: "http://x", CatalogBackend: "rest"},
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "supabase catalog without credentials",
			cfg:     config.Config{DesignLabAPIBaseURL: "http://x", JWTSecret: "s", CatalogBackend: "supabase"},
			wantErr: "requires SUPABASE_URL",
		},
		{
			name:    "unknown backend",
			cfg:     config.Config{DesignLabAPIBaseURL: "http://x", JWTSecret: "s", CatalogBackend: "graphql"},
			wantErr: "unknown CATALOG_BACKEND",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
