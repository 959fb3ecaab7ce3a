package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the tests touch; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ERP_APP_NAME", "ERP_APP_ENV", "ERP_APP_PORT",
		"ERP_DATABASE_HOST", "ERP_DATABASE_PORT", "ERP_DATABASE_USER", "ERP_DATABASE_PASSWORD",
		"ERP_DATABASE_DBNAME", "ERP_DATABASE_SSLMODE", "ERP_DATABASE_MAX_OPEN_CONNS", "ERP_DATABASE_MAX_IDLE_CONNS",
		"ERP_JWT_SECRET", "ERP_REDIS_ENABLED", "ERP_STORAGE_TYPE", "ERP_STORAGE_BUCKET",
		"ERP_OCR_API_KEY", "ERP_OCR_DEFAULT_LIMIT", "ERP_LOCK_TTL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "tunerp-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "tunerp", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "memory", cfg.Storage.Type)
		assert.Equal(t, "https://api.ocr.space/parse/image", cfg.OCR.APIURL)
		assert.Equal(t, "fre", cfg.OCR.Language)
		assert.Equal(t, "2", cfg.OCR.Engine)
		assert.Equal(t, 400, cfg.OCR.DefaultLimit)
		assert.Equal(t, 30*time.Second, cfg.Lock.TTL)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	})

	t.Run("loads values from environment variables with ERP prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_APP_NAME", "test-app")
		t.Setenv("ERP_APP_PORT", "9000")
		t.Setenv("ERP_DATABASE_HOST", "testdb.local")
		t.Setenv("ERP_DATABASE_PORT", "5433")
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("ERP_OCR_API_KEY", "K123")
		t.Setenv("ERP_OCR_DEFAULT_LIMIT", "100")
		t.Setenv("ERP_LOCK_TTL", "1m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "K123", cfg.OCR.APIKey)
		assert.Equal(t, 100, cfg.OCR.DefaultLimit)
		assert.Equal(t, time.Minute, cfg.Lock.TTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("requires a bucket for s3 storage", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_STORAGE_TYPE", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("rejects unknown storage type", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_STORAGE_TYPE", "ftp")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_APP_ENV", "production")
		t.Setenv("ERP_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("ERP_DATABASE_PASSWORD", "secure-password")
		t.Setenv("ERP_DATABASE_SSLMODE", "require")
		t.Setenv("ERP_REDIS_ENABLED", "true")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"requires jwt.secret", "ERP_JWT_SECRET", "", "jwt.secret is required in production"},
		{"requires a long jwt.secret", "ERP_JWT_SECRET", "short-secret", "at least 32 characters"},
		{"requires database.password", "ERP_DATABASE_PASSWORD", "", "database.password is required"},
		{"requires SSL", "ERP_DATABASE_SSLMODE", "disable", "sslmode cannot be 'disable'"},
		{"requires redis", "ERP_REDIS_ENABLED", "false", "redis.enabled must be true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidProductionBase(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
