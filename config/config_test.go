package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dcode-github/property_listing_api/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_KEY", "secret")

	cfg, _, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Empty(t, cfg.SMTPHost)
}

func TestLoadRequiresJWTKey(t *testing.T) {
	t.Setenv("JWT_KEY", "")
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "JWT_KEY")

	require.NoError(t, os.Unsetenv("JWT_KEY"))
	_, _, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "JWT_KEY")
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JWT_KEY=from-file\nSMTP_HOST=mail.example.com\n"), 0o600))
	t.Setenv("JWT_KEY", "from-env")
	t.Setenv("SMTP_HOST", "")
	// t.Setenv restores the variable afterwards; godotenv only fills unset keys
	require.NoError(t, os.Unsetenv("SMTP_HOST"))

	cfg, loaded, err := Load(envFile)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "from-env", cfg.JWTKey)
	assert.Equal(t, "mail.example.com", cfg.SMTPHost)
}

func TestLoadValidatesDriver(t *testing.T) {
	t.Setenv("JWT_KEY", "secret")
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("DB_DRIVER", "oracle")
	_, _, err := Load(missing)
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")

	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("MONGOURI", "")
	_, _, err = Load(missing)
	assert.ErrorContains(t, err, "MONGOURI")
}

func TestNewCacheFallsBackToMemory(t *testing.T) {
	c, closeFn, err := NewCache(context.Background(), Config{CacheTTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &cache.Memory{}, c)
	assert.NoError(t, closeFn())
}

func TestOpenGormRejectsUnknownDriver(t *testing.T) {
	_, err := OpenGorm("oracle", "", zap.NewNop())
	assert.Error(t, err)
}

func TestOpenGormLogsFailedQueriesThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := OpenGorm("sqlite", "file::memory:", zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	assert.Error(t, db.Exec("SELECT * FROM nope").Error)

	entries := logs.Filter(func(e observer.LoggedEntry) bool { return e.LoggerName == "gorm" }).All()
	require.NotEmpty(t, entries)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "no such table")
}
