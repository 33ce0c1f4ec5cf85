package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "piteco")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "piteco")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiry)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 0.1, cfg.Study.AnswerThreshold)
	assert.Equal(t, 20, cfg.Chat.RateLimit)
	assert.Equal(t, time.Minute, cfg.Presence.HeartbeatInterval)
	assert.Equal(t, 720*time.Hour, cfg.Notifications.Retention)
	assert.Equal(t, "./media", cfg.MediaBasePath)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "missing db host", key: "DB_HOST", value: ""},
		{name: "invalid db port", key: "DB_PORT", value: "abc"},
		{name: "missing jwt secret", key: "JWT_SECRET", value: ""},
		{name: "invalid heartbeat", key: "HEARTBEAT_INTERVAL", value: "soon"},
		{name: "threshold out of range", key: "ANSWER_THRESHOLD", value: "1.5"},
		{name: "invalid chat limit", key: "CHAT_RATE_LIMIT", value: "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, parseOrigins(""))
	assert.Equal(t, []string{"*"}, parseOrigins(" , "))
	assert.Equal(t, []string{"https://a.app", "https://b.app"}, parseOrigins("https://a.app, https://b.app"))
}

func TestDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: 3306, User: "u", Password: "p", DBName: "piteco"}}

	assert.Equal(t, "u:p@tcp(db:3306)/piteco?parseTime=true&charset=utf8mb4&multiStatements=true", cfg.DSN())
}
