package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CHAT_SESSION_TTL", "HISTORY_MAX_TURNS", "ORACLE_TIMEOUT", "RETRIEVAL_TOP_K", "CHAT_SESSION_LOCK"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, 500*time.Second, cfg.Chat.SessionTTL)
	assert.Equal(t, 20, cfg.Chat.HistoryMaxTurns)
	assert.Equal(t, 3, cfg.Chat.TopK)
	assert.True(t, cfg.Chat.SessionLock)
	assert.Equal(t, 60*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, "data/booking_files", cfg.Ingestion.UploadDir)
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"go duration", "90s", 90 * time.Second},
		{"bare seconds", "500", 500 * time.Second},
		{"garbage falls back", "soon", time.Minute},
		{"empty falls back", "", time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DURATION", time.Minute))
		})
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "false")
	assert.False(t, getEnvAsBool("TEST_BOOL", true))

	t.Setenv("TEST_BOOL", "nope")
	assert.True(t, getEnvAsBool("TEST_BOOL", true))
}
