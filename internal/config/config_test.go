package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/barbershop")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 5, cfg.BufferMinutes)
	assert.Equal(t, 15, cfg.SlotStepMinutes)
	assert.False(t, cfg.AvailabilityFailClosed)
	assert.Equal(t, 3*time.Second, cfg.AvailabilityTimeout)
}

func TestLoadSchedulingOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("BOOKING_BUFFER_MINUTES", "10")
	t.Setenv("SLOT_STEP_MINUTES", "30")
	t.Setenv("AVAILABILITY_FAIL_CLOSED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, 10, cfg.BufferMinutes)
	assert.Equal(t, 30, cfg.SlotStepMinutes)
	assert.True(t, cfg.AvailabilityFailClosed)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non numeric buffer", key: "BOOKING_BUFFER_MINUTES", value: "five"},
		{name: "negative buffer", key: "BOOKING_BUFFER_MINUTES", value: "-1"},
		{name: "zero step", key: "SLOT_STEP_MINUTES", value: "0"},
		{name: "bad bool", key: "AVAILABILITY_FAIL_CLOSED", value: "maybe"},
		{name: "bad ttl", key: "JWT_ACCESS_TOKEN_TTL", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.EqualError(t, err, "DB_DSN is required")
}
