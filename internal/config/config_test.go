package config_test

import (
	"testing"
	"time"

	"restoran/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	cfg := config.FromViper(v)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 6, cfg.OTP.EmailCodeLength)
	assert.Equal(t, 6, cfg.OTP.MobileCodeLength)
	assert.Equal(t, 5, cfg.Auth.LoginMaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Auth.LoginWindow)
	assert.False(t, cfg.RecomputeOrderTotal)
	assert.True(t, cfg.IsDevelopment())
}

func TestFromViper_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("OTP_TTL", "2m")
	t.Setenv("RABBITMQ_ENABLED", "true")

	v := viper.New()
	config.SetDefaults(v)
	v.AutomaticEnv()

	cfg := config.FromViper(v)

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Minute, cfg.OTP.TTL)
	assert.True(t, cfg.RabbitMQ.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	cfg := config.FromViper(v)

	err := cfg.Validate()
	assert.ErrorContains(t, err, "JWT_SECRET")

	cfg.Auth.JWTSecret = "secret"
	cfg.Database.Driver = "mysql"
	assert.ErrorContains(t, cfg.Validate(), "unsupported DB_DRIVER")

	cfg.Database.Driver = "postgres"
	cfg.OTP.MobileCodeLength = 2
	assert.ErrorContains(t, cfg.Validate(), "OTP_MOBILE_CODE_LENGTH")

	cfg.OTP.MobileCodeLength = 4
	assert.NoError(t, cfg.Validate())
}
