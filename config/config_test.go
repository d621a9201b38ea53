package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_PepperFallback(t *testing.T) {
	t.Run("explicit pepper wins", func(t *testing.T) {
		t.Setenv("VERIFICATION_CODE_PEPPER", "pepper-1")
		t.Setenv("JWT_SECRET", "jwt-1")
		assert.Equal(t, "pepper-1", Load().VerificationPepper)
	})

	t.Run("falls back to JWT_SECRET", func(t *testing.T) {
		t.Setenv("VERIFICATION_CODE_PEPPER", "")
		t.Setenv("JWT_SECRET", "jwt-2")
		assert.Equal(t, "jwt-2", Load().VerificationPepper)
	})

	t.Run("no hardcoded default", func(t *testing.T) {
		t.Setenv("VERIFICATION_CODE_PEPPER", "")
		t.Setenv("JWT_SECRET", "")
		cfg := Load()
		assert.Empty(t, cfg.VerificationPepper)
		assert.ErrorIs(t, cfg.Validate(), ErrMissingPepper)
	})
}

func TestValidate(t *testing.T) {
	cfg := Config{VerificationPepper: "p", JWTSecret: "s", DBDriver: "postgres"}
	require.NoError(t, cfg.Validate())

	cfg.DBDriver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg.DBDriver = "mysql"
	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092")
	t.Setenv("CHANGE_POLL_INTERVAL", "bogus")
	t.Setenv("SMTP_PORT", "2525")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 500*time.Millisecond, cfg.ChangePollInterval)
	assert.Equal(t, 2525, cfg.SMTPPort)
}
