package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORE_BACKEND", "PROVIDER_TIMEOUT", "SMS_COUNTRY_CODE", "TWOFACTOR_API_KEY", "MSG91_AUTH_KEY", "TWILIO_ACCOUNT_SID", "CODE_STORE_SWEEP_INTERVAL"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, 10*time.Minute, cfg.VerificationTTL)
	assert.Equal(t, 6, cfg.CodeLength)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Zero(t, cfg.StoreSweepInterval)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, "91", cfg.SMSCountryCode)
	assert.False(t, cfg.TwoFactorEnabled())
	assert.False(t, cfg.MSG91Enabled())
	assert.False(t, cfg.TwilioEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("CODE_STORE_SWEEP_INTERVAL", "1m")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("PROVIDER_MAX_RPS", "2.5")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("SNS_ENABLED", "true")
	t.Setenv("TWOFACTOR_API_KEY", "tf-key")
	t.Setenv("MSG91_AUTH_KEY", "m")
	t.Setenv("MSG91_TEMPLATE_ID", "tmpl")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := Load()
	assert.Equal(t, StoreRedis, cfg.StoreBackend)
	assert.Equal(t, time.Minute, cfg.StoreSweepInterval)
	assert.Equal(t, 3*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 2.5, cfg.ProviderMaxRPS)
	assert.Equal(t, 4, cfg.RedisDB)
	assert.True(t, cfg.SNSEnabled)
	assert.True(t, cfg.TwoFactorEnabled())
	assert.True(t, cfg.MSG91Enabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PROVIDER_TIMEOUT", "soon")
	t.Setenv("CODE_STORE_SWEEP_INTERVAL", "-5s")
	t.Setenv("SMTP_PORT", "abc")
	t.Setenv("SNS_ENABLED", "maybe")

	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Zero(t, cfg.StoreSweepInterval)
	assert.Equal(t, 1025, cfg.SMTPPort)
	assert.False(t, cfg.SNSEnabled)
}

func TestTwilioEnabled_NeedsAllCredentials(t *testing.T) {
	assert.False(t, (&Config{TwilioAccountSID: "AC", TwilioAuthToken: "t"}).TwilioEnabled())
	assert.True(t, (&Config{TwilioAccountSID: "AC", TwilioAuthToken: "t", TwilioFrom: "+1"}).TwilioEnabled())
}
