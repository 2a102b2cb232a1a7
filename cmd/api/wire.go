package main

import (
	"context"
	"fmt"

	"github.com/loanlead-api/internal/application/verification"
	"github.com/loanlead-api/internal/config"
	"github.com/loanlead-api/internal/infrastructure/dynamo"
	"github.com/loanlead-api/internal/infrastructure/memory"
	"github.com/loanlead-api/internal/infrastructure/msg91"
	redisinfra "github.com/loanlead-api/internal/infrastructure/redis"
	"github.com/loanlead-api/internal/infrastructure/resend"
	"github.com/loanlead-api/internal/infrastructure/smtp"
	"github.com/loanlead-api/internal/infrastructure/sns"
	"github.com/loanlead-api/internal/infrastructure/twilio"
	"github.com/loanlead-api/internal/infrastructure/twofactor"
	"github.com/loanlead-api/internal/pkg/outbound"
)

// buildStore selects the CodeStore named by STORE_BACKEND. The in-memory store is
// per process; deployments with more than one instance need redis or dynamo.
func buildStore(ctx context.Context, cfg *config.Config) (verification.CodeStore, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory, "":
		s := memory.NewCodeStore()
		if cfg.StoreSweepInterval > 0 {
			s.StartSweeper(ctx, cfg.StoreSweepInterval)
		}
		return s, nil
	case config.StoreRedis:
		client, err := redisinfra.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return redisinfra.NewCodeStore(client, cfg.RedisKeyPrefix), nil
	case config.StoreDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoVerificationsTable)
		return dynamo.NewVerificationRepo(client, cfg.DynamoVerificationsTable), nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// buildMobileChannels returns the configured channels in priority order, plus the
// session verifier when the hosted OTP provider is active. A configured channel that
// cannot be built is an error, so the log fallback never replaces a real provider.
func buildMobileChannels(ctx context.Context, cfg *config.Config, hc *outbound.Client) ([]verification.MobileChannel, verification.SessionVerifier, error) {
	var (
		channels []verification.MobileChannel
		sessions verification.SessionVerifier
	)
	if cfg.TwoFactorEnabled() {
		tf := twofactor.NewClient(cfg.TwoFactorAPIKey, cfg.TwoFactorBaseURL, cfg.TwoFactorTemplate, hc)
		channels = append(channels, verification.NewHostedChannel("twofactor", tf))
		sessions = tf
	}
	if cfg.MSG91Enabled() {
		c := msg91.NewClient(cfg.MSG91AuthKey, cfg.MSG91TemplateID, cfg.MSG91BaseURL, cfg.SMSCountryCode, hc)
		channels = append(channels, verification.NewCodeSMSChannel("msg91", c))
	}
	if cfg.TwilioEnabled() {
		c := twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, cfg.TwilioBaseURL, hc)
		channels = append(channels, verification.NewTextSMSChannel("twilio", c, cfg.SMSCountryCode))
	}
	if cfg.SNSEnabled {
		sender, err := sns.NewSender(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("sns channel: %w", err)
		}
		channels = append(channels, verification.NewTextSMSChannel("sns", sender, cfg.SMSCountryCode))
	}
	return channels, sessions, nil
}

// buildEmailDispatcher picks the HTTP email API when keyed, SMTP otherwise.
func buildEmailDispatcher(cfg *config.Config, hc *outbound.Client) *verification.EmailDispatcher {
	if cfg.ResendAPIKey != "" {
		return verification.NewEmailDispatcher("resend",
			resend.NewClient(cfg.ResendAPIKey, cfg.EmailFrom, cfg.ResendBaseURL, hc), cfg.ProviderTimeout)
	}
	return verification.NewEmailDispatcher("smtp", smtp.NewMailer(cfg), cfg.ProviderTimeout)
}
