package verification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loanlead-api/internal/domain"
)

// Delivery is what a channel reports after accepting a code for delivery.
type Delivery struct {
	Channel string
	Kind    domain.SecretKind
	Secret  string
}

// MobileChannel delivers a verification code to a 10-digit mobile number.
// code is the locally generated code; a hosted channel may ignore it and return
// its own session token instead.
type MobileChannel interface {
	Name() string
	Deliver(ctx context.Context, mobile, code string) (Delivery, error)
}

// HostedOTP generates and sends a code on the provider side and returns a session token.
type HostedOTP interface {
	IssueAndSend(ctx context.Context, mobile string) (string, error)
}

// CodeSender sends a caller-supplied code to a 10-digit mobile.
type CodeSender interface {
	Send(ctx context.Context, mobile, code string) error
}

// TextSender sends a free-text SMS to an E.164 number.
type TextSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// HostedChannel delegates code generation and matching to a hosted OTP provider.
type HostedChannel struct {
	name     string
	provider HostedOTP
}

func NewHostedChannel(name string, provider HostedOTP) *HostedChannel {
	return &HostedChannel{name: name, provider: provider}
}

func (c *HostedChannel) Name() string { return c.name }

func (c *HostedChannel) Deliver(ctx context.Context, mobile, _ string) (Delivery, error) {
	session, err := c.provider.IssueAndSend(ctx, mobile)
	if err != nil {
		return Delivery{}, err
	}
	if session == "" {
		return Delivery{}, fmt.Errorf("%s: empty session token", c.name)
	}
	return Delivery{Channel: c.name, Kind: domain.SecretProviderSession, Secret: session}, nil
}

// CodeSMSChannel sends the local code through a templated SMS provider.
type CodeSMSChannel struct {
	name   string
	sender CodeSender
}

func NewCodeSMSChannel(name string, sender CodeSender) *CodeSMSChannel {
	return &CodeSMSChannel{name: name, sender: sender}
}

func (c *CodeSMSChannel) Name() string { return c.name }

func (c *CodeSMSChannel) Deliver(ctx context.Context, mobile, code string) (Delivery, error) {
	if err := c.sender.Send(ctx, mobile, code); err != nil {
		return Delivery{}, err
	}
	return Delivery{Channel: c.name, Kind: domain.SecretLocalCode, Secret: code}, nil
}

// TextSMSChannel renders the local code into a message and sends it as plain SMS.
type TextSMSChannel struct {
	name        string
	sender      TextSender
	countryCode string
}

func NewTextSMSChannel(name string, sender TextSender, countryCode string) *TextSMSChannel {
	return &TextSMSChannel{name: name, sender: sender, countryCode: countryCode}
}

func (c *TextSMSChannel) Name() string { return c.name }

func (c *TextSMSChannel) Deliver(ctx context.Context, mobile, code string) (Delivery, error) {
	if err := c.sender.SendSMS(ctx, "+"+c.countryCode+mobile, MobileMessage(code)); err != nil {
		return Delivery{}, err
	}
	return Delivery{Channel: c.name, Kind: domain.SecretLocalCode, Secret: code}, nil
}

// LogChannel writes the code to the log. It is only installed when no external
// channel is configured, for local development.
type LogChannel struct{}

func (LogChannel) Name() string { return "log" }

func (LogChannel) Deliver(_ context.Context, mobile, code string) (Delivery, error) {
	slog.Info("verification code (log channel)", "mobile", mobile, "code", code)
	return Delivery{Channel: "log", Kind: domain.SecretLocalCode, Secret: code}, nil
}
