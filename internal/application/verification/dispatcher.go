package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/loanlead-api/internal/domain"
)

// MobileDispatcher tries its channels in order and stops at the first success.
type MobileDispatcher struct {
	channels []MobileChannel
	timeout  time.Duration
}

// NewMobileDispatcher builds the chain. With no channels the log channel is installed.
// timeout bounds each channel attempt; zero leaves attempts bounded only by ctx.
func NewMobileDispatcher(timeout time.Duration, channels ...MobileChannel) *MobileDispatcher {
	if len(channels) == 0 {
		channels = []MobileChannel{LogChannel{}}
	}
	return &MobileDispatcher{channels: channels, timeout: timeout}
}

// Channels returns the channel names in priority order.
func (d *MobileDispatcher) Channels() []string {
	names := make([]string, len(d.channels))
	for i, c := range d.channels {
		names[i] = c.Name()
	}
	return names
}

// Dispatch delivers code to mobile. Each channel is tried once; if all fail the
// returned error wraps domain.ErrDispatch.
func (d *MobileDispatcher) Dispatch(ctx context.Context, mobile, code string) (Delivery, error) {
	var errs []error
	for _, ch := range d.channels {
		delivery, err := d.attempt(ctx, ch, mobile, code)
		if err == nil {
			return delivery, nil
		}
		slog.Warn("mobile channel failed", "channel", ch.Name(), "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
	}
	return Delivery{}, fmt.Errorf("%w: all mobile channels failed: %v", domain.ErrDispatch, errors.Join(errs...))
}

func (d *MobileDispatcher) attempt(ctx context.Context, ch MobileChannel, mobile, code string) (Delivery, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	delivery, err := ch.Deliver(ctx, mobile, code)
	if err != nil {
		return Delivery{}, err
	}
	if delivery.Channel == "" {
		delivery.Channel = ch.Name()
	}
	return delivery, nil
}

// Mailer sends one email.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// EmailDispatcher sends a locally generated code through a single mail provider.
type EmailDispatcher struct {
	name    string
	mailer  Mailer
	timeout time.Duration
}

func NewEmailDispatcher(name string, mailer Mailer, timeout time.Duration) *EmailDispatcher {
	return &EmailDispatcher{name: name, mailer: mailer, timeout: timeout}
}

func (d *EmailDispatcher) Name() string { return d.name }

// Dispatch sends code to email. There is no fallback; failure wraps domain.ErrDispatch.
func (d *EmailDispatcher) Dispatch(ctx context.Context, email, code string) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if err := d.mailer.SendEmail(ctx, email, emailSubject, emailBody(code)); err != nil {
		slog.Warn("email channel failed", "channel", d.name, "err", err)
		return fmt.Errorf("%w: %s: %v", domain.ErrDispatch, d.name, err)
	}
	return nil
}
