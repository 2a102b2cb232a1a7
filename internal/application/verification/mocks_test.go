package verification

import (
	"context"
	"sync"
	"time"

	"github.com/loanlead-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- mocks ---

type mockHostedOTP struct{ mock.Mock }

func (m *mockHostedOTP) IssueAndSend(ctx context.Context, mobile string) (string, error) {
	args := m.Called(ctx, mobile)
	return args.String(0), args.Error(1)
}

type mockSessionVerifier struct{ mock.Mock }

func (m *mockSessionVerifier) VerifySession(ctx context.Context, session, code string) error {
	return m.Called(ctx, session, code).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type mockTextSender struct{ mock.Mock }

func (m *mockTextSender) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

type mockCodeSender struct{ mock.Mock }

func (m *mockCodeSender) Send(ctx context.Context, mobile, code string) error {
	return m.Called(ctx, mobile, code).Error(0)
}

// stubChannel records how often it was tried and returns a fixed result.
type stubChannel struct {
	name  string
	err   error
	calls int
}

func (c *stubChannel) Name() string { return c.name }

func (c *stubChannel) Deliver(_ context.Context, _, code string) (Delivery, error) {
	c.calls++
	if c.err != nil {
		return Delivery{}, c.err
	}
	return Delivery{Kind: domain.SecretLocalCode, Secret: code}, nil
}

// blockingChannel waits for its context to end.
type blockingChannel struct{}

func (blockingChannel) Name() string { return "slow" }

func (blockingChannel) Deliver(ctx context.Context, _, _ string) (Delivery, error) {
	<-ctx.Done()
	return Delivery{}, ctx.Err()
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// codeSequence returns the given codes in order, repeating the last one.
func codeSequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return c, nil
	}
}

type stubSigner struct {
	token string
	err   error
}

func (s stubSigner) Sign(_, _, _ string) (string, error) { return s.token, s.err }
