// Package verification issues and checks short-lived codes that prove control of a
// mobile number or email address.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/loanlead-api/internal/config"
	"github.com/loanlead-api/internal/domain"
	"github.com/loanlead-api/internal/pkg/id"
	"github.com/loanlead-api/internal/pkg/token"
	"github.com/loanlead-api/internal/pkg/validate"
)

// CodeStore holds at most one pending record per normalized identifier.
// Consume deletes the record only while it is still the issue identified by issueID
// and reports domain.ErrNotFoundOrExpired when it removed nothing.
type CodeStore interface {
	Put(ctx context.Context, rec *domain.VerificationRecord) error
	Get(ctx context.Context, identifier string) (*domain.VerificationRecord, error)
	Delete(ctx context.Context, identifier string) error
	Consume(ctx context.Context, identifier, issueID string) error
}

// SessionVerifier checks a code against a hosted provider session. It returns nil
// only when the provider explicitly confirms the match.
type SessionVerifier interface {
	VerifySession(ctx context.Context, session, code string) error
}

// ReceiptSigner issues a token proving an identifier was verified.
type ReceiptSigner interface {
	Sign(identifier, modality, issueID string) (string, error)
}

type mobileDispatcher interface {
	Dispatch(ctx context.Context, mobile, code string) (Delivery, error)
}

type emailDispatcher interface {
	Name() string
	Dispatch(ctx context.Context, email, code string) error
}

// VerifyResult is returned on a successful verification.
type VerifyResult struct {
	Identifier string
	IssueID    string
	// Receipt is empty when no ReceiptSigner is configured.
	Receipt string
}

type Service interface {
	IssueMobile(ctx context.Context, mobile string) error
	VerifyMobile(ctx context.Context, mobile, code string) (*VerifyResult, error)
	IssueEmail(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, email, code string) (*VerifyResult, error)
}

// ServiceDeps wires a Service. Store, Mobile and Email are required.
type ServiceDeps struct {
	Store    CodeStore
	Mobile   mobileDispatcher
	Email    emailDispatcher
	Sessions SessionVerifier
	Receipts ReceiptSigner

	TTL             time.Duration
	CodeLength      int
	ProviderTimeout time.Duration

	// GenerateCode and Now default to crypto/rand codes and time.Now.
	GenerateCode func() (string, error)
	Now          func() time.Time
}

type service struct {
	store           CodeStore
	mobile          mobileDispatcher
	email           emailDispatcher
	sessions        SessionVerifier
	receipts        ReceiptSigner
	ttl             time.Duration
	providerTimeout time.Duration
	generate        func() (string, error)
	nowF            func() time.Time
}

func NewService(d ServiceDeps) Service {
	s := &service{
		store:           d.Store,
		mobile:          d.Mobile,
		email:           d.Email,
		sessions:        d.Sessions,
		receipts:        d.Receipts,
		ttl:             d.TTL,
		providerTimeout: d.ProviderTimeout,
		generate:        d.GenerateCode,
		nowF:            d.Now,
	}
	if s.ttl <= 0 {
		s.ttl = config.VerificationTTL
	}
	if s.generate == nil {
		n := d.CodeLength
		if n <= 0 {
			n = config.CodeLength
		}
		s.generate = func() (string, error) { return token.NewNumericCode(n) }
	}
	if s.nowF == nil {
		s.nowF = time.Now
	}
	return s
}

func (s *service) IssueMobile(ctx context.Context, mobile string) error {
	if !validate.Mobile(mobile) {
		return fmt.Errorf("mobile must be 10 digits starting with 6-9: %w", domain.ErrValidation)
	}
	identifier := domain.NormalizeMobile(mobile)
	code, err := s.generate()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	delivery, err := s.mobile.Dispatch(ctx, identifier, code)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, s.newRecord(identifier, domain.ModalityMobile, delivery))
}

func (s *service) IssueEmail(ctx context.Context, email string) error {
	if !validate.Email(email) {
		return fmt.Errorf("invalid email address: %w", domain.ErrValidation)
	}
	identifier := domain.NormalizeEmail(email)
	code, err := s.generate()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.email.Dispatch(ctx, identifier, code); err != nil {
		return err
	}
	delivery := Delivery{Channel: s.email.Name(), Kind: domain.SecretLocalCode, Secret: code}
	return s.store.Put(ctx, s.newRecord(identifier, domain.ModalityEmail, delivery))
}

func (s *service) VerifyMobile(ctx context.Context, mobile, code string) (*VerifyResult, error) {
	if !validate.Mobile(mobile) {
		return nil, fmt.Errorf("mobile must be 10 digits starting with 6-9: %w", domain.ErrValidation)
	}
	if !validate.Code(code) {
		return nil, fmt.Errorf("code must be 4 to 6 digits: %w", domain.ErrValidation)
	}
	return s.verify(ctx, domain.NormalizeMobile(mobile), strings.TrimSpace(code))
}

func (s *service) VerifyEmail(ctx context.Context, email, code string) (*VerifyResult, error) {
	if !validate.Email(email) {
		return nil, fmt.Errorf("invalid email address: %w", domain.ErrValidation)
	}
	return s.verify(ctx, domain.NormalizeEmail(email), strings.TrimSpace(code))
}

func (s *service) newRecord(identifier string, modality domain.Modality, d Delivery) *domain.VerificationRecord {
	now := s.nowF()
	return &domain.VerificationRecord{
		IssueID:    id.NewAt(now),
		Identifier: identifier,
		Modality:   modality,
		Channel:    d.Channel,
		SecretKind: d.Kind,
		Secret:     d.Secret,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.ttl),
	}
}

// verify matches code against the live record for identifier and consumes it on success.
// Each issue verifies at most once.
// A mismatch, including any failure of a delegated check, leaves the record in place.
func (s *service) verify(ctx context.Context, identifier, code string) (*VerifyResult, error) {
	rec, err := s.store.Get(ctx, identifier)
	if err != nil {
		return nil, err
	}

	switch rec.SecretKind {
	case domain.SecretProviderSession:
		if err := s.verifySession(ctx, rec.Secret, code); err != nil {
			slog.Warn("delegated verification failed", "channel", rec.Channel, "err", err)
			return nil, fmt.Errorf("provider did not confirm code: %w", domain.ErrMismatch)
		}
	case domain.SecretLocalCode:
		if !rec.MatchesCode(code) {
			return nil, fmt.Errorf("code does not match: %w", domain.ErrMismatch)
		}
	default:
		return nil, fmt.Errorf("unknown secret kind %q: %w", rec.SecretKind, domain.ErrMismatch)
	}

	// Only the verify that removes this issue succeeds; a concurrent verify of the
	// same code, or one that matched a since-replaced issue, loses here.
	if err := s.store.Consume(ctx, identifier, rec.IssueID); err != nil {
		return nil, err
	}

	res := &VerifyResult{Identifier: identifier, IssueID: rec.IssueID}
	if s.receipts != nil {
		receipt, err := s.receipts.Sign(identifier, string(rec.Modality), rec.IssueID)
		if err != nil {
			slog.Warn("failed to sign verification receipt", "identifier", identifier, "err", err)
		} else {
			res.Receipt = receipt
		}
	}
	return res, nil
}

func (s *service) verifySession(ctx context.Context, session, code string) error {
	if s.sessions == nil {
		return errors.New("no session verifier configured")
	}
	if code == "" {
		return errors.New("empty code")
	}
	if s.providerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.providerTimeout)
		defer cancel()
	}
	return s.sessions.VerifySession(ctx, session, code)
}
