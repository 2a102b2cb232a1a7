package domain

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// SecretKind says who is authoritative for matching a submitted code.
type SecretKind string

const (
	// SecretLocalCode means this service knows the plaintext code and compares locally.
	SecretLocalCode SecretKind = "local_code"
	// SecretProviderSession means Secret is an opaque hosted-provider session token.
	SecretProviderSession SecretKind = "provider_session"
)

// Modality is the kind of identifier under verification.
type Modality string

const (
	ModalityMobile Modality = "mobile"
	ModalityEmail  Modality = "email"
)

// VerificationRecord is a pending verification for one normalized identifier.
// At most one exists per identifier; re-issuing overwrites it wholesale.
type VerificationRecord struct {
	IssueID    string     `json:"issue_id"`
	Identifier string     `json:"identifier"`
	Modality   Modality   `json:"modality"`
	Channel    string     `json:"channel"`
	SecretKind SecretKind `json:"secret_kind"`
	Secret     string     `json:"secret"`
	// Hashed is set when Secret holds a bcrypt hash of a local code (shared stores).
	Hashed    bool      `json:"hashed,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record is no longer live at now.
func (r *VerificationRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Seal returns a copy safe to write to an external store: local codes are bcrypt-hashed.
// Provider session tokens are kept as-is since they must be forwarded to the provider.
func (r *VerificationRecord) Seal() (*VerificationRecord, error) {
	out := *r
	if r.SecretKind != SecretLocalCode || r.Hashed {
		return &out, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash verification code: %w", err)
	}
	out.Secret = string(hash)
	out.Hashed = true
	return &out, nil
}

// MatchesCode compares a submitted code against a local-code secret by exact equality.
// It always reports false for provider sessions.
func (r *VerificationRecord) MatchesCode(submitted string) bool {
	if r.SecretKind != SecretLocalCode || submitted == "" {
		return false
	}
	if r.Hashed {
		return bcrypt.CompareHashAndPassword([]byte(r.Secret), []byte(submitted)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(r.Secret), []byte(submitted)) == 1
}

// NormalizeMobile strips non-digits and keeps the last 10 digits.
func NormalizeMobile(mobile string) string {
	var b strings.Builder
	for _, c := range mobile {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	digits := b.String()
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
