package jwtinfra

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/loanlead-api/internal/config"
)

// Claims is the payload of a verification receipt.
type Claims struct {
	Identifier string `json:"identifier"`
	Modality   string `json:"modality"`
	IssueID    string `json:"issue_id"`
	jwt.RegisteredClaims
}

// Provider signs and verifies RS256 verification receipts.
type Provider struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	expiry     time.Duration
	nowF       func() time.Time
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	privBytes, err := os.ReadFile(cfg.ReceiptPrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privBytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pubBytes, err := os.ReadFile(cfg.ReceiptPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	expiry := cfg.ReceiptExpiry
	if expiry <= 0 {
		expiry = 30 * time.Minute
	}
	return &Provider{privateKey: privKey, publicKey: pubKey, expiry: expiry, nowF: time.Now}, nil
}

// Sign returns a receipt proving identifier was verified under issueID.
func (p *Provider) Sign(identifier, modality, issueID string) (string, error) {
	now := p.nowF()
	claims := Claims{
		Identifier: identifier,
		Modality:   modality,
		IssueID:    issueID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identifier,
			ID:        issueID,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(p.privateKey)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.publicKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
