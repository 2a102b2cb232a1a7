package http

import (
	"github.com/loanlead-api/internal/application/verification"
	jwtinfra "github.com/loanlead-api/internal/infrastructure/jwt"
)

// Deps holds everything the router needs.
type Deps struct {
	Verification verification.Service
	// ReceiptProvider is nil when receipt keys are not configured.
	ReceiptProvider *jwtinfra.Provider
	MobileChannels  []string
	EmailChannel    string
}
