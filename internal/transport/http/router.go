package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/loanlead-api/internal/config"
	"github.com/loanlead-api/internal/transport/http/handler"
	appmiddleware "github.com/loanlead-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// A nil *Provider must not reach the middleware as a non-nil interface.
	var receipts appmiddleware.ReceiptVerifier
	if deps.ReceiptProvider != nil {
		receipts = deps.ReceiptProvider
	}

	healthH := handler.NewHealthHandler(deps.MobileChannels, deps.EmailChannel)
	verifyH := handler.NewVerificationHandler(deps.Verification)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.Post("/verify-mobile/{action}", verifyH.MobileAction)
		r.Post("/verify-email/{action}", verifyH.EmailAction)

		r.With(appmiddleware.RequireReceipt(receipts)).Get("/verification/receipt", verifyH.Receipt)
	})

	return r
}
