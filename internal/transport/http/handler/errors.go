package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/loanlead-api/internal/domain"
)

// msgInvalidCode is shared by not-found and mismatch so callers cannot tell them apart.
const msgInvalidCode = "invalid or expired verification code"

// httpError maps domain errors to status codes and user-facing messages.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFoundOrExpired), errors.Is(err, domain.ErrMismatch):
		writeError(w, http.StatusBadRequest, msgInvalidCode)
	case errors.Is(err, domain.ErrDispatch):
		writeError(w, http.StatusBadGateway, "could not send verification code, please try again")
	default:
		slog.Error("unhandled verification error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
