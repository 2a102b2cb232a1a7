package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/loanlead-api/internal/application/verification"
	"github.com/loanlead-api/internal/pkg/validate"
	"github.com/loanlead-api/internal/transport/http/middleware"
)

type mobileRequest struct {
	Mobile string `json:"mobile" validate:"required"`
}

type mobileCodeRequest struct {
	Mobile string `json:"mobile" validate:"required"`
	Code   string `json:"code" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required"`
}

type emailCodeRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// VerificationHandler serves the mobile and email verification flows.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

// MobileAction handles /verify-mobile/{action}.
func (h *VerificationHandler) MobileAction(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		var body mobileRequest
		if !decode(w, r, &body) {
			return
		}
		if err := h.svc.IssueMobile(r.Context(), body.Mobile); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, VerificationEnvelope{Success: true, Message: "verification code sent"})
	case "validate-code":
		var body mobileCodeRequest
		if !decode(w, r, &body) {
			return
		}
		res, err := h.svc.VerifyMobile(r.Context(), body.Mobile, body.Code)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, VerificationEnvelope{Success: true, Message: "mobile verified", Receipt: res.Receipt})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

// EmailAction handles /verify-email/{action}.
func (h *VerificationHandler) EmailAction(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		var body emailRequest
		if !decode(w, r, &body) {
			return
		}
		if err := h.svc.IssueEmail(r.Context(), body.Email); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, VerificationEnvelope{Success: true, Message: "verification code sent"})
	case "validate-code":
		var body emailCodeRequest
		if !decode(w, r, &body) {
			return
		}
		res, err := h.svc.VerifyEmail(r.Context(), body.Email, body.Code)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, VerificationEnvelope{Success: true, Message: "email verified", Receipt: res.Receipt})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

// Receipt echoes the claims of the receipt presented in the Authorization header.
func (h *VerificationHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ReceiptFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var exp int64
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Unix()
	}
	writeJSON(w, http.StatusOK, ReceiptEnvelope{
		Identifier: claims.Identifier,
		Modality:   claims.Modality,
		IssueID:    claims.IssueID,
		ExpiresAt:  exp,
	})
}

// decode reads a JSON body into dst and checks its validate tags. It writes the
// error response itself and reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
