package middleware

import (
	"encoding/json"
	"net/http"
)

// receiptError has the same shape as the handlers' VerificationEnvelope.
type receiptError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(receiptError{Success: false, Error: msg})
}
