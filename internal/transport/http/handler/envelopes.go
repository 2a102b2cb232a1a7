package handler

import (
	"encoding/json"
	"net/http"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerificationEnvelope wraps issue and verify responses.
type VerificationEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Receipt string `json:"receipt,omitempty"`
}

// ReceiptEnvelope describes a valid verification receipt.
type ReceiptEnvelope struct {
	Identifier string `json:"identifier"`
	Modality   string `json:"modality"`
	IssueID    string `json:"issue_id"`
	ExpiresAt  int64  `json:"expires_at"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, VerificationEnvelope{Success: false, Error: msg})
}
