package twofactor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/loanlead-api/internal/pkg/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("key", "", "", nil)
	assert.Equal(t, defaultBaseURL, c.BaseURL)
	require.NotNil(t, c.HTTP)
}

func TestIssueAndSend_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/API/V1/test-key/SMS/9876543210/AUTOGEN/LOANOTP", r.URL.Path)
		w.Write([]byte(`{"Status":"Success","Details":"sess-123"}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL+"/API/V1/", "LOANOTP", nil)
	session, err := c.IssueAndSend(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "sess-123", session)
}

func TestIssueAndSend_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":"Error","Details":"Invalid API Key"}`))
	}))
	defer srv.Close()

	_, err := NewClient("bad", srv.URL, "", nil).IssueAndSend(context.Background(), "9876543210")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestIssueAndSend_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops`))
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL, "", nil).IssueAndSend(context.Background(), "9876543210")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
}

func TestIssueAndSend_MissingAPIKey(t *testing.T) {
	_, err := NewClient("", "", "", nil).IssueAndSend(context.Background(), "9876543210")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not configured")
}

func TestVerifySession_Matched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/k/SMS/VERIFY/sess-123/482913", r.URL.Path)
		w.Write([]byte(`{"Status":"Success","Details":"OTP Matched"}`))
	}))
	defer srv.Close()

	err := NewClient("k", srv.URL, "", nil).VerifySession(context.Background(), "sess-123", "482913")
	assert.NoError(t, err)
}

func TestVerifySession_Mismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":"Error","Details":"OTP Mismatch"}`))
	}))
	defer srv.Close()

	err := NewClient("k", srv.URL, "", nil).VerifySession(context.Background(), "sess-123", "000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotMatched))
}

func TestVerifySession_MismatchWithErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"Status":"Error","Details":"OTP Expired"}`))
	}))
	defer srv.Close()

	err := NewClient("k", srv.URL, "", nil).VerifySession(context.Background(), "sess-123", "000000")
	assert.True(t, errors.Is(err, ErrNotMatched))
}

func TestVerifySession_SuccessWithoutMatchIsNotAMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":"Success","Details":"Something else"}`))
	}))
	defer srv.Close()

	err := NewClient("k", srv.URL, "", nil).VerifySession(context.Background(), "sess-123", "482913")
	assert.True(t, errors.Is(err, ErrNotMatched))
}

func TestVerifySession_TransportErrorIsNotNotMatched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, "", outbound.New(5*time.Millisecond, 0))
	err := c.VerifySession(context.Background(), "sess-123", "482913")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotMatched))
}

func TestVerifySession_GarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	err := NewClient("k", srv.URL, "", nil).VerifySession(context.Background(), "sess-123", "482913")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
