package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSMS_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+919876543210", r.PostForm.Get("To"))
		assert.Equal(t, "+15005550006", r.PostForm.Get("From"))
		assert.Contains(t, r.PostForm.Get("Body"), "482913")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient("AC123", "secret", "+15005550006", srv.URL, nil)
	assert.NoError(t, c.SendSMS(context.Background(), "+919876543210", "Your code is 482913"))
}

func TestSendSMS_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number"}`))
	}))
	defer srv.Close()

	err := NewClient("AC123", "secret", "+1", srv.URL, nil).SendSMS(context.Background(), "+91", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
	assert.Contains(t, err.Error(), "Invalid 'To' Phone Number")
}

func TestSendSMS_MissingCredentials(t *testing.T) {
	err := NewClient("", "", "", "", nil).SendSMS(context.Background(), "+919876543210", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials not configured")
}
