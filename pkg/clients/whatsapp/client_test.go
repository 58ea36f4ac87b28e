package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/coopcontrol/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.WhatsAppConfig{
		AccessToken:   "secret",
		PhoneNumberID: "12345",
		BaseURL:       srv.URL + "/",
		APIVersion:    "v20.0",
	})
}

func TestSendText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var payload textPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "whatsapp", payload.MessagingProduct)
		assert.Equal(t, "221770000000", payload.To)
		assert.Equal(t, "text", payload.Type)
		assert.Equal(t, "Flock: 12 birds", payload.Text.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.ABC"}]}`))
	})

	id, err := client.SendText(context.Background(), "221770000000", "Flock: 12 birds")
	require.NoError(t, err)
	assert.Equal(t, "wamid.ABC", id)
}

func TestSendTextAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`))
	})

	_, err := client.SendText(context.Background(), "221770000000", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=190")
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestSendTextRequiresRecipient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.SendText(context.Background(), " ", "hi")
	assert.ErrorIs(t, err, ErrNoRecipient)
}
