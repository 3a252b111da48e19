package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Send(context.Background(), Payload{
		Day:             "Day 7",
		Recipient:       "maya@example.com",
		CustomerMessage: "Hi Maya",
		CustomerName:    "Maya Chen",
		MessageType:     "email",
	})
	require.NoError(t, err)

	// Exact key casing is the receiving automation's contract.
	assert.Equal(t, map[string]string{
		"Day":             "Day 7",
		"Recipient":       "maya@example.com",
		"CustomerMessage": "Hi Maya",
		"CustomerName":    "Maya Chen",
		"MessageType":     "email",
	}, got)
}

func TestClientSend_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Send(context.Background(), Payload{Recipient: "x@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientSend_NoURL(t *testing.T) {
	err := NewClient("").Send(context.Background(), Payload{})
	assert.Error(t, err)
}
