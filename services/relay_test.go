package services

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func hostPort(t *testing.T, srv *httptest.Server) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func TestRelay_NewPrompt(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/text_query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(Reply{Text: "the answer", MinerID: "1"})
	}))
	defer srv.Close()

	host, port := hostPort(t, srv)
	client := NewRelayClient(zap.NewNop())

	reply := client.Relay(context.Background(), "user-1", "what happened", host, port, false, "")

	assert.Equal(t, "the answer", reply.Text)
	assert.Equal(t, "1", reply.MinerID)

	assert.Equal(t, "bitcoin", got["network"])
	assert.Equal(t, "user-1", got["user_id"])
	assert.Equal(t, "what happened", got["prompt"])
	_, hasMiner := got["miner_id"]
	assert.False(t, hasMiner)
	_, hasTemp := got["temperature"]
	assert.False(t, hasTemp)
}

func TestRelay_Variation(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/text_query/variant", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(Reply{Text: "continued", MinerID: "7"})
	}))
	defer srv.Close()

	host, port := hostPort(t, srv)
	client := NewRelayClient(zap.NewNop())

	reply := client.Relay(context.Background(), "user-1", "and then?", host, port, true, "7")

	assert.Equal(t, "continued", reply.Text)
	assert.Equal(t, "7", got["miner_id"])
	assert.InDelta(t, relayTemperature, got["temperature"], 1e-9)
}

func TestRelay_Non200ReturnsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	host, port := hostPort(t, srv)
	client := NewRelayClient(zap.NewNop())

	reply := client.Relay(context.Background(), "user-1", "hello", host, port, false, "")

	assert.Equal(t, FailureReply, reply.Text)
	assert.Equal(t, FailureMiner, reply.MinerID)
}

func TestRelay_UnreachableReturnsSentinel(t *testing.T) {
	client := NewRelayClient(zap.NewNop())

	// Port 1 is essentially guaranteed to refuse connections.
	reply := client.Relay(context.Background(), "user-1", "hello", "127.0.0.1", 1, false, "")

	assert.Equal(t, FailureReply, reply.Text)
	assert.Equal(t, FailureMiner, reply.MinerID)
}

func TestRelay_MalformedBodyReturnsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	host, port := hostPort(t, srv)
	client := NewRelayClient(zap.NewNop())

	reply := client.Relay(context.Background(), "user-1", "hello", host, port, false, "")

	assert.Equal(t, FailureReply, reply.Text)
	assert.Equal(t, FailureMiner, reply.MinerID)
}
