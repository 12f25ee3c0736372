package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralcoin/internal/domain"
)

func TestListMiniApps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/miniapps", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true,"items":[
			{"id":7,"name":"Dice","description":"Roll it","icon":"https://x/i.png","url":"https://dice.app","tags":["game","fun"]},
			{"id":"abc","name":"Swap","description":"","url":"https://swap.app"}
		]}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL + "/"}, nil)
	resp, err := client.ListMiniApps(context.Background())

	require.NoError(t, err)
	assert.True(t, resp.OK)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, domain.EntryID("7"), resp.Items[0].ID)
	assert.Equal(t, "https://x/i.png", resp.Items[0].IconURL)
	assert.Equal(t, []string{"game", "fun"}, resp.Items[0].Tags)
	assert.Equal(t, domain.EntryID("abc"), resp.Items[1].ID)
	assert.Empty(t, resp.Items[1].Tags)
	assert.Equal(t, server.URL, client.BaseURL())
}

func TestListMiniApps_NotOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"ok":false}`)
	}))
	defer server.Close()

	resp, err := New(Config{BaseURL: server.URL}, nil).ListMiniApps(context.Background())

	require.NoError(t, err)
	assert.False(t, resp.OK)
}

func TestListMiniApps_BadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>oops</html>`)
	}))
	defer server.Close()

	_, err := New(Config{BaseURL: server.URL}, nil).ListMiniApps(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal response")
}

func TestListMiniApps_ErrorStatusWithoutEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(Config{BaseURL: server.URL}, nil).ListMiniApps(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestListMiniApps_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(Config{BaseURL: url}, nil).ListMiniApps(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "send request")
}

func TestLogTransfer(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/transfers/log", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	err := New(Config{BaseURL: server.URL}, nil).LogTransfer(context.Background(), domain.TransferLog{
		FromPubkey: "from",
		ToPubkey:   "to",
		AmountSOL:  json.Number("1.5"),
		Signature:  "sig",
		Network:    domain.NetworkDevnet,
	})

	require.NoError(t, err)
	assert.Equal(t, "from", got["from_pubkey"])
	assert.Equal(t, "to", got["to_pubkey"])
	assert.Equal(t, 1.5, got["amount_sol"])
	assert.Equal(t, "sig", got["signature"])
	assert.Equal(t, "devnet", got["network"])
}

func TestLogTransfer_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := New(Config{BaseURL: server.URL}, nil).LogTransfer(context.Background(), domain.TransferLog{AmountSOL: "1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
