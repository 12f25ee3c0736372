package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetwork(t *testing.T) {
	cases := map[string]Network{
		"mainnet-beta": NetworkMainnet,
		"main":         NetworkMainnet,
		"DEVNET":       NetworkDevnet,
		"dev":          NetworkDevnet,
		" testnet ":    NetworkTestnet,
	}
	for in, want := range cases {
		got, ok := ParseNetwork(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseNetwork("localnet")
	assert.False(t, ok)
	assert.False(t, Network("main").Valid())
	assert.True(t, NetworkDevnet.Valid())
}

func TestExplorerURL(t *testing.T) {
	assert.Equal(t, "https://solscan.io/tx/sig", ExplorerURL("sig", NetworkMainnet))
	assert.Equal(t, "https://solscan.io/tx/sig?cluster=devnet", ExplorerURL("sig", NetworkDevnet))
}

func TestDirectoryEntryAcceptsNumericAndStringIDs(t *testing.T) {
	body := `{"ok":true,"items":[
		{"id":7,"name":"Flip","description":"coin flip","url":"https://flip.example","tags":["game","fun"]},
		{"id":"abc","name":"Poll","description":"","icon":"https://poll.example/i.png","url":"https://poll.example"}
	]}`

	var resp DirectoryResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, EntryID("7"), resp.Items[0].ID)
	assert.Equal(t, []string{"game", "fun"}, resp.Items[0].Tags)
	assert.Equal(t, EntryID("abc"), resp.Items[1].ID)
	assert.Equal(t, "https://poll.example/i.png", resp.Items[1].IconURL)
}

func TestTransferLogEncodesAmountAsNumber(t *testing.T) {
	rec := TransferLog{
		FromPubkey: "from",
		ToPubkey:   "to",
		AmountSOL:  json.Number(decimal.RequireFromString("1.5").String()),
		Signature:  "sig",
		Network:    NetworkDevnet,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"from_pubkey":"from","to_pubkey":"to","amount_sol":1.5,"signature":"sig","network":"devnet"}`, string(data))
}

func TestWalletSessionConnected(t *testing.T) {
	assert.False(t, WalletSession{HasProvider: true}.Connected())
	assert.False(t, WalletSession{Address: "x"}.Connected())
	assert.True(t, WalletSession{HasProvider: true, Address: "x"}.Connected())
}
