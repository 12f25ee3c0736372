package validator

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralcoin/pkg/domain"
)

func TestValidateTransferRequest(t *testing.T) {
	v := New()
	recipient := solana.NewWallet().PublicKey().String()

	ok := &domain.TransferRequest{Recipient: recipient, AmountMajorUnits: decimal.RequireFromString("0.25")}
	require.NoError(t, v.Validate(ok))

	cases := []struct {
		name  string
		req   *domain.TransferRequest
		field string
		msg   string
	}{
		{"empty recipient", &domain.TransferRequest{AmountMajorUnits: decimal.NewFromInt(1)}, "Recipient", "This field is required"},
		{"bad recipient", &domain.TransferRequest{Recipient: "not-base58!", AmountMajorUnits: decimal.NewFromInt(1)}, "Recipient", "Invalid Solana address"},
		{"zero amount", &domain.TransferRequest{Recipient: recipient, AmountMajorUnits: decimal.Zero}, "AmountMajorUnits", "Must be greater than 0"},
		{"negative amount", &domain.TransferRequest{Recipient: recipient, AmountMajorUnits: decimal.NewFromInt(-2)}, "AmountMajorUnits", "Must be greater than 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, v.Validate(tc.req))
			errs := v.ValidateStructured(tc.req)
			assert.Equal(t, tc.msg, errs[tc.field])
		})
	}
}

func TestIsPublicKey(t *testing.T) {
	assert.True(t, IsPublicKey("11111111111111111111111111111111"))
	assert.False(t, IsPublicKey(""))
	assert.False(t, IsPublicKey("abc"))
}
