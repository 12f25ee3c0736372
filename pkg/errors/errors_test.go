package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{ErrProviderMissing, KindProviderMissing},
		{Wrap(ErrNotConnected, "submit"), KindNotConnected},
		{fmt.Errorf("parse amount: %w", ErrInvalidInput), KindInvalidInput},
		{Mark(ErrProviderRejected, errors.New("user declined")), KindProviderRejected},
		{Mark(ErrRPCFailure, errors.New("timeout")), KindRPCFailure},
		{ErrBlockhashExpired, KindRPCFailure},
		{ErrDirectoryFetchFailure, KindDirectoryFailure},
		{ErrSubmissionInFlight, KindInFlight},
		{errors.New("other"), KindInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindOf(tc.err), tc.err.Error())
	}
}

func TestMarkKeepsBothChains(t *testing.T) {
	cause := errors.New("connection refused")
	err := Mark(ErrRPCFailure, cause)

	assert.True(t, Is(err, ErrRPCFailure))
	assert.True(t, Is(err, cause))
	assert.Equal(t, "solana rpc failure: connection refused", UserMessage(err))
	assert.Equal(t, ErrNotConnected, Mark(ErrNotConnected, nil))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Equal(t, "", UserMessage(nil))
}
