package wallet_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/nanogallery/nanopay/types"
	"github.com/nanogallery/nanopay/wallet"
	"github.com/shryder/ed25519-blake2b"
	"github.com/stretchr/testify/require"
)

func TestDecodePrivateKeyFromSeed(t *testing.T) {
	seed_hex := strings.Repeat("0b", 32)

	private_key, err := wallet.DecodePrivateKey(seed_hex)
	require.NoError(t, err)
	require.Len(t, []byte(private_key), ed25519.PrivateKeySize)

	// Expanded form decodes to the same key.
	expanded, err := wallet.DecodePrivateKey(hex.EncodeToString(private_key))
	require.NoError(t, err)
	require.Equal(t, private_key, expanded)
}

func TestDecodePrivateKeyRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "zz", strings.Repeat("0b", 31), strings.Repeat("0b", 33), "not-hex"} {
		_, err := wallet.DecodePrivateKey(input)
		require.ErrorIs(t, err, wallet.ErrInvalidKey, input)
	}
}

func TestSignProducesVerifiableSignature(t *testing.T) {
	private_key, account := testKeyPair(t, 7)
	_, recipient := testKeyPair(t, 8)

	block, err := wallet.BuildSendBlock(openedState(t, account, "1000"), recipient, rawAmount(t, "100"))
	require.NoError(t, err)

	signature, err := wallet.Sign(block, private_key)
	require.NoError(t, err)

	public_key := account.ToPublicKey()
	require.True(t, ed25519.Verify(public_key, block.SigningHash()[:], signature[:]))

	// Tampering with the balance invalidates the signature.
	block.Balance = rawAmount(t, "999")
	require.False(t, ed25519.Verify(public_key, block.SigningHash()[:], signature[:]))
}

func TestSignRejectsMalformedKey(t *testing.T) {
	private_key, account := testKeyPair(t, 7)
	_, recipient := testKeyPair(t, 8)

	block, err := wallet.BuildSendBlock(openedState(t, account, "1000"), recipient, rawAmount(t, "100"))
	require.NoError(t, err)

	_, err = wallet.Sign(block, private_key[:30])
	require.ErrorIs(t, err, wallet.ErrInvalidKey)
}

func TestKeyMatchesAccount(t *testing.T) {
	private_key, account := testKeyPair(t, 7)
	_, other := testKeyPair(t, 8)

	require.True(t, wallet.KeyMatchesAccount(private_key, account))
	require.False(t, wallet.KeyMatchesAccount(private_key, other))
	require.False(t, wallet.KeyMatchesAccount(private_key[:30], account))
}

func TestSigningHashCoversAllFields(t *testing.T) {
	private_key, account := testKeyPair(t, 7)
	_ = private_key
	_, recipient := testKeyPair(t, 8)

	first, err := wallet.BuildSendBlock(openedState(t, account, "1000"), recipient, rawAmount(t, "100"))
	require.NoError(t, err)

	second, err := wallet.BuildSendBlock(openedState(t, account, "1000"), recipient, rawAmount(t, "200"))
	require.NoError(t, err)

	require.NotEqual(t, first.SigningHash().ToHexString(), second.SigningHash().ToHexString())

	same, err := wallet.BuildSendBlock(openedState(t, account, "1000"), recipient, rawAmount(t, "100"))
	require.NoError(t, err)
	require.Equal(t, first.SigningHash().ToHexString(), same.SigningHash().ToHexString())
}

func TestSigningHashKnownLayout(t *testing.T) {
	// The zero account's first-block root must be the account key, and the
	// signing hash must stay stable across type re-encoding.
	account := new(types.Address)
	block := &types.Block{
		Type:           "state",
		Subtype:        types.BlockSubtypeOpen,
		Account:        account,
		Previous:       new(types.Hash),
		Representative: account,
		Balance:        new(types.Amount),
		Link:           new(types.Link),
	}

	require.Equal(t, account.ToHexString(), block.Root().ToHexString())
	require.Len(t, block.SigningHash().ToHexString(), 64)
}
