package wallet_test

import (
	"bytes"
	"testing"

	"github.com/nanogallery/nanopay/types"
	"github.com/nanogallery/nanopay/wallet"
	"github.com/shryder/ed25519-blake2b"
	"github.com/stretchr/testify/require"
)

func testKeyPair(t *testing.T, seed_byte byte) (ed25519.PrivateKey, *types.Address) {
	t.Helper()

	seed := bytes.Repeat([]byte{seed_byte}, ed25519.SeedSize)
	private_key, err := ed25519.NewKeyFromSeed(seed)
	require.NoError(t, err)

	public_key := private_key.Public()

	address, err := types.AddressFromPublicKey(public_key)
	require.NoError(t, err)

	return private_key, address
}

func rawAmount(t *testing.T, raw string) *types.Amount {
	t.Helper()

	amount, err := types.AmountFromString(raw)
	require.NoError(t, err)

	return amount
}

func openedState(t *testing.T, address *types.Address, balance string) *types.AccountState {
	t.Helper()

	frontier := types.Hash{}
	frontier[0] = 0xAB

	return &types.AccountState{
		Address:        *address,
		Frontier:       frontier,
		Representative: *address,
		Balance:        rawAmount(t, balance),
		Opened:         true,
	}
}

func TestBuildSendBlock(t *testing.T) {
	_, sender := testKeyPair(t, 1)
	_, recipient := testKeyPair(t, 2)

	state := openedState(t, sender, "1000")

	block, err := wallet.BuildSendBlock(state, recipient, rawAmount(t, "300"))
	require.NoError(t, err)

	require.Equal(t, types.BlockSubtypeSend, block.Subtype)
	require.Equal(t, "700", block.Balance.String())
	require.Equal(t, state.Frontier, *block.Previous)
	require.Equal(t, recipient.ToHexString(), block.Link.ToHexString())
	require.Nil(t, block.Signature)
	require.Nil(t, block.Work)
}

func TestBuildSendBlockInsufficientBalance(t *testing.T) {
	_, sender := testKeyPair(t, 1)
	_, recipient := testKeyPair(t, 2)

	state := openedState(t, sender, "100")

	_, err := wallet.BuildSendBlock(state, recipient, rawAmount(t, "101"))
	require.ErrorIs(t, err, wallet.ErrInsufficientBalance)

	// Sending the whole balance is fine.
	block, err := wallet.BuildSendBlock(state, recipient, rawAmount(t, "100"))
	require.NoError(t, err)
	require.True(t, block.Balance.IsZero())
}

func TestBuildSendBlockRejectsZeroAmount(t *testing.T) {
	_, sender := testKeyPair(t, 1)
	_, recipient := testKeyPair(t, 2)

	_, err := wallet.BuildSendBlock(openedState(t, sender, "100"), recipient, rawAmount(t, "0"))
	require.ErrorIs(t, err, wallet.ErrInvalidAmount)
}

func TestBuildSendBlockUnopenedAccount(t *testing.T) {
	_, sender := testKeyPair(t, 1)
	_, recipient := testKeyPair(t, 2)

	state := &types.AccountState{
		Address: *sender,
		Balance: new(types.Amount),
		Opened:  false,
	}

	_, err := wallet.BuildSendBlock(state, recipient, rawAmount(t, "1"))
	require.ErrorIs(t, err, wallet.ErrAccountNotFound)
}

func TestBuildReceiveBlock(t *testing.T) {
	_, account := testKeyPair(t, 1)
	_, source := testKeyPair(t, 2)

	state := openedState(t, account, "500")

	pending_hash := types.Hash{}
	pending_hash[0] = 0xCD

	pending := &types.PendingEntry{
		BlockHash: pending_hash,
		Amount:    rawAmount(t, "250"),
		Source:    *source,
	}

	block, err := wallet.BuildReceiveBlock(state, pending, nil)
	require.NoError(t, err)

	require.Equal(t, types.BlockSubtypeReceive, block.Subtype)
	require.Equal(t, "750", block.Balance.String())
	require.Equal(t, state.Frontier, *block.Previous)
	require.Equal(t, pending_hash.ToHexString(), block.Link.ToHexString())
}

func TestBuildReceiveBlockOpensAccount(t *testing.T) {
	_, account := testKeyPair(t, 1)
	_, source := testKeyPair(t, 2)
	_, representative := testKeyPair(t, 3)

	state := &types.AccountState{
		Address: *account,
		Balance: new(types.Amount),
		Opened:  false,
	}

	pending := &types.PendingEntry{
		BlockHash: types.Hash{0xEF},
		Amount:    rawAmount(t, "42"),
		Source:    *source,
	}

	block, err := wallet.BuildReceiveBlock(state, pending, representative)
	require.NoError(t, err)

	require.Equal(t, types.BlockSubtypeOpen, block.Subtype)
	require.True(t, block.Previous.IsZero())
	require.Equal(t, "42", block.Balance.String())
	require.Equal(t, *representative, *block.Representative)

	// The work root of an open block is the account key itself.
	require.Equal(t, account.ToHexString(), block.Root().ToHexString())
}

func TestBuildReceiveBlockOpenDefaultsToSelfRepresentative(t *testing.T) {
	_, account := testKeyPair(t, 1)
	_, source := testKeyPair(t, 2)

	state := &types.AccountState{
		Address: *account,
		Balance: new(types.Amount),
		Opened:  false,
	}

	pending := &types.PendingEntry{
		BlockHash: types.Hash{0xEF},
		Amount:    rawAmount(t, "42"),
		Source:    *source,
	}

	block, err := wallet.BuildReceiveBlock(state, pending, nil)
	require.NoError(t, err)
	require.Equal(t, *account, *block.Representative)
}
