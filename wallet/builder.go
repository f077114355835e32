package wallet

import (
	"github.com/nanogallery/nanopay/types"
	"github.com/pkg/errors"
)

// BuildSendBlock constructs an unsigned state block moving amount from
// the fetched account state to the destination. Pure, no I/O.
func BuildSendBlock(state *types.AccountState, to *types.Address, amount *types.Amount) (*types.Block, error) {
	if amount == nil || amount.IsZero() {
		return nil, errors.Wrap(ErrInvalidAmount, "send amount must be positive")
	}

	if !state.Opened {
		return nil, errors.Wrap(ErrAccountNotFound, "sends require an opened account")
	}

	if amount.Cmp(state.Balance) > 0 {
		return nil, errors.Wrapf(ErrInsufficientBalance, "balance %s, send %s", state.Balance, amount)
	}

	new_balance, err := state.Balance.Sub(amount)
	if err != nil {
		return nil, errors.Wrap(ErrInsufficientBalance, err.Error())
	}

	previous := state.Frontier
	representative := state.Representative

	return &types.Block{
		Type:           "state",
		Subtype:        types.BlockSubtypeSend,
		Account:        &state.Address,
		Previous:       &previous,
		Representative: &representative,
		Balance:        new_balance,
		Link:           to.ToLink(),
	}, nil
}

// BuildReceiveBlock constructs an unsigned state block claiming a pending
// entry. For an unopened account this is the open variant: previous is
// zero and the given representative is installed.
func BuildReceiveBlock(state *types.AccountState, pending *types.PendingEntry, representative *types.Address) (*types.Block, error) {
	if pending == nil || pending.Amount == nil || pending.Amount.IsZero() {
		return nil, errors.Wrap(ErrInvalidAmount, "pending entry has no amount")
	}

	balance := state.Balance
	if balance == nil {
		balance = new(types.Amount)
	}

	new_balance, err := balance.Add(pending.Amount)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidAmount, err.Error())
	}

	subtype := types.BlockSubtypeReceive
	previous := state.Frontier
	block_representative := state.Representative

	if !state.Opened {
		subtype = types.BlockSubtypeOpen
		previous = types.Hash{}

		if representative != nil {
			block_representative = *representative
		} else {
			// No configured representative: the account represents itself.
			block_representative = state.Address
		}
	}

	return &types.Block{
		Type:           "state",
		Subtype:        subtype,
		Account:        &state.Address,
		Previous:       &previous,
		Representative: &block_representative,
		Balance:        new_balance,
		Link:           types.LinkFromHash(&pending.BlockHash),
	}, nil
}
