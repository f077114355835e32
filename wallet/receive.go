package wallet

import (
	"context"

	"github.com/nanogallery/nanopay/types"
	"github.com/pkg/errors"
	"github.com/shryder/ed25519-blake2b"
)

// ReceiveState is one step of the per-entry receive lifecycle:
// Pending -> Building -> Signing -> WorkRequested -> Submitting ->
// Confirmed | Failed.
type ReceiveState uint8

const (
	StatePending ReceiveState = iota
	StateBuilding
	StateSigning
	StateWorkRequested
	StateSubmitting
	StateConfirmed
	StateFailed
)

func (state ReceiveState) String() string {
	switch state {
	case StatePending:
		return "pending"
	case StateBuilding:
		return "building"
	case StateSigning:
		return "signing"
	case StateWorkRequested:
		return "work_requested"
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}

// receiveAttempt tracks one attempt's walk through the state machine.
// Transitions are recorded so the bounded-retry contract is observable
// in tests without network I/O.
type receiveAttempt struct {
	State       ReceiveState
	Transitions []ReceiveState
}

func newReceiveAttempt() *receiveAttempt {
	return &receiveAttempt{
		State:       StatePending,
		Transitions: []ReceiveState{StatePending},
	}
}

func (attempt *receiveAttempt) transition(next ReceiveState) {
	attempt.State = next
	attempt.Transitions = append(attempt.Transitions, next)
}

type ReceiveEntryResult struct {
	PendingHash *types.Hash   `json:"pending_hash"`
	Amount      *types.Amount `json:"amount"`
	Success     bool          `json:"success"`
	BlockHash   *types.Hash   `json:"block_hash,omitempty"`
	Attempts    int           `json:"attempts"`
	FinalState  string        `json:"final_state"`
	Error       string        `json:"error,omitempty"`
}

type ReceiveAllResult struct {
	ReceivedCount int                   `json:"received_count"`
	TotalAmount   *types.Amount         `json:"total_amount"`
	Entries       []*ReceiveEntryResult `json:"entries"`
}

// ReceiveOne claims a single pending entry under the account lock.
func (engine *TransactionEngine) ReceiveOne(ctx context.Context, address *types.Address, private_key ed25519.PrivateKey, pending *types.PendingEntry) *ReceiveEntryResult {
	engine.Locks.Acquire(address)
	defer engine.Locks.Release(address)

	return engine.receiveOneLocked(ctx, address, private_key, pending)
}

// ReceiveAllPending claims every entry in the account's pending pool,
// sequentially: each receive mutates the frontier the next one depends
// on. Processing order is the order the ledger returned. Partial success
// is a normal, reportable outcome.
func (engine *TransactionEngine) ReceiveAllPending(ctx context.Context, address *types.Address, private_key ed25519.PrivateKey) (*ReceiveAllResult, error) {
	if !KeyMatchesAccount(private_key, address) {
		return nil, errors.Wrap(ErrInvalidKey, "private key does not match account")
	}

	engine.Locks.Acquire(address)
	defer engine.Locks.Release(address)

	pending_entries, err := engine.Ledger.ListPending(ctx, address)
	if err != nil {
		return nil, err
	}

	result := &ReceiveAllResult{
		TotalAmount: new(types.Amount),
		Entries:     make([]*ReceiveEntryResult, 0, len(pending_entries)),
	}

	for _, pending := range pending_entries {
		entry_result := engine.receiveOneLocked(ctx, address, private_key, pending)
		result.Entries = append(result.Entries, entry_result)

		if !entry_result.Success {
			continue
		}

		result.ReceivedCount++

		total, err := result.TotalAmount.Add(pending.Amount)
		if err == nil {
			result.TotalAmount = total
		}
	}

	return result, nil
}

// receiveOneLocked runs the bounded-retry state machine for one entry.
// Every attempt starts from a fresh account state: a stale previous hash
// is the single most common rejection cause, so nothing built in an
// earlier attempt is reused.
func (engine *TransactionEngine) receiveOneLocked(ctx context.Context, address *types.Address, private_key ed25519.PrivateKey, pending *types.PendingEntry) *ReceiveEntryResult {
	pending_hash := pending.BlockHash

	result := &ReceiveEntryResult{
		PendingHash: &pending_hash,
		Amount:      pending.Amount,
	}

	var last_err error

	for attempt_number := 1; attempt_number <= engine.MaxRetries; attempt_number++ {
		result.Attempts = attempt_number

		if attempt_number > 1 && engine.RetryDelay > 0 {
			engine.Clock.Sleep(engine.RetryDelay)
		}

		attempt := newReceiveAttempt()

		block_hash, err := engine.receiveAttempt(ctx, attempt, address, private_key, pending)
		if err == nil {
			result.Success = true
			result.BlockHash = block_hash
			result.FinalState = StateConfirmed.String()

			engine.Logger.Println("Received", pending.Amount.String(), "raw into", address.ToNanoAddress(), "block", block_hash.ToHexString())

			return result
		}

		last_err = err

		if !IsStateConflict(err) {
			break
		}

		engine.Logger.Println("State conflict receiving", pending_hash.ToHexString(), "attempt", attempt_number, "- refetching account state")
	}

	result.FinalState = StateFailed.String()
	result.Error = last_err.Error()

	return result
}

// receiveAttempt is a single pass through the state machine.
func (engine *TransactionEngine) receiveAttempt(ctx context.Context, attempt *receiveAttempt, address *types.Address, private_key ed25519.PrivateKey, pending *types.PendingEntry) (*types.Hash, error) {
	attempt.transition(StateBuilding)

	state, err := engine.Ledger.GetAccountState(ctx, address)
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}

		// First receive of a fresh account: synthesize an unopened state
		// so the builder emits the open variant.
		state = &types.AccountState{
			Address: *address,
			Balance: new(types.Amount),
			Opened:  false,
		}
	}

	block, err := BuildReceiveBlock(state, pending, engine.OpenRepresentative)
	if err != nil {
		return nil, err
	}

	attempt.transition(StateSigning)

	signature, err := Sign(block, private_key)
	if err != nil {
		return nil, err
	}
	block.Signature = signature

	attempt.transition(StateWorkRequested)

	// Opening blocks are accepted at the lower receive threshold; an
	// opened account's blocks use the standard threshold.
	difficulty := SendWorkDifficulty
	if !state.Opened {
		difficulty = ReceiveWorkDifficulty
	}

	work, err := engine.Work.GenerateWork(ctx, block.Root(), difficulty)
	if err != nil {
		return nil, errors.Wrapf(ErrWorkGeneration, "work for receive into %s: %v", address.ToNanoAddress(), err)
	}
	block.Work = work

	attempt.transition(StateSubmitting)

	hash, err := engine.Ledger.SubmitBlock(ctx, block)
	if err != nil {
		return nil, err
	}

	attempt.transition(StateConfirmed)

	return hash, nil
}
