package wallet

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nanogallery/nanopay/types"
	"github.com/pkg/errors"
	"github.com/shryder/ed25519-blake2b"
)

// Work difficulty thresholds. Account-opening blocks are accepted at a
// lower threshold than blocks on an already-opened account.
const (
	SendWorkDifficulty    = "fffffff800000000"
	ReceiveWorkDifficulty = "fffffe0000000000"
)

const DefaultMaxRetries = 4

// LedgerClient is the gateway to the ledger RPC node.
type LedgerClient interface {
	GetAccountState(ctx context.Context, address *types.Address) (*types.AccountState, error)
	ListPending(ctx context.Context, address *types.Address) ([]*types.PendingEntry, error)
	SubmitBlock(ctx context.Context, block *types.Block) (*types.Hash, error)
}

// WorkProvider generates proof-of-work for a block root at a difficulty
// threshold.
type WorkProvider interface {
	GenerateWork(ctx context.Context, root *types.Hash, difficulty string) (*types.Work, error)
}

type EngineOptions struct {
	// MaxRetries bounds attempts per pending entry on StateConflict.
	MaxRetries int
	RetryDelay time.Duration

	// OpenRepresentative is installed by open blocks. Nil means the
	// account represents itself.
	OpenRepresentative *types.Address

	Logger *log.Logger
	Clock  clockwork.Clock
}

// TransactionEngine executes single sends and receives against the
// ledger. All mutations of one account are serialized through Locks.
type TransactionEngine struct {
	Ledger LedgerClient
	Work   WorkProvider
	Locks  *AccountLocks

	MaxRetries         int
	RetryDelay         time.Duration
	OpenRepresentative *types.Address

	Logger *log.Logger
	Clock  clockwork.Clock
}

func NewTransactionEngine(ledger LedgerClient, work WorkProvider, opts EngineOptions) *TransactionEngine {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}

	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "engine: ", log.LstdFlags)
	}

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	return &TransactionEngine{
		Ledger:             ledger,
		Work:               work,
		Locks:              NewAccountLocks(),
		MaxRetries:         opts.MaxRetries,
		RetryDelay:         opts.RetryDelay,
		OpenRepresentative: opts.OpenRepresentative,
		Logger:             opts.Logger,
		Clock:              opts.Clock,
	}
}

type SendResult struct {
	Hash   *types.Hash   `json:"hash"`
	Amount *types.Amount `json:"amount"`
}

// Send moves amount from the key's account to the destination. The
// account state is fetched fresh under the account lock, and the lock is
// held until the submission resolves. Submission rejections are not
// retried: the caller's intended balance delta may already be stale.
func (engine *TransactionEngine) Send(ctx context.Context, from *types.Address, private_key ed25519.PrivateKey, to *types.Address, amount *types.Amount) (*SendResult, error) {
	if !KeyMatchesAccount(private_key, from) {
		return nil, errors.Wrap(ErrInvalidKey, "private key does not match sender account")
	}

	engine.Locks.Acquire(from)
	defer engine.Locks.Release(from)

	return engine.sendLocked(ctx, from, private_key, to, amount)
}

func (engine *TransactionEngine) sendLocked(ctx context.Context, from *types.Address, private_key ed25519.PrivateKey, to *types.Address, amount *types.Amount) (*SendResult, error) {
	state, err := engine.Ledger.GetAccountState(ctx, from)
	if err != nil {
		return nil, err
	}

	block, err := BuildSendBlock(state, to, amount)
	if err != nil {
		return nil, err
	}

	signature, err := Sign(block, private_key)
	if err != nil {
		return nil, err
	}
	block.Signature = signature

	work, err := engine.Work.GenerateWork(ctx, block.Root(), SendWorkDifficulty)
	if err != nil {
		return nil, errors.Wrapf(ErrWorkGeneration, "work for send from %s: %v", from.ToNanoAddress(), err)
	}
	block.Work = work

	hash, err := engine.Ledger.SubmitBlock(ctx, block)
	if err != nil {
		return nil, err
	}

	engine.Logger.Println("Sent", amount.String(), "raw from", from.ToNanoAddress(), "to", to.ToNanoAddress(), "block", hash.ToHexString())

	return &SendResult{Hash: hash, Amount: amount}, nil
}
