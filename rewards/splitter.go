package rewards

import (
	"context"
	"log"
	"math/big"
	"os"
	"time"

	"github.com/nanogallery/nanopay/types"
	"github.com/nanogallery/nanopay/wallet"
	"github.com/pkg/errors"
	"github.com/shryder/ed25519-blake2b"
)

// CreatorSharePercent of an upvote goes to the creator, the remainder to
// the daily reward pool.
const CreatorSharePercent = 80

// Result error codes surfaced to the product layer.
const (
	ErrorCreatorPaymentFailed = "CreatorPaymentFailed"
	ErrorPoolPaymentFailed    = "PoolPaymentFailed"
)

var ErrInsufficientPoolFunds = errors.New("InsufficientPoolFunds")

// PaymentSender is the slice of the transaction engine the reward
// components drive.
type PaymentSender interface {
	Send(ctx context.Context, from *types.Address, private_key ed25519.PrivateKey, to *types.Address, amount *types.Amount) (*wallet.SendResult, error)
}

// RewardSplitter turns one upvote payment into a creator leg and a pool
// leg, executed through the transaction engine.
type RewardSplitter struct {
	Engine      PaymentSender
	Recorder    PaymentRecorder
	PoolAddress *types.Address
	Logger      *log.Logger
}

func NewRewardSplitter(engine PaymentSender, recorder PaymentRecorder, pool_address *types.Address) *RewardSplitter {
	return &RewardSplitter{
		Engine:      engine,
		Recorder:    recorder,
		PoolAddress: pool_address,
		Logger:      log.New(os.Stdout, "rewards: ", log.LstdFlags),
	}
}

// SplitUpvote computes the 80/20 split. The pool share is derived by
// subtraction so the two parts always sum exactly to the input.
func SplitUpvote(total *types.Amount) (*types.Amount, *types.Amount, error) {
	if total == nil || total.IsZero() {
		return nil, nil, errors.Wrap(wallet.ErrInvalidAmount, "upvote amount must be positive")
	}

	creator_raw := new(big.Int).Mul(total.BigInt(), big.NewInt(CreatorSharePercent))
	creator_raw.Div(creator_raw, big.NewInt(100))

	creator_amount, err := types.AmountFromBigInt(creator_raw)
	if err != nil {
		return nil, nil, err
	}

	pool_amount, err := total.Sub(creator_amount)
	if err != nil {
		return nil, nil, err
	}

	return creator_amount, pool_amount, nil
}

type UpvoteResult struct {
	Success       bool          `json:"success"`
	CreatorHash   *types.Hash   `json:"creator_hash,omitempty"`
	PoolHash      *types.Hash   `json:"pool_hash,omitempty"`
	CreatorAmount *types.Amount `json:"creator_amount,omitempty"`
	PoolAmount    *types.Amount `json:"pool_amount,omitempty"`
	Error         string        `json:"error,omitempty"`
	ErrorDetail   string        `json:"error_detail,omitempty"`
}

// ProcessUpvote sends the creator leg first, then the pool leg. A failed
// creator leg aborts the whole upvote; a failed pool leg after a
// confirmed creator leg is reported as partial success carrying the
// creator hash, so the caller can retry only the pool leg.
func (splitter *RewardSplitter) ProcessUpvote(ctx context.Context, payer *types.Address, private_key ed25519.PrivateKey, creator *types.Address, content_id string, total *types.Amount) *UpvoteResult {
	creator_amount, pool_amount, err := SplitUpvote(total)
	if err != nil {
		return &UpvoteResult{
			Success:     false,
			Error:       ErrorCreatorPaymentFailed,
			ErrorDetail: err.Error(),
		}
	}

	result := &UpvoteResult{
		CreatorAmount: creator_amount,
		PoolAmount:    pool_amount,
	}

	// Creator leg first: the creator is the primary beneficiary and must
	// never be skipped on partial failure.
	creator_send, err := splitter.Engine.Send(ctx, payer, private_key, creator, creator_amount)
	if err != nil {
		splitter.Logger.Println("Creator leg failed for content", content_id, ":", err)

		result.Error = ErrorCreatorPaymentFailed
		result.ErrorDetail = err.Error()

		return result
	}

	result.CreatorHash = creator_send.Hash

	splitter.Recorder.Record(PaymentRecord{
		FromWallet: payer.ToNanoAddress(),
		ToWallet:   creator.ToNanoAddress(),
		Amount:     creator_amount,
		Hash:       creator_send.Hash,
		ContentID:  content_id,
		Type:       PaymentTypeUpvoteCreator,
		Timestamp:  time.Now(),
	})

	pool_send, err := splitter.Engine.Send(ctx, payer, private_key, splitter.PoolAddress, pool_amount)
	if err != nil {
		splitter.Logger.Println("Pool leg failed for content", content_id, "after creator leg", creator_send.Hash.ToHexString(), ":", err)

		result.Error = ErrorPoolPaymentFailed
		result.ErrorDetail = err.Error()

		return result
	}

	result.PoolHash = pool_send.Hash
	result.Success = true

	splitter.Recorder.Record(PaymentRecord{
		FromWallet: payer.ToNanoAddress(),
		ToWallet:   splitter.PoolAddress.ToNanoAddress(),
		Amount:     pool_amount,
		Hash:       pool_send.Hash,
		ContentID:  content_id,
		Type:       PaymentTypeUpvotePool,
		Timestamp:  time.Now(),
	})

	return result
}
