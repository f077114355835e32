package rewards

import (
	"context"
	"log"
	"math/big"
	"os"
	"time"

	"github.com/nanogallery/nanopay/types"
	"github.com/nanogallery/nanopay/wallet"
	"github.com/shryder/ed25519-blake2b"
)

// DefaultCapBasisPoints caps a single recipient at 5% of the pool.
const DefaultCapBasisPoints = 500

type DistributorOptions struct {
	// CapBasisPoints is the per-recipient cap as basis points of the
	// pool balance.
	CapBasisPoints uint64

	// DustThreshold drops plan entries below it (0.0001 XNO = 10^26 raw
	// by default).
	DustThreshold *types.Amount

	Logger *log.Logger
}

// PoolDistributor pays the reward pool out to creators proportionally to
// engagement, capped per recipient with a single excess-redistribution
// pass.
type PoolDistributor struct {
	Engine   PaymentSender
	Ledger   wallet.LedgerClient
	Source   EngagementSource
	Recorder PaymentRecorder

	CapBasisPoints uint64
	DustThreshold  *types.Amount
	Logger         *log.Logger
}

// DefaultDustThreshold returns 10^26 raw, the 0.0001 XNO documented
// minimum payout.
func DefaultDustThreshold() *types.Amount {
	dust, _ := types.AmountFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(26), nil))
	return dust
}

func NewPoolDistributor(engine PaymentSender, ledger_client wallet.LedgerClient, source EngagementSource, recorder PaymentRecorder, opts DistributorOptions) *PoolDistributor {
	if opts.CapBasisPoints == 0 {
		opts.CapBasisPoints = DefaultCapBasisPoints
	}

	if opts.DustThreshold == nil {
		opts.DustThreshold = DefaultDustThreshold()
	}

	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "distributor: ", log.LstdFlags)
	}

	return &PoolDistributor{
		Engine:         engine,
		Ledger:         ledger_client,
		Source:         source,
		Recorder:       recorder,
		CapBasisPoints: opts.CapBasisPoints,
		DustThreshold:  opts.DustThreshold,
		Logger:         opts.Logger,
	}
}

type PlanEntry struct {
	Address string        `json:"address"`
	Amount  *types.Amount `json:"amount"`
}

// BuildPlan fixes every payout amount before any transaction is sent.
//
// rawShare = pool * score / totalScore, capped at capBasisPoints of the
// pool. The capped excess is redistributed proportionally among creators
// not at the cap, in a single pass: a recipient pushed over the cap by
// redistribution is clamped and the remainder stays in the pool rather
// than triggering another pass.
func BuildPlan(pool *types.Amount, scores []EngagementScore, cap_basis_points uint64, dust *types.Amount) []PlanEntry {
	pool_raw := pool.BigInt()

	type share struct {
		score  *big.Int
		raw    *big.Int
		capped bool
	}

	total_score := new(big.Int)
	shares := make([]*share, len(scores))
	for i := range scores {
		scaled := new(big.Int).SetUint64(scores[i].Scaled())
		shares[i] = &share{score: scaled}
		total_score.Add(total_score, scaled)
	}

	if total_score.Sign() == 0 || pool_raw.Sign() == 0 {
		return nil
	}

	cap_raw := new(big.Int).Mul(pool_raw, new(big.Int).SetUint64(cap_basis_points))
	cap_raw.Div(cap_raw, big.NewInt(10000))

	// Proportional shares, capped; collect the excess.
	excess := new(big.Int)
	uncapped_score := new(big.Int)
	for _, entry := range shares {
		raw := new(big.Int).Mul(pool_raw, entry.score)
		raw.Div(raw, total_score)

		if raw.Cmp(cap_raw) > 0 {
			excess.Add(excess, new(big.Int).Sub(raw, cap_raw))
			entry.raw = new(big.Int).Set(cap_raw)
			entry.capped = true
		} else {
			entry.raw = raw
			uncapped_score.Add(uncapped_score, entry.score)
		}
	}

	// Single redistribution pass across creators not at the cap.
	if excess.Sign() > 0 && uncapped_score.Sign() > 0 {
		for _, entry := range shares {
			if entry.capped {
				continue
			}

			extra := new(big.Int).Mul(excess, entry.score)
			extra.Div(extra, uncapped_score)
			entry.raw.Add(entry.raw, extra)

			if entry.raw.Cmp(cap_raw) > 0 {
				entry.raw.Set(cap_raw)
			}
		}
	}

	plan := make([]PlanEntry, 0, len(shares))
	for i, entry := range shares {
		amount, err := types.AmountFromBigInt(entry.raw)
		if err != nil {
			continue
		}

		if dust != nil && amount.Cmp(dust) < 0 {
			continue
		}

		plan = append(plan, PlanEntry{
			Address: scores[i].Address,
			Amount:  amount,
		})
	}

	return plan
}

type RecipientResult struct {
	Address string        `json:"address"`
	Amount  *types.Amount `json:"amount"`
	Success bool          `json:"success"`
	Hash    *types.Hash   `json:"hash,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type DistributionResult struct {
	Success    bool               `json:"success"`
	PoolAmount *types.Amount      `json:"pool_amount,omitempty"`
	TotalSent  *types.Amount      `json:"total_sent"`
	SentCount  int                `json:"sent_count"`
	Recipients []*RecipientResult `json:"recipients"`
	Error      string             `json:"error,omitempty"`
}

// RunDistribution snapshots engagement, fixes the plan against the
// pool's current balance, then issues one send per recipient. A failed
// recipient never aborts the rest; the run reports per-recipient
// outcomes and the total actually sent.
func (distributor *PoolDistributor) RunDistribution(ctx context.Context, pool_address *types.Address, private_key ed25519.PrivateKey) *DistributionResult {
	result := &DistributionResult{
		TotalSent:  new(types.Amount),
		Recipients: make([]*RecipientResult, 0),
	}

	state, err := distributor.Ledger.GetAccountState(ctx, pool_address)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if state.Balance.IsZero() || state.Balance.Cmp(distributor.DustThreshold) < 0 {
		result.Error = ErrInsufficientPoolFunds.Error()
		return result
	}
	result.PoolAmount = state.Balance

	scores, err := distributor.Source.GetScores()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	plan := BuildPlan(state.Balance, scores, distributor.CapBasisPoints, distributor.DustThreshold)
	if len(plan) == 0 {
		result.Error = ErrInsufficientPoolFunds.Error()
		return result
	}

	distributor.Logger.Println("Distributing", state.Balance.String(), "raw across", len(plan), "creators")

	failures := 0
	for _, entry := range plan {
		recipient := &RecipientResult{
			Address: entry.Address,
			Amount:  entry.Amount,
		}
		result.Recipients = append(result.Recipients, recipient)

		to_address, err := types.DecodeNanoAddress(entry.Address)
		if err != nil {
			recipient.Error = wallet.ErrInvalidAddress.Error()
			failures++
			continue
		}

		send_result, err := distributor.Engine.Send(ctx, pool_address, private_key, to_address, entry.Amount)
		if err != nil {
			distributor.Logger.Println("Distribution send to", entry.Address, "failed:", err)

			recipient.Error = err.Error()
			failures++
			continue
		}

		recipient.Success = true
		recipient.Hash = send_result.Hash
		result.SentCount++

		total, err := result.TotalSent.Add(entry.Amount)
		if err == nil {
			result.TotalSent = total
		}

		distributor.Recorder.Record(PaymentRecord{
			FromWallet: pool_address.ToNanoAddress(),
			ToWallet:   entry.Address,
			Amount:     entry.Amount,
			Hash:       send_result.Hash,
			Type:       PaymentTypeDistribution,
			Timestamp:  time.Now(),
		})
	}

	result.Success = failures == 0

	return result
}
