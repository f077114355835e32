package rewards_test

import (
	"context"
	"testing"

	"github.com/nanogallery/nanopay/rewards"
	"github.com/nanogallery/nanopay/types"
	"github.com/nanogallery/nanopay/wallet"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type mockLedger struct {
	State *types.AccountState
	Err   error
}

func (ledger *mockLedger) GetAccountState(ctx context.Context, address *types.Address) (*types.AccountState, error) {
	if ledger.Err != nil {
		return nil, ledger.Err
	}

	snapshot := *ledger.State

	return &snapshot, nil
}

func (ledger *mockLedger) ListPending(ctx context.Context, address *types.Address) ([]*types.PendingEntry, error) {
	return nil, nil
}

func (ledger *mockLedger) SubmitBlock(ctx context.Context, block *types.Block) (*types.Hash, error) {
	return nil, errors.New("not used")
}

type mockScores struct {
	Scores []rewards.EngagementScore
}

func (source *mockScores) GetScores() ([]rewards.EngagementScore, error) {
	return source.Scores, nil
}

// contentScore builds a score whose scaled value is content_count*700.
func contentScore(address *types.Address, content_count uint64) rewards.EngagementScore {
	return rewards.EngagementScore{
		Address:      address.ToNanoAddress(),
		ContentCount: content_count,
	}
}

func TestEngagementScoreWeights(t *testing.T) {
	score := rewards.EngagementScore{ContentCount: 10, LikeCount: 10}

	// 10*0.7 + 10*0.3 = 10, per-mille scaled.
	require.Equal(t, uint64(10000), score.Scaled())
}

func TestBuildPlanProportionalNoCap(t *testing.T) {
	_, a := testKeyPair(t, 1)
	_, b := testKeyPair(t, 2)

	pool := rawAmount(t, "100")
	scores := []rewards.EngagementScore{
		contentScore(a, 70),
		contentScore(b, 30),
	}

	// Cap at 70%: neither share exceeds it, zero redistribution.
	plan := rewards.BuildPlan(pool, scores, 7000, nil)
	require.Len(t, plan, 2)
	require.Equal(t, "70", plan[0].Amount.String())
	require.Equal(t, "30", plan[1].Amount.String())
}

func TestBuildPlanCapAndRedistribution(t *testing.T) {
	_, a := testKeyPair(t, 1)
	_, b := testKeyPair(t, 2)
	_, c := testKeyPair(t, 3)

	pool := rawAmount(t, "1000")
	scores := []rewards.EngagementScore{
		contentScore(a, 500),
		contentScore(b, 300),
		contentScore(c, 200),
	}

	// Cap 40%: A's raw share of 500 is capped at 400; the 100 excess is
	// redistributed 300:200 across B and C in a single pass.
	plan := rewards.BuildPlan(pool, scores, 4000, nil)
	require.Len(t, plan, 3)
	require.Equal(t, "400", plan[0].Amount.String())
	require.Equal(t, "360", plan[1].Amount.String())
	require.Equal(t, "240", plan[2].Amount.String())

	// Excess fully accounted for: payouts sum exactly to the pool.
	total := new(types.Amount)
	for _, entry := range plan {
		sum, err := total.Add(entry.Amount)
		require.NoError(t, err)
		total = sum
	}
	require.Equal(t, "1000", total.String())
}

func TestBuildPlanNeverExceedsPool(t *testing.T) {
	_, a := testKeyPair(t, 1)
	_, b := testKeyPair(t, 2)
	_, c := testKeyPair(t, 3)
	_, d := testKeyPair(t, 4)

	pool := rawAmount(t, "997")
	scores := []rewards.EngagementScore{
		contentScore(a, 91),
		contentScore(b, 53),
		contentScore(c, 7),
		contentScore(d, 3),
	}

	plan := rewards.BuildPlan(pool, scores, 5000, nil)

	total := new(types.Amount)
	for _, entry := range plan {
		sum, err := total.Add(entry.Amount)
		require.NoError(t, err)
		total = sum
	}
	require.LessOrEqual(t, total.Cmp(pool), 0)
}

func TestBuildPlanDropsDust(t *testing.T) {
	_, a := testKeyPair(t, 1)
	_, b := testKeyPair(t, 2)

	pool := rawAmount(t, "1000")
	scores := []rewards.EngagementScore{
		contentScore(a, 9999),
		contentScore(b, 1),
	}

	// B's share rounds to 0 raw and is dropped outright; with a dust
	// threshold of 10 even a nonzero crumb would go.
	plan := rewards.BuildPlan(pool, scores, 10000, rawAmount(t, "10"))
	require.Len(t, plan, 1)
	require.Equal(t, a.ToNanoAddress(), plan[0].Address)
}

func TestBuildPlanEmptyScores(t *testing.T) {
	require.Empty(t, rewards.BuildPlan(rawAmount(t, "1000"), nil, 5000, nil))
	require.Empty(t, rewards.BuildPlan(rawAmount(t, "0"), []rewards.EngagementScore{{Address: "x", ContentCount: 1}}, 5000, nil))
}

func newTestDistributor(sender *mockSender, ledger *mockLedger, source *mockScores, recorder *mockRecorder, cap_basis_points uint64, dust *types.Amount) *rewards.PoolDistributor {
	return rewards.NewPoolDistributor(sender, ledger, source, recorder, rewards.DistributorOptions{
		CapBasisPoints: cap_basis_points,
		DustThreshold:  dust,
	})
}

func TestRunDistribution(t *testing.T) {
	pool_key, pool := testKeyPair(t, 9)
	_, a := testKeyPair(t, 1)
	_, b := testKeyPair(t, 2)

	ledger := &mockLedger{
		State: &types.AccountState{
			Address: *pool,
			Balance: rawAmount(t, "100"),
			Opened:  true,
		},
	}
	sender := &mockSender{}
	recorder := &mockRecorder{}
	source := &mockScores{Scores: []rewards.EngagementScore{
		contentScore(a, 70),
		contentScore(b, 30),
	}}

	distributor := newTestDistributor(sender, ledger, source, recorder, 7000, rawAmount(t, "1"))

	result := distributor.RunDistribution(context.Background(), pool, pool_key)

	require.True(t, result.Success)
	require.Equal(t, 2, result.SentCount)
	require.Equal(t, "100", result.TotalSent.String())
	require.Len(t, result.Recipients, 2)
	require.Len(t, recorder.Records, 2)
	require.Equal(t, rewards.PaymentTypeDistribution, recorder.Records[0].Type)
}

func TestRunDistributionPartialFailure(t *testing.T) {
	pool_key, pool := testKeyPair(t, 9)
	_, a := testKeyPair(t, 1)
	_, b := testKeyPair(t, 2)
	_, c := testKeyPair(t, 3)

	ledger := &mockLedger{
		State: &types.AccountState{
			Address: *pool,
			Balance: rawAmount(t, "1000"),
			Opened:  true,
		},
	}
	sender := &mockSender{
		FailFor: map[string]error{
			b.ToNanoAddress(): errors.Wrap(wallet.ErrLedgerUnavailable, "node went away"),
		},
	}
	recorder := &mockRecorder{}
	source := &mockScores{Scores: []rewards.EngagementScore{
		contentScore(a, 500),
		contentScore(b, 300),
		contentScore(c, 200),
	}}

	distributor := newTestDistributor(sender, ledger, source, recorder, 4000, rawAmount(t, "1"))

	result := distributor.RunDistribution(context.Background(), pool, pool_key)

	// B's failure does not abort A or C.
	require.False(t, result.Success)
	require.Equal(t, 2, result.SentCount)
	require.Equal(t, "640", result.TotalSent.String())
	require.Len(t, result.Recipients, 3)

	require.True(t, result.Recipients[0].Success)
	require.False(t, result.Recipients[1].Success)
	require.Contains(t, result.Recipients[1].Error, "LedgerUnavailable")
	require.True(t, result.Recipients[2].Success)

	require.Len(t, recorder.Records, 2)
}

func TestRunDistributionInsufficientPoolFunds(t *testing.T) {
	pool_key, pool := testKeyPair(t, 9)

	ledger := &mockLedger{
		State: &types.AccountState{
			Address: *pool,
			Balance: rawAmount(t, "0"),
			Opened:  true,
		},
	}

	distributor := newTestDistributor(&mockSender{}, ledger, &mockScores{}, &mockRecorder{}, 5000, rawAmount(t, "1"))

	result := distributor.RunDistribution(context.Background(), pool, pool_key)
	require.False(t, result.Success)
	require.Equal(t, rewards.ErrInsufficientPoolFunds.Error(), result.Error)
	require.Zero(t, result.SentCount)
}

func TestRunDistributionLedgerError(t *testing.T) {
	pool_key, pool := testKeyPair(t, 9)

	ledger := &mockLedger{Err: errors.Wrap(wallet.ErrLedgerUnavailable, "connection refused")}
	distributor := newTestDistributor(&mockSender{}, ledger, &mockScores{}, &mockRecorder{}, 5000, rawAmount(t, "1"))

	result := distributor.RunDistribution(context.Background(), pool, pool_key)
	require.False(t, result.Success)
	require.Contains(t, result.Error, "LedgerUnavailable")
}
