package node

import (
	"github.com/nanogallery/nanopay/database"
	"github.com/nanogallery/nanopay/ledger"
	"github.com/nanogallery/nanopay/rpc"
)

type EngineConfig struct {
	// MaxRetries bounds per-entry attempts on state conflicts.
	MaxRetries   uint
	RetryDelayMs uint

	// Representative installed by account-opening blocks.
	OpenRepresentative string
}

type RewardsConfig struct {
	// PoolAddress receives the 20% leg of every upvote and funds the
	// daily distribution.
	PoolAddress string

	// CapBasisPoints is the per-recipient payout cap in basis points of
	// the pool balance (500 = 5%).
	CapBasisPoints uint

	// DustThresholdXNO drops payouts below it, as an XNO decimal string.
	DustThresholdXNO string
}

type Config struct {
	RPC      ledger.Config
	HTTP     rpc.HTTPConfig
	Engine   EngineConfig
	Rewards  RewardsConfig
	Database database.Config
}
