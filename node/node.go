package node

import (
	"log"
	"time"

	"github.com/nanogallery/nanopay/database"
	"github.com/nanogallery/nanopay/ledger"
	"github.com/nanogallery/nanopay/rewards"
	"github.com/nanogallery/nanopay/rpc"
	"github.com/nanogallery/nanopay/types"
	"github.com/nanogallery/nanopay/utils"
	"github.com/nanogallery/nanopay/wallet"
	"github.com/pkg/errors"
)

type Node struct {
	http        *rpc.HTTPRPCServer
	ledger      *ledger.Client
	work        *ledger.WorkClient
	engine      *wallet.TransactionEngine
	splitter    *rewards.RewardSplitter
	distributor *rewards.PoolDistributor
	database    *database.Database
}

func New(cfg *Config) (*Node, error) {
	pool_address, err := types.DecodeNanoAddress(cfg.Rewards.PoolAddress)
	if err != nil {
		return nil, errors.Wrap(err, "invalid Rewards.PoolAddress")
	}

	var open_representative *types.Address
	if cfg.Engine.OpenRepresentative != "" {
		open_representative, err = types.DecodeNanoAddress(cfg.Engine.OpenRepresentative)
		if err != nil {
			return nil, errors.Wrap(err, "invalid Engine.OpenRepresentative")
		}
	}

	dust := rewards.DefaultDustThreshold()
	if cfg.Rewards.DustThresholdXNO != "" {
		dust, err = utils.XNOToRaw(cfg.Rewards.DustThresholdXNO)
		if err != nil {
			return nil, errors.Wrap(err, "invalid Rewards.DustThresholdXNO")
		}
	}

	db := database.New(&cfg.Database)
	ledger_client := ledger.NewClient(cfg.RPC.NodeURL)
	work_client := ledger.NewWorkClient(cfg.RPC.WorkURL)

	engine := wallet.NewTransactionEngine(ledger_client, work_client, wallet.EngineOptions{
		MaxRetries:         int(cfg.Engine.MaxRetries),
		RetryDelay:         time.Duration(cfg.Engine.RetryDelayMs) * time.Millisecond,
		OpenRepresentative: open_representative,
	})

	recorder := &paymentRecorder{Database: db}
	source := &engagementSource{Database: db}

	node := Node{
		http:     rpc.NewHTTPRPCServer(&cfg.HTTP),
		ledger:   ledger_client,
		work:     work_client,
		engine:   engine,
		splitter: rewards.NewRewardSplitter(engine, recorder, pool_address),
		database: db,
	}

	node.distributor = rewards.NewPoolDistributor(engine, ledger_client, source, recorder, rewards.DistributorOptions{
		CapBasisPoints: uint64(cfg.Rewards.CapBasisPoints),
		DustThreshold:  dust,
	})

	return &node, nil
}

func (node *Node) Start() {
	err := node.database.ValidateAndStart()
	if err != nil {
		log.Fatalln("Error starting database:", err)
	}

	err = node.http.ValidateAndStart(node.engine, node.splitter, node.distributor, node.ledger, node.database)
	if err != nil {
		log.Fatalln("Error starting HTTP server:", err)
	}

	select {}
}
