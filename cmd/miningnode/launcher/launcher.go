// Package launcher parses CLI flags and runs a mining node's bootstrap
// workflow against a deterministic fake network (genesis.BuildNetwork).
package launcher

import (
	"fmt"

	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/feeengine"
	"github.com/archethic-network/mining-core/flags"
	"github.com/archethic-network/mining-core/genesis"
	"github.com/archethic-network/mining-core/inter"
	"github.com/archethic-network/mining-core/logging"
	"github.com/archethic-network/mining-core/mining"
	"github.com/archethic-network/mining-core/oracle"
	cli "gopkg.in/urfave/cli.v1"
)

var app = flags.NewApp(run)

// Launch parses args and runs the node.
func Launch(args []string) error {
	return app.Run(args)
}

// run boots a fake network from cfg and mines one sample standalone
// transaction (spec.md §4.3 variant S1) to prove the wiring end to end;
// production nodes instead serve p2p.Transport requests indefinitely.
func run(c *cli.Context) error {
	cfg := flags.FromContext(c)
	log := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON, SentryDSN: cfg.SentryDSN})

	net := genesis.BuildNetwork(cfg.NetworkSize)
	if cfg.NodeIndex < 0 || cfg.NodeIndex >= len(net.Keys) {
		return fmt.Errorf("node.index %d out of range for network of size %d", cfg.NodeIndex, cfg.NetworkSize)
	}
	log.WithFields(map[string]interface{}{
		"network_size": cfg.NetworkSize,
		"network_hash": net.Hash.String(),
	}).Info("fake network ready")

	nodeKey := crypto.NewKeyPair(net.Keys[cfg.NodeIndex], crypto.OriginOnChain)
	nodeKeys := crypto.NewKeystore(nodeKey, nodeKey)

	senderKey := crypto.NewKeyPair(genesis.FakeKey(9001), crypto.OriginSoftware)
	recipientKey := crypto.NewKeyPair(genesis.FakeKey(9002), crypto.OriginSoftware)
	ring := crypto.NewOriginKeyRing(senderKey.PublicKey())

	tx := inter.Transaction{
		Address:           crypto.DeriveAddress(senderKey.PublicKey(), crypto.HashSHA256),
		Type:              inter.TxTransfer,
		PreviousPublicKey: senderKey.PublicKey(),
		Data: inter.TransactionData{
			Ledger: []inter.TransactionMovement{{
				To:     crypto.DeriveAddress(recipientKey.PublicKey(), crypto.HashSHA256),
				Amount: 1_000_000,
				Type:   inter.UTXOUco,
			}},
		},
	}
	sig, err := senderKey.Sign(tx.PendingBytes())
	if err != nil {
		return err
	}
	tx.PreviousSignature = sig

	available := []inter.UnspentOutput{{
		From: tx.Address, Type: inter.UTXOUco, Amount: 5_000_000, Timestamp: genesis.FakeTime - 1,
	}}

	priceSource := oracle.Fixed{Price: feeengine.Price{USD: cfg.UCOPriceUSD}}
	price, err := priceSource.GetUCOPrice(genesis.FakeTime)
	if err != nil {
		return err
	}

	result, err := mining.RunStandalone(tx, nodeKeys, ring, available, price, nil, crypto.HashSHA256, []byte("bootstrap-seed"), genesis.FakeTime)
	if err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"address": result.Address.String(),
		"fee":     result.ValidationStamp.LedgerOperations.Fee,
	}).Info("standalone mining complete")
	return nil
}
