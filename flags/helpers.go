// Copyright 2020 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package flags

import (
	"os"

	"github.com/archethic-network/mining-core/config"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	NetworkSizeFlag = cli.IntFlag{
		Name:  "network.size",
		Usage: "number of nodes in the bootstrap fake network",
		Value: config.Default().NetworkSize,
	}
	NodeIndexFlag = cli.IntFlag{
		Name:  "node.index",
		Usage: "index of this process's key within the fake network",
		Value: config.Default().NodeIndex,
	}
	ChainReplicationFlag = cli.IntFlag{
		Name:  "replication.chain",
		Usage: "chain storage replication factor",
		Value: config.Default().ChainReplicationFactor,
	}
	BeaconReplicationFlag = cli.IntFlag{
		Name:  "replication.beacon",
		Usage: "beacon storage replication factor",
		Value: config.Default().BeaconReplicationFactor,
	}
	IOReplicationFlag = cli.IntFlag{
		Name:  "replication.io",
		Usage: "I/O storage replication factor",
		Value: config.Default().IOReplicationFactor,
	}
	UCOPriceFlag = cli.Float64Flag{
		Name:  "oracle.uco-price-usd",
		Usage: "fixed UCO/USD price used until a real oracle is wired in",
		Value: config.Default().UCOPriceUSD,
	}
	LogLevelFlag = cli.StringFlag{
		Name:  "log.level",
		Usage: "logrus level: debug, info, warn, error",
		Value: config.Default().LogLevel,
	}
	LogJSONFlag = cli.BoolFlag{
		Name:  "log.json",
		Usage: "emit JSON-formatted logs",
	}
	SentryDSNFlag = cli.StringFlag{
		Name:  "log.sentry-dsn",
		Usage: "Sentry DSN to forward error-level logs to, empty disables it",
	}
)

// Flags is the full flag set a mining node command line exposes.
var Flags = []cli.Flag{
	NetworkSizeFlag, NodeIndexFlag,
	ChainReplicationFlag, BeaconReplicationFlag, IOReplicationFlag,
	UCOPriceFlag,
	LogLevelFlag, LogJSONFlag, SentryDSNFlag,
}

// FromContext builds a Config from parsed CLI flags.
func FromContext(c *cli.Context) config.Config {
	return config.Config{
		NetworkSize:             c.Int(NetworkSizeFlag.Name),
		NodeIndex:               c.Int(NodeIndexFlag.Name),
		ChainReplicationFactor:  c.Int(ChainReplicationFlag.Name),
		BeaconReplicationFactor: c.Int(BeaconReplicationFlag.Name),
		IOReplicationFactor:     c.Int(IOReplicationFlag.Name),
		UCOPriceUSD:             c.Float64(UCOPriceFlag.Name),
		LogLevel:                c.String(LogLevelFlag.Name),
		LogJSON:                 c.Bool(LogJSONFlag.Name),
		SentryDSN:               c.String(SentryDSNFlag.Name),
	}
}

// NewApp builds the mining node CLI application, running action once flags
// are parsed.
func NewApp(action func(*cli.Context) error) *cli.App {
	app := cli.NewApp()
	app.Name = "mining-node"
	app.Usage = "Archethic mining committee node"
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	app.Flags = Flags
	app.Action = action
	return app
}
