// Package config defines the mining node's runtime configuration and the
// defaults a fresh fake network boots with.
package config

// Config holds everything a mining node needs to join a committee and run
// the coordinator/cross-validator workflow (spec.md §4, §6).
type Config struct {
	// NetworkSize is the number of nodes in the bootstrap fake network
	// (genesis.BuildNetwork); production deployments instead load a real
	// authorized-node roster, which is out of scope here.
	NetworkSize int

	// NodeIndex selects which of the fake network's deterministic keys
	// this process runs as.
	NodeIndex int

	ChainReplicationFactor  int
	BeaconReplicationFactor int
	IOReplicationFactor     int

	// UCOPriceUSD seeds the fixed development oracle (oracle.Fixed) used
	// until a real oracle chain is wired in.
	UCOPriceUSD float64

	LogLevel  string
	LogJSON   bool
	SentryDSN string
}

// Default returns the configuration a single-command fake network boots
// with when no flags override it.
func Default() Config {
	return Config{
		NetworkSize:             7,
		NodeIndex:               0,
		ChainReplicationFactor:  3,
		BeaconReplicationFactor: 2,
		IOReplicationFactor:     1,
		UCOPriceUSD:             1.0,
		LogLevel:                "info",
		LogJSON:                 false,
	}
}
