// Package genesis bootstraps a deterministic fake network for development
// and tests: an authorized node roster plus the per-network-chain genesis
// addresses miners check transaction continuity against (spec.md §4.3 step
// 2, verifyNetworkChainContinuity in package pendingvalidation).
package genesis

import (
	"crypto/ecdsa"
	"math/rand"
	"time"

	lachesishash "github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/inter"
	"github.com/archethic-network/mining-core/node"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

// FakeTime is the default validation-time reference for a fake network,
// chosen so fixture transactions carry a plausible, stable timestamp.
var FakeTime = inter.TimestampFromTime(time.Unix(1608600000, 0).UTC())

// FakeKey deterministically derives the n-th fake private key: same n
// always yields the same key, so fixture roles (sender, node 3, origin
// authority...) stay stable across test runs without persisting keys.
func FakeKey(n int) *ecdsa.PrivateKey {
	seed := make([]byte, 32)
	rand.New(rand.NewSource(int64(n))).Read(seed)
	key, err := gethcrypto.ToECDSA(seed)
	if err != nil {
		panic(err)
	}
	return key
}

// patches cycles a small, fixed set of geo patches across a fake roster so
// election's diversify tie-break has something to diversify over.
var patches = []string{"EU", "US", "AS", "SA"}

// Network is a deterministic fake network: an authorized node roster and
// the one-address-per-type genesis chain a node's pending validation checks
// network transactions against.
type Network struct {
	Roster              []node.Node
	Keys                []*ecdsa.PrivateKey
	NetworkChainGenesis map[inter.TxType]crypto.Address
	Hash                lachesishash.Hash
}

// BuildNetwork constructs a fake network of n nodes and a genesis address
// for every network-scoped transaction type (spec.md glossary: "network
// transaction types... their chains start at a fixed genesis address every
// node is seeded with").
func BuildNetwork(n int) Network {
	roster := make([]node.Node, n)
	keys := make([]*ecdsa.PrivateKey, n)
	for i := 0; i < n; i++ {
		key := FakeKey(i)
		kp := crypto.NewKeyPair(key, crypto.OriginOnChain)
		keys[i] = key
		roster[i] = node.Node{
			PublicKey:      kp.PublicKey(),
			FirstPublicKey: kp.PublicKey(),
			GeoPatch:       patches[i%len(patches)],
		}
	}

	genesisChains := map[inter.TxType]crypto.Address{}
	networkTypes := []inter.TxType{
		inter.TxNodeSharedSecrets, inter.TxOracle, inter.TxOracleSummary,
		inter.TxMintRewards, inter.TxNodeRewards, inter.TxOrigin,
	}
	for i, t := range networkTypes {
		genesisKey := FakeKey(1000 + i)
		genesisChains[t] = crypto.DeriveAddress(crypto.NewKeyPair(genesisKey, crypto.OriginOnChain).PublicKey(), crypto.HashSHA256)
	}

	return Network{
		Roster:              roster,
		Keys:                keys,
		NetworkChainGenesis: genesisChains,
		Hash:                networkHash(roster),
	}
}

// networkHash fingerprints the roster's public keys so two fake networks
// built with the same n are trivially recognizable as identical.
func networkHash(roster []node.Node) lachesishash.Hash {
	h := sha3.New256()
	for _, n := range roster {
		h.Write(n.PublicKey.Bytes())
	}
	return lachesishash.BytesToHash(h.Sum(nil))
}
