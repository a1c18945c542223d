// Package node models the authorized-node roster Election reads from:
// the set of nodes a transaction's committee and storage assignments are
// computed against. The roster itself is a read-mostly, single-writer
// table (spec.md §5) — readers never block, a writer publishes a new
// snapshot atomically on each network-event message.
package node

import (
	"sort"
	"time"

	"github.com/archethic-network/mining-core/crypto"
)

// Node is one authorized participant in the network.
type Node struct {
	PublicKey         crypto.PublicKey
	FirstPublicKey    crypto.PublicKey // identity key: stable across the node's own key chain
	IP                string
	Port              int
	HTTPPort          int
	GeoPatch          string
	AuthorizationDate time.Time
	Available         bool
}

// Rank orders nodes deterministically for tie-breaking and for the
// node-responsiveness fallback (spec.md §4.3): every honest node must
// compute the same ordering given the same roster.
func Rank(nodes []Node) []Node {
	ranked := make([]Node, len(nodes))
	copy(ranked, nodes)
	sort.Slice(ranked, func(i, j int) bool {
		return string(ranked[i].PublicKey.Bytes()) < string(ranked[j].PublicKey.Bytes())
	})
	return ranked
}
