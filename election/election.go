// Package election implements the deterministic validator and storage-node
// selection every honest node must reproduce identically for a given
// transaction and roster (spec.md §4.1, Testable Property 1).
package election

import (
	"math"
	"sort"

	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/inter"
	"github.com/archethic-network/mining-core/node"
)

const minValidators = 3

// Constraints bounds storage-node elections: how many nodes to pick per
// storage role and how aggressively to diversify by geo patch.
type Constraints struct {
	ChainReplicationFactor  int
	BeaconReplicationFactor int
	IOReplicationFactor     int
}

// Result is the full election outcome for one transaction.
type Result struct {
	ValidationCommittee []node.Node
	ChainStorage        []node.Node
	BeaconStorage       []node.Node
	IOStorage            []node.Node
}

// scored pairs a node with its rendezvous score for one sort.
type scored struct {
	n     node.Node
	score []byte
}

// sortingSeed derives the deterministic per-transaction seed a node scores
// itself against, combining a domain-separating label with the
// transaction's address so no two transactions collide (spec.md §4.1: "derived from the daily-nonce private key applied
// to a deterministic function of the transaction").
func sortingSeed(dailyNonce *crypto.Keystore, label string, tx inter.Transaction) []byte {
	sig, err := dailyNonce.DailyNonce().Sign(append([]byte(label), tx.Address.Bytes()...))
	if err != nil {
		// Fall back to a label+address hash: still deterministic and
		// reproducible by every node, only loses the daily-nonce binding.
		return crypto.Hash(crypto.HashSHA256, []byte(label), tx.Address.Bytes())
	}
	return sig
}

func scoreOf(n node.Node, seed []byte) []byte {
	return crypto.Hash(crypto.HashSHA256, n.FirstPublicKey.Bytes(), seed)
}

// committeeSize computes K = min(max(ceil(log2(|authorized|)), 3), |authorized|),
// falling back to 1 for genesis-scale networks (spec.md §4.1).
func committeeSize(authorized int) int {
	if authorized <= 1 {
		return 1
	}
	k := int(math.Ceil(math.Log2(float64(authorized))))
	if k < minValidators {
		k = minValidators
	}
	if k > authorized {
		k = authorized
	}
	return k
}

// Elect computes the validation committee for tx given the live roster.
// Eligible nodes are those authorized strictly before tx's validation
// timestamp; a node contributing a previously unseen geo patch is
// preferred over better-scored nodes whose patch is already represented (spec.md §4.1: "geographic-patch
// diversification where possible").
func Elect(tx inter.Transaction, dailyNonce *crypto.Keystore, roster []node.Node, validationTime inter.Timestamp) []node.Node {
	eligible := make([]node.Node, 0, len(roster))
	for _, n := range roster {
		if inter.TimestampFromTime(n.AuthorizationDate).Before(validationTime) {
			eligible = append(eligible, n)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	seed := sortingSeed(dailyNonce, "validation", tx)
	ranked := rendezvousSort(eligible, seed)

	k := committeeSize(len(eligible))
	return diversify(ranked, k)
}

// ElectStorage selects replication-factor-bounded storage node sets for the
// chain, beacon, and I/O roles, each under its own seed (spec.md §4.1:
// "Storage-node elections use a separate seed").
func ElectStorage(tx inter.Transaction, roster []node.Node, c Constraints) (chain, beacon, io []node.Node) {
	chain = selectStorage(tx, roster, "storage-chain", c.ChainReplicationFactor)
	beacon = selectStorage(tx, roster, "storage-beacon", c.BeaconReplicationFactor)
	io = selectStorage(tx, roster, "storage-io", c.IOReplicationFactor)
	return
}

func selectStorage(tx inter.Transaction, roster []node.Node, label string, factor int) []node.Node {
	if factor <= 0 {
		factor = 1
	}
	if factor > len(roster) {
		factor = len(roster)
	}
	seed := crypto.Hash(crypto.HashSHA256, []byte(label), tx.Address.Bytes())
	ranked := rendezvousSort(roster, seed)
	return diversify(ranked, factor)
}

func rendezvousSort(nodes []node.Node, seed []byte) []scored {
	ranked := make([]scored, len(nodes))
	for i, n := range nodes {
		ranked[i] = scored{n: n, score: scoreOf(n, seed)}
	}
	sort.Slice(ranked, func(i, j int) bool {
		c := compareBytes(ranked[i].score, ranked[j].score)
		if c != 0 {
			return c < 0
		}
		// Deterministic tie-break for byte-identical scores (only possible
		// with colliding hashes): fall back to public-key order.
		return compareBytes(ranked[i].n.PublicKey.Bytes(), ranked[j].n.PublicKey.Bytes()) < 0
	})
	return ranked
}

// diversify returns the first k ranked nodes, but prefers a not-yet-seen
// geo patch over a strictly-better-scored node from an already-represented
// patch, as long as doing so still respects score order among equals in
// patch coverage. This realizes "tie-breaks prefer more distinct geo
// patches" without abandoning the rendezvous ordering (spec.md §4.1).
func diversify(ranked []scored, k int) []node.Node {
	if k > len(ranked) {
		k = len(ranked)
	}
	seenPatch := map[string]bool{}
	var picked []scored
	var skipped []scored

	for _, s := range ranked {
		if len(picked) >= k {
			break
		}
		if !seenPatch[s.n.GeoPatch] {
			seenPatch[s.n.GeoPatch] = true
			picked = append(picked, s)
		} else {
			skipped = append(skipped, s)
		}
	}
	for _, s := range skipped {
		if len(picked) >= k {
			break
		}
		picked = append(picked, s)
	}
	// Restore rendezvous score order among the picked set.
	sort.Slice(picked, func(i, j int) bool {
		return compareBytes(picked[i].score, picked[j].score) < 0
	})

	out := make([]node.Node, len(picked))
	for i, s := range picked {
		out[i] = s.n
	}
	return out
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// ValidElection reports whether candidatePKs matches the committee this
// node independently computes for tx — the check every member runs on
// entry (spec.md §4.3: "the election is valid").
func ValidElection(tx inter.Transaction, dailyNonce *crypto.Keystore, roster []node.Node, validationTime inter.Timestamp, candidatePKs []crypto.PublicKey) bool {
	committee := Elect(tx, dailyNonce, roster, validationTime)
	if len(committee) != len(candidatePKs) {
		return false
	}
	for i, n := range committee {
		if n.PublicKey.String() != candidatePKs[i].String() {
			return false
		}
	}
	return true
}
