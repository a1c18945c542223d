package inter

import "github.com/archethic-network/mining-core/crypto"

// AvailabilityView is a fixed-length, per-node P2P reachability report,
// indexed by the canonical roster sort at tx.timestamp (Design Note,
// spec.md §9: "bitstring availability views").
type AvailabilityView []bool

// NewAvailabilityView builds a view of n nodes, all unavailable.
func NewAvailabilityView(n int) AvailabilityView { return make(AvailabilityView, n) }

// And merges two views conservatively: a node is available only if both
// views agree it is (spec.md §4.3 step 2, "aggregated availability view").
func (v AvailabilityView) And(other AvailabilityView) AvailabilityView {
	n := len(v)
	if len(other) < n {
		n = len(other)
	}
	out := make(AvailabilityView, n)
	for i := 0; i < n; i++ {
		out[i] = v[i] && other[i]
	}
	return out
}

// Bytes packs the view into a byte slice, one bit per node, MSB-first
// within each byte.
func (v AvailabilityView) Bytes() []byte {
	out := make([]byte, (len(v)+7)/8)
	for i, set := range v {
		if set {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

// AvailabilityViewFromBytes unpacks a view of n nodes from its wire form.
func AvailabilityViewFromBytes(b []byte, n int) AvailabilityView {
	out := make(AvailabilityView, n)
	for i := 0; i < n; i++ {
		out[i] = b[i/8]&(1<<uint(7-i%8)) != 0
	}
	return out
}

// MiningContext is one cross-validator's report of per-node reachability,
// sent to the coordinator (spec.md §3, "Mining Context").
type MiningContext struct {
	ValidationNodePublicKey  crypto.PublicKey
	PreviousStorageNodesKeys []crypto.PublicKey
	CrossValidationNodesView AvailabilityView
	ChainStorageNodesView    AvailabilityView
	BeaconStorageNodesView   AvailabilityView
}

// Aggregate merges a set of per-validator contexts into the coordinator's
// single aggregated view (spec.md §4.3 step 2). PreviousStorageNodesKeys is
// taken from the first context since every honest validator observes the
// same previous chain.
func Aggregate(contexts []MiningContext) MiningContext {
	if len(contexts) == 0 {
		return MiningContext{}
	}
	agg := contexts[0]
	for _, c := range contexts[1:] {
		agg.CrossValidationNodesView = agg.CrossValidationNodesView.And(c.CrossValidationNodesView)
		agg.ChainStorageNodesView = agg.ChainStorageNodesView.And(c.ChainStorageNodesView)
		agg.BeaconStorageNodesView = agg.BeaconStorageNodesView.And(c.BeaconStorageNodesView)
	}
	return agg
}
