package mining

import (
	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/feeengine"
	"github.com/archethic-network/mining-core/inter"
	"github.com/archethic-network/mining-core/node"
	"github.com/archethic-network/mining-core/replication"
)

// QuorumChecker reports how many AcknowledgeStorage replies a validator's
// replication broadcast collected, and how many are required (spec.md
// §4.3: "ceil(2/3 * |chain_storage|)").
type QuorumChecker func(tree replication.Tree) (got, needed int)

// DistributedInput bundles every collaborator the distributed coordinator
// and cross-validator protocol needs (spec.md §4.3).
type DistributedInput struct {
	Tx                inter.Transaction
	Committee         []node.Node // index 0 is the coordinator
	CoordinatorKeys   *crypto.Keystore
	CrossValidatorKeys []crypto.KeyPair // one per committee[1:]
	Contexts          []inter.MiningContext
	OriginRing        *crypto.OriginKeyRing
	AvailableOutputs  []inter.UnspentOutput
	Price             feeengine.Price
	PreviousPOI       []byte
	POIAlgo           crypto.HashAlgo
	ElectionSeed      []byte
	PreviousTimestamp inter.Timestamp
	StorageNodes      []node.Node
	Distance          replication.Distance
	Quorum            QuorumChecker
	Now               inter.Timestamp

	// CrossValidatorOverride lets a test simulate a dishonest or
	// disagreeing validator by recomputing against a different price,
	// output set, or POI than the coordinator used.
	CrossValidatorOverride func(i int, in *RecomputeInput)
}

// RunDistributed drives the full coordinator/cross-validator protocol
// synchronously to completion, using Registry for process bookkeeping
// (spec.md §4.3, §5). It is the reference orchestration the p2p-message-
// driven production loop dispatches into once a message arrives; tests
// exercise it directly rather than through simulated network round trips.
func RunDistributed(registry *Registry, in DistributedInput) (inter.Transaction, []inter.CrossValidationStamp, error) {
	tx := in.Tx
	address := tx.Address.String()

	wf := registry.Start(address)
	wf.setState(PendingValidated)

	agg := inter.Aggregate(in.Contexts)
	wf.setState(ContextCollected)

	stamp, err := BuildValidationStamp(tx, in.CoordinatorKeys, in.OriginRing, in.AvailableOutputs, in.Price, in.PreviousPOI, in.POIAlgo, in.ElectionSeed, nil, in.Now)
	if err != nil {
		wf.setState(Aborted)
		registry.Remove(address)
		return tx, nil, err
	}
	wf.setState(Validated)

	tree := BuildReplicationTree(in.Committee, in.StorageNodes, in.Distance)

	stamps := make([]inter.CrossValidationStamp, 0, len(in.CrossValidatorKeys))
	for i, keys := range in.CrossValidatorKeys {
		// committee[0] is the coordinator, so CrossValidatorKeys[i] reports
		// availability at committee/aggregated-view index i+1. A validator
		// the aggregated (AND-merged) view marks unreachable is skipped
		// rather than blocking the round (spec.md §4.3 step 2).
		committeeIdx := i + 1
		if committeeIdx < len(agg.CrossValidationNodesView) && !agg.CrossValidationNodesView[committeeIdx] {
			continue
		}

		recomputeInput := RecomputeInput{
			Tx:                tx,
			Stamp:             stamp,
			CoordinatorPK:     in.CoordinatorKeys.DailyNonce().PublicKey(),
			OriginRing:        in.OriginRing,
			AvailableOutputs:  in.AvailableOutputs,
			Price:             in.Price,
			PreviousPOI:       in.PreviousPOI,
			POIAlgo:           in.POIAlgo,
			PreviousTimestamp: in.PreviousTimestamp,
			Validators:        in.Committee,
			Storage:           in.StorageNodes,
			Distance:          in.Distance,
			ReplicationTree:   tree,
		}
		if in.CrossValidatorOverride != nil {
			in.CrossValidatorOverride(i, &recomputeInput)
		}

		inconsistencies := Recompute(recomputeInput)
		cvs, err := SignCrossValidationStamp(stamp, inconsistencies, keys)
		if err != nil {
			wf.setState(Aborted)
			registry.Remove(address)
			return tx, nil, err
		}
		stamps = append(stamps, cvs)
	}

	if !AtomicCommit(stamps) {
		wf.setState(Aborted)
		registry.Remove(address)
		tx.ValidationStamp = &stamp
		tx.CrossValidationStamps = stamps
		return tx, stamps, &Inconsistency{Kind: firstInconsistency(stamps)}
	}

	wf.setState(Replicated)
	if in.Quorum != nil {
		got, needed := in.Quorum(tree)
		if got < needed {
			wf.setState(Aborted)
			registry.Remove(address)
			return tx, stamps, &ReplicationTimeoutError{Address: address, Got: got, Needed: needed}
		}
	}

	tx.ValidationStamp = &stamp
	tx.CrossValidationStamps = stamps
	wf.setState(Done)
	registry.Remove(address)
	return tx, stamps, nil
}

func firstInconsistency(stamps []inter.CrossValidationStamp) inter.InconsistencyKind {
	for _, s := range stamps {
		if len(s.Inconsistencies) > 0 {
			return s.Inconsistencies[0]
		}
	}
	return inter.InconsistencyTimestamp
}
