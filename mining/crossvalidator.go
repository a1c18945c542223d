package mining

import (
	"reflect"

	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/feeengine"
	"github.com/archethic-network/mining-core/inter"
	"github.com/archethic-network/mining-core/node"
	"github.com/archethic-network/mining-core/replication"
)

// RecomputeInput bundles everything a cross validator needs to
// independently rebuild the coordinator's work (spec.md §4.3 cross-validator
// protocol step 1).
type RecomputeInput struct {
	Tx                inter.Transaction
	Stamp             inter.ValidationStamp
	CoordinatorPK     crypto.PublicKey
	OriginRing        *crypto.OriginKeyRing
	AvailableOutputs  []inter.UnspentOutput
	Price             feeengine.Price
	PreviousPOI       []byte
	POIAlgo           crypto.HashAlgo
	PreviousTimestamp inter.Timestamp
	Validators        []node.Node
	Storage           []node.Node
	Distance          replication.Distance
	ReplicationTree   replication.Tree
	Resolve           RecipientResolver
}

// Recompute independently rebuilds POW, ledger ops, POI, and the
// replication tree, returning one InconsistencyKind per disagreeing field
// (spec.md §4.3 cross-validator protocol steps 1-2).
func Recompute(in RecomputeInput) []inter.InconsistencyKind {
	var inconsistencies []inter.InconsistencyKind

	if in.Stamp.Timestamp.Before(in.PreviousTimestamp) {
		inconsistencies = append(inconsistencies, inter.InconsistencyTimestamp)
	}

	pow, _ := ComputeProofOfWork(in.Tx, in.OriginRing)
	if pow.String() != in.Stamp.ProofOfWork.String() {
		inconsistencies = append(inconsistencies, inter.InconsistencyProofOfWork)
	}

	poi := ComputeProofOfIntegrity(in.Tx, in.PreviousPOI, in.POIAlgo)
	if string(poi) != string(in.Stamp.ProofOfIntegrity) {
		inconsistencies = append(inconsistencies, inter.InconsistencyProofOfIntegrity)
	}

	ledgerOps, err := ComputeLedgerOperations(in.Tx, in.AvailableOutputs, in.Price, in.Stamp.Timestamp)
	if err != nil {
		inconsistencies = append(inconsistencies, inter.InconsistencyTransactionFee, inter.InconsistencyTransactionMovements, inter.InconsistencyUnspentOutputs)
	} else {
		if ledgerOps.Fee != in.Stamp.LedgerOperations.Fee {
			inconsistencies = append(inconsistencies, inter.InconsistencyTransactionFee)
		}
		if !reflect.DeepEqual(ledgerOps.TransactionMovements, in.Stamp.LedgerOperations.TransactionMovements) {
			inconsistencies = append(inconsistencies, inter.InconsistencyTransactionMovements)
		}
		if !reflect.DeepEqual(ledgerOps.UnspentOutputs, in.Stamp.LedgerOperations.UnspentOutputs) {
			inconsistencies = append(inconsistencies, inter.InconsistencyUnspentOutputs)
		}
	}

	if err := crypto.Verify(in.CoordinatorPK, in.Stamp.SignableBytes(), in.Stamp.Signature); err != nil {
		inconsistencies = append(inconsistencies, inter.InconsistencySignature)
	}

	if in.Validators != nil {
		recomputed := BuildReplicationTree(in.Validators, in.Storage, in.Distance)
		if !reflect.DeepEqual(recomputed.Rows, in.ReplicationTree.Rows) {
			inconsistencies = append(inconsistencies, inter.InconsistencyReplicationTree)
		}
	}

	return inconsistencies
}

// SignCrossValidationStamp signs (validation_stamp, inconsistencies) with
// the cross validator's own key (spec.md §4.3 cross-validator protocol
// step 3).
func SignCrossValidationStamp(stamp inter.ValidationStamp, inconsistencies []inter.InconsistencyKind, keys crypto.KeyPair) (inter.CrossValidationStamp, error) {
	payload := append(append([]byte{}, stamp.SignableBytes()...), encodeInconsistencies(inconsistencies)...)
	sig, err := keys.Sign(payload)
	if err != nil {
		return inter.CrossValidationStamp{}, err
	}
	return inter.CrossValidationStamp{
		NodePublicKey:   keys.PublicKey(),
		Signature:       sig,
		Inconsistencies: inconsistencies,
	}, nil
}

func encodeInconsistencies(kinds []inter.InconsistencyKind) []byte {
	out := make([]byte, len(kinds))
	for i, k := range kinds {
		out[i] = byte(k)
	}
	return out
}
