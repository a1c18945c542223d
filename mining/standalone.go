package mining

import (
	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/feeengine"
	"github.com/archethic-network/mining-core/inter"
)

// RunStandalone drives the committee-size-1 variant (spec.md §4.3,
// "Standalone workflow"): pending validation has already passed, so this
// runs the stamp computation in-process and commits without cross-
// validation.
func RunStandalone(
	tx inter.Transaction,
	nodeKeys *crypto.Keystore,
	originRing *crypto.OriginKeyRing,
	available []inter.UnspentOutput,
	price feeengine.Price,
	previousPOI []byte,
	poiAlgo crypto.HashAlgo,
	electionSeed []byte,
	now inter.Timestamp,
) (inter.Transaction, error) {
	stamp, err := BuildValidationStamp(tx, nodeKeys, originRing, available, price, previousPOI, poiAlgo, electionSeed, nil, now)
	if err != nil {
		return tx, err
	}
	tx.ValidationStamp = &stamp
	tx.CrossValidationStamps = nil
	return tx, nil
}
