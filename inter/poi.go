package inter

import "github.com/archethic-network/mining-core/crypto"

// ProofOfIntegrity computes the POI chain value for tx given the previous
// transaction's POI (nil/empty for the genesis of a chain): Testable
// Property 2, spec.md §3.
//
//	POI_n = hash(serialize(tx_n_pending) || POI_{n-1})
//	POI_0 = hash(serialize(tx_0_pending))
func ProofOfIntegrity(tx Transaction, previousPOI []byte, algo crypto.HashAlgo) []byte {
	pending := tx.PendingBytes()
	if len(previousPOI) == 0 {
		return crypto.Hash(algo, pending)
	}
	return crypto.Hash(algo, pending, previousPOI)
}
