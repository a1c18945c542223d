package mining

import (
	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/feeengine"
	"github.com/archethic-network/mining-core/inter"
	"github.com/archethic-network/mining-core/node"
	"github.com/archethic-network/mining-core/replication"
)

// RecipientResolver resolves a recipient address to its last-known address
// as of the given timestamp (spec.md §4.3 step 6). The storage collaborator
// backs this; a pass-through resolver is enough when no key rotation has
// happened.
type RecipientResolver func(addr crypto.Address, at inter.Timestamp) crypto.Address

func passthroughResolver(addr crypto.Address, _ inter.Timestamp) crypto.Address { return addr }

// ComputeProofOfWork enumerates ring's known origin keys and returns the
// first whose public key verifies tx.OriginSignature over
// tx.OriginSignableBytes(), the pending form plus the previous signature
// (spec.md §4.3 step 3). The zero-value PublicKey with ok=false stands for
// "proof_of_work = 0" — no known origin key signed this transaction.
func ComputeProofOfWork(tx inter.Transaction, ring *crypto.OriginKeyRing) (crypto.PublicKey, bool) {
	return ring.FindSigner(tx.OriginSignableBytes(), tx.OriginSignature)
}

// ComputeLedgerOperations computes fee and resolves movements/change
// against the sender's available unspent outputs (spec.md §4.3 step 4).
func ComputeLedgerOperations(tx inter.Transaction, available []inter.UnspentOutput, price feeengine.Price, now inter.Timestamp) (inter.LedgerOperations, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return inter.LedgerOperations{}, err
	}

	fee := feeengine.F(len(raw), len(tx.Data.Ledger), tx.Data.HasContract(), price.USD)

	movements, newOutputs, err := feeengine.Consume(available, tx.Data.Ledger, fee, tx.Address, now)
	if err != nil {
		return inter.LedgerOperations{}, err
	}

	return inter.LedgerOperations{
		Fee:                  fee,
		TransactionMovements: movements,
		UnspentOutputs:       newOutputs,
	}, nil
}

// ComputeProofOfIntegrity wraps inter.ProofOfIntegrity for step 5.
func ComputeProofOfIntegrity(tx inter.Transaction, previousPOI []byte, algo crypto.HashAlgo) []byte {
	return inter.ProofOfIntegrity(tx, previousPOI, algo)
}

// ResolveRecipients resolves every declared recipient (spec.md §4.3 step 6).
func ResolveRecipients(tx inter.Transaction, resolve RecipientResolver, at inter.Timestamp) []inter.ResolvedRecipient {
	if resolve == nil {
		resolve = passthroughResolver
	}
	out := make([]inter.ResolvedRecipient, len(tx.Data.Recipients))
	for i, r := range tx.Data.Recipients {
		out[i] = inter.ResolvedRecipient{Address: resolve(r, at)}
	}
	return out
}

// BuildReplicationTree wraps replication.Build for step 8.
func BuildReplicationTree(validators, storage []node.Node, dist replication.Distance) replication.Tree {
	return replication.Build(validators, storage, dist)
}

// BuildValidationStamp assembles and signs the ValidationStamp with the
// coordinator's daily-nonce key (spec.md §4.3 steps 3-7).
func BuildValidationStamp(
	tx inter.Transaction,
	coordinatorKeys *crypto.Keystore,
	originRing *crypto.OriginKeyRing,
	available []inter.UnspentOutput,
	price feeengine.Price,
	previousPOI []byte,
	poiAlgo crypto.HashAlgo,
	electionSeed []byte,
	resolve RecipientResolver,
	now inter.Timestamp,
) (inter.ValidationStamp, error) {
	pow, _ := ComputeProofOfWork(tx, originRing)

	ledgerOps, err := ComputeLedgerOperations(tx, available, price, now)
	if err != nil {
		return inter.ValidationStamp{}, err
	}

	poi := ComputeProofOfIntegrity(tx, previousPOI, poiAlgo)
	recipients := ResolveRecipients(tx, resolve, now)

	stamp := inter.ValidationStamp{
		Timestamp:        now,
		ProofOfWork:      pow,
		ProofOfIntegrity: poi,
		ProofOfElection:  electionSeed,
		LedgerOperations: ledgerOps,
		Recipients:       recipients,
		ProtocolVersion:  1,
	}

	sig, err := coordinatorKeys.DailyNonce().Sign(stamp.SignableBytes())
	if err != nil {
		return inter.ValidationStamp{}, err
	}
	stamp.Signature = sig
	return stamp, nil
}
