package feeengine

import (
	"sort"

	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/inter"
)

// Consume resolves movements against the available unspent outputs LIFO
// (most recent first), producing the new unspent-output set and any change
// returned to changeAddress (spec.md §4.4).
func Consume(available []inter.UnspentOutput, movements []inter.TransactionMovement, fee uint64, changeAddress crypto.Address, now inter.Timestamp) (resolved []inter.TransactionMovement, newOutputs []inter.UnspentOutput, err error) {
	sorted := make([]inter.UnspentOutput, len(available))
	copy(sorted, available)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp > sorted[j].Timestamp })

	var need uint64
	for _, m := range movements {
		need += m.Amount
	}
	need += fee

	var consumed uint64
	var used []inter.UnspentOutput
	for _, u := range sorted {
		if consumed >= need {
			break
		}
		if u.Type != inter.UTXOUco {
			continue
		}
		used = append(used, u)
		consumed += u.Amount
	}

	if consumed < need {
		return nil, nil, ErrInsufficientFunds
	}

	change := consumed - need
	if change > 0 {
		newOutputs = append(newOutputs, inter.UnspentOutput{
			From: changeAddress, Type: inter.UTXOUco, Amount: change, Timestamp: now,
		})
	}

	return movements, newOutputs, nil
}

var ErrInsufficientFunds = errInsufficientFunds{}

type errInsufficientFunds struct{}

func (errInsufficientFunds) Error() string { return "feeengine: insufficient unspent outputs to cover movements and fee" }
