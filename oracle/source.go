// Package oracle is the narrow-contract collaborator providing the UCO/fiat
// exchange rate the fee engine needs to convert its USD-denominated terms
// into the smallest UCO unit (spec.md §4.3 step 3, §6). The real oracle
// chain and its summary transactions are explicitly out of scope.
package oracle

import (
	"sync"

	"github.com/archethic-network/mining-core/feeengine"
	"github.com/archethic-network/mining-core/inter"
)

// Source is the collaborator contract.
type Source interface {
	GetUCOPrice(at inter.Timestamp) (feeengine.Price, error)
}

// Fixed is a Source pinned to a single price, for tests and the standalone
// workflow variant where no live oracle chain exists yet.
type Fixed struct {
	Price feeengine.Price
}

func (f Fixed) GetUCOPrice(inter.Timestamp) (feeengine.Price, error) { return f.Price, nil }

// Timeline is a Source backed by an ordered set of (timestamp, price)
// observations, mirroring how the real oracle chain's summary transactions
// accumulate a history that miners look up by validation time.
type Timeline struct {
	mu           sync.RWMutex
	observations []observation
}

type observation struct {
	at    inter.Timestamp
	price feeengine.Price
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

// Record appends a new observation. Observations must be added in
// non-decreasing timestamp order, matching the append-only oracle chain.
func (t *Timeline) Record(at inter.Timestamp, price feeengine.Price) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observations = append(t.observations, observation{at: at, price: price})
}

// GetUCOPrice returns the most recent observation at or before at. If at
// precedes every observation, the earliest known price is used rather than
// failing, since a transaction must always be priceable.
func (t *Timeline) GetUCOPrice(at inter.Timestamp) (feeengine.Price, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.observations) == 0 {
		return feeengine.Price{}, errNoObservations
	}

	best := t.observations[0]
	for _, o := range t.observations {
		if o.at.After(best.at) && !o.at.After(at) {
			best = o
		}
		if o.at == at {
			best = o
			break
		}
	}
	return best.price, nil
}

var errNoObservations = oracleError("oracle: no price observations recorded")

type oracleError string

func (e oracleError) Error() string { return string(e) }

var _ Source = Fixed{}
var _ Source = (*Timeline)(nil)
