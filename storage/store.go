// Package storage is the narrow-contract collaborator for the persistent
// storage engine (spec.md §1, §6): get/write a transaction, chain
// enumeration, address lookups. Internals are explicitly out of scope;
// this package only defines the contract and an in-memory stand-in for
// tests.
package storage

import (
	"errors"
	"sync"

	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/inter"
)

var ErrNotFound = errors.New("storage: transaction not found")

// FieldFilter restricts which parts of a transaction get_transaction
// returns, mirroring the real store's projection support (spec.md §6).
type FieldFilter struct {
	IncludeValidationStamp bool
	IncludeCrossStamps     bool
}

// Store is the collaborator contract (spec.md §6).
type Store interface {
	GetTransaction(addr crypto.Address, filter FieldFilter) (inter.Transaction, error)
	WriteTransaction(tx inter.Transaction) error
	ChainSize(addr crypto.Address) (int, error)
	ListAddressesByType(t inter.TxType) ([]crypto.Address, error)
	GetLastChainAddress(addr crypto.Address) (crypto.Address, error)
	GetFirstChainAddress(addr crypto.Address) (crypto.Address, error)
}

// Memory is an in-process Store used by tests and the Standalone/bootstrap
// workflow variant; production deployments back Store with the real
// persistent engine instead.
//
// Chain indexing is storage-engine internals and explicitly out of scope
// (spec.md §1): a real store learns full chain order from
// p2p.ReplicateTransactionChain and indexes it however it likes. This stub
// only ever sees one transaction at a time, so it models every address as
// its own single-entry chain rather than guessing at chain order from the
// transaction fields alone.
type Memory struct {
	mu     sync.RWMutex
	byAddr map[string]inter.Transaction
	byType map[inter.TxType][]crypto.Address
}

func NewMemory() *Memory {
	return &Memory{
		byAddr: make(map[string]inter.Transaction),
		byType: make(map[inter.TxType][]crypto.Address),
	}
}

func (m *Memory) GetTransaction(addr crypto.Address, _ FieldFilter) (inter.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tx, ok := m.byAddr[addr.String()]
	if !ok {
		return inter.Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (m *Memory) WriteTransaction(tx inter.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byAddr[tx.Address.String()] = tx
	m.byType[tx.Type] = append(m.byType[tx.Type], tx.Address)
	return nil
}

func (m *Memory) ChainSize(addr crypto.Address) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.byAddr[addr.String()]; !ok {
		return 0, nil
	}
	return 1, nil
}

func (m *Memory) ListAddressesByType(t inter.TxType) ([]crypto.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]crypto.Address, len(m.byType[t]))
	copy(out, m.byType[t])
	return out, nil
}

func (m *Memory) GetLastChainAddress(addr crypto.Address) (crypto.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.byAddr[addr.String()]; !ok {
		return crypto.Address{}, ErrNotFound
	}
	return addr, nil
}

func (m *Memory) GetFirstChainAddress(addr crypto.Address) (crypto.Address, error) {
	return m.GetLastChainAddress(addr)
}

var _ Store = (*Memory)(nil)
