package pendingvalidation

import (
	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/inter"
)

const defaultMaxContentSize = 3 * 1024 * 1024

// NodeLookup resolves a live node by its network address, used by the
// node-transaction duplicate check.
type NodeLookup func(ip string, port int) (publicKey crypto.PublicKey, found bool)

// ContractParser is the narrow-contract collaborator for smart-contract
// condition parsing — explicitly out of scope (spec.md §1): validation only
// calls it to confirm tx.Data.Code parses, never to execute it.
type ContractParser func(code string) error

// ScheduleChecker reports whether triggerTime matches the current
// network-wide schedule slot for kind (renewal, oracle poll, reward
// cycle, ...).
type ScheduleChecker func(kind string, triggerTime inter.Timestamp) bool

// TechnicalCouncil holds the public keys authorized to sign code_approval
// transactions.
type TechnicalCouncil []crypto.PublicKey

func (c TechnicalCouncil) Contains(pk crypto.PublicKey) bool {
	for _, m := range c {
		if m.String() == pk.String() {
			return true
		}
	}
	return false
}

// Context bundles every collaborator a transaction class's rule needs.
// Nil collaborators make their associated rule a no-op pass, so tests can
// exercise one rule class at a time.
type Context struct {
	MaxContentSize int

	AuthorizedNodes    map[string]bool // hex public key -> authorized
	NodeLookup         NodeLookup
	AllowedOriginFamily func(originPK crypto.PublicKey) bool
	VerifyRootCA       func(cert []byte, family string) bool

	NetworkChainGenesis map[inter.TxType]crypto.Address

	ScheduleChecker ScheduleChecker
	TechnicalCouncil TechnicalCouncil
	ContractParser  ContractParser
}

func (c *Context) maxContentSize() int {
	if c.MaxContentSize <= 0 {
		return defaultMaxContentSize
	}
	return c.MaxContentSize
}
