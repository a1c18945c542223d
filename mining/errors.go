// Package mining implements the per-transaction coordinator/cross-validator
// state machine: committee members cooperatively validate a pending
// transaction, counter-sign, and drive replication (spec.md §4.3).
package mining

import (
	"fmt"

	"github.com/archethic-network/mining-core/inter"
)

// Inconsistency is raised when a cross validator's recomputation disagrees
// with the coordinator's ValidationStamp (spec.md §7).
type Inconsistency struct {
	Kind inter.InconsistencyKind
}

func (e *Inconsistency) Error() string {
	return fmt.Sprintf("mining: inconsistency detected: %s", e.Kind)
}

// ReplicationTimeoutError is raised when too few AcknowledgeStorage
// replies arrive within the replication deadline (spec.md §4.3, §7).
type ReplicationTimeoutError struct {
	Address string
	Got     int
	Needed  int
}

func (e *ReplicationTimeoutError) Error() string {
	return fmt.Sprintf("mining: replication timeout for %s: got %d of %d required acknowledgments", e.Address, e.Got, e.Needed)
}

// AlreadyExistsError is returned for a replayed, already-committed address
// (spec.md §7): idempotent no-op, never starts a new workflow.
type AlreadyExistsError struct {
	Address string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("mining: transaction already exists at %s", e.Address)
}

// InvalidElectionError is raised when a StartMining's committee doesn't
// match this node's own election outcome (spec.md §4.3 entry check).
type InvalidElectionError struct {
	Address string
}

func (e *InvalidElectionError) Error() string {
	return fmt.Sprintf("mining: invalid election for %s", e.Address)
}
