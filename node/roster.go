package node

import (
	"sync/atomic"
)

// Roster is the process-wide, read-mostly snapshot of authorized nodes.
// Readers call Snapshot and never block; Replace installs a new slice
// atomically so in-flight readers keep working against the snapshot they
// already captured (spec.md §5, "Shared resources").
type Roster struct {
	nodes atomic.Pointer[[]Node]
}

// NewRoster seeds the roster with an initial set of nodes.
func NewRoster(nodes []Node) *Roster {
	r := &Roster{}
	cp := make([]Node, len(nodes))
	copy(cp, nodes)
	r.nodes.Store(&cp)
	return r
}

// Snapshot returns the current node set. The returned slice must be
// treated as immutable by the caller.
func (r *Roster) Snapshot() []Node {
	p := r.nodes.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Replace installs a new roster snapshot, single-writer.
func (r *Roster) Replace(nodes []Node) {
	cp := make([]Node, len(nodes))
	copy(cp, nodes)
	r.nodes.Store(&cp)
}
