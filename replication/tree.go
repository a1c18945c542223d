// Package replication builds the replication tree (spec.md §4.5): the
// partition of storage nodes among validators that each committee member
// drives post-commit notification against.
package replication

import (
	"github.com/archethic-network/mining-core/inter"
	"github.com/archethic-network/mining-core/node"
)

// Distance scores how costly it would be for a validator at patch vp to
// notify a storage node at patch sp. Lower is better. The default patch
// distance treats same-patch as free and any cross-patch hop as uniform
// cost 1; callers with a real geo-distance table can supply their own.
type Distance func(validatorPatch, storagePatch string) int

func DefaultDistance(validatorPatch, storagePatch string) int {
	if validatorPatch == storagePatch {
		return 0
	}
	return 1
}

// Tree is the N×M assignment: Rows[i] is validator i's bitstring over the
// M storage nodes, exactly one bit set per column across all rows
// (Testable Property 7).
type Tree struct {
	Validators []node.Node
	Storage    []node.Node
	Rows       []inter.AvailabilityView
}

// Row returns validator i's assigned storage-node subset.
func (t Tree) Row(i int) []node.Node {
	var out []node.Node
	for j, assigned := range t.Rows[i] {
		if assigned {
			out = append(out, t.Storage[j])
		}
	}
	return out
}

// Build computes the replication tree deterministically: column j's bit is
// set on the row minimizing distance(V_i.patch, S_j.patch) + load_i, where
// load_i is the count already assigned to V_i (spec.md §4.5). Ties go to
// the lowest validator index, which keeps the result reproducible.
func Build(validators, storage []node.Node, dist Distance) Tree {
	if dist == nil {
		dist = DefaultDistance
	}

	n := len(validators)
	m := len(storage)
	rows := make([]inter.AvailabilityView, n)
	for i := range rows {
		rows[i] = inter.NewAvailabilityView(m)
	}
	load := make([]int, n)

	for j := 0; j < m; j++ {
		best := -1
		bestScore := 0
		for i := 0; i < n; i++ {
			score := dist(validators[i].GeoPatch, storage[j].GeoPatch) + load[i]
			if best == -1 || score < bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			continue
		}
		rows[best][j] = true
		load[best]++
	}

	return Tree{Validators: validators, Storage: storage, Rows: rows}
}
