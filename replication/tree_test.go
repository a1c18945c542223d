package replication

import (
	"testing"

	"github.com/archethic-network/mining-core/node"
	"github.com/stretchr/testify/require"
)

func buildNodes(n int, patches []string) []node.Node {
	out := make([]node.Node, n)
	for i := 0; i < n; i++ {
		out[i] = node.Node{GeoPatch: patches[i%len(patches)]}
	}
	return out
}

func TestBuildExactlyOneBitPerColumn(t *testing.T) {
	require := require.New(t)

	validators := buildNodes(3, []string{"EU", "US", "AS"})
	storage := buildNodes(10, []string{"EU", "US", "AS", "SA"})

	tree := Build(validators, storage, nil)

	for j := 0; j < len(storage); j++ {
		set := 0
		for i := range tree.Rows {
			if tree.Rows[i][j] {
				set++
			}
		}
		require.Equal(1, set, "column %d", j)
	}
}

func TestBuildRowCardinalityBalanced(t *testing.T) {
	require := require.New(t)

	validators := buildNodes(4, []string{"EU", "US", "AS", "SA"})
	storage := buildNodes(9, []string{"EU", "US", "AS", "SA"})

	tree := Build(validators, storage, nil)

	min, max := -1, -1
	for _, row := range tree.Rows {
		count := 0
		for _, b := range row {
			if b {
				count++
			}
		}
		if min == -1 || count < min {
			min = count
		}
		if max == -1 || count > max {
			max = count
		}
	}
	require.LessOrEqual(max-min, 1)
}

func TestBuildIsDeterministic(t *testing.T) {
	require := require.New(t)

	validators := buildNodes(3, []string{"EU", "US", "AS"})
	storage := buildNodes(7, []string{"EU", "US", "AS", "SA"})

	t1 := Build(validators, storage, nil)
	t2 := Build(validators, storage, nil)
	require.Equal(t1.Rows, t2.Rows)
}
