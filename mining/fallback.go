package mining

import "github.com/archethic-network/mining-core/node"

// RunWithFallback implements the node-responsiveness fallback procedure
// (spec.md §4.3, §5): try the first-ranked validator; if it fails, try the
// next, deterministically, so every honest node agrees on retry order
// without duplicate mining.
func RunWithFallback(validators []node.Node, attempt func(node.Node) error) error {
	ranked := node.Rank(validators)
	var lastErr error
	for _, n := range ranked {
		if err := attempt(n); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return lastErr
}
