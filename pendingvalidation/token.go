package pendingvalidation

import (
	"encoding/json"

	"github.com/archethic-network/mining-core/inter"
)

const tokenDecimalFactor = 100_000_000 // 10^8, matches the UCO smallest-unit scale (spec.md §3)

// tokenSpec mirrors the fixed JSON schema a `token` transaction's content
// must match (spec.md §4.2).
type tokenSpec struct {
	Name       string           `json:"name"`
	Type       string           `json:"type"` // "fungible" | "non-fungible"
	Supply     uint64           `json:"supply"`
	Symbol     string           `json:"symbol"`
	Collection []tokenItemSpec  `json:"collection,omitempty"`
}

type tokenItemSpec struct {
	ID uint64 `json:"id"`
}

// validateTokenSpecification implements Testable Property 8.
func validateTokenSpecification(content []byte) error {
	var spec tokenSpec
	if err := json.Unmarshal(content, &spec); err != nil {
		return newError(InvalidTokenSpecification, "content is not valid token JSON")
	}

	switch spec.Type {
	case "non-fungible":
		if spec.Collection == nil {
			return newError(InvalidTokenSpecification, "non-fungible token must declare a collection")
		}
		seen := make(map[uint64]bool, len(spec.Collection))
		for _, item := range spec.Collection {
			if seen[item.ID] {
				return newError(InvalidTokenSpecification, "duplicate id within collection")
			}
			seen[item.ID] = true
		}
		want := uint64(len(spec.Collection)) * tokenDecimalFactor
		if spec.Supply != want {
			return newError(InvalidTokenSpecification, "supply does not match collection length * 10^8")
		}
	case "fungible":
		if spec.Collection != nil {
			return newError(InvalidTokenSpecification, "fungible token must not declare a collection")
		}
	default:
		return newError(InvalidTokenSpecification, "unknown token type")
	}
	return nil
}

type tokenRule struct{}

func (tokenRule) validate(tx inter.Transaction, ctx *Context) error {
	return validateTokenSpecification(tx.Data.Content)
}
