package mining

import (
	"sort"
	"strings"

	"github.com/archethic-network/mining-core/inter"
)

// AtomicCommit reports whether tx commits: every collected
// cross-validation stamp carries an empty inconsistency list (spec.md
// §4.3 "Atomic commitment", Testable Property 6).
func AtomicCommit(stamps []inter.CrossValidationStamp) bool {
	if len(stamps) == 0 {
		return false
	}
	for _, s := range stamps {
		if !s.OK() {
			return false
		}
	}
	return true
}

// IdentifyDishonest finds the minority of validators whose reported
// inconsistency set disagrees with the majority's, for governance
// reporting on abort (spec.md §4.3: "the one whose stamp lacks signatures
// the others share").
func IdentifyDishonest(stamps []inter.CrossValidationStamp) []inter.CrossValidationStamp {
	if len(stamps) == 0 {
		return nil
	}

	signatures := make([]string, len(stamps))
	counts := map[string]int{}
	for i, s := range stamps {
		signatures[i] = fingerprint(s.Inconsistencies)
		counts[signatures[i]]++
	}

	majority, majorityCount := "", 0
	for sig, count := range counts {
		if count > majorityCount {
			majority, majorityCount = sig, count
		}
	}

	var dishonest []inter.CrossValidationStamp
	for i, s := range stamps {
		if signatures[i] != majority {
			dishonest = append(dishonest, s)
		}
	}
	return dishonest
}

func fingerprint(kinds []inter.InconsistencyKind) string {
	if len(kinds) == 0 {
		return ""
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
