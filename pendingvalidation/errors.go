// Package pendingvalidation is the admission filter every transaction
// passes before it may enter the mining workflow: pure, no I/O beyond the
// Context it's given, one rule set per transaction class (spec.md §4.2).
package pendingvalidation

import "fmt"

// ErrorKind is the closed set of admission failure reasons (spec.md §4.2,
// §7).
type ErrorKind string

const (
	InvalidPreviousSignature  ErrorKind = "invalid_previous_signature"
	InvalidContent            ErrorKind = "invalid_content"
	InvalidContentSize        ErrorKind = "invalid_content_size"
	InvalidSchedule           ErrorKind = "invalid_schedule"
	DuplicateNode             ErrorKind = "duplicate_node"
	InvalidTokenSpecification ErrorKind = "invalid_token_specification"
	InvalidNetworkChain       ErrorKind = "invalid_network_chain"
	ContractParseError        ErrorKind = "contract_parse_error"
)

// Error is the structured {error, kind, detail} admission failure spec.md
// §4.2/§7 calls for.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newError(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}
