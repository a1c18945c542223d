package inter

import "github.com/archethic-network/mining-core/crypto"

// UTXOType distinguishes native UCO outputs from token outputs.
type UTXOType uint8

const (
	UTXOUco UTXOType = iota
	UTXOToken
)

// TokenID identifies a minted token's defining transaction address plus,
// for non-fungible mints, the specific unit within that token.
type TokenID struct {
	Address crypto.Address
	UnitID  uint64 // 0 for fungible tokens
}

// UnspentOutput is one entry in an address's unspent output set, consumed
// LIFO by the fee engine's movement resolution (spec.md §4.4).
type UnspentOutput struct {
	From      crypto.Address
	Type      UTXOType
	Amount    uint64
	Timestamp Timestamp
	Token     TokenID
}

// TransactionMovement is one resolved debit leg of a transaction's ledger
// operations: funds leaving From's chain toward To.
type TransactionMovement struct {
	To     crypto.Address
	Amount uint64
	Type   UTXOType
	Token  TokenID
}

// ResolvedRecipient is a recipient address the coordinator resolved and
// optionally invoked a contract condition against.
type ResolvedRecipient struct {
	Address crypto.Address
}

// LedgerOperations is the coordinator-computed settlement attached to a
// ValidationStamp: the fee charged, the resulting movements, and the new
// unspent outputs produced for the transaction's own address.
type LedgerOperations struct {
	Fee                  uint64
	TransactionMovements []TransactionMovement
	UnspentOutputs       []UnspentOutput
}

// TransactionData is the address-independent payload of a Transaction.
type TransactionData struct {
	Content    []byte
	Code       string
	Ownerships []Ownership
	Ledger     []TransactionMovement
	Recipients []crypto.Address
}

func (d TransactionData) HasContract() bool { return d.Code != "" }
