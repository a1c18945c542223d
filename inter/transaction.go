package inter

import (
	"errors"
	"sort"

	"github.com/archethic-network/mining-core/crypto"
)

// Transaction is one entry in a transaction chain. Immutable once signed:
// Address must equal hash(PreviousPublicKey), and PreviousSignature must
// verify under PreviousPublicKey over the pending serialization
// (spec.md §3).
type Transaction struct {
	Address               crypto.Address
	Type                  TxType
	Data                  TransactionData
	PreviousPublicKey     crypto.PublicKey
	PreviousSignature     []byte
	OriginSignature       []byte
	ValidationStamp       *ValidationStamp
	CrossValidationStamps []CrossValidationStamp
}

var (
	ErrAddressMismatch           = errors.New("inter: address does not hash previous public key")
	ErrPreviousSignatureInvalid  = errors.New("inter: previous_signature does not verify")
	ErrOriginSignatureInvalid    = errors.New("inter: origin_signature does not verify")
)

// VerifyAddress checks the address == hash(previous_public_key) invariant
// (Testable Property 3), using the hash algorithm encoded in Address itself.
func (tx Transaction) VerifyAddress() error {
	derived := crypto.DeriveAddress(tx.PreviousPublicKey, tx.Address.HashAlgo)
	if !derived.Equal(tx.Address) {
		return ErrAddressMismatch
	}
	return nil
}

// PendingBytes returns the stable serialization of the transaction's
// pending form: every field except PreviousSignature, OriginSignature,
// ValidationStamp and CrossValidationStamps. PreviousSignature signs this; origin_signature
// signs PendingBytes()||PreviousSignature (spec.md §3).
func (tx Transaction) PendingBytes() []byte {
	out := make([]byte, 0, 128)
	out = append(out, tx.Address.Bytes()...)
	out = append(out, byte(tx.Type))
	out = append(out, tx.Data.Content...)
	out = append(out, []byte(tx.Data.Code)...)
	for _, o := range tx.Data.Ownerships {
		out = append(out, o.Secret...)
		keys := make([]string, 0, len(o.AuthorizedKeys))
		for k := range o.AuthorizedKeys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, []byte(k)...)
			out = append(out, o.AuthorizedKeys[k]...)
		}
	}
	for _, m := range tx.Data.Ledger {
		out = append(out, m.To.Bytes()...)
		out = appendUvarint(out, m.Amount)
		out = append(out, byte(m.Type))
		out = append(out, m.Token.Address.Bytes()...)
		out = appendUvarint(out, m.Token.UnitID)
	}
	for _, r := range tx.Data.Recipients {
		out = append(out, r.Bytes()...)
	}
	out = append(out, tx.PreviousPublicKey.Bytes()...)
	return out
}

// VerifyPreviousSignature checks that PreviousSignature verifies under
// PreviousPublicKey over PendingBytes().
func (tx Transaction) VerifyPreviousSignature() error {
	if err := crypto.Verify(tx.PreviousPublicKey, tx.PendingBytes(), tx.PreviousSignature); err != nil {
		return ErrPreviousSignatureInvalid
	}
	return nil
}

// OriginSignableBytes is what origin_signature covers: the pending form
// plus the previous signature (spec.md §3).
func (tx Transaction) OriginSignableBytes() []byte {
	out := make([]byte, 0, len(tx.PendingBytes())+len(tx.PreviousSignature))
	out = append(out, tx.PendingBytes()...)
	out = append(out, tx.PreviousSignature...)
	return out
}

// IsPending reports whether tx has not yet received a ValidationStamp.
func (tx Transaction) IsPending() bool { return tx.ValidationStamp == nil }

// Committed reports whether every cross-validation stamp collected so far
// carries an empty inconsistency list (spec.md §4.3 atomic commitment,
// Testable Property 6). Callers must ensure the full committee has
// reported before trusting a true result.
func (tx Transaction) Committed() bool {
	if tx.ValidationStamp == nil {
		return false
	}
	for _, cvs := range tx.CrossValidationStamps {
		if !cvs.OK() {
			return false
		}
	}
	return true
}
