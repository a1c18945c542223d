package inter

import (
	"sort"

	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/utils/cser"
)

const (
	maxContentSize   = 3 * 1024 * 1024
	maxCodeSize      = 512 * 1024
	maxAddressSize   = 64
	maxKeySize       = 128
	maxSignatureSize = 128
)

// MarshalBinary encodes tx in the canonical split-stream wire form
// (Testable Property 4).
func (tx Transaction) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(tx.marshalCSER)
}

// UnmarshalBinary decodes tx from its canonical wire form, rejecting any
// non-minimal encoding.
func (tx *Transaction) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, tx.unmarshalCSER)
}

func marshalAddress(w *cser.Writer, a crypto.Address) { w.SliceBytes(a.Bytes()) }
func unmarshalAddress(r *cser.Reader) (crypto.Address, error) {
	a, err := crypto.AddressFromBytes(r.SliceBytes(maxAddressSize))
	if len(a.Digest) == 0 {
		a.Digest = nil
	}
	return a, err
}

func marshalPublicKey(w *cser.Writer, pk crypto.PublicKey) { w.SliceBytes(pk.Bytes()) }
func unmarshalPublicKey(r *cser.Reader) (crypto.PublicKey, error) {
	return crypto.PublicKeyFromBytes(r.SliceBytes(maxKeySize))
}

func (tx Transaction) marshalCSER(w *cser.Writer) error {
	w.U8(byte(tx.Type))
	marshalAddress(w, tx.Address)
	w.SliceBytes(tx.Data.Content)
	w.SliceBytes([]byte(tx.Data.Code))

	w.U56(uint64(len(tx.Data.Ownerships)))
	for _, o := range tx.Data.Ownerships {
		w.SliceBytes(o.Secret)
		w.U56(uint64(len(o.AuthorizedKeys)))
		keys := make([]string, 0, len(o.AuthorizedKeys))
		for k := range o.AuthorizedKeys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			w.SliceBytes([]byte(k))
			w.SliceBytes(o.AuthorizedKeys[k])
		}
	}

	w.U56(uint64(len(tx.Data.Ledger)))
	for _, m := range tx.Data.Ledger {
		marshalAddress(w, m.To)
		w.U64(m.Amount)
		w.U8(byte(m.Type))
		marshalAddress(w, m.Token.Address)
		w.U64(m.Token.UnitID)
	}

	w.U56(uint64(len(tx.Data.Recipients)))
	for _, r := range tx.Data.Recipients {
		marshalAddress(w, r)
	}

	marshalPublicKey(w, tx.PreviousPublicKey)
	w.SliceBytes(tx.PreviousSignature)
	w.SliceBytes(tx.OriginSignature)

	w.Bool(tx.ValidationStamp != nil)
	if tx.ValidationStamp != nil {
		marshalValidationStamp(w, *tx.ValidationStamp)
	}

	w.U56(uint64(len(tx.CrossValidationStamps)))
	for _, cvs := range tx.CrossValidationStamps {
		marshalCrossValidationStamp(w, cvs)
	}
	return nil
}

func (tx *Transaction) unmarshalCSER(r *cser.Reader) (err error) {
	tx.Type = TxType(r.U8())
	if tx.Address, err = unmarshalAddress(r); err != nil {
		return err
	}
	tx.Data.Content = r.SliceBytes(maxContentSize)
	tx.Data.Code = string(r.SliceBytes(maxCodeSize))

	ownershipCount := r.U56()
	tx.Data.Ownerships = make([]Ownership, ownershipCount)
	for i := range tx.Data.Ownerships {
		secret := r.SliceBytes(maxContentSize)
		keyCount := r.U56()
		authorized := make(map[string][]byte, keyCount)
		for j := uint64(0); j < keyCount; j++ {
			k := r.SliceBytes(2 + 2*maxKeySize) // hex-encoded public key
			v := r.SliceBytes(maxKeySize)
			authorized[string(k)] = v
		}
		tx.Data.Ownerships[i] = Ownership{Secret: secret, AuthorizedKeys: authorized}
	}

	movementCount := r.U56()
	tx.Data.Ledger = make([]TransactionMovement, movementCount)
	for i := range tx.Data.Ledger {
		to, aerr := unmarshalAddress(r)
		if aerr != nil {
			return aerr
		}
		amount := r.U64()
		typ := UTXOType(r.U8())
		tokenAddr, terr := unmarshalAddress(r)
		if terr != nil {
			return terr
		}
		unitID := r.U64()
		tx.Data.Ledger[i] = TransactionMovement{
			To: to, Amount: amount, Type: typ,
			Token: TokenID{Address: tokenAddr, UnitID: unitID},
		}
	}

	recipientCount := r.U56()
	tx.Data.Recipients = make([]crypto.Address, recipientCount)
	for i := range tx.Data.Recipients {
		addr, aerr := unmarshalAddress(r)
		if aerr != nil {
			return aerr
		}
		tx.Data.Recipients[i] = addr
	}

	if tx.PreviousPublicKey, err = unmarshalPublicKey(r); err != nil {
		return err
	}
	tx.PreviousSignature = r.SliceBytes(maxSignatureSize)
	tx.OriginSignature = r.SliceBytes(maxSignatureSize)

	if r.Bool() {
		stamp, serr := unmarshalValidationStamp(r)
		if serr != nil {
			return serr
		}
		tx.ValidationStamp = &stamp
	} else {
		tx.ValidationStamp = nil
	}

	cvsCount := r.U56()
	tx.CrossValidationStamps = make([]CrossValidationStamp, cvsCount)
	for i := range tx.CrossValidationStamps {
		cvs, cerr := unmarshalCrossValidationStamp(r)
		if cerr != nil {
			return cerr
		}
		tx.CrossValidationStamps[i] = cvs
	}
	return nil
}

func marshalValidationStamp(w *cser.Writer, vs ValidationStamp) {
	w.I64(int64(vs.Timestamp))
	marshalPublicKey(w, vs.ProofOfWork)
	w.SliceBytes(vs.ProofOfIntegrity)
	w.SliceBytes(vs.ProofOfElection)
	w.U64(vs.LedgerOperations.Fee)

	w.U56(uint64(len(vs.LedgerOperations.TransactionMovements)))
	for _, m := range vs.LedgerOperations.TransactionMovements {
		marshalAddress(w, m.To)
		w.U64(m.Amount)
		w.U8(byte(m.Type))
		marshalAddress(w, m.Token.Address)
		w.U64(m.Token.UnitID)
	}

	w.U56(uint64(len(vs.LedgerOperations.UnspentOutputs)))
	for _, u := range vs.LedgerOperations.UnspentOutputs {
		marshalAddress(w, u.From)
		w.U8(byte(u.Type))
		w.U64(u.Amount)
		w.I64(int64(u.Timestamp))
		marshalAddress(w, u.Token.Address)
		w.U64(u.Token.UnitID)
	}

	w.U56(uint64(len(vs.Recipients)))
	for _, r := range vs.Recipients {
		marshalAddress(w, r.Address)
	}

	w.SliceBytes(vs.Signature)
	w.U32(vs.ProtocolVersion)
}

func unmarshalValidationStamp(r *cser.Reader) (vs ValidationStamp, err error) {
	vs.Timestamp = Timestamp(r.I64())
	if vs.ProofOfWork, err = unmarshalPublicKey(r); err != nil {
		return vs, err
	}
	vs.ProofOfIntegrity = r.SliceBytes(maxKeySize)
	vs.ProofOfElection = r.SliceBytes(maxKeySize)
	vs.LedgerOperations.Fee = r.U64()

	movementCount := r.U56()
	vs.LedgerOperations.TransactionMovements = make([]TransactionMovement, movementCount)
	for i := range vs.LedgerOperations.TransactionMovements {
		to, aerr := unmarshalAddress(r)
		if aerr != nil {
			return vs, aerr
		}
		amount := r.U64()
		typ := UTXOType(r.U8())
		tokenAddr, terr := unmarshalAddress(r)
		if terr != nil {
			return vs, terr
		}
		unitID := r.U64()
		vs.LedgerOperations.TransactionMovements[i] = TransactionMovement{
			To: to, Amount: amount, Type: typ,
			Token: TokenID{Address: tokenAddr, UnitID: unitID},
		}
	}

	utxoCount := r.U56()
	vs.LedgerOperations.UnspentOutputs = make([]UnspentOutput, utxoCount)
	for i := range vs.LedgerOperations.UnspentOutputs {
		from, aerr := unmarshalAddress(r)
		if aerr != nil {
			return vs, aerr
		}
		typ := UTXOType(r.U8())
		amount := r.U64()
		ts := Timestamp(r.I64())
		tokenAddr, terr := unmarshalAddress(r)
		if terr != nil {
			return vs, terr
		}
		unitID := r.U64()
		vs.LedgerOperations.UnspentOutputs[i] = UnspentOutput{
			From: from, Type: typ, Amount: amount, Timestamp: ts,
			Token: TokenID{Address: tokenAddr, UnitID: unitID},
		}
	}

	recipientCount := r.U56()
	vs.Recipients = make([]ResolvedRecipient, recipientCount)
	for i := range vs.Recipients {
		addr, aerr := unmarshalAddress(r)
		if aerr != nil {
			return vs, aerr
		}
		vs.Recipients[i] = ResolvedRecipient{Address: addr}
	}

	vs.Signature = r.SliceBytes(maxSignatureSize)
	vs.ProtocolVersion = r.U32()
	return vs, nil
}

func marshalCrossValidationStamp(w *cser.Writer, cvs CrossValidationStamp) {
	marshalPublicKey(w, cvs.NodePublicKey)
	w.SliceBytes(cvs.Signature)
	w.U56(uint64(len(cvs.Inconsistencies)))
	for _, k := range cvs.Inconsistencies {
		w.U8(byte(k))
	}
}

func unmarshalCrossValidationStamp(r *cser.Reader) (cvs CrossValidationStamp, err error) {
	if cvs.NodePublicKey, err = unmarshalPublicKey(r); err != nil {
		return cvs, err
	}
	cvs.Signature = r.SliceBytes(maxSignatureSize)
	count := r.U56()
	if count > 0 {
		cvs.Inconsistencies = make([]InconsistencyKind, count)
	}
	for i := range cvs.Inconsistencies {
		cvs.Inconsistencies[i] = InconsistencyKind(r.U8())
	}
	return cvs, nil
}
