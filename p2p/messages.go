// Package p2p defines the wire messages exchanged between mining nodes
// (spec.md §6) and the Transport collaborator contract that carries them.
// Message bodies use the same canonical split-stream codec as package
// inter so a node can forward a transaction fragment without re-encoding.
package p2p

import (
	"time"

	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/inter"
	"github.com/archethic-network/mining-core/node"
	"github.com/archethic-network/mining-core/replication"
	"github.com/archethic-network/mining-core/utils/cser"
)

const (
	maxAddressSize   = 64
	maxStringField   = 256
	maxSignatureSize = 128
)

// Kind identifies a message's wire type so a Transport implementation can
// route without decoding the body first.
type Kind uint8

const (
	KindStartMining Kind = iota
	KindAddMiningContext
	KindCrossValidate
	KindCrossValidationDone
	KindReplicateTransactionChain
	KindReplicateTransaction
	KindAcknowledgeStorage
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindStartMining:
		return "start_mining"
	case KindAddMiningContext:
		return "add_mining_context"
	case KindCrossValidate:
		return "cross_validate"
	case KindCrossValidationDone:
		return "cross_validation_done"
	case KindReplicateTransactionChain:
		return "replicate_transaction_chain"
	case KindReplicateTransaction:
		return "replicate_transaction"
	case KindAcknowledgeStorage:
		return "acknowledge_storage"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// StartMining asks a validation node to join the committee for tx (spec.md
// §4.3 step 1).
type StartMining struct {
	Transaction  inter.Transaction
	ElectionSeed []byte
}

// AddMiningContext carries a cross validator's availability view back to
// the coordinator so it can aggregate before building the stamp.
type AddMiningContext struct {
	TransactionAddress crypto.Address
	Context            inter.MiningContext
}

// CrossValidate is the coordinator handing its ValidationStamp to a cross
// validator for independent recomputation (spec.md §4.3 step 4). It also
// carries the replication tree built from the aggregated context and the
// subset of committee members the aggregated availability view confirmed,
// so a cross validator can recompute against the same inputs the
// coordinator used rather than only the transaction itself.
type CrossValidate struct {
	Transaction              inter.Transaction
	ReplicationTree          replication.Tree
	ConfirmedValidationNodes []crypto.PublicKey
}

// CrossValidationDone carries a signed CrossValidationStamp back to the
// coordinator (spec.md §4.3 step 5).
type CrossValidationDone struct {
	TransactionAddress crypto.Address
	Stamp              inter.CrossValidationStamp
}

// ReplicateTransactionChain pushes the full chain for the first replication
// to a newly assigned storage node.
type ReplicateTransactionChain struct {
	Chain []inter.Transaction
}

// ReplicateTransaction pushes a single committed transaction to a storage
// node assigned by the replication tree.
type ReplicateTransaction struct {
	Transaction inter.Transaction
}

// AcknowledgeStorage is a storage node's reply once it has durably written
// a replicated transaction. Signature is the node's signature over
// TransactionAddress, letting the replication-phase quorum be computed over
// signed acknowledgments rather than bare claims (spec.md §4.3, §6).
type AcknowledgeStorage struct {
	TransactionAddress crypto.Address
	NodePublicKey      crypto.PublicKey
	Signature          []byte
}

// Error carries a protocol-level rejection, e.g. transaction_already_exists
// when a node is asked to mine an address it has already committed.
type Error struct {
	TransactionAddress crypto.Address
	Reason             string
}

// Envelope wraps a decoded message body with its Kind so Transport
// implementations can dispatch without a type switch on the concrete type.
type Envelope struct {
	Kind Kind
	Body interface{}
}

func marshalAddress(w *cser.Writer, a crypto.Address) { w.SliceBytes(a.Bytes()) }
func unmarshalAddress(r *cser.Reader) (crypto.Address, error) {
	return crypto.AddressFromBytes(r.SliceBytes(maxAddressSize))
}

func marshalPublicKey(w *cser.Writer, pk crypto.PublicKey) { w.SliceBytes(pk.Bytes()) }
func unmarshalPublicKey(r *cser.Reader) (crypto.PublicKey, error) {
	return crypto.PublicKeyFromBytes(r.SliceBytes(128))
}

func marshalNode(w *cser.Writer, n node.Node) {
	marshalPublicKey(w, n.PublicKey)
	marshalPublicKey(w, n.FirstPublicKey)
	w.SliceBytes([]byte(n.IP))
	w.U32(uint32(n.Port))
	w.U32(uint32(n.HTTPPort))
	w.SliceBytes([]byte(n.GeoPatch))
	w.I64(n.AuthorizationDate.Unix())
	w.Bool(n.Available)
}

func unmarshalNode(r *cser.Reader) (n node.Node, err error) {
	if n.PublicKey, err = unmarshalPublicKey(r); err != nil {
		return n, err
	}
	if n.FirstPublicKey, err = unmarshalPublicKey(r); err != nil {
		return n, err
	}
	n.IP = string(r.SliceBytes(maxStringField))
	n.Port = int(r.U32())
	n.HTTPPort = int(r.U32())
	n.GeoPatch = string(r.SliceBytes(maxStringField))
	n.AuthorizationDate = time.Unix(r.I64(), 0).UTC()
	n.Available = r.Bool()
	return n, nil
}

func marshalTree(w *cser.Writer, t replication.Tree) {
	w.U56(uint64(len(t.Validators)))
	for _, v := range t.Validators {
		marshalNode(w, v)
	}
	w.U56(uint64(len(t.Storage)))
	for _, s := range t.Storage {
		marshalNode(w, s)
	}
	w.U56(uint64(len(t.Rows)))
	for _, row := range t.Rows {
		w.SliceBytes(row.Bytes())
		w.U56(uint64(len(row)))
	}
}

func unmarshalTree(r *cser.Reader) (t replication.Tree, err error) {
	validatorCount := r.U56()
	t.Validators = make([]node.Node, validatorCount)
	for i := range t.Validators {
		if t.Validators[i], err = unmarshalNode(r); err != nil {
			return t, err
		}
	}
	storageCount := r.U56()
	t.Storage = make([]node.Node, storageCount)
	for i := range t.Storage {
		if t.Storage[i], err = unmarshalNode(r); err != nil {
			return t, err
		}
	}
	rowCount := r.U56()
	t.Rows = make([]inter.AvailabilityView, rowCount)
	for i := range t.Rows {
		if t.Rows[i], err = readAvailabilityView(r); err != nil {
			return t, err
		}
	}
	return t, nil
}

func (m StartMining) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		txRaw, err := m.Transaction.MarshalBinary()
		if err != nil {
			return err
		}
		w.SliceBytes(txRaw)
		w.SliceBytes(m.ElectionSeed)
		return nil
	})
}

func (m *StartMining) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) error {
		txRaw := r.SliceBytes(8 * 1024 * 1024)
		var tx inter.Transaction
		if err := tx.UnmarshalBinary(txRaw); err != nil {
			return err
		}
		m.Transaction = tx
		m.ElectionSeed = r.SliceBytes(128)
		return nil
	})
}

func (m AddMiningContext) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		marshalAddress(w, m.TransactionAddress)
		marshalPublicKey(w, m.Context.ValidationNodePublicKey)
		w.U56(uint64(len(m.Context.PreviousStorageNodesKeys)))
		for _, pk := range m.Context.PreviousStorageNodesKeys {
			marshalPublicKey(w, pk)
		}
		w.SliceBytes(m.Context.CrossValidationNodesView.Bytes())
		w.U56(uint64(len(m.Context.CrossValidationNodesView)))
		w.SliceBytes(m.Context.ChainStorageNodesView.Bytes())
		w.U56(uint64(len(m.Context.ChainStorageNodesView)))
		w.SliceBytes(m.Context.BeaconStorageNodesView.Bytes())
		w.U56(uint64(len(m.Context.BeaconStorageNodesView)))
		return nil
	})
}

func (m *AddMiningContext) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) (err error) {
		if m.TransactionAddress, err = unmarshalAddress(r); err != nil {
			return err
		}
		if m.Context.ValidationNodePublicKey, err = unmarshalPublicKey(r); err != nil {
			return err
		}
		keyCount := r.U56()
		m.Context.PreviousStorageNodesKeys = make([]crypto.PublicKey, keyCount)
		for i := range m.Context.PreviousStorageNodesKeys {
			if m.Context.PreviousStorageNodesKeys[i], err = unmarshalPublicKey(r); err != nil {
				return err
			}
		}
		m.Context.CrossValidationNodesView, err = readAvailabilityView(r)
		if err != nil {
			return err
		}
		m.Context.ChainStorageNodesView, err = readAvailabilityView(r)
		if err != nil {
			return err
		}
		m.Context.BeaconStorageNodesView, err = readAvailabilityView(r)
		return err
	})
}

func readAvailabilityView(r *cser.Reader) (inter.AvailabilityView, error) {
	raw := r.SliceBytes(4096)
	n := int(r.U56())
	return inter.AvailabilityViewFromBytes(raw, n), nil
}

func (m CrossValidate) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		txRaw, err := m.Transaction.MarshalBinary()
		if err != nil {
			return err
		}
		w.SliceBytes(txRaw)
		marshalTree(w, m.ReplicationTree)
		w.U56(uint64(len(m.ConfirmedValidationNodes)))
		for _, pk := range m.ConfirmedValidationNodes {
			marshalPublicKey(w, pk)
		}
		return nil
	})
}

func (m *CrossValidate) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) (err error) {
		txRaw := r.SliceBytes(8 * 1024 * 1024)
		if err = m.Transaction.UnmarshalBinary(txRaw); err != nil {
			return err
		}
		if m.ReplicationTree, err = unmarshalTree(r); err != nil {
			return err
		}
		count := r.U56()
		m.ConfirmedValidationNodes = make([]crypto.PublicKey, count)
		for i := range m.ConfirmedValidationNodes {
			if m.ConfirmedValidationNodes[i], err = unmarshalPublicKey(r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m CrossValidationDone) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		marshalAddress(w, m.TransactionAddress)
		marshalPublicKey(w, m.Stamp.NodePublicKey)
		w.SliceBytes(m.Stamp.Signature)
		w.U56(uint64(len(m.Stamp.Inconsistencies)))
		for _, k := range m.Stamp.Inconsistencies {
			w.U8(byte(k))
		}
		return nil
	})
}

func (m *CrossValidationDone) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) (err error) {
		if m.TransactionAddress, err = unmarshalAddress(r); err != nil {
			return err
		}
		if m.Stamp.NodePublicKey, err = unmarshalPublicKey(r); err != nil {
			return err
		}
		m.Stamp.Signature = r.SliceBytes(128)
		count := r.U56()
		m.Stamp.Inconsistencies = make([]inter.InconsistencyKind, count)
		for i := range m.Stamp.Inconsistencies {
			m.Stamp.Inconsistencies[i] = inter.InconsistencyKind(r.U8())
		}
		return nil
	})
}

func (m ReplicateTransaction) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		txRaw, err := m.Transaction.MarshalBinary()
		if err != nil {
			return err
		}
		w.SliceBytes(txRaw)
		return nil
	})
}

func (m *ReplicateTransaction) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) error {
		txRaw := r.SliceBytes(8 * 1024 * 1024)
		return m.Transaction.UnmarshalBinary(txRaw)
	})
}

func (m ReplicateTransactionChain) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		w.U56(uint64(len(m.Chain)))
		for _, tx := range m.Chain {
			txRaw, err := tx.MarshalBinary()
			if err != nil {
				return err
			}
			w.SliceBytes(txRaw)
		}
		return nil
	})
}

func (m *ReplicateTransactionChain) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) error {
		count := r.U56()
		m.Chain = make([]inter.Transaction, count)
		for i := range m.Chain {
			txRaw := r.SliceBytes(8 * 1024 * 1024)
			if err := m.Chain[i].UnmarshalBinary(txRaw); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m AcknowledgeStorage) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		marshalAddress(w, m.TransactionAddress)
		marshalPublicKey(w, m.NodePublicKey)
		w.SliceBytes(m.Signature)
		return nil
	})
}

func (m *AcknowledgeStorage) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) (err error) {
		if m.TransactionAddress, err = unmarshalAddress(r); err != nil {
			return err
		}
		if m.NodePublicKey, err = unmarshalPublicKey(r); err != nil {
			return err
		}
		m.Signature = r.SliceBytes(maxSignatureSize)
		return nil
	})
}

func (m Error) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		marshalAddress(w, m.TransactionAddress)
		w.SliceBytes([]byte(m.Reason))
		return nil
	})
}

func (m *Error) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) (err error) {
		if m.TransactionAddress, err = unmarshalAddress(r); err != nil {
			return err
		}
		m.Reason = string(r.SliceBytes(1024))
		return nil
	})
}
