package mining

import (
	"testing"

	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/feeengine"
	"github.com/archethic-network/mining-core/inter"
	"github.com/archethic-network/mining-core/node"
	"github.com/archethic-network/mining-core/replication"
	"github.com/stretchr/testify/require"
)

func buildDistributedInput(tx inter.Transaction, sender crypto.KeyPair) (*Registry, DistributedInput) {
	committee, committeeKeys := buildCommittee(3)
	coordinatorKeys := crypto.NewKeystore(committeeKeys[0], committeeKeys[0])
	ring := crypto.NewOriginKeyRing(sender.PublicKey())

	available := []inter.UnspentOutput{{
		From: tx.Address, Type: inter.UTXOUco, Amount: 5_000_000, Timestamp: fixedNow() - 1,
	}}

	storage := []node.Node{
		{GeoPatch: "EU"}, {GeoPatch: "US"}, {GeoPatch: "AS"},
	}

	contexts := []inter.MiningContext{
		{ValidationNodePublicKey: committee[0].PublicKey, CrossValidationNodesView: inter.AvailabilityView{true, true, true}},
		{ValidationNodePublicKey: committee[1].PublicKey, CrossValidationNodesView: inter.AvailabilityView{true, true, true}},
		{ValidationNodePublicKey: committee[2].PublicKey, CrossValidationNodesView: inter.AvailabilityView{true, true, true}},
	}

	in := DistributedInput{
		Tx:                 tx,
		Committee:          committee,
		CoordinatorKeys:    coordinatorKeys,
		CrossValidatorKeys: committeeKeys[1:],
		Contexts:           contexts,
		OriginRing:         ring,
		AvailableOutputs:   available,
		Price:              feeengine.Price{USD: 1.0},
		PreviousPOI:        nil,
		POIAlgo:            crypto.HashSHA256,
		ElectionSeed:       []byte("seed"),
		PreviousTimestamp:  fixedNow() - 10,
		StorageNodes:       storage,
		Distance:           replication.DefaultDistance,
		Now:                fixedNow(),
	}
	return &Registry{}, in
}

// TestDistributedCommit is scenario S2: committee of 3, all contexts
// arrive, stamps agree, quorum of storage acknowledgments arrive; terminal
// state Done with both cross-validation stamps carrying no inconsistencies.
func TestDistributedCommit(t *testing.T) {
	require := require.New(t)

	tx, sender, _ := buildSampleTx(10, 11, 1_000_000)
	registry, in := buildDistributedInput(tx, sender)
	in.Quorum = func(tree replication.Tree) (int, int) { return 3, 2 }

	result, stamps, err := RunDistributed(registry, in)
	require.NoError(err)
	require.NotNil(result.ValidationStamp)
	require.Len(stamps, 2)
	require.True(AtomicCommit(stamps))

	_, found := registry.Get(tx.Address.String())
	require.False(found)
}

// TestDistributedFeeMismatchAborts is scenario S3: a cross validator
// recomputes against a different UCO price, reports a fee inconsistency,
// and the transaction aborts without being committed.
func TestDistributedFeeMismatchAborts(t *testing.T) {
	require := require.New(t)

	tx, sender, _ := buildSampleTx(20, 21, 1_000_000)
	registry, in := buildDistributedInput(tx, sender)
	in.CrossValidatorOverride = func(i int, recomputeIn *RecomputeInput) {
		if i == 0 {
			recomputeIn.Price = feeengine.Price{USD: 0.1}
		}
	}

	result, stamps, err := RunDistributed(registry, in)
	require.Error(err)
	require.False(AtomicCommit(stamps))
	require.NotNil(result.ValidationStamp) // stamp still attached for inspection even though the caller must not persist it

	dishonest := IdentifyDishonest(stamps)
	require.NotEmpty(dishonest)

	_, found := registry.Get(tx.Address.String())
	require.False(found)
}

// TestDistributedReplicationTimeout is scenario S5: committee commits but
// too few storage acknowledgments arrive before the deadline.
func TestDistributedReplicationTimeout(t *testing.T) {
	require := require.New(t)

	tx, sender, _ := buildSampleTx(30, 31, 1_000_000)
	registry, in := buildDistributedInput(tx, sender)
	in.Quorum = func(tree replication.Tree) (int, int) { return 1, 3 }

	_, stamps, err := RunDistributed(registry, in)
	require.Error(err)
	require.True(AtomicCommit(stamps))

	var timeoutErr *ReplicationTimeoutError
	require.ErrorAs(err, &timeoutErr)

	_, found := registry.Get(tx.Address.String())
	require.False(found)
}

// TestRegistryStaleElectionSupersedes exercises scenario S6's underlying
// mechanism: a second Start for the same address cancels the first.
func TestRegistryStaleElectionSupersedes(t *testing.T) {
	require := require.New(t)

	registry := &Registry{}
	first := registry.Start("addr-1")
	second := registry.Start("addr-1")

	require.NotSame(first, second)
	select {
	case <-first.ctx.Done():
	default:
		t.Fatal("expected first workflow's context to be cancelled")
	}

	current, found := registry.Get("addr-1")
	require.True(found)
	require.Same(second, current)
}
