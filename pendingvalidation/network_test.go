package pendingvalidation

import (
	"crypto/ecdsa"
	"math/rand"
	"testing"

	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/inter"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func fakeKey(seed int64) *ecdsa.PrivateKey {
	key, err := ecdsa.GenerateKey(gethcrypto.S256(), rand.New(rand.NewSource(seed)))
	if err != nil {
		panic(err)
	}
	return key
}

func TestNetworkChainContinuityRejectsWrongGenesis(t *testing.T) {
	require := require.New(t)

	genesisKP := crypto.NewKeyPair(fakeKey(1), crypto.OriginOnChain)
	genesisAddr := crypto.DeriveAddress(genesisKP.PublicKey(), crypto.HashSHA256)

	otherKP := crypto.NewKeyPair(fakeKey(2), crypto.OriginOnChain)

	tx := inter.Transaction{
		Type:              inter.TxNodeSharedSecrets,
		PreviousPublicKey: otherKP.PublicKey(),
		Data: inter.TransactionData{
			Ownerships: []inter.Ownership{{AuthorizedKeys: map[string][]byte{}}},
		},
	}
	sig, err := otherKP.Sign(tx.PendingBytes())
	require.NoError(err)
	tx.PreviousSignature = sig

	ctx := &Context{
		NetworkChainGenesis: map[inter.TxType]crypto.Address{
			inter.TxNodeSharedSecrets: genesisAddr,
		},
	}

	err = Validate(tx, ctx)
	require.Error(err)
	var ve *Error
	require.ErrorAs(err, &ve)
	require.Equal(InvalidNetworkChain, ve.Kind)
}

func TestNetworkChainContinuityAcceptsGenesis(t *testing.T) {
	require := require.New(t)

	genesisKP := crypto.NewKeyPair(fakeKey(1), crypto.OriginOnChain)
	genesisAddr := crypto.DeriveAddress(genesisKP.PublicKey(), crypto.HashSHA256)

	tx := inter.Transaction{
		Type:              inter.TxNodeSharedSecrets,
		PreviousPublicKey: genesisKP.PublicKey(),
		Data: inter.TransactionData{
			Ownerships: []inter.Ownership{{AuthorizedKeys: map[string][]byte{}}},
		},
	}
	sig, err := genesisKP.Sign(tx.PendingBytes())
	require.NoError(err)
	tx.PreviousSignature = sig

	ctx := &Context{
		NetworkChainGenesis: map[inter.TxType]crypto.Address{
			inter.TxNodeSharedSecrets: genesisAddr,
		},
	}

	require.NoError(Validate(tx, ctx))
}
