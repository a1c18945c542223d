package mining

import (
	"crypto/ecdsa"
	"math/rand"
	"time"

	"github.com/archethic-network/mining-core/crypto"
	"github.com/archethic-network/mining-core/inter"
	"github.com/archethic-network/mining-core/node"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

func fakeKey(seed int64) *ecdsa.PrivateKey {
	key, err := ecdsa.GenerateKey(gethcrypto.S256(), rand.New(rand.NewSource(seed)))
	if err != nil {
		panic(err)
	}
	return key
}

func fixedNow() inter.Timestamp {
	return inter.TimestampFromTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func buildCommittee(n int) ([]node.Node, []crypto.KeyPair) {
	nodes := make([]node.Node, n)
	keys := make([]crypto.KeyPair, n)
	for i := 0; i < n; i++ {
		kp := crypto.NewKeyPair(fakeKey(int64(100+i)), crypto.OriginOnChain)
		keys[i] = kp
		nodes[i] = node.Node{PublicKey: kp.PublicKey(), FirstPublicKey: kp.PublicKey(), GeoPatch: "EU"}
	}
	return nodes, keys
}

func buildSampleTx(senderSeed int64, recipientSeed int64, amount uint64) (inter.Transaction, crypto.KeyPair, crypto.KeyPair) {
	sender := crypto.NewKeyPair(fakeKey(senderSeed), crypto.OriginSoftware)
	recipient := crypto.NewKeyPair(fakeKey(recipientSeed), crypto.OriginSoftware)

	tx := inter.Transaction{
		Address:           crypto.DeriveAddress(sender.PublicKey(), crypto.HashSHA256),
		Type:              inter.TxTransfer,
		PreviousPublicKey: sender.PublicKey(),
		Data: inter.TransactionData{
			Ledger: []inter.TransactionMovement{{
				To:     crypto.DeriveAddress(recipient.PublicKey(), crypto.HashSHA256),
				Amount: amount,
				Type:   inter.UTXOUco,
			}},
		},
	}
	sig, err := sender.Sign(tx.PendingBytes())
	if err != nil {
		panic(err)
	}
	tx.PreviousSignature = sig
	return tx, sender, recipient
}
