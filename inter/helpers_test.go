package inter

import (
	"crypto/ecdsa"
	"math/rand"
	"time"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// fixedTestTime returns a stable timestamp for deterministic test fixtures.
func fixedTestTime() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

// fakeTxKey deterministically derives a secp256k1 key from seed, mirroring
// the teacher's FakeKey helper for reproducible test fixtures.
func fakeTxKey(seed int64) *ecdsa.PrivateKey {
	raw := make([]byte, 32)
	rand.New(rand.NewSource(seed)).Read(raw)
	key, err := gethcrypto.ToECDSA(raw)
	if err != nil {
		panic(err)
	}
	return key
}
