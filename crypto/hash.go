package crypto

import (
	"crypto/sha256"
	"crypto/sha512"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Hash digests data with the algorithm named by algo. Keccak is go-ethereum's
// crypto.Keccak256, matching the hashing used throughout the rest of the
// stack for event/transaction identifiers.
func Hash(algo HashAlgo, data ...[]byte) []byte {
	switch algo {
	case HashSHA256:
		h := sha256.New()
		for _, d := range data {
			h.Write(d)
		}
		return h.Sum(nil)
	case HashSHA512:
		h := sha512.New()
		for _, d := range data {
			h.Write(d)
		}
		return h.Sum(nil)
	case HashSHA3_256:
		h := sha3.New256()
		for _, d := range data {
			h.Write(d)
		}
		return h.Sum(nil)
	case HashBlake2b:
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		for _, d := range data {
			h.Write(d)
		}
		return h.Sum(nil)
	case HashKeccak:
		return gethcrypto.Keccak256(data...)
	default:
		return gethcrypto.Keccak256(data...)
	}
}
