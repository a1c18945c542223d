package crypto

import (
	"crypto/ecdsa"
	"errors"
	"sync/atomic"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ErrSignatureInvalid is returned by Verify when a signature does not
// verify under the given public key.
var ErrSignatureInvalid = errors.New("crypto: signature does not verify")

// KeyPair couples a private key with the PublicKey wire encoding derived
// from it, so callers never have to re-derive or mismatch the two.
type KeyPair struct {
	private *ecdsa.PrivateKey
	public  PublicKey
}

// NewKeyPair wraps priv, tagging the derived public key as originating
// from origin (software-generated, hardware, or on-chain derived).
func NewKeyPair(priv *ecdsa.PrivateKey, origin Origin) KeyPair {
	raw := gethcrypto.FromECDSAPub(&priv.PublicKey)
	return KeyPair{
		private: priv,
		public:  PublicKey{Curve: CurveSECP256K1, Origin: origin, Key: raw},
	}
}

func (kp KeyPair) PublicKey() PublicKey { return kp.public }

// Sign signs data's Keccak digest, the signature scheme used by every
// coordinator/cross-validator stamp in this repository.
func (kp KeyPair) Sign(data []byte) ([]byte, error) {
	digest := Hash(HashKeccak, data)
	return gethcrypto.Sign(digest, kp.private)
}

// Verify checks sig against data under pk. pk must be a secp256k1 key;
// other curves are rejected rather than silently treated as valid.
func Verify(pk PublicKey, data, sig []byte) error {
	if pk.Curve != CurveSECP256K1 {
		return errors.New("crypto: unsupported curve for verification")
	}
	digest := Hash(HashKeccak, data)
	// Signatures produced by Sign carry a trailing recovery byte; strip it
	// before calling VerifySignature, which expects the raw 64-byte R||S.
	rs := sig
	if len(rs) == 65 {
		rs = rs[:64]
	}
	if !gethcrypto.VerifySignature(pk.Key, digest, rs) {
		return ErrSignatureInvalid
	}
	return nil
}

// Keystore is the opaque, closure-like handle Design Note §9 calls for:
// the node's daily-rotating shared-secret key never leaves it as raw
// bytes. Readers get a KeyPair snapshot; an "unwrap of fresh node shared
// secrets" event replaces the snapshot atomically so in-flight signers
// never observe a half-rotated key.
type Keystore struct {
	daily   atomic.Pointer[KeyPair]
	storage atomic.Pointer[KeyPair]
}

// NewKeystore seeds the daily and storage nonce slots with their initial
// key material.
func NewKeystore(daily, storage KeyPair) *Keystore {
	ks := &Keystore{}
	ks.daily.Store(&daily)
	ks.storage.Store(&storage)
	return ks
}

// DailyNonce returns the current coordinator-stamp signing key.
func (ks *Keystore) DailyNonce() KeyPair {
	return *ks.daily.Load()
}

// RotateDailyNonce atomically swaps in the next daily key. Workflows that
// already captured the previous KeyPair snapshot keep using it to
// completion; only new reads observe next.
func (ks *Keystore) RotateDailyNonce(next KeyPair) {
	ks.daily.Store(&next)
}

// StorageNonce returns the long-lived key that grants smart-contract
// workers access to contract seeds (spec.md GLOSSARY).
func (ks *Keystore) StorageNonce() KeyPair {
	return *ks.storage.Load()
}

// RotateStorageNonce replaces the storage nonce key material.
func (ks *Keystore) RotateStorageNonce(next KeyPair) {
	ks.storage.Store(&next)
}

// OriginKeyRing is the fixed, globally known set of origin public keys
// the proof-of-work search (spec.md §4.3 step 3) enumerates against.
type OriginKeyRing struct {
	keys []PublicKey
}

func NewOriginKeyRing(keys ...PublicKey) *OriginKeyRing {
	cp := make([]PublicKey, len(keys))
	copy(cp, keys)
	return &OriginKeyRing{keys: cp}
}

// FindSigner returns the first origin key under which sig verifies over
// data, or false if none in the ring does. This is the proof-of-work
// search: it has no notion of "mining difficulty", only membership.
func (r *OriginKeyRing) FindSigner(data, sig []byte) (PublicKey, bool) {
	for _, pk := range r.keys {
		if Verify(pk, data, sig) == nil {
			return pk, true
		}
	}
	return PublicKey{}, false
}
