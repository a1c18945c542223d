// Package crypto wraps the node's cryptographic primitives collaborator:
// key representation, signing, hashing, and the daily/storage nonce
// keystores the mining workflow depends on. The actual elliptic-curve
// math is delegated to go-ethereum's secp256k1 implementation; this
// package only adds the wire-exact key/address encoding and the
// rotation semantics spec.md §9 calls for.
package crypto

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Curve identifies the elliptic curve a key was generated on.
type Curve uint8

const (
	CurveEd25519   Curve = 0
	CurveSECP256K1 Curve = 1
	CurveSECP256R1 Curve = 2
)

// Origin identifies how a key came to exist: a locally generated software
// key, a hardware-backed key, or one derived on-chain from a transaction
// chain seed. Origin is carried in the wire encoding so a verifier never
// has to guess which derivation path produced a key.
type Origin uint8

const (
	OriginSoftware Origin = 0
	OriginTPM      Origin = 1
	OriginOnChain  Origin = 2
)

// HashAlgo identifies the digest algorithm an Address was built with.
type HashAlgo uint8

const (
	HashSHA256   HashAlgo = 0
	HashSHA512   HashAlgo = 1
	HashKeccak   HashAlgo = 2
	HashBlake2b  HashAlgo = 3
	HashSHA3_256 HashAlgo = 4
)

// PublicKey is a curve- and origin-tagged public key. The wire form is
// [Curve][Origin][Key...] — every node and storage record carries the
// same two-byte prefix so a verifier never has to special-case which
// scheme produced a given key.
type PublicKey struct {
	Curve  Curve
	Origin Origin
	Key    []byte
}

// Empty reports whether pk is the zero value.
func (pk PublicKey) Empty() bool {
	return len(pk.Key) == 0 && pk.Curve == 0 && pk.Origin == 0
}

// Bytes returns the flat [Curve][Origin][Key...] encoding.
func (pk PublicKey) Bytes() []byte {
	out := make([]byte, 0, 2+len(pk.Key))
	out = append(out, byte(pk.Curve), byte(pk.Origin))
	return append(out, pk.Key...)
}

// String renders the hex encoding of Bytes, prefixed with "0x".
func (pk PublicKey) String() string {
	return "0x" + common.Bytes2Hex(pk.Bytes())
}

// Copy returns a deep copy; Key is a slice and must not be shared across
// PublicKey values that might be mutated independently.
func (pk PublicKey) Copy() PublicKey {
	return PublicKey{Curve: pk.Curve, Origin: pk.Origin, Key: common.CopyBytes(pk.Key)}
}

// PublicKeyFromBytes parses the [Curve][Origin][Key...] wire form.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) < 2 {
		return PublicKey{}, errors.New("crypto: public key too short")
	}
	return PublicKey{Curve: Curve(b[0]), Origin: Origin(b[1]), Key: common.CopyBytes(b[2:])}, nil
}

func (pk *PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

func (pk *PublicKey) UnmarshalText(input []byte) error {
	parsed, err := PublicKeyFromBytes(common.FromHex(string(input)))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// Address is the content-addressed identifier derived from a chain's
// current public key: Digest = hash(previous_public_key.Bytes()). The
// wire form is [Curve][HashAlgo][Digest...], mirroring PublicKey's
// two-byte prefix.
type Address struct {
	Curve    Curve
	HashAlgo HashAlgo
	Digest   []byte
}

func (a Address) Bytes() []byte {
	out := make([]byte, 0, 2+len(a.Digest))
	out = append(out, byte(a.Curve), byte(a.HashAlgo))
	return append(out, a.Digest...)
}

func (a Address) String() string {
	return "0x" + common.Bytes2Hex(a.Bytes())
}

func (a Address) Equal(other Address) bool {
	return a.Curve == other.Curve && a.HashAlgo == other.HashAlgo && string(a.Digest) == string(other.Digest)
}

func AddressFromBytes(b []byte) (Address, error) {
	if len(b) < 2 {
		return Address{}, errors.New("crypto: address too short")
	}
	return Address{Curve: Curve(b[0]), HashAlgo: HashAlgo(b[1]), Digest: common.CopyBytes(b[2:])}, nil
}

// DeriveAddress computes the Address a public key resolves to under the
// given hash algorithm: the invariant address == hash(previous_public_key)
// from spec.md §3.
func DeriveAddress(pk PublicKey, algo HashAlgo) Address {
	return Address{Curve: pk.Curve, HashAlgo: algo, Digest: Hash(algo, pk.Bytes())}
}
