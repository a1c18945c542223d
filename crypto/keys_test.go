package crypto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublicKeyBytesRoundTrip(t *testing.T) {
	require := require.New(t)

	pk := PublicKey{Curve: CurveSECP256K1, Origin: OriginSoftware, Key: []byte{0xAA, 0xBB, 0xCC}}
	got, err := PublicKeyFromBytes(pk.Bytes())
	require.NoError(err)
	require.Equal(pk, got)
}

func TestPublicKeyFromBytesTooShort(t *testing.T) {
	_, err := PublicKeyFromBytes([]byte{0x01})
	require.Error(t, err)
}

func TestPublicKeyEmpty(t *testing.T) {
	require := require.New(t)
	require.True(PublicKey{}.Empty())
	require.False(PublicKey{Curve: CurveSECP256K1, Key: []byte{0x01}}.Empty())
}

func TestPublicKeyCopyIsDeep(t *testing.T) {
	require := require.New(t)

	original := PublicKey{Curve: CurveSECP256K1, Key: []byte{0xAA, 0xBB}}
	copied := original.Copy()
	copied.Key[0] = 0xFF

	require.Equal(byte(0xAA), original.Key[0])
	require.NotEqual(original, copied)
}

func TestPublicKeyMarshalText(t *testing.T) {
	require := require.New(t)

	original := PublicKey{Curve: CurveSECP256K1, Origin: OriginSoftware, Key: []byte{0xAA, 0xBB, 0xCC}}
	data, err := json.Marshal(&original)
	require.NoError(err)
	require.Equal(`"`+original.String()+`"`, string(data))

	var decoded PublicKey
	require.NoError(json.Unmarshal(data, &decoded))
	require.Equal(original, decoded)
}

func TestAddressBytesRoundTrip(t *testing.T) {
	require := require.New(t)

	addr := Address{Curve: CurveSECP256K1, HashAlgo: HashSHA256, Digest: []byte{1, 2, 3, 4}}
	got, err := AddressFromBytes(addr.Bytes())
	require.NoError(err)
	require.Equal(addr, got)
}

func TestDeriveAddressDeterministic(t *testing.T) {
	require := require.New(t)

	pk := PublicKey{Curve: CurveSECP256K1, Origin: OriginSoftware, Key: []byte{1, 2, 3}}
	a1 := DeriveAddress(pk, HashSHA256)
	a2 := DeriveAddress(pk, HashSHA256)
	require.Equal(a1, a2)

	other := PublicKey{Curve: CurveSECP256K1, Origin: OriginSoftware, Key: []byte{1, 2, 4}}
	a3 := DeriveAddress(other, HashSHA256)
	require.NotEqual(a1, a3)
}
