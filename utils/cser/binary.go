package cser

import (
	"github.com/archethic-network/mining-core/utils/bits"
	"github.com/archethic-network/mining-core/utils/fast"
)

// MarshalBinaryAdapter runs marshalCser against a fresh Writer and packs
// its two streams (bits, bytes) into one wire-ready slice.
func MarshalBinaryAdapter(marshalCser func(*Writer) error) ([]byte, error) {
	w := NewWriter()
	if err := marshalCser(w); err != nil {
		return nil, err
	}
	return binaryFromCSER(w.BitsW.Array, w.BytesW.Bytes())
}

// binaryFromCSER lays the wire format out as:
//
//	[body bytes] [bit-stream bytes] [reversed varint(len(bit-stream bytes))]
//
// The length suffix is written reversed so a reader can find it by scanning
// backward from the end without knowing the body length up front.
func binaryFromCSER(bbits *bits.Array, bbytes []byte) (raw []byte, err error) {
	bodyBytes := fast.NewWriter(bbytes)
	bodyBytes.Write(bbits.Bytes)

	sizeWriter := fast.NewWriter(make([]byte, 0, 4))
	writeUint64Compact(sizeWriter, uint64(len(bbits.Bytes)))
	bodyBytes.Write(reversed(sizeWriter.Bytes()))

	return bodyBytes.Bytes(), nil
}

// binaryToCSER is the inverse of binaryFromCSER: it reads the reversed
// length suffix from the tail of raw, then splits the remainder into the
// body and bit-stream portions.
func binaryToCSER(raw []byte) (bbits *bits.Array, bbytes []byte, err error) {
	bitsSizeBuf := reversed(tail(raw, 9))
	bitsSizeReader := fast.NewReader(bitsSizeBuf)
	bitsSize := readUint64Compact(bitsSizeReader)

	raw = raw[:len(raw)-bitsSizeReader.Position()]
	if uint64(len(raw)) < bitsSize {
		err = ErrMalformedEncoding
		return
	}

	bbits = &bits.Array{Bytes: raw[uint64(len(raw))-bitsSize:]}
	bbytes = raw[:uint64(len(raw))-bitsSize]
	return
}

// UnmarshalBinaryAdapter splits raw into its two streams and runs
// unmarshalCser against them, then enforces canonical encoding: every byte
// and bit written must be consumed, and unused trailing bits must be zero.
func UnmarshalBinaryAdapter(raw []byte, unmarshalCser func(reader *Reader) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrMalformedEncoding
		}
	}()

	bbits, bbytes, err := binaryToCSER(raw)
	if err != nil {
		return err
	}

	bodyReader := &Reader{
		BitsR:  bits.NewReader(bbits),
		BytesR: fast.NewReader(bbytes),
	}

	if err = unmarshalCser(bodyReader); err != nil {
		return err
	}

	if bodyReader.BitsR.NonReadBytes() > 1 {
		return ErrNonCanonicalEncoding
	}
	if tailBits := bodyReader.BitsR.Read(bodyReader.BitsR.NonReadBits()); tailBits != 0 {
		return ErrNonCanonicalEncoding
	}
	if !bodyReader.BytesR.Empty() {
		return ErrNonCanonicalEncoding
	}
	return nil
}

// tail returns the last n bytes of b, or all of b if shorter.
func tail(b []byte, n int) []byte {
	if len(b) > n {
		return b[len(b)-n:]
	}
	return b
}

// reversed returns a copy of b with byte order reversed.
func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
