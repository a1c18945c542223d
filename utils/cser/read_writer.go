// Package cser implements the canonical split-stream encoding used for
// every wire-exact value in this repository: transactions, validation
// stamps, and P2P messages. Integers are packed into the fewest bytes
// that represent them (the length itself is recorded as a few bits in a
// side bit-stream), booleans cost one bit, and the decoder rejects
// anything that wasn't packed minimally. That canonical-or-bust
// rule is what lets two honest nodes compare serialized bytes directly
// instead of deep-comparing decoded structures.
package cser

import (
	"errors"
	"math/big"

	"github.com/archethic-network/mining-core/utils/bits"
	"github.com/archethic-network/mining-core/utils/fast"
)

var (
	ErrNonCanonicalEncoding = errors.New("cser: non-canonical encoding")
	ErrMalformedEncoding    = errors.New("cser: malformed encoding")
	ErrTooLargeAlloc        = errors.New("cser: declared size exceeds limit")
)

// MaxAlloc is a general allocation bound for decoders. Nothing in this
// repository reads it: each decode call passes its own per-field limit to
// Reader.SliceBytes, which panics with ErrTooLargeAlloc above that limit.
const MaxAlloc = 100 * 1024

// Writer accumulates a value's encoding across two streams: fixed-width
// data bytes (BytesW) and small side-channel fields such as lengths and
// flags (BitsW).
type Writer struct {
	BitsW  *bits.Writer
	BytesW *fast.Writer
}

// Reader mirrors Writer for decoding.
type Reader struct {
	BitsR  *bits.Reader
	BytesR *fast.Reader
}

func NewWriter() *Writer {
	bbits := &bits.Array{Bytes: make([]byte, 0, 32)}
	bbytes := make([]byte, 0, 200)
	return &Writer{
		BitsW:  bits.NewWriter(bbits),
		BytesW: fast.NewWriter(bbytes),
	}
}

// writeUint64Compact is a base-128 varint with reversed stop semantics
// (MSB set means "last byte", not "more bytes"), so the suffix written by
// binaryFromCSER can be read back by scanning from the end of the slice.
func writeUint64Compact(bytesW *fast.Writer, v uint64) {
	for {
		chunk := v & 0b01111111
		v >>= 7
		if v == 0 {
			chunk |= 0b10000000
		}
		bytesW.WriteByte(byte(chunk))
		if v == 0 {
			break
		}
	}
}

func readUint64Compact(bytesR *fast.Reader) uint64 {
	v := uint64(0)
	stop := false
	for i := 0; !stop; i++ {
		chunk := uint64(bytesR.ReadByte())
		stop = chunk&0b10000000 != 0
		word := chunk & 0b01111111
		v |= word << (i * 7)
		if i > 0 && stop && word == 0 {
			panic(ErrNonCanonicalEncoding)
		}
	}
	return v
}

// writeUint64BitCompact writes v little-endian in the fewest bytes that
// represent it, never fewer than minSize, and returns the byte count used.
func writeUint64BitCompact(bytesW *fast.Writer, v uint64, minSize int) (size int) {
	for size < minSize || v != 0 {
		bytesW.WriteByte(byte(v))
		size++
		v >>= 8
	}
	return
}

func readUint64BitCompact(bytesR *fast.Reader, size int) uint64 {
	var v uint64
	var last byte
	for i, b := range bytesR.Read(size) {
		v |= uint64(b) << uint(8*i)
		last = b
	}
	if size > 1 && last == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	return v
}

// readU64_bits/writeU64_bits implement the split-stream pattern shared by
// every fixed-width integer below: the byte length beyond minSize is
// recorded in bitsForSize bits of the bit stream, and the value itself
// goes to the byte stream at that length.
func (r *Reader) readU64_bits(minSize int, bitsForSize int) uint64 {
	size := r.BitsR.Read(bitsForSize)
	return readUint64BitCompact(r.BytesR, int(size)+minSize)
}

func (w *Writer) writeU64_bits(minSize int, bitsForSize int, v uint64) {
	size := writeUint64BitCompact(w.BytesW, v, minSize)
	w.BitsW.Write(bitsForSize, uint(size-minSize))
}

func (w *Writer) U8(v uint8) { w.BytesW.WriteByte(v) }
func (r *Reader) U8() uint8  { return r.BytesR.ReadByte() }

func (w *Writer) U16(v uint16) { w.writeU64_bits(1, 1, uint64(v)) }
func (r *Reader) U16() uint16  { return uint16(r.readU64_bits(1, 1)) }

func (w *Writer) U32(v uint32) { w.writeU64_bits(1, 2, uint64(v)) }
func (r *Reader) U32() uint32  { return uint32(r.readU64_bits(1, 2)) }

func (w *Writer) U64(v uint64) { w.writeU64_bits(1, 3, v) }
func (r *Reader) U64() uint64  { return r.readU64_bits(1, 3) }

// VarUint is U64 under another name, used where the call site cares about
// semantics (counts) rather than width.
func (w *Writer) VarUint(v uint64) { w.writeU64_bits(1, 3, v) }
func (r *Reader) VarUint() uint64  { return r.readU64_bits(1, 3) }

// I64 stores the sign as one bit followed by the absolute value as U64;
// negative zero is rejected as non-canonical.
func (w *Writer) I64(v int64) {
	w.Bool(v < 0)
	if v < 0 {
		w.U64(uint64(-v))
	} else {
		w.U64(uint64(v))
	}
}

func (r *Reader) I64() int64 {
	neg := r.Bool()
	abs := r.U64()
	if neg && abs == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	if neg {
		return -int64(abs)
	}
	return int64(abs)
}

// U56 bounds slice/map lengths to 56 bits (7 bytes), with no minimum byte
// count, so a zero length costs zero body bytes.
func (w *Writer) U56(v uint64) {
	const max = 1<<(8*7) - 1
	if v > max {
		panic("cser: value too large for U56")
	}
	w.writeU64_bits(0, 3, v)
}
func (r *Reader) U56() uint64 { return r.readU64_bits(0, 3) }

func (w *Writer) Bool(v bool) {
	u := uint(0)
	if v {
		u = 1
	}
	w.BitsW.Write(1, u)
}
func (r *Reader) Bool() bool { return r.BitsR.Read(1) != 0 }

// FixedBytes writes/reads exactly len(v) bytes with no length prefix; use
// it for fixed-width fields such as hashes and signatures.
func (w *Writer) FixedBytes(v []byte) { w.BytesW.Write(v) }
func (r *Reader) FixedBytes(v []byte) {
	copy(v, r.BytesR.Read(len(v)))
}

// SliceBytes prefixes v with its length (U56) so the reader knows how
// much to consume.
func (w *Writer) SliceBytes(v []byte) {
	w.U56(uint64(len(v)))
	w.FixedBytes(v)
}
func (r *Reader) SliceBytes(maxLen int) []byte {
	size := r.U56()
	if size > uint64(maxLen) {
		panic(ErrTooLargeAlloc)
	}
	buf := make([]byte, size)
	r.FixedBytes(buf)
	return buf
}

// PaddedBytes left-pads b with zero bytes up to length n.
func PaddedBytes(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	return append(make([]byte, n-len(b)), b...)
}

// BigInt encodes the magnitude only (negative amounts never occur in the
// ledger model this codec serves).
func (w *Writer) BigInt(v *big.Int) {
	var raw []byte
	if v.Sign() != 0 {
		raw = v.Bytes()
	}
	w.SliceBytes(raw)
}

func (r *Reader) BigInt() *big.Int {
	buf := r.SliceBytes(512)
	if len(buf) == 0 {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(buf)
}
