// Package bytestream implements a cursor over a borrowed byte slice, the
// same non-owning view binary_stream.c uses for walking kbinxml and ifs
// buffers: peek/read of fixed-width integers, raw byte copies, float
// reinterpretation, and 4-byte forward alignment.
package bytestream

import (
	"encoding/binary"
	"math"
)

// Endian selects the byte order used for multi-byte reads. u8 reads are
// endian-independent.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

// Reader is a non-owning cursor over base. Duplicate forks an independent
// cursor over the same underlying bytes; mutating one cursor never affects
// another. Reader must not outlive the slice it was opened with.
type Reader struct {
	base   []byte
	cursor uint32
	endian Endian
}

// Open borrows data and returns a cursor positioned at offset 0, little
// endian by default.
func Open(data []byte) *Reader {
	return &Reader{base: data, endian: LittleEndian}
}

// Duplicate forks a new cursor over the same buffer, at the same offset
// and endianness.
func (r *Reader) Duplicate() *Reader {
	return &Reader{base: r.base, cursor: r.cursor, endian: r.endian}
}

// Len returns the size of the borrowed buffer.
func (r *Reader) Len() uint32 {
	return uint32(len(r.base))
}

// Offset returns the current cursor position.
func (r *Reader) Offset() uint32 {
	return r.cursor
}

// SetOffset moves the cursor to offset, clamped to the buffer length.
func (r *Reader) SetOffset(offset uint32) {
	r.cursor = min32(offset, r.Len())
}

// AddOffset advances the cursor by delta, saturating at the buffer length.
func (r *Reader) AddOffset(delta uint32) {
	if delta > r.Len()-r.cursor {
		r.cursor = r.Len()
		return
	}
	r.cursor += delta
}

// AtEnd reports whether the cursor has reached or passed the end of the
// buffer.
func (r *Reader) AtEnd() bool {
	return r.cursor >= r.Len()
}

// Endianness returns the reader's current byte order.
func (r *Reader) Endianness() Endian {
	return r.endian
}

// SetEndianness changes the byte order applied to subsequent u16/u32/u64
// and float reads.
func (r *Reader) SetEndianness(e Endian) {
	r.endian = e
}

// PeekU8 returns the byte at the cursor without advancing it. The caller
// must ensure a byte is available; this is a precondition violation, not a
// recoverable error, matching binary_stream.c's bs_peek_u8.
func (r *Reader) PeekU8() uint8 {
	return r.base[r.cursor]
}

// ReadU8 reads one byte and advances the cursor. u8 reads are
// endian-independent.
func (r *Reader) ReadU8() uint8 {
	v := r.base[r.cursor]
	r.cursor++
	return v
}

// ReadU16 reads two bytes in the reader's current endianness.
func (r *Reader) ReadU16() uint16 {
	b := r.base[r.cursor : r.cursor+2]
	r.cursor += 2
	if r.endian == BigEndian {
		return binary.BigEndian.Uint16(b)
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadU32 reads four bytes in the reader's current endianness.
func (r *Reader) ReadU32() uint32 {
	b := r.base[r.cursor : r.cursor+4]
	r.cursor += 4
	if r.endian == BigEndian {
		return binary.BigEndian.Uint32(b)
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadU64 reads eight bytes in the reader's current endianness.
func (r *Reader) ReadU64() uint64 {
	b := r.base[r.cursor : r.cursor+8]
	r.cursor += 8
	if r.endian == BigEndian {
		return binary.BigEndian.Uint64(b)
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadF32 reinterprets the next four bytes' integer bit pattern as an
// IEEE-754 single-precision float, the safe equivalent of the source's
// pointer-cast type punning.
func (r *Reader) ReadF32() float32 {
	return math.Float32frombits(r.ReadU32())
}

// ReadF64 reinterprets the next eight bytes' integer bit pattern as an
// IEEE-754 double-precision float.
func (r *Reader) ReadF64() float64 {
	return math.Float64frombits(r.ReadU64())
}

// ReadBytes copies up to n bytes starting at the cursor, returning fewer
// if the buffer is exhausted (a silent short read, matching bs_read_bytes).
func (r *Reader) ReadBytes(n uint32) []byte {
	avail := r.Len() - r.cursor
	if n > avail {
		n = avail
	}
	out := make([]byte, n)
	copy(out, r.base[r.cursor:r.cursor+n])
	r.cursor += n
	return out
}

// Realign32 advances the cursor to the next multiple of 4, a no-op if
// already aligned. It never advances by more than 3 bytes.
func (r *Reader) Realign32() {
	switch r.cursor % 4 {
	case 0:
	case 1:
		r.cursor += 3
	case 2:
		r.cursor += 2
	case 3:
		r.cursor += 1
	}
	if r.cursor > r.Len() {
		r.cursor = r.Len()
	}
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
