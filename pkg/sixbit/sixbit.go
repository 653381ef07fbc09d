// Package sixbit implements kbinxml's six-bit character packing: four
// characters squeezed into three bytes using a 64-character alphabet, with
// short tails (3/2/1 characters) consuming 3/2/1 source bytes respectively.
//
// Factored out of the kbinxml decoder as its own small package, the same
// way mewkiz/flac keeps its bit-twiddling helpers (zigzag, unary,
// twos-complement) in internal/bits rather than inline in the frame
// decoder.
package sixbit

// Alphabet is the 64-character set six-bit packed names are drawn from,
// indexed by the 6-bit value extracted from each packed byte triple.
const Alphabet = "0123456789:ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// byteReader is the minimal surface sixbit.Unpack needs from a cursor;
// satisfied by *bytestream.Reader without sixbit importing it, avoiding an
// import cycle with packages that need both.
type byteReader interface {
	ReadU8() uint8
}

// Unpack reads a one-byte character count followed by the packed name
// bytes, and returns the decoded string. Each group of up to four
// characters is packed into three bytes (24 bits, 6 bits per character,
// most-significant character first); a final partial group of 3, 2, or 1
// characters consumes 3, 2, or 1 source bytes respectively.
func Unpack(r byteReader) string {
	length := int(r.ReadU8())
	out := make([]byte, 0, length)

	for read := 0; read < length; read += 4 {
		remaining := length - read
		switch {
		case remaining >= 4:
			b0, b1, b2 := r.ReadU8(), r.ReadU8(), r.ReadU8()
			bits := uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2)
			out = append(out,
				Alphabet[bits>>18],
				Alphabet[(bits>>12)&0x3f],
				Alphabet[(bits>>6)&0x3f],
				Alphabet[bits&0x3f],
			)
		case remaining == 3:
			b0, b1, b2 := r.ReadU8(), r.ReadU8(), r.ReadU8()
			bits := uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2)
			out = append(out,
				Alphabet[bits>>18],
				Alphabet[(bits>>12)&0x3f],
				Alphabet[(bits>>6)&0x3f],
			)
		case remaining == 2:
			b0, b1 := r.ReadU8(), r.ReadU8()
			bits := uint32(b0)<<16 | uint32(b1)<<8
			out = append(out,
				Alphabet[bits>>18],
				Alphabet[(bits>>12)&0x3f],
			)
		default: // remaining == 1
			b0 := r.ReadU8()
			bits := uint32(b0) << 16
			out = append(out, Alphabet[bits>>18])
		}
	}

	return string(out)
}
