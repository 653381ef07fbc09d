package kbinxml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iidx-tools/notecount/pkg/bytestream"
)

// formatText reads total elements of the given code from data and renders
// them as the element's text payload (Table T2). Scalar elements are
// joined with a single space and the trailing separator is stripped.
// Binary leaves render lowercase hex with no separators, one hex digit for
// bytes below 0x10 — this reproduces the source's bare "%x" formatting,
// which breaks byte-for-byte round-trip uniqueness for binary blobs; kept
// for output parity, per spec.md §9.
func formatText(code elementCode, data *bytestream.Reader, total uint32) string {
	switch code {
	case codeString:
		return string(data.ReadBytes(total))

	case codeBinary:
		var b strings.Builder
		for i := uint32(0); i < total; i++ {
			fmt.Fprintf(&b, "%x", data.ReadU8())
		}
		return b.String()

	case codeIPv4:
		// IPv4 decoding is stubbed out; no text is written, but the data
		// cursor must still advance past the (undecoded) payload so later
		// siblings realign correctly.
		for i := uint32(0); i < total; i++ {
			data.ReadU32()
		}
		return ""

	default:
		parts := make([]string, total)
		for i := uint32(0); i < total; i++ {
			parts[i] = formatScalar(code, data)
		}
		return strings.Join(parts, " ")
	}
}

func formatScalar(code elementCode, data *bytestream.Reader) string {
	switch code {
	case codeS8:
		return strconv.FormatInt(int64(int8(data.ReadU8())), 10)
	case codeU8:
		return strconv.FormatUint(uint64(data.ReadU8()), 10)
	case codeS16:
		return strconv.FormatInt(int64(int16(data.ReadU16())), 10)
	case codeU16:
		return strconv.FormatUint(uint64(data.ReadU16()), 10)
	case codeS32:
		return strconv.FormatInt(int64(int32(data.ReadU32())), 10)
	case codeU32:
		return strconv.FormatUint(uint64(data.ReadU32()), 10)
	case codeS64:
		return strconv.FormatInt(int64(data.ReadU64()), 10)
	case codeU64:
		return strconv.FormatUint(data.ReadU64(), 10)
	case codeFloat:
		return fmt.Sprintf("%.6f", data.ReadF32())
	case codeDouble:
		return fmt.Sprintf("%.6f", data.ReadF64())
	default:
		return ""
	}
}
