// Package kbinxml decodes the proprietary binary-XML format used to embed
// archive manifests: a node section (element/attribute structure) and a
// data section (typed leaf payloads), addressed by two independent
// big-endian cursors over the same buffer.
//
// The type table below is a flat, position-indexed array of
// {name, count, code} records rather than a class hierarchy — the same
// shape scigolib/hdf5 uses for its datatype-message dispatch table.
package kbinxml

// elementCode identifies the scalar wire representation a type table entry
// reads from the data section. Several named types (e.g. "bool", "time")
// share a code with a plainer type ('s8', 'u32') at a different name.
type elementCode int

const (
	codeNone elementCode = iota
	codeS8
	codeU8
	codeS16
	codeU16
	codeS32
	codeU32
	codeS64
	codeU64
	codeFloat
	codeDouble
	codeString
	codeBinary
	codeIPv4
)

// formatEntry is one row of the type table: the leaf's canonical name
// (written to the synthesized __type attribute), its fixed element count
// (-1 means variable-width, a u32 length prefix precedes the payload), and
// the scalar wire code used to read and format each element.
type formatEntry struct {
	name  string
	count int
	code  elementCode
}

// Structural xml_type values, outside (or at the edge of) the type table.
const (
	typeNodeStart  = 1
	typeBinary     = 10
	typeString     = 11
	typeAttr       = 46
	typeNodeEnd    = 190
	typeEndSection = 191
)

// arrayFlag is the top bit of the wire's raw_type byte.
const arrayFlag = 0x40

// table is indexed by xml_type (after masking off arrayFlag). Index 0 is
// unused on the wire; index 1 is the NODE_START placeholder; index 46 is
// ATTR, handled specially before any table-driven leaf read.
var table = [...]formatEntry{
	0:  {"", 0, codeNone},
	1:  {"void", 0, codeNone},
	2:  {"s8", 1, codeS8},
	3:  {"u8", 1, codeU8},
	4:  {"s16", 1, codeS16},
	5:  {"u16", 1, codeU16},
	6:  {"s32", 1, codeS32},
	7:  {"u32", 1, codeU32},
	8:  {"s64", 1, codeS64},
	9:  {"u64", 1, codeU64},
	10: {"bin", -1, codeBinary},
	11: {"str", -1, codeString},
	12: {"ip4", 1, codeIPv4},
	13: {"time", 1, codeU32},
	14: {"float", 1, codeFloat},
	15: {"double", 1, codeDouble},
	16: {"2s8", 2, codeS8},
	17: {"2u8", 2, codeU8},
	18: {"2s16", 2, codeS16},
	19: {"2u16", 2, codeU16},
	20: {"2s32", 2, codeS32},
	21: {"2u32", 2, codeU32},
	22: {"2s64", 2, codeS64},
	23: {"2u64", 2, codeU64},
	24: {"2f", 2, codeFloat},
	25: {"2d", 2, codeDouble},
	26: {"3s8", 3, codeS8},
	27: {"3u8", 3, codeU8},
	28: {"3s16", 3, codeS16},
	29: {"3u16", 3, codeU16},
	30: {"3s32", 3, codeS32},
	31: {"3u32", 3, codeU32},
	32: {"3s64", 3, codeS64},
	33: {"3u64", 3, codeU64},
	34: {"3f", 3, codeFloat},
	35: {"3d", 3, codeDouble},
	36: {"4s8", 4, codeS8},
	37: {"4u8", 4, codeU8},
	38: {"4s16", 4, codeS16},
	39: {"4u16", 4, codeU16},
	40: {"4s32", 4, codeS32},
	41: {"4u32", 4, codeU32},
	42: {"4s64", 4, codeS64},
	43: {"4u64", 4, codeU64},
	44: {"4f", 4, codeFloat},
	45: {"4d", 4, codeDouble},
	46: {"attr", 0, codeNone},
	47: {"array", 0, codeNone},
	48: {"vs8", 16, codeS8},
	49: {"vu8", 16, codeU8},
	50: {"vs16", 8, codeS16},
	51: {"vu16", 8, codeU16},
	52: {"bool", 1, codeS8},
	53: {"2b", 2, codeS8},
	54: {"3b", 3, codeS8},
	55: {"4b", 4, codeS8},
	56: {"vb", 16, codeS8},
}

// lookup returns the table entry for xmlType and whether it exists.
func lookup(xmlType uint8) (formatEntry, bool) {
	if int(xmlType) >= len(table) {
		return formatEntry{}, false
	}
	return table[xmlType], true
}
