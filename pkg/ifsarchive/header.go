// Package ifsarchive parses the proprietary "ifs" container archive: a
// 20-byte big-endian header (with an XOR-checked version field and an
// optional trailing MD5), immediately followed by a kbinxml manifest and
// then the concatenated raw entry bodies.
//
// Header parsing follows the same pattern the teacher uses in
// pkg/psp/format_2025/index.go: a fixed-layout struct with an explicit
// Unpack that reads each field off a cursor in wire order.
package ifsarchive

import (
	"github.com/iidx-tools/notecount/pkg/bytestream"
	"github.com/iidx-tools/notecount/pkg/utils"
)

// Signature is the required magic value at the start of every ifs file.
const Signature = 0x6CAD8F89

// headerSize is the fixed header: u32 + u16 + u16 + u32 + u32 + u32 = 20
// bytes. (original_source/ifs.c's ifs_header struct sizes to 20 bytes;
// this module follows the original layout over spec.md's "16 bytes"
// prose, which undercounts its own field list.)
const headerSize = 20

// md5Size is the optional manifest MD5 present when Version > 1.
const md5Size = 16

// Header is the ifs archive's fixed header.
type Header struct {
	Signature   uint32
	Version     uint16
	NotVersion  uint16
	Timestamp   uint32 // advisory creation epoch
	TreeSize    uint32 // advisory; not used for any control-flow decision (spec §9)
	ManifestEnd uint32 // absolute file offset where entry bodies begin
}

// HasMD5 reports whether a 16-byte manifest MD5 follows this header on
// the wire (version > 1).
func (h *Header) HasMD5() bool {
	return h.Version > 1
}

// Valid reports whether the header's signature and version/not_version
// complement pair are well-formed.
func (h *Header) Valid() bool {
	return h.Signature == Signature && utils.ValidComplement16(h.Version, h.NotVersion)
}

// Unpack reads a Header from r, which must be positioned at the start of
// the archive and big-endian. It does not validate the header; call
// Valid() after Unpack.
func (h *Header) Unpack(r *bytestream.Reader) {
	h.Signature = r.ReadU32()
	h.Version = r.ReadU16()
	h.NotVersion = r.ReadU16()
	h.Timestamp = r.ReadU32()
	h.TreeSize = r.ReadU32()
	h.ManifestEnd = r.ReadU32()
}
