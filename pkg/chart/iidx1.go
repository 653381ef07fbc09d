// Package chart implements the iidx_1 chart catalogue: a fixed 12-entry
// offset/length header followed by per-difficulty 8-byte event streams,
// and the resolver that locates a chart blob for a music identifier
// either from a pre-extracted sidecar file or from an ifs archive's
// manifest.
package chart

import (
	"fmt"

	"github.com/iidx-tools/notecount/pkg/bytestream"
)

// ChartID enumerates the fixed chart slots in an iidx_1 blob. The
// enumeration has gaps: indices 4, 5, 9, 10, 11 are legal array positions
// that simply carry empty charts on this title.
type ChartID int

const (
	SPH ChartID = 0
	SPN ChartID = 1
	SPA ChartID = 2
	SPB ChartID = 3

	DPH ChartID = 6
	DPN ChartID = 7
	DPA ChartID = 8

	// MaxChartCount is the fixed number of chart slots in every iidx_1
	// header.
	MaxChartCount = 12
)

// chartNames maps the named chart slots to their ChartID for command-line
// and reporting use. Gaps (4, 5, 9, 10, 11) have no name.
var chartNames = map[string]ChartID{
	"SPH": SPH, "SPN": SPN, "SPA": SPA, "SPB": SPB,
	"DPH": DPH, "DPN": DPN, "DPA": DPA,
}

// ParseChartName resolves a chart slot name (e.g. "SPA") to its ChartID.
func ParseChartName(name string) (ChartID, bool) {
	id, ok := chartNames[name]
	return id, ok
}

// String returns the chart's name, or its numeric index if it names no
// slot (an empty gap position).
func (c ChartID) String() string {
	for name, id := range chartNames {
		if id == c {
			return name
		}
	}
	return fmt.Sprintf("#%d", int(c))
}

// chartEntrySize is the on-wire size of one {offset, length} pair.
const chartEntrySize = 8

// headerSize is the on-wire size of the fixed iidx_1 header: twelve
// {offset:u32, length:u32} pairs, little-endian.
const headerSize = MaxChartCount * chartEntrySize

// eventSize is the on-wire size of one chart event record.
const eventSize = 8

// chartEndSignature is the terminator value for a chart's time field.
const chartEndSignature = 0x7FFFFFFF

// chartEntry is one {offset, length} pair from the iidx_1 header. offset
// is relative to the start of the blob (the header itself, not its end);
// an offset of 0 means the chart is absent.
type chartEntry struct {
	Offset uint32
	Length uint32
}

// Header is the fixed 12-entry iidx_1 chart catalogue header.
type Header struct {
	entries [MaxChartCount]chartEntry
}

// UnpackHeader reads a Header from the start of blob. blob must be at
// least headerSize bytes; the caller (Resolver) is responsible for that
// length check, matching iidx_1_get_note_counts's own guard in the
// original source.
func UnpackHeader(blob []byte) Header {
	var h Header
	r := bytestream.Open(blob)
	for i := range h.entries {
		h.entries[i] = chartEntry{Offset: r.ReadU32(), Length: r.ReadU32()}
	}
	return h
}

// Entry returns the {offset, length} pair for chart, and whether chart is
// a valid index.
func (h Header) Entry(chart ChartID) (offset, length uint32, ok bool) {
	if chart < 0 || int(chart) >= MaxChartCount {
		return 0, 0, false
	}
	e := h.entries[chart]
	return e.Offset, e.Length, true
}

// ChartBytes returns the slice of blob belonging to chart, given blob
// includes the header. An absent chart (offset 0) or a malformed one
// (span points outside the blob) yields an empty slice.
func (h Header) ChartBytes(blob []byte, chart ChartID) []byte {
	offset, length, ok := h.Entry(chart)
	if !ok || offset == 0 {
		return nil
	}
	start := uint64(offset)
	end := start + uint64(length)
	if end > uint64(len(blob)) {
		return nil
	}
	return blob[start:end]
}

// CountNotes scans a chart's 8-byte event records and returns the note
// count. A chart whose length is zero or not a multiple of eight is
// treated as empty (count 0), never an error — the scan never fails.
//
// Each record is {time:u32, type:u8, param:u8, value:u16}, little-endian.
// The chart terminates at the first record whose time equals
// chartEndSignature. Event type 0x00 (1P) or 0x01 (2P) is a playable
// note; a non-zero value field marks a "charge" note, counted as two.
func CountNotes(chartBytes []byte) int {
	if len(chartBytes) == 0 || len(chartBytes)%eventSize != 0 {
		return 0
	}

	r := bytestream.Open(chartBytes)
	count := 0
	for !r.AtEnd() {
		eventTime := r.ReadU32()
		eventType := r.ReadU8()
		r.ReadU8() // param, unused by the note count
		eventValue := r.ReadU16()

		if eventTime == chartEndSignature {
			break
		}
		if eventType == 0x00 || eventType == 0x01 {
			if eventValue > 0 {
				count += 2
			} else {
				count++
			}
		}
	}
	return count
}
