package chart

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/iidx-tools/notecount/pkg/ifsarchive"
	"github.com/iidx-tools/notecount/pkg/kbinxml"
	"github.com/iidx-tools/notecount/pkg/soundroot"
)

// Resolver locates and parses the iidx_1 chart blob for a music
// identifier, then counts notes per chart. It is stateless across calls
// (spec.md §5): every call opens, reads, and closes its own files.
type Resolver struct {
	root   soundroot.Root
	logger hclog.Logger
}

// NewResolver returns a Resolver rooted at root, logging to logger (which
// may be nil for a null logger).
func NewResolver(root soundroot.Root, logger hclog.Logger) *Resolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resolver{root: root, logger: logger}
}

// CountChart returns the note count for chart in musicID's charts. An
// out-of-range chart index returns (-1, nil) — a sentinel, not an error,
// matching iidx_1_get_note_count's contract in the original source. Any
// failure to locate or read the chart blob is a real error.
func (r *Resolver) CountChart(musicID string, id ChartID) (int, error) {
	if musicID == "" {
		return 0, ErrInvalidParam
	}
	if id < 0 || int(id) >= MaxChartCount {
		return -1, nil
	}

	blob, err := r.loadBlob(musicID)
	if err != nil {
		return 0, err
	}
	if len(blob) < headerSize {
		return 0, ErrInvalidFile
	}

	header := UnpackHeader(blob)
	return CountNotes(header.ChartBytes(blob, id)), nil
}

// CountAllCharts fills all twelve chart slots using the same blob
// resolution CountChart uses, reading the blob only once.
func (r *Resolver) CountAllCharts(musicID string) ([MaxChartCount]int, error) {
	var counts [MaxChartCount]int
	if musicID == "" {
		return counts, ErrInvalidParam
	}

	blob, err := r.loadBlob(musicID)
	if err != nil {
		return counts, err
	}
	if len(blob) < headerSize {
		return counts, ErrInvalidFile
	}

	header := UnpackHeader(blob)
	for i := 0; i < MaxChartCount; i++ {
		counts[i] = CountNotes(header.ChartBytes(blob, ChartID(i)))
	}
	return counts, nil
}

// loadBlob resolves the chart catalogue blob for musicID: a pre-extracted
// sidecar file if present, otherwise the ifs archive's manifest-pointed
// entry.
func (r *Resolver) loadBlob(musicID string) ([]byte, error) {
	sidecar := r.root.SidecarPath(musicID)
	if data, err := os.ReadFile(sidecar); err == nil {
		r.logger.Debug("chart: loaded sidecar", "path", sidecar)
		return data, nil
	}

	archivePath := r.root.ArchivePath(musicID)
	manifest, manifestEnd, err := ifsarchive.ExtractManifest(archivePath, r.logger)
	if err != nil {
		return nil, translateIFSError(err)
	}

	entryOffset, entryLength, err := findEntrySpan(manifest, musicID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, ErrFileFailed
	}
	defer f.Close()

	absOffset := int64(manifestEnd) + int64(entryOffset)
	blob := make([]byte, entryLength)
	if _, err := f.ReadAt(blob, absOffset); err != nil {
		return nil, ErrFileFailed
	}

	return blob, nil
}

// findEntrySpan walks the fixed manifest path imgfs/_<id>/_<id>_E1 and
// parses its text as two whitespace-separated decimal integers: a
// relative entry offset and an entry length. The decoded manifest's
// single top-level element is already "imgfs" — kbinxml.Decode, like the
// mxml document node it mirrors, does not itself appear in the tree — so
// only the remaining two path segments are walked here.
func findEntrySpan(manifest *kbinxml.Element, musicID string) (offset, length uint32, err error) {
	group := manifest.Child("_" + musicID)
	if group == nil {
		return 0, 0, ErrInvalidFile
	}
	entry := group.Child(fmt.Sprintf("_%s_E1", musicID))
	if entry == nil || entry.Text == nil {
		return 0, 0, ErrInvalidFile
	}

	fields := strings.Fields(*entry.Text)
	if len(fields) < 2 {
		return 0, 0, ErrInvalidFile
	}
	off, err1 := strconv.ParseUint(fields[0], 10, 32)
	length64, err2 := strconv.ParseUint(fields[1], 10, 32)
	if err1 != nil || err2 != nil {
		return 0, 0, ErrInvalidFile
	}
	return uint32(off), uint32(length64), nil
}

// translateIFSError maps ifsarchive's error taxonomy onto this package's,
// which spec.md §7 describes as a single shared taxonomy across the
// extractor and the resolver.
func translateIFSError(err error) error {
	switch err {
	case ifsarchive.ErrFileFailed:
		return ErrFileFailed
	case ifsarchive.ErrInvalidFile:
		return ErrInvalidFile
	case ifsarchive.ErrManifestParseError:
		return ErrManifestParseError
	default:
		return ErrInvalidFile
	}
}
