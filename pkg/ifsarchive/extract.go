package ifsarchive

import (
	"errors"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/iidx-tools/notecount/pkg/bytestream"
	"github.com/iidx-tools/notecount/pkg/kbinxml"
)

// Errors returned by ExtractManifest, matching spec.md §7's taxonomy for
// the ifs extractor's concern.
var (
	ErrFileFailed         = errors.New("ifsarchive: could not open or read file")
	ErrInvalidFile        = errors.New("ifsarchive: invalid header or truncated manifest")
	ErrManifestParseError = errors.New("ifsarchive: manifest failed to decode")
)

// ExtractManifest opens the ifs archive at path, validates its header, and
// decodes the embedded kbinxml manifest. It returns the decoded manifest
// tree and the absolute file offset at which entry bodies begin
// (Header.ManifestEnd). The extractor owns no state between calls: the
// file is opened, read, and closed before returning.
func ExtractManifest(path string, logger hclog.Logger) (*kbinxml.Element, uint32, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, ErrFileFailed
	}
	defer f.Close()

	rawHeader := make([]byte, headerSize)
	if _, err := io.ReadFull(f, rawHeader); err != nil {
		return nil, 0, ErrFileFailed
	}

	var header Header
	hr := bytestream.Open(rawHeader)
	hr.SetEndianness(bytestream.BigEndian)
	header.Unpack(hr)

	if !header.Valid() {
		logger.Debug("ifsarchive: invalid header",
			"signature", header.Signature, "version", header.Version, "not_version", header.NotVersion)
		return nil, 0, ErrInvalidFile
	}
	logger.Trace("ifsarchive: header parsed",
		"version", header.Version, "tree_size", header.TreeSize, "manifest_end", header.ManifestEnd)

	pos := int64(headerSize)
	if header.HasMD5() {
		if _, err := f.Seek(md5Size, io.SeekCurrent); err != nil {
			return nil, 0, ErrFileFailed
		}
		pos += md5Size
	}

	if int64(header.ManifestEnd) < pos {
		return nil, 0, ErrInvalidFile
	}
	manifestSize := uint32(int64(header.ManifestEnd) - pos)

	manifestBuf := make([]byte, manifestSize)
	if _, err := io.ReadFull(f, manifestBuf); err != nil {
		return nil, 0, ErrInvalidFile
	}

	manifest, err := kbinxml.Decode(manifestBuf, logger)
	if err != nil {
		return nil, 0, ErrManifestParseError
	}

	return manifest, header.ManifestEnd, nil
}
