package ifsarchive

import (
	"os"
	"path/filepath"
	"testing"
)

// minimalManifest returns a kbinxml byte image containing a single empty
// <root/> element, raw (uncompressed) names, no typed leaves.
func minimalManifest() []byte {
	node := []byte{0x01, 0x04, 'r', 'o', 'o', 't', 0xBF}
	header := []byte{
		0xA0, 0x45, 0x01, 0xFE,
		byte(len(node) >> 24), byte(len(node) >> 16), byte(len(node) >> 8), byte(len(node)),
	}
	buf := append([]byte{}, header...)
	buf = append(buf, node...)
	buf = append(buf, 0, 0, 0, 0) // data-section length, unused
	return buf
}

func be32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func be16(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

// writeIFS assembles a complete ifs file: header, optional MD5, manifest,
// then a trailing entry body, and writes it to dir/name.
func writeIFS(t *testing.T, dir, name string, version uint16, manifest []byte, entryBody []byte) string {
	t.Helper()

	md5Len := 0
	if version > 1 {
		md5Len = md5Size
	}
	manifestEnd := headerSize + md5Len + len(manifest)

	buf := append([]byte{}, be32(Signature)...)
	buf = append(buf, be16(version)...)
	buf = append(buf, be16(version^0xFFFF)...)
	buf = append(buf, be32(0)...)                  // timestamp
	buf = append(buf, be32(uint32(len(manifest)))...) // tree_size
	buf = append(buf, be32(uint32(manifestEnd))...)

	if version > 1 {
		buf = append(buf, make([]byte, md5Size)...)
	}
	buf = append(buf, manifest...)
	buf = append(buf, entryBody...)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestExtractManifestVersion1NoMD5(t *testing.T) {
	dir := t.TempDir()
	manifest := minimalManifest()
	path := writeIFS(t, dir, "test.ifs", 1, manifest, []byte("entrybody"))

	tree, manifestEnd, err := ExtractManifest(path, nil)
	if err != nil {
		t.Fatalf("ExtractManifest failed: %v", err)
	}
	if tree.Name != "root" {
		t.Fatalf("manifest root = %q, want root", tree.Name)
	}
	wantEnd := uint32(headerSize + len(manifest))
	if manifestEnd != wantEnd {
		t.Fatalf("manifest_end = %d, want %d", manifestEnd, wantEnd)
	}
}

func TestExtractManifestVersion2SkipsMD5(t *testing.T) {
	dir := t.TempDir()
	manifest := minimalManifest()
	path := writeIFS(t, dir, "test.ifs", 2, manifest, []byte("entrybody"))

	tree, manifestEnd, err := ExtractManifest(path, nil)
	if err != nil {
		t.Fatalf("ExtractManifest failed: %v", err)
	}
	if tree.Name != "root" {
		t.Fatalf("manifest root = %q, want root", tree.Name)
	}
	wantEnd := uint32(headerSize + md5Size + len(manifest))
	if manifestEnd != wantEnd {
		t.Fatalf("manifest_end = %d, want %d", manifestEnd, wantEnd)
	}
}

func TestExtractManifestRejectsBadSignature(t *testing.T) {
	dir := t.TempDir()
	manifest := minimalManifest()
	path := writeIFS(t, dir, "test.ifs", 1, manifest, nil)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	raw[0] = 0x00
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := ExtractManifest(path, nil); err != ErrInvalidFile {
		t.Fatalf("expected ErrInvalidFile, got %v", err)
	}
}

func TestExtractManifestRejectsVersionXORMismatch(t *testing.T) {
	dir := t.TempDir()
	manifest := minimalManifest()
	path := writeIFS(t, dir, "test.ifs", 1, manifest, nil)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	raw[6] = 0x00
	raw[7] = 0x00 // not_version no longer complements version
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := ExtractManifest(path, nil); err != ErrInvalidFile {
		t.Fatalf("expected ErrInvalidFile, got %v", err)
	}
}

func TestExtractManifestMissingFile(t *testing.T) {
	if _, _, err := ExtractManifest(filepath.Join(t.TempDir(), "missing.ifs"), nil); err != ErrFileFailed {
		t.Fatalf("expected ErrFileFailed, got %v", err)
	}
}
