package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/iidx-tools/notecount/pkg/soundroot"
)

func TestResolverSidecarPath(t *testing.T) {
	dir := t.TempDir()
	musicID := "01000"
	soundDir := filepath.Join(dir, musicID)
	if err := os.MkdirAll(soundDir, 0o755); err != nil {
		t.Fatal(err)
	}

	blob := make([]byte, headerSize) // all charts absent
	if err := os.WriteFile(filepath.Join(soundDir, musicID+".1"), blob, 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(soundroot.New(dir), nil)
	counts, err := r.CountAllCharts(musicID)
	if err != nil {
		t.Fatalf("CountAllCharts failed: %v", err)
	}
	for i, c := range counts {
		if c != 0 {
			t.Errorf("chart %d = %d, want 0 (absent)", i, c)
		}
	}
}

func TestResolverRejectsEmptyMusicID(t *testing.T) {
	r := NewResolver(soundroot.New(t.TempDir()), nil)
	if _, err := r.CountAllCharts(""); err != ErrInvalidParam {
		t.Fatalf("expected ErrInvalidParam, got %v", err)
	}
	if _, err := r.CountChart("", SPH); err != ErrInvalidParam {
		t.Fatalf("expected ErrInvalidParam, got %v", err)
	}
}

func TestResolverRejectsOutOfRangeChartWithoutTouchingDisk(t *testing.T) {
	r := NewResolver(soundroot.New(filepath.Join(t.TempDir(), "nonexistent")), nil)
	count, err := r.CountChart("01000", ChartID(99))
	if err != nil {
		t.Fatalf("expected no error for out-of-range chart sentinel, got %v", err)
	}
	if count != -1 {
		t.Fatalf("count = %d, want -1 sentinel", count)
	}
}

// buildIFSWithManifest assembles a complete ifs file whose manifest's
// imgfs/_<musicID>/_<musicID>_E1 leaf points at entryBody, and writes it
// to dir/<musicID>.ifs.
func buildIFSWithManifest(t *testing.T, dir, musicID string, entryOffset uint32, entryBody []byte) {
	t.Helper()

	name := "_" + musicID
	leafName := "_" + musicID + "_E1"

	nodeSection := []byte{}
	nodeSection = append(nodeSection, 0x01, byte(len("imgfs")))
	nodeSection = append(nodeSection, []byte("imgfs")...)
	nodeSection = append(nodeSection, 0x01, byte(len(name)))
	nodeSection = append(nodeSection, []byte(name)...)
	nodeSection = append(nodeSection, 0x0B, byte(len(leafName)))
	nodeSection = append(nodeSection, []byte(leafName)...)
	nodeSection = append(nodeSection, 0xBE, 0xBE, 0xBF)

	entryText := []byte(fmt.Sprintf("%d %d", entryOffset, len(entryBody)))
	header := []byte{
		0xA0, 0x45, 0x01, 0xFE,
		byte(len(nodeSection) >> 24), byte(len(nodeSection) >> 16),
		byte(len(nodeSection) >> 8), byte(len(nodeSection)),
	}
	manifest := append([]byte{}, header...)
	manifest = append(manifest, nodeSection...)
	manifest = append(manifest, be32(0)...)                        // data-section length, unused
	manifest = append(manifest, be32(uint32(len(entryText)))...)   // string length
	manifest = append(manifest, entryText...)

	ifsManifestEnd := headerSize20 + len(manifest)

	file := append([]byte{}, be32(Signature)...)
	file = append(file, be16(1)...)         // version
	file = append(file, be16(1^0xFFFF)...)  // not_version
	file = append(file, be32(0)...)         // timestamp
	file = append(file, be32(uint32(len(manifest)))...)
	file = append(file, be32(uint32(ifsManifestEnd))...)
	file = append(file, manifest...)

	gap := make([]byte, entryOffset)
	file = append(file, gap...)
	file = append(file, entryBody...)

	if err := os.WriteFile(filepath.Join(dir, musicID+".ifs"), file, 0o644); err != nil {
		t.Fatalf("writing ifs fixture: %v", err)
	}
}

const (
	headerSize20 = 20
	Signature    = 0x6CAD8F89
)

func be32(v uint32) []byte { return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)} }
func be16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

func TestResolverIFSPath(t *testing.T) {
	dir := t.TempDir()
	musicID := "01000"
	entryBody := make([]byte, 96) // a bare, all-absent chart header
	buildIFSWithManifest(t, dir, musicID, 10, entryBody)

	r := NewResolver(soundroot.New(dir), nil)
	counts, err := r.CountAllCharts(musicID)
	if err != nil {
		t.Fatalf("CountAllCharts via ifs path failed: %v", err)
	}
	for i, c := range counts {
		if c != 0 {
			t.Errorf("chart %d = %d, want 0", i, c)
		}
	}
}
