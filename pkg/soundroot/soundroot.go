// Package soundroot resolves the base directory under which per-title
// sound data lives (data/sound/<music_id>/<music_id>.1 and
// data/sound/<music_id>.ifs), the way internal/workenv resolves a cache
// root for the teacher's bundle execution.
package soundroot

import (
	"os"
	"path/filepath"
)

// envVar overrides the default sound-data root when set.
const envVar = "NOTECOUNT_DATA_ROOT"

// defaultRoot is used when envVar is unset.
const defaultRoot = "data/sound"

// Root is a resolved sound-data base directory.
type Root struct {
	base string
}

// Default resolves the sound-data root from NOTECOUNT_DATA_ROOT, falling
// back to "data/sound" relative to the working directory.
func Default() Root {
	if v := os.Getenv(envVar); v != "" {
		return Root{base: v}
	}
	return Root{base: defaultRoot}
}

// New returns a Root rooted at base, ignoring the environment. Used by
// the CLI harness's --data-root flag and by tests pointed at fixtures.
func New(base string) Root {
	return Root{base: base}
}

// SidecarPath returns the path of the pre-extracted chart sidecar for
// musicID: <root>/<music_id>/<music_id>.1.
func (r Root) SidecarPath(musicID string) string {
	return filepath.Join(r.base, musicID, musicID+".1")
}

// ArchivePath returns the path of the ifs archive for musicID:
// <root>/<music_id>.ifs.
func (r Root) ArchivePath(musicID string) string {
	return filepath.Join(r.base, musicID+".ifs")
}
