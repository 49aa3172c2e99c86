// Package romsource loads ROM images from disk, transparently opening
// 7z archives, and derives a stable identity hash for a loaded ROM's
// bytes for use in save/RTC file naming. It sits outside the engine
// proper: nothing under internal/gameboy imports it.
package romsource

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/cespare/xxhash"
)

var romExtensions = map[string]bool{
	".gb":  true,
	".gbc": true,
	".cgb": true,
	".sgb": true,
}

// Load reads path directly if it already looks like a ROM image, or,
// if it ends in ".7z", opens it as an archive and returns the bytes of
// the first entry whose extension is a known ROM extension.
func Load(path string) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".7z" {
		return os.ReadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	r, err := sevenzip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("romsource: open 7z: %w", err)
	}

	for _, entry := range r.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if !romExtensions[strings.ToLower(filepath.Ext(entry.Name))] {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("romsource: open archive entry %q: %w", entry.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	return nil, fmt.Errorf("romsource: no ROM entry found in %s", path)
}

// Identify returns an xxhash digest of rom's bytes, stable across
// loads of the same ROM content regardless of its filename or
// containing archive, suitable for deriving save/RTC file names.
func Identify(rom []byte) uint64 {
	return xxhash.Sum64(rom)
}
