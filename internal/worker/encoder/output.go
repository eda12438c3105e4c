package encoder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxOutputCandidates bounds the search for a free output filename.
const MaxOutputCandidates = 10000

// ResolveOutputPath returns <stem>_compressed.<ext> next to source, or the
// first <stem>_compressedN.<ext> that does not exist yet.
//
// The check is not atomic with ffmpeg creating the file: another process may
// take the name in between, and ffmpeg runs with -y.
func ResolveOutputPath(source string) (string, error) {
	return resolveOutputPath(source, MaxOutputCandidates)
}

func resolveOutputPath(source string, limit int) (string, error) {
	ext := filepath.Ext(source)
	// A bare trailing dot ("clip.") counts as no extension: ffmpeg picks the
	// container from it, so "clip_compressed." could not be written.
	if len(ext) <= 1 {
		return "", fmt.Errorf("%w: %s", ErrNoExtension, source)
	}
	stem := strings.TrimSuffix(source, ext)

	for i := 0; i < limit; i++ {
		suffix := ""
		if i > 0 {
			suffix = fmt.Sprint(i)
		}
		candidate := stem + "_compressed" + suffix + ext
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %d candidates taken for %s", ErrOutputPathExhausted, limit, source)
}

// exists treats anything but a clean "not found" as taken.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return !os.IsNotExist(err)
}
