package fs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints file sets with xxhash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the xxhash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// HashFiles computes one fingerprint over the sorted names and contents of
// files relative to dir. Files that vanished since they were listed count
// as absent rather than failing.
func (h *Hasher) HashFiles(dir string, files []string) (string, error) {
	sorted := slices.Clone(files)
	slices.Sort(sorted)

	hasher := xxhash.New()
	for _, file := range sorted {
		_, _ = hasher.WriteString(file)
		_, _ = hasher.Write([]byte{0})

		hash, err := h.ComputeFileHash(filepath.Join(dir, file))
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				_, _ = hasher.Write([]byte{0xff})
				continue
			}
			return "", err
		}
		if err := binary.Write(hasher, binary.LittleEndian, hash); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
