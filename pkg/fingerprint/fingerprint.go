// Package fingerprint derives the content identity key used to decide that
// two files are byte-identical.
package fingerprint

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies file content. Two files with equal fingerprints are
// treated as byte-identical: the size is part of the key, so a hash collision
// would also need a length collision.
//
// The zero Size/Sum pair is a valid key; emptiness is never fingerprinted
// because zero-size files are skipped before classification.
type Fingerprint struct {
	Size int64
	Sum  uint64
}

// New reads the file at path and computes its fingerprint. The size must be
// the size reported by the metadata that triggered classification, keeping
// the key deterministic for a given path+metadata pair.
func New(path string, size int64) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return Fingerprint{}, fmt.Errorf("hash file: %w", err)
	}

	return Fingerprint{
		Size: size,
		Sum:  h.Sum64(),
	}, nil
}

// Less defines a total order over fingerprints: by size, then by sum.
func (fp Fingerprint) Less(other Fingerprint) bool {
	if fp.Size != other.Size {
		return fp.Size < other.Size
	}
	return fp.Sum < other.Sum
}

// String returns a stable textual form, usable as a report key.
func (fp Fingerprint) String() string {
	return fmt.Sprintf("%d:%016x", fp.Size, fp.Sum)
}
