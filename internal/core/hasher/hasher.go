package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
)

// Prefix marks the algorithm in every digest this package produces.
const Prefix = "sha256:"

// Digest accumulates name/version pairs into a sha256 digest.
// Each field is length-prefixed so that ("ab","c") and ("a","bc") differ.
type Digest struct {
	h hash.Hash
}

// New returns an empty Digest.
func New() *Digest {
	return &Digest{h: sha256.New()}
}

// Add feeds one pair into the digest.
func (d *Digest) Add(name, version string) {
	// hash.Hash.Write never returns an error
	_, _ = fmt.Fprintf(d.h, "%d:%s%d:%s\n", len(name), name, len(version), version)
}

// Sum returns the digest in the form "sha256:<hex>".
func (d *Digest) Sum() string {
	return Prefix + hex.EncodeToString(d.h.Sum(nil))
}
