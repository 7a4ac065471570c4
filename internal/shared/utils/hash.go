package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// HashAlgorithm names a checksum algorithm
type HashAlgorithm string

const (
	SHA256  HashAlgorithm = "sha256"
	BLAKE2b HashAlgorithm = "blake2b"
)

// ParseHashAlgorithm maps a user-supplied name to a supported algorithm
func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	switch HashAlgorithm(strings.ToLower(strings.TrimSpace(name))) {
	case SHA256, "sha-256":
		return SHA256, nil
	case BLAKE2b, "blake2b-256", "blake2":
		return BLAKE2b, nil
	default:
		return "", fmt.Errorf("unsupported checksum algorithm: %s", name)
	}
}

// Hasher computes hex digests for get_file_info checksums
type Hasher struct {
	algorithm HashAlgorithm
}

func NewHasher(algorithm HashAlgorithm) *Hasher {
	return &Hasher{algorithm: algorithm}
}

// Algorithm returns the configured algorithm
func (h *Hasher) Algorithm() HashAlgorithm {
	return h.algorithm
}

func (h *Hasher) newHash() hash.Hash {
	switch h.algorithm {
	case BLAKE2b:
		// Only fails for keys longer than 64 bytes
		d, _ := blake2b.New256(nil)
		return d
	default:
		return sha256.New()
	}
}

// HashString returns the hex digest of s
func (h *Hasher) HashString(s string) string {
	d := h.newHash()
	io.WriteString(d, s)
	return hex.EncodeToString(d.Sum(nil))
}

// HashReader streams r through the hash
func (h *Hasher) HashReader(r io.Reader) (string, error) {
	d := h.newHash()
	if _, err := io.Copy(d, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(d.Sum(nil)), nil
}

// HashFile hashes the contents of the file at path
func (h *Hasher) HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return h.HashReader(f)
}
