// Package proof turns a credential pair into a reproducible grid digest: the
// credentials seed an xorshift fill of the starting grid, Life runs for the
// requested number of steps, and the final cells are hashed.
package proof

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"

	"inkverify/pkg/core"
)

// DigestSize is the length in bytes of every hash produced by this package.
const DigestSize = sha256.Size

// NewHash returns the hash used both for seed derivation and for the final
// digest.
func NewHash() hash.Hash { return sha256.New() }

// Sum hashes the concatenation of parts with no separators.
func Sum(parts ...[]byte) [DigestSize]byte {
	h := NewHash()
	for _, p := range parts {
		h.Write(p)
	}
	var out [DigestSize]byte
	h.Sum(out[:0])
	return out
}

// SeedFromBytes returns the first four bytes of Sum(username, password) as a
// big-endian integer.
func SeedFromBytes(username, password []byte) uint32 {
	sum := Sum(username, password)
	return binary.BigEndian.Uint32(sum[:4])
}

// DeriveSeed is SeedFromBytes for strings.
func DeriveSeed(username, password string) uint32 {
	return SeedFromBytes([]byte(username), []byte(password))
}

// InitialGrid fills a w*h grid from the generator seeded by the credentials,
// one cell per generator call in row-major order.
func InitialGrid(creds Credentials, w, h int) (*core.Grid, error) {
	return InitialGridFromSeed(SeedFromBytes(creds.Username, creds.Password), w, h)
}

// InitialGridFromSeed is InitialGrid for an already derived seed.
func InitialGridFromSeed(seed uint32, w, h int) (*core.Grid, error) {
	g, err := core.NewGrid(w, h)
	if err != nil {
		return nil, err
	}
	core.FillBinary(core.NewRNG(seed), g.Raw())
	return g, nil
}
