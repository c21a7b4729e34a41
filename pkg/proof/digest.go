package proof

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"inkverify/pkg/core"
)

var (
	// ErrMismatch reports a claimed digest that does not match the recomputed one.
	ErrMismatch = errors.New("digest mismatch")
	// ErrMalformedDigest reports a claimed digest that is not 64 hex characters.
	ErrMalformedDigest = errors.New("malformed digest")
)

// Digest hashes the raw row-major cells of g and returns lowercase hex.
func Digest(g *core.Grid) string {
	sum := Sum(g.Raw())
	return hex.EncodeToString(sum[:])
}

// ParseDigest decodes a hex digest, accepting either case and surrounding
// whitespace.
func ParseDigest(s string) ([DigestSize]byte, error) {
	var out [DigestSize]byte
	s = strings.TrimSpace(s)
	if len(s) != 2*DigestSize {
		return out, fmt.Errorf("%w: want %d hex characters, got %d", ErrMalformedDigest, 2*DigestSize, len(s))
	}
	if _, err := hex.Decode(out[:], []byte(s)); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}
	return out, nil
}

// Match compares two digests in constant time. Either may be upper or lower
// case.
func Match(claimed, actual string) error {
	a, err := ParseDigest(claimed)
	if err != nil {
		return err
	}
	b, err := ParseDigest(actual)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(a[:], b[:]) != 1 {
		return ErrMismatch
	}
	return nil
}
