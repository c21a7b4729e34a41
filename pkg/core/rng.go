package core

// ZeroSeedState replaces a zero seed, since zero is a fixed point of xorshift.
const ZeroSeedState uint32 = 0xDEADBEEF

// RNG is a 32-bit xorshift generator. It is fast and deterministic across
// platforms but not suitable for anything secret.
type RNG struct {
	state uint32
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed uint32) *RNG {
	if seed == 0 {
		seed = ZeroSeedState
	}
	return &RNG{state: seed}
}

// Uint32 advances the generator and returns the new state.
func (r *RNG) Uint32() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Byte returns the low 8 bits of the next state.
func (r *RNG) Byte() uint8 {
	return uint8(r.Uint32())
}

// Cell returns 1 when the next byte is strictly greater than 128, else 0.
// The threshold leans slightly towards 0 and must stay that way for digests
// to match.
func (r *RNG) Cell() uint8 {
	if r.Byte() > 128 {
		return 1
	}
	return 0
}

// FillBinary fills the buffer with 0/1 values, one Cell call per entry in
// slice order.
func FillBinary(r *RNG, buf []uint8) {
	for i := range buf {
		buf[i] = r.Cell()
	}
}
