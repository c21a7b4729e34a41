package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Cells returns W*H.
func (s Size) Cells() int { return s.W * s.H }

// Sim is a steppable automaton whose state is a single Grid.
type Sim interface {
	Name() string
	Size() Size
	// Reset refills the grid from the generator seeded with seed.
	Reset(seed uint32)
	Step()
	// Grid returns the current generation. It is only valid until the next
	// Step or Reset.
	Grid() *Grid
}
