package proof

import (
	"context"
	"fmt"
	"time"

	"inkverify/pkg/core"
	"inkverify/pkg/sims/life"
)

// Default run parameters.
const (
	DefaultWidth  = 200
	DefaultHeight = 200
	DefaultSteps  = 500
)

// Credentials is the input pair a proof is derived from. The bytes are hashed
// as username followed directly by password.
type Credentials struct {
	Username []byte
	Password []byte
}

// NewCredentials copies username and password into a Credentials value.
func NewCredentials(username, password string) Credentials {
	return Credentials{Username: []byte(username), Password: []byte(password)}
}

// Params fixes the amount of work behind a proof.
type Params struct {
	Width  int
	Height int
	Steps  int
	// Workers parallelizes each step. It never changes the digest.
	Workers int
}

// DefaultParams returns 200x200 cells and 500 steps.
func DefaultParams() Params {
	return Params{Width: DefaultWidth, Height: DefaultHeight, Steps: DefaultSteps, Workers: 1}
}

// Validate rejects parameters no run could satisfy.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", core.ErrInvalidSize, p.Width, p.Height)
	}
	if p.Steps < 0 {
		return fmt.Errorf("proof: negative step count %d", p.Steps)
	}
	return nil
}

// Result is the outcome of a completed run.
type Result struct {
	Seed    uint32
	Digest  string
	Grid    *core.Grid
	Elapsed time.Duration
}

// Option customizes Generate.
type Option func(*options)

type options struct {
	observer life.Observer
}

// WithObserver reports every completed generation to fn.
func WithObserver(fn life.Observer) Option {
	return func(o *options) { o.observer = fn }
}

// Generate runs the full pipeline for creds. A cancelled ctx stops the run
// between steps and no digest is produced.
func Generate(ctx context.Context, creds Credentials, p Params, opts ...Option) (Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	seed := SeedFromBytes(creds.Username, creds.Password)
	initial, err := InitialGridFromSeed(seed, p.Width, p.Height)
	if err != nil {
		return Result{}, err
	}
	final, err := life.Run(ctx, initial, p.Steps, life.RunOptions{Workers: p.Workers, Observer: o.observer})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Seed:    seed,
		Digest:  Digest(final),
		Grid:    final,
		Elapsed: time.Since(start),
	}, nil
}

// Verify recomputes the digest for creds and p and compares it with claimed.
// It returns ErrMismatch when they differ.
func Verify(ctx context.Context, creds Credentials, p Params, claimed string, opts ...Option) (Result, error) {
	if _, err := ParseDigest(claimed); err != nil {
		return Result{}, err
	}
	res, err := Generate(ctx, creds, p, opts...)
	if err != nil {
		return Result{}, err
	}
	if err := Match(claimed, res.Digest); err != nil {
		return res, err
	}
	return res, nil
}
