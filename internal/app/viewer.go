// Package app drives an interactive replay of a proof run.
package app

import (
	log "github.com/sirupsen/logrus"

	"inkverify/pkg/core"
	"inkverify/pkg/proof"
	"inkverify/pkg/sims/life"
)

// Viewer holds the playback state of a replay independent of any window
// system. The GUI forwards key presses to it and draws its grid.
type Viewer struct {
	sim      core.Sim
	seed     uint32
	target   int
	step     int
	paused   bool
	tickOnce bool
	digest   string
}

// NewViewer prepares a replay of the proof for creds on a w*h grid. Playback
// pauses when target steps have run; a negative target never pauses.
func NewViewer(creds proof.Credentials, w, h, target int) (*Viewer, error) {
	sim, err := life.New(w, h)
	if err != nil {
		return nil, err
	}
	return NewSimViewer(sim, proof.SeedFromBytes(creds.Username, creds.Password), target), nil
}

// NewSimViewer replays sim from seed. sim is reset immediately.
func NewSimViewer(sim core.Sim, seed uint32, target int) *Viewer {
	v := &Viewer{sim: sim, seed: seed, target: target}
	v.Reset()
	return v
}

// Sim exposes the simulation being replayed.
func (v *Viewer) Sim() core.Sim { return v.sim }

// Step returns the number of generations run since the last reset.
func (v *Viewer) Step() int { return v.step }

// Paused reports whether playback is stopped.
func (v *Viewer) Paused() bool { return v.paused }

// Digest returns the proof digest once the target step is reached.
func (v *Viewer) Digest() string { return v.digest }

// TogglePause starts or stops playback.
func (v *Viewer) TogglePause() { v.paused = !v.paused }

// StepOnce advances a single generation on the next tick, even when paused.
func (v *Viewer) StepOnce() { v.tickOnce = true }

// Reset rewinds to the initial grid.
func (v *Viewer) Reset() {
	v.sim.Reset(v.seed)
	v.step = 0
	v.tickOnce = false
	v.digest = ""
	if v.target == 0 {
		v.finish()
	}
}

// Tick advances the replay by one frame.
func (v *Viewer) Tick() {
	if v.paused && !v.tickOnce {
		return
	}
	v.tickOnce = false
	v.sim.Step()
	v.step++
	if v.step == v.target {
		v.finish()
	}
}

func (v *Viewer) finish() {
	v.paused = true
	v.digest = proof.Digest(v.sim.Grid())
	log.WithFields(log.Fields{"sim": v.sim.Name(), "step": v.step, "digest": v.digest}).Info("target step reached")
}
