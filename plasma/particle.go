// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plasma implements the plasma macro-particle container, its
// shape-factor deposition/gather routines, and the two pusher variants of
// spec.md §3 ("Macro-particle (plasma)") and §4.6. The particle struct
// follows maseology-ptrack's flat attribute-slice Particle, generalized
// from a 4-field tracer to the quasi-static PIC attribute schema (spec §9
// "parameterized by an attribute schema").
package plasma

// HistorySlots is the number of AB5 force-history terms kept per particle
// per force component (spec §3: "five AB5 history terms per force
// component").
const HistorySlots = 5

// Particles is a structure-of-arrays container: one slice per attribute,
// indexed by particle id. This mirrors maseology-ptrack's flat Particle
// struct but laid out SoA so deposition/gather kernels stream contiguous
// memory per attribute (spec §9 "compile-time enumeration of per-particle
// reals and ints").
type Particles struct {
	X, Y       []float64 // transverse position
	Ux, Uy     []float64 // normalized momenta
	Psi        []float64 // pseudopotential
	UxHalf     []float64 // half-step copies
	UyHalf     []float64
	PsiHalf    []float64
	Weight     []float64
	Ionization []float64 // ionization level, advanced by an IonizationModel
	Status     []int     // >=0 live, <0 invalid (left transverse domain)

	// AB5 force history: History[component][slot][particle]. Components are
	// indexed by ForceComponent.
	History [numForceComponents][HistorySlots][]float64
	// HistoryHead is the ring's current write slot, shared across all
	// particles and components, rotated once per step (spec §9 "History
	// rings").
	HistoryHead int
}

// ForceComponent names one of the five force components carried per AB5
// history slot (spec §3: "five AB5 history terms per force component").
type ForceComponent int

const (
	ForceX ForceComponent = iota
	ForceY
	ForceUx
	ForceUy
	ForcePsi
	numForceComponents
)

// New allocates an empty Particles container of capacity n.
func New(n int) *Particles {
	p := &Particles{
		X: make([]float64, n), Y: make([]float64, n),
		Ux: make([]float64, n), Uy: make([]float64, n),
		Psi:        make([]float64, n),
		UxHalf:     make([]float64, n),
		UyHalf:     make([]float64, n),
		PsiHalf:    make([]float64, n),
		Weight:     make([]float64, n),
		Ionization: make([]float64, n),
		Status:     make([]int, n),
	}
	for c := 0; c < int(numForceComponents); c++ {
		for s := 0; s < HistorySlots; s++ {
			p.History[c][s] = make([]float64, n)
		}
	}
	return p
}

// Len is the number of particle slots (live and invalid).
func (p *Particles) Len() int { return len(p.X) }

// InitRegularGrid creates particles once at simulation start on a regular
// per-cell pattern (spec §3 "created once at simulation start on a regular
// per-cell pattern"), ppcX by ppcY per cell, over [0,lx]x[0,ly].
func InitRegularGrid(nx, ny, ppcX, ppcY int, lx, ly, weightPerParticle float64) *Particles {
	n := nx * ny * ppcX * ppcY
	p := New(n)
	dx, dy := lx/float64(nx), ly/float64(ny)
	sx, sy := dx/float64(ppcX), dy/float64(ppcY)
	idx := 0
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for a := 0; a < ppcX; a++ {
				for b := 0; b < ppcY; b++ {
					p.X[idx] = float64(i)*dx + (float64(a)+0.5)*sx
					p.Y[idx] = float64(j)*dy + (float64(b)+0.5)*sy
					p.Psi[idx] = 1.0
					p.PsiHalf[idx] = 1.0
					p.Weight[idx] = weightPerParticle
					p.Status[idx] = 0
					idx++
				}
			}
		}
	}
	return p
}

// MarkInvalid flags a particle as having left the transverse domain
// (status<0, spec §3 lifecycle). It is never destroyed until Reorder
// drops it.
func (p *Particles) MarkInvalid(i int) { p.Status[i] = -1 }

// IsLive reports whether particle i is active.
func (p *Particles) IsLive(i int) bool { return p.Status[i] >= 0 }

// IonizationModel advances a particle's ionization level. The default
// model is a no-op: the ionization-rate tables themselves are an external
// collaborator outside spec.md's named operations (spec §1), but the
// attribute and the hook to drive it are carried (SPEC_FULL.md
// "Supplemented features").
type IonizationModel interface {
	Advance(p *Particles, i int, ex, ey, ez float64, dz float64)
}

// NoIonization is the default IonizationModel: it leaves Ionization[i]
// unchanged.
type NoIonization struct{}

func (NoIonization) Advance(*Particles, int, float64, float64, float64, float64) {}
