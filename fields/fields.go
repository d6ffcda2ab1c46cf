// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fields implements the slice field store: a ring of named 2-D
// component arrays per slice role (spec.md §3, §4.1, §9 "Slice store").
// Component lookup is resolved once in NewStore into a small integer index,
// the way ele.Element resolves dof names once rather than per kernel.
package fields

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/EyaDammak/Hipace2/grid"
)

// Role identifies a slice in the predictor-corrector / pipeline ring.
type Role int

const (
	Next Role = iota
	This
	Previous1
	Previous2
	RhoIons
	Salame
	numRoles
)

func (r Role) String() string {
	switch r {
	case Next:
		return "Next"
	case This:
		return "This"
	case Previous1:
		return "Previous1"
	case Previous2:
		return "Previous2"
	case RhoIons:
		return "RhoIons"
	case Salame:
		return "Salame"
	}
	return "?"
}

// component names, the closed set from spec §3.
const (
	ExmBy = "ExmBy"
	EypBx = "EypBx"
	Ez    = "Ez"
	Bx    = "Bx"
	By    = "By"
	Bz    = "Bz"
	Psi   = "Psi"
	Jx    = "jx"
	Jy    = "jy"
	Jz    = "jz"
	Rho   = "rho"
	JxBeam = "jx_beam"
	JyBeam = "jy_beam"
	JzBeam = "jz_beam"
	RhoBeam = "rho_beam"
	Chi    = "chi"
	Sx     = "Sx"
	Sy     = "Sy"
)

// Mode selects which components are materialized (spec §3: "Only
// components required by the chosen solver mode ... are materialized").
type Mode int

const (
	ModePredictorCorrector Mode = iota
	ModeExplicit
)

// Store is the slice field store: arena of 2-D arrays indexed by
// (role,component), resolved once in NewStore into integer slots.
type Store struct {
	Box   *grid.Box
	Mode  Mode
	index map[string]int    // component name -> slot, fixed after NewStore (spec §3 invariant i)
	names []string
	data  [numRoles][]([][]float64) // data[role][slot] = 2-D array
}

// componentsFor returns the registered component set for the given mode.
func componentsFor(mode Mode) []string {
	base := []string{ExmBy, EypBx, Ez, Bx, By, Bz, Psi, Jx, Jy, Jz, Rho,
		JxBeam, JyBeam, JzBeam, RhoBeam, Chi}
	if mode == ModeExplicit {
		base = append(base, Sx, Sy)
	}
	return base
}

// NewStore allocates a store for every role, materializing exactly the
// components the chosen mode requires (spec §3 invariant i).
func NewStore(box *grid.Box, mode Mode) *Store {
	names := componentsFor(mode)
	s := &Store{Box: box, Mode: mode, index: make(map[string]int, len(names)), names: names}
	for i, n := range names {
		s.index[n] = i
	}
	for r := Role(0); r < numRoles; r++ {
		s.data[r] = make([][][]float64, len(names))
		for slot := range names {
			s.data[r][slot] = la.MatAlloc(box.NxGhost(), box.NyGhost())
		}
	}
	return s
}

// Get returns the array view for (role,component). It fails (spec §4.1)
// when component was not registered for the chosen mode.
func (s *Store) Get(role Role, component string) [][]float64 {
	slot, ok := s.index[component]
	if !ok {
		chk.Panic("fields: component %q is not registered for mode %v", component, s.Mode)
	}
	return s.data[role][slot]
}

// Shift rotates Previous2 <- Previous1 <- This for the given components
// (spec §4.1 invariant iii, §9 "rotated by pointer swap"). This is left
// holding stale data; the driver re-populates it from deposition.
func (s *Store) Shift(components []string) {
	for _, c := range components {
		slot := s.index[c]
		s.data[Previous2][slot], s.data[Previous1][slot], s.data[This][slot] =
			s.data[Previous1][slot], s.data[This][slot], s.data[Previous2][slot]
	}
}

// Duplicate copies srcComponents on srcRole into dstComponents on dstRole,
// used to seed Next from This as the predictor-corrector's initial guess
// (spec §4.1).
func (s *Store) Duplicate(srcRole Role, srcComponents []string, dstRole Role, dstComponents []string) {
	if len(srcComponents) != len(dstComponents) {
		chk.Panic("fields: Duplicate component count mismatch (%d != %d)", len(srcComponents), len(dstComponents))
	}
	for i, sc := range srcComponents {
		srcSlot, dstSlot := s.index[sc], s.index[dstComponents[i]]
		src, dst := s.data[srcRole][srcSlot], s.data[dstRole][dstSlot]
		for i := range src {
			copy(dst[i], src[i])
		}
	}
}

// Add accumulates src (srcRole,srcComponent) onto dst (dstRole,dstComponent)
// in place. dstComponent and srcComponent may differ, which is how the
// driver folds the beam-deposited jx_beam/jy_beam/jz_beam/rho_beam
// components onto the plasma-deposited jx/jy/jz/rho components before each
// Poisson solve (spec §4.4 step 1's "copy active beam currents into This").
func (s *Store) Add(dstRole Role, dstComponent string, srcRole Role, srcComponent string) {
	dstSlot, srcSlot := s.index[dstComponent], s.index[srcComponent]
	dst, src := s.data[dstRole][dstSlot], s.data[srcRole][srcSlot]
	for i := range dst {
		for j := range dst[i] {
			dst[i][j] += src[i][j]
		}
	}
}

// Zero clears (role,component) in place.
func (s *Store) Zero(role Role, component string) {
	arr := s.Get(role, component)
	for i := range arr {
		for j := range arr[i] {
			arr[i][j] = 0
		}
	}
}

// HasComponent reports whether component was registered for this store's
// mode, without panicking.
func (s *Store) HasComponent(component string) bool {
	_, ok := s.index[component]
	return ok
}
