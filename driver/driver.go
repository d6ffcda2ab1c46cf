// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver orchestrates the per-slice algorithm of spec.md §4.4:
// deposition, Poisson solves, the predictor-corrector, and particle
// advance, for every z-slice a rank owns. Slab plays the role
// fem.Domain plays for the teacher -- it owns per-rank state -- and
// Slab.RunSlice runs one slice, delegating the physics to
// fields/poisson/plasma/beam/predcorr; the loop over slices lives in
// cmd/hipace.
package driver

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/EyaDammak/Hipace2/beam"
	"github.com/EyaDammak/Hipace2/fields"
	"github.com/EyaDammak/Hipace2/grid"
	"github.com/EyaDammak/Hipace2/plasma"
	"github.com/EyaDammak/Hipace2/poisson"
	"github.com/EyaDammak/Hipace2/predcorr"
	"github.com/EyaDammak/Hipace2/units"
)

// Slab owns the per-rank state: its box, field store, plasma particles,
// beam particles, and the configured solver variants (spec §3 "Geometry":
// "each rank owns a rectangular subdomain ... and contiguous range of
// z-slices").
type Slab struct {
	Box   *grid.Box
	Store *fields.Store

	Plasma *plasma.Particles
	Beams  []*beam.Particles

	PsiSolver, EzSolver, BzSolver *poisson.Solver
	PredCorr                     predcorr.Config

	DeposOrder  plasma.ShapeOrder
	PusherKind  plasma.PusherKind
	SpeedOfLight float64

	Salame *units.SalameProfile // SALAME current profile, nil when unconfigured

	ShowMsg bool // verbose status lines, gated the way fem.Main.ShowMsg is
}

// NewSlab allocates a Slab for one rank's transverse box.
func NewSlab(box *grid.Box, mode fields.Mode, deposOrder plasma.ShapeOrder, pusher plasma.PusherKind, c float64) *Slab {
	s := &Slab{
		Box:          box,
		Store:        fields.NewStore(box, mode),
		DeposOrder:   deposOrder,
		PusherKind:   pusher,
		SpeedOfLight: c,
		PredCorr:     predcorr.DefaultConfig,
	}
	s.PsiSolver = poisson.New(poisson.Dirichlet, box.Nx, box.Ny, box.Dx, box.Dy, 1)
	s.EzSolver = poisson.New(poisson.Dirichlet, box.Nx, box.Ny, box.Dx, box.Dy, 1)
	s.BzSolver = poisson.New(poisson.Dirichlet, box.Nx, box.Ny, box.Dx, box.Dy, 1)
	return s
}

// RunSlice runs the 11-step algorithm of spec §4.4 for one z-slice. sliceK
// is the global slice index, used only for messages; ct is the slice's
// co-moving position, used only to evaluate the SALAME current profile.
func (s *Slab) RunSlice(sliceK int, sliceBeams [][]int, dz, ct float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("driver: slice %d failed: %v", sliceK, r)
		}
	}()

	if s.ShowMsg {
		io.Pf("> slice %d: depositing beam current\n", sliceK)
	}

	// step 1: copy active beam currents into This
	for bi, beamParts := range s.Beams {
		beam.DepositCurrentSlice(s.Store, s.Box, s.DeposOrder, beamParts, sliceBeams[bi])
	}

	// step 2: advance plasma macro-particles using fields at This
	s.advancePlasma(fields.This, dz)

	// step 3: reorder plasma particles into per-cell bins
	s.Plasma = plasma.Reorder(s.Plasma, s.Box)

	// step 4: deposit plasma currents onto This
	s.depositPlasma(fields.This)

	// step 5: fold the beam-deposited currents onto the plasma-deposited
	// ones This now holds (spec §4.4 step 1's "copy active beam currents
	// into This"). A cross-rank ghost-cell sum would additionally apply
	// here if a transverse box were spatially split across ranks, but
	// grid.Box is never partitioned that way in this implementation (see
	// DESIGN.md); hipace.numprocs_x/numprocs_y only size replica pipeline
	// groups, not a spatial split, so there is nothing to reduce across
	// ranks.
	s.foldBeamCurrents(fields.This, fields.Rho, fields.RhoBeam)
	s.foldBeamCurrents(fields.This, fields.Jz, fields.JzBeam)
	if s.Salame != nil {
		s.applySalameProfile(ct)
		s.Store.Add(fields.This, fields.Rho, fields.Salame, fields.Rho)
		s.Store.Add(fields.This, fields.Jz, fields.Salame, fields.Jz)
	}

	// step 6: solve for Psi via Poisson on rho - jz/c; differentiate
	s.solvePsiAndGradients()

	// step 7: the beam current for this slice was already deposited into
	// This in step 1; nothing is redeposited here

	// step 8: fold jx,jy beam contributions, solve Ez, Bz
	s.foldBeamCurrents(fields.This, fields.Jx, fields.JxBeam)
	s.foldBeamCurrents(fields.This, fields.Jy, fields.JyBeam)
	s.solveEzBz()

	// step 9: predictor-corrector on (Bx,By)
	if err := s.predictorCorrector(dz); err != nil {
		return err
	}

	// step 10: commit handled by the caller (diag package consumes Store)

	// step 11: rotate slices, duplicate This -> Next
	s.Store.Shift([]string{fields.Bx, fields.By, fields.Psi})
	s.Store.Duplicate(fields.This, []string{fields.Bx, fields.By}, fields.Next, []string{fields.Bx, fields.By})

	return nil
}

func (s *Slab) advancePlasma(role fields.Role, dz float64) {
	for i := 0; i < s.Plasma.Len(); i++ {
		if !s.Plasma.IsLive(i) {
			continue
		}
		f := plasma.Gather(s.Store, s.Box, s.DeposOrder, role, s.Plasma.X[i], s.Plasma.Y[i])
		switch s.PusherKind {
		case plasma.AB5:
			force := plasma.ComputeForce(f, s.Plasma.X[i], s.Plasma.Y[i], s.Plasma.Ux[i], s.Plasma.Uy[i], s.Plasma.Psi[i])
			s.Plasma.PushAB5(i, dz, force)
		case plasma.Substepped:
			s.Plasma.PushSubstepped(i, dz, f, 4)
		}
	}
	s.Plasma.RotateHistory()
	plasma.MarkOutOfDomain(s.Plasma, s.Box.Lx, s.Box.Ly)
}

// foldBeamCurrents adds the beam-deposited beamComponent onto the
// plasma-deposited component on role, in place, via fields.Store.Add.
func (s *Slab) foldBeamCurrents(role fields.Role, component, beamComponent string) {
	s.Store.Add(role, component, role, beamComponent)
}

// applySalameProfile writes the configured SALAME current profile,
// evaluated at co-moving position ct, uniformly into the Salame role's
// rho/jz components ahead of the step 5 fold (spec.md names the Salame
// slice role but leaves its current profile open; see units.SalameProfile).
func (s *Slab) applySalameProfile(ct float64) {
	value := s.Salame.Value(ct)
	rho := s.Store.Get(fields.Salame, fields.Rho)
	jz := s.Store.Get(fields.Salame, fields.Jz)
	for i := range rho {
		for j := range rho[i] {
			rho[i][j] = value
			jz[i][j] = value
		}
	}
}

func (s *Slab) depositPlasma(role fields.Role) {
	for i := 0; i < s.Plasma.Len(); i++ {
		if !s.Plasma.IsLive(i) {
			continue
		}
		gamma := 0.5 * (1/(s.Plasma.Psi[i]*s.Plasma.Psi[i]) + s.Plasma.Ux[i]*s.Plasma.Ux[i] + s.Plasma.Uy[i]*s.Plasma.Uy[i] + 1)
		vz := (gamma - 1) / s.Plasma.Psi[i]
		q := -s.Plasma.Weight[i] // electrons, normalized charge -1
		plasma.DepositCurrents(s.Store, s.Box, s.DeposOrder, role, s.Plasma.X[i], s.Plasma.Y[i],
			s.Plasma.Ux[i]/s.Plasma.Psi[i], s.Plasma.Uy[i]/s.Plasma.Psi[i], vz, q)
	}
}

// solvePsiAndGradients implements spec §4.4 step 6: solve Psi via Poisson
// on rho - jz/c; differentiate transversely to obtain ExmBy=-dPsi/dx,
// EypBx=-dPsi/dy.
func (s *Slab) solvePsiAndGradients() {
	rho := s.Store.Get(fields.This, fields.Rho)
	jz := s.Store.Get(fields.This, fields.Jz)
	source := la2alloc(s.Box.Nx, s.Box.Ny)
	for i := range source {
		for j := range source[i] {
			source[i][j] = rho[i+s.Box.GhostWidth][j+s.Box.GhostWidth] - jz[i+s.Box.GhostWidth][j+s.Box.GhostWidth]/s.SpeedOfLight
		}
	}
	phi := s.PsiSolver.Solve(source)
	psi := s.Store.Get(fields.This, fields.Psi)
	exmby := s.Store.Get(fields.This, fields.ExmBy)
	eypbx := s.Store.Get(fields.This, fields.EypBx)
	gw := s.Box.GhostWidth
	for i := 0; i < s.Box.Nx; i++ {
		for j := 0; j < s.Box.Ny; j++ {
			psi[i+gw][j+gw] = phi[i][j]
		}
	}
	centeredGradient(phi, exmby, eypbx, gw, s.Box.Dx, s.Box.Dy, -1)
}

// solveEzBz implements spec §4.4 step 8: Ez from d_x jx + d_y jy, Bz from
// d_y jx - d_x jy.
func (s *Slab) solveEzBz() {
	gw := s.Box.GhostWidth
	jx := s.Store.Get(fields.This, fields.Jx)
	jy := s.Store.Get(fields.This, fields.Jy)

	divSource := la2alloc(s.Box.Nx, s.Box.Ny)
	curlSource := la2alloc(s.Box.Nx, s.Box.Ny)
	for i := 0; i < s.Box.Nx; i++ {
		for j := 0; j < s.Box.Ny; j++ {
			divSource[i][j] = centeredDx(jx, i+gw, j+gw, s.Box.Dx) + centeredDy(jy, i+gw, j+gw, s.Box.Dy)
			curlSource[i][j] = centeredDy(jx, i+gw, j+gw, s.Box.Dy) - centeredDx(jy, i+gw, j+gw, s.Box.Dx)
		}
	}
	ez := s.EzSolver.Solve(divSource)
	bz := s.BzSolver.Solve(curlSource)
	ezArr := s.Store.Get(fields.This, fields.Ez)
	bzArr := s.Store.Get(fields.This, fields.Bz)
	for i := 0; i < s.Box.Nx; i++ {
		for j := 0; j < s.Box.Ny; j++ {
			ezArr[i+gw][j+gw] = ez[i][j]
			bzArr[i+gw][j+gw] = bz[i][j]
		}
	}
}

// predictorCorrector wires predcorr.Iterate to this slab's deposit/solve
// steps (spec §4.5).
func (s *Slab) predictorCorrector(dz float64) error {
	bxPrev1 := s.Store.Get(fields.Previous1, fields.Bx)
	byPrev1 := s.Store.Get(fields.Previous1, fields.By)
	bxPrev2 := s.Store.Get(fields.Previous2, fields.Bx)
	byPrev2 := s.Store.Get(fields.Previous2, fields.By)

	bxGuess := predcorr.InitialGuess(bxPrev1, bxPrev2, s.PredCorr.Tolerance)
	byGuess := predcorr.InitialGuess(byPrev1, byPrev2, s.PredCorr.Tolerance)

	steps := predcorr.StepFuncs{
		AdvanceAndDeposit: func(bx, by [][]float64) {
			s.writeBGuess(bx, by)
			s.advancePlasma(fields.Next, dz)
			s.depositPlasma(fields.Next)
			// spec §4.5 step 3's "boundary-sum jx,jy,jz,rho on Next" is the
			// cross-rank ghost sum discussed in RunSlice's step 5 comment;
			// beam current is never redeposited onto Next (spec §4.5 has no
			// beam-deposit step), so there is no beam contribution to fold
			// here.
		},
		SolveB: func() ([][]float64, [][]float64) {
			return s.solveBxBy(dz)
		},
		ResetAndExchange: func(bx, by [][]float64) {
			s.Store.Zero(fields.Next, fields.Jx)
			s.Store.Zero(fields.Next, fields.Jy)
			s.writeBGuess(bx, by)
		},
	}

	bx, by, iters, err := predcorr.Iterate(bxGuess, byGuess, s.PredCorr, steps)
	if err != nil {
		return err
	}
	if s.ShowMsg {
		io.Pf("> predictor-corrector converged in %d iterations\n", iters)
	}
	s.writeBGuess(bx, by)
	return nil
}

func (s *Slab) writeBGuess(bx, by [][]float64) {
	dst := s.Store.Get(fields.This, fields.Bx)
	for i := range bx {
		copy(dst[i], bx[i])
	}
	dst2 := s.Store.Get(fields.This, fields.By)
	for i := range by {
		copy(dst2[i], by[i])
	}
}

// solveBxBy implements spec §4.5 step 4: solve
// Laplacian_perp(Bx) = mu0*(-d_y jz + d_z jy) and
// Laplacian_perp(By) = mu0*(d_x jz - d_z jx),
// with the z-derivative using (j_prev1 - j_next)/(2*dz).
func (s *Slab) solveBxBy(dz float64) (bx, by [][]float64) {
	const mu0 = 1.0 // normalized units, spec §1
	gw := s.Box.GhostWidth
	jzNext := s.Store.Get(fields.Next, fields.Jz)
	jyNext := s.Store.Get(fields.Next, fields.Jy)
	jxNext := s.Store.Get(fields.Next, fields.Jx)
	jyPrev1 := s.Store.Get(fields.Previous1, fields.Jy)
	jxPrev1 := s.Store.Get(fields.Previous1, fields.Jx)

	bxSource := la2alloc(s.Box.Nx, s.Box.Ny)
	bySource := la2alloc(s.Box.Nx, s.Box.Ny)
	for i := 0; i < s.Box.Nx; i++ {
		for j := 0; j < s.Box.Ny; j++ {
			ii, jj := i+gw, j+gw
			djy_dz := (jyPrev1[ii][jj] - jyNext[ii][jj]) / (2 * dz)
			djx_dz := (jxPrev1[ii][jj] - jxNext[ii][jj]) / (2 * dz)
			bxSource[i][j] = mu0 * (-centeredDy(jzNext, ii, jj, s.Box.Dy) + djy_dz)
			bySource[i][j] = mu0 * (centeredDx(jzNext, ii, jj, s.Box.Dx) - djx_dz)
		}
	}
	bxIn := s.BzSolver.Solve(bxSource)
	byIn := s.BzSolver.Solve(bySource)
	// return ghosted arrays, the same shape as the guesses they are compared
	// against and written back over
	bx = la2alloc(s.Box.NxGhost(), s.Box.NyGhost())
	by = la2alloc(s.Box.NxGhost(), s.Box.NyGhost())
	for i := 0; i < s.Box.Nx; i++ {
		for j := 0; j < s.Box.Ny; j++ {
			bx[i+gw][j+gw] = bxIn[i][j]
			by[i+gw][j+gw] = byIn[i][j]
		}
	}
	return
}

func la2alloc(nx, ny int) [][]float64 {
	a := make([][]float64, nx)
	for i := range a {
		a[i] = make([]float64, ny)
	}
	return a
}

func centeredDx(arr [][]float64, i, j int, dx float64) float64 {
	return (arr[i+1][j] - arr[i-1][j]) / (2 * dx)
}

func centeredDy(arr [][]float64, i, j int, dy float64) float64 {
	return (arr[i][j+1] - arr[i][j-1]) / (2 * dy)
}

func centeredGradient(phi [][]float64, exmby, eypbx [][]float64, gw int, dx, dy, sign float64) {
	nx, ny := len(phi), len(phi[0])
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			var dpdx, dpdy float64
			if i > 0 && i < nx-1 {
				dpdx = (phi[i+1][j] - phi[i-1][j]) / (2 * dx)
			}
			if j > 0 && j < ny-1 {
				dpdy = (phi[i][j+1] - phi[i][j-1]) / (2 * dy)
			}
			exmby[i+gw][j+gw] = sign * dpdx
			eypbx[i+gw][j+gw] = sign * dpdy
		}
	}
}

// Aborted reports whether relErr exceeds the divergence threshold named in
// spec §4.4 ("when the relative field error exceeds 10 the driver
// aborts").
func Aborted(relErr float64) bool { return relErr > 10 || math.IsNaN(relErr) }
