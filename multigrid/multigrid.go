// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package multigrid implements the V-cycle geometric multigrid solver for
// (Laplacian_perp - alpha)*phi = s described in spec.md §4.3, used by the
// laser envelope's complex Helmholtz system. The smoother/restriction/
// prolongation/bottom-solve shape follows NPB-GO's mg_benchmark.go; the
// tile-based goroutine fan-out follows gocfd's parallelism.go.
package multigrid

import (
	"math"
	"runtime"
	"sync"

	"github.com/cpmech/gosl/chk"
)

// Restriction/prolongation stencil choices (spec §4.3).
type StencilKind int

const (
	CellCentered StencilKind = iota
	NodeCentered
)

// System selects the real scalar or the complex (interleaved real pair)
// Helmholtz system (spec §4.3 "two systems").
type System int

const (
	RealScalar System = iota
	Complex
)

// Level is one grid in the V-cycle.
type Level struct {
	Nx, Ny   int
	Dx, Dy   float64
	Phi      [][]complex128 // solution / correction
	Rhs      [][]complex128
	Residual [][]complex128
}

func newLevel(nx, ny int, dx, dy float64) *Level {
	l := &Level{Nx: nx, Ny: ny, Dx: dx, Dy: dy}
	l.Phi = allocComplex(nx, ny)
	l.Rhs = allocComplex(nx, ny)
	l.Residual = allocComplex(nx, ny)
	return l
}

func allocComplex(nx, ny int) [][]complex128 {
	a := make([][]complex128, nx)
	for i := range a {
		a[i] = make([]complex128, ny)
	}
	return a
}

// Solver runs V-cycles on a hierarchy of Levels from finest down to a
// coarsest level that fits in <=32x32 cells (spec §4.3).
type Solver struct {
	Levels  []*Level // Levels[0] is finest
	Alpha   complex128
	System  System
	Stencil StencilKind

	TolAbs, TolRel float64
	MaxVCycles     int
	nWorkers       int
}

// New builds the level hierarchy by halving dimensions until the coarsest
// level is <=32x32, matching a single-GPU-thread-block bound (spec §4.3).
func New(nx, ny int, dx, dy float64, alpha complex128, sys System, stencil StencilKind, tolAbs, tolRel float64, maxVCycles int) *Solver {
	if nx <= 0 || ny <= 0 {
		chk.Panic("multigrid: invalid dimensions (%d,%d)", nx, ny)
	}
	s := &Solver{Alpha: alpha, System: sys, Stencil: stencil, TolAbs: tolAbs, TolRel: tolRel, MaxVCycles: maxVCycles}
	s.nWorkers = runtime.NumCPU()
	if s.nWorkers < 1 {
		s.nWorkers = 1
	}
	cnx, cny, cdx, cdy := nx, ny, dx, dy
	for {
		s.Levels = append(s.Levels, newLevel(cnx, cny, cdx, cdy))
		if cnx <= 32 && cny <= 32 {
			break
		}
		cnx, cny = (cnx+1)/2, (cny+1)/2
		cdx, cdy = cdx*2, cdy*2
	}
	return s
}

// Solve runs V-cycles starting from a zero initial guess on the finest
// level until the residual norm criterion of spec §4.3 is met, or aborts
// on divergence.
func (s *Solver) Solve(rhs [][]complex128) [][]complex128 {
	fine := s.Levels[0]
	for i := range rhs {
		copy(fine.Rhs[i], rhs[i])
		for j := range fine.Phi[i] {
			fine.Phi[i][j] = 0
		}
	}

	r0 := s.residualNorm(fine)
	sNorm := normInf(fine.Rhs)
	tol := math.Max(s.TolAbs, math.Max(s.TolRel, 1e-16)*math.Max(sNorm, r0))

	for iter := 0; iter < s.MaxVCycles; iter++ {
		s.vCycle(0)
		r := s.residualNorm(fine)
		if r <= tol {
			break
		}
		if r0 > 0 && r > 1e20*r0 {
			chk.Panic("multigrid: residual diverged (%.3e > 1e20*initial %.3e) after %d V-cycles", r, r0, iter+1)
		}
	}
	return fine.Phi
}

// vCycle performs one V-cycle starting at levelIdx.
func (s *Solver) vCycle(levelIdx int) {
	lvl := s.Levels[levelIdx]
	if levelIdx == len(s.Levels)-1 {
		s.gaussSeidel(lvl, 16)
		return
	}

	s.gaussSeidel(lvl, 4)
	s.computeResidual(lvl)

	coarse := s.Levels[levelIdx+1]
	s.restrict(lvl.Residual, coarse.Rhs)
	for i := range coarse.Phi {
		for j := range coarse.Phi[i] {
			coarse.Phi[i][j] = 0
		}
	}

	s.vCycle(levelIdx + 1)

	s.prolongAndAdd(coarse.Phi, lvl.Phi)
	s.gaussSeidel(lvl, 4)
}

// gaussSeidel runs nSweeps of four-color-friendly red-black Gauss-Seidel,
// parallelized over rows in a goroutine pool (spec §4.3 "shared-memory
// tile", approximated here with a row-sliced worker pool since this is a
// CPU rendition rather than a GPU kernel).
func (s *Solver) gaussSeidel(lvl *Level, nSweeps int) {
	dx2, dy2 := lvl.Dx*lvl.Dx, lvl.Dy*lvl.Dy
	diag := complex(-2/dx2-2/dy2, 0) - s.Alpha
	for sweep := 0; sweep < nSweeps; sweep++ {
		for color := 0; color < 2; color++ {
			s.parallelRows(lvl.Nx, func(i int) {
				if i == 0 || i == lvl.Nx-1 {
					return
				}
				for j := 1; j < lvl.Ny-1; j++ {
					if (i+j)%2 != color {
						continue
					}
					nb := (lvl.Phi[i+1][j] + lvl.Phi[i-1][j]) / complex(dx2, 0)
					nb += (lvl.Phi[i][j+1] + lvl.Phi[i][j-1]) / complex(dy2, 0)
					lvl.Phi[i][j] = (lvl.Rhs[i][j] - nb) / diag
				}
			})
		}
	}
}

// parallelRows fans work over row indices [0,n) across a worker pool
// (spec §5 "parallel kernels ... OpenMP-parallelized loops over tiles").
func (s *Solver) parallelRows(n int, work func(i int)) {
	var wg sync.WaitGroup
	rowsPerWorker := (n + s.nWorkers - 1) / s.nWorkers
	for w := 0; w < s.nWorkers; w++ {
		lo := w * rowsPerWorker
		hi := lo + rowsPerWorker
		if lo >= n {
			break
		}
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				work(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}

func (s *Solver) computeResidual(lvl *Level) {
	dx2, dy2 := lvl.Dx*lvl.Dx, lvl.Dy*lvl.Dy
	s.parallelRows(lvl.Nx, func(i int) {
		if i == 0 || i == lvl.Nx-1 {
			for j := range lvl.Residual[i] {
				lvl.Residual[i][j] = 0
			}
			return
		}
		for j := 1; j < lvl.Ny-1; j++ {
			lap := (lvl.Phi[i+1][j] - 2*lvl.Phi[i][j] + lvl.Phi[i-1][j]) / complex(dx2, 0)
			lap += (lvl.Phi[i][j+1] - 2*lvl.Phi[i][j] + lvl.Phi[i][j-1]) / complex(dy2, 0)
			lvl.Residual[i][j] = lvl.Rhs[i][j] - (lap - s.Alpha*lvl.Phi[i][j])
		}
	})
}

func (s *Solver) residualNorm(lvl *Level) float64 {
	s.computeResidual(lvl)
	return normInf(lvl.Residual)
}

func normInf(a [][]complex128) float64 {
	max := 0.0
	for i := range a {
		for j := range a[i] {
			m := cmplxAbs(a[i][j])
			if m > max {
				max = m
			}
		}
	}
	return max
}

func cmplxAbs(z complex128) float64 {
	return math.Hypot(real(z), imag(z))
}

// restrict maps fine residual to coarse rhs via unweighted 4-point average
// (cell-centered) or 9-point weighted average (node-centered), spec §4.3.
func (s *Solver) restrict(fine, coarse [][]complex128) {
	cnx, cny := len(coarse), len(coarse[0])
	for ci := 0; ci < cnx; ci++ {
		for cj := 0; cj < cny; cj++ {
			fi, fj := 2*ci, 2*cj
			if s.Stencil == CellCentered {
				coarse[ci][cj] = avg4(fine, fi, fj)
			} else {
				coarse[ci][cj] = avg9(fine, fi, fj)
			}
		}
	}
}

func avg4(fine [][]complex128, fi, fj int) complex128 {
	nx, ny := len(fine), len(fine[0])
	var sum complex128
	n := 0
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			i, j := fi+di, fj+dj
			if i < nx && j < ny {
				sum += fine[i][j]
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / complex(float64(n), 0)
}

func avg9(fine [][]complex128, fi, fj int) complex128 {
	nx, ny := len(fine), len(fine[0])
	weights := [3][3]float64{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}
	var sum complex128
	var wsum float64
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			i, j := fi+di, fj+dj
			if i < 0 || j < 0 || i >= nx || j >= ny {
				continue
			}
			w := weights[di+1][dj+1]
			sum += fine[i][j] * complex(w, 0)
			wsum += w
		}
	}
	if wsum == 0 {
		return 0
	}
	return sum / complex(wsum, 0)
}

// prolongAndAdd adds the coarse correction into fine via piecewise-constant
// injection (cell-centered) or bilinear interpolation (node-centered),
// fused with the add (spec §4.3).
func (s *Solver) prolongAndAdd(coarse, fine [][]complex128) {
	cnx, cny := len(coarse), len(coarse[0])
	fnx, fny := len(fine), len(fine[0])
	for fi := 0; fi < fnx; fi++ {
		ci := fi / 2
		if ci >= cnx {
			ci = cnx - 1
		}
		for fj := 0; fj < fny; fj++ {
			cj := fj / 2
			if cj >= cny {
				cj = cny - 1
			}
			if s.Stencil == CellCentered {
				fine[fi][fj] += coarse[ci][cj]
			} else {
				fine[fi][fj] += bilinearComplex(coarse, ci, cj, fi%2, fj%2)
			}
		}
	}
}

func bilinearComplex(coarse [][]complex128, ci, cj, rx, ry int) complex128 {
	cnx, cny := len(coarse), len(coarse[0])
	ci1, cj1 := ci+1, cj+1
	if ci1 >= cnx {
		ci1 = ci
	}
	if cj1 >= cny {
		cj1 = cj
	}
	tx, ty := float64(rx)/2, float64(ry)/2
	a := coarse[ci][cj]*complex(1-tx, 0) + coarse[ci1][cj]*complex(tx, 0)
	b := coarse[ci][cj1]*complex(1-tx, 0) + coarse[ci1][cj1]*complex(tx, 0)
	return a*complex(1-ty, 0) + b*complex(ty, 0)
}
