// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag implements the diagnostic resampler and openPMD output
// contract of spec.md §2 and §6: interpolating slice data into a
// time-accumulated 3-D plot buffer honoring diag_type, patch bounds,
// coarsening and ghost-cell inclusion, then handing the buffer to a
// Backend. It is grounded on the teacher's out package, which likewise
// sits downstream of the solver as a loosely-coupled consumer of solved
// state rather than a participant in the solve.
package diag

import (
	"github.com/cpmech/gosl/chk"

	"github.com/EyaDammak/Hipace2/config"
	"github.com/EyaDammak/Hipace2/fields"
	"github.com/EyaDammak/Hipace2/grid"
)

// Buffer accumulates one field component over every z-slice processed
// this time step into a 3-D (or collapsed 2-D) array, honoring
// diagnostic.diag_type, patch bounds, coarsening and ghost-cell inclusion
// (spec §2 "Diagnostic resampler").
type Buffer struct {
	Component string
	DiagType  string // "xyz", "xz", "yz"
	Nx, Ny, Nz int
	Data       [][][]float64 // [ix][iy][iz], collapsed axis has length 1
}

// Resampler owns one Buffer per requested field component plus the patch
// geometry derived from the configured diagnostic bounds.
type Resampler struct {
	cfg      config.Diagnostic
	box      *grid.Box
	numSlices int
	buffers  map[string]*Buffer

	ixLo, ixHi, iyLo, iyHi int // patch bounds in cell indices, after coarsening
	coarseX, coarseY, coarseZ int
}

// New builds a Resampler for the given diagnostic config, transverse box,
// and the number of z-slices this rank owns.
func New(cfg config.Diagnostic, box *grid.Box, numSlices int) *Resampler {
	cx, cy, cz := cfg.Coarsening[0], cfg.Coarsening[1], cfg.Coarsening[2]
	if cx <= 0 {
		cx = 1
	}
	if cy <= 0 {
		cy = 1
	}
	if cz <= 0 {
		cz = 1
	}
	ixLo, ixHi := patchRange(cfg.PatchLo[0], cfg.PatchHi[0], box.Dx, box.Nx)
	iyLo, iyHi := patchRange(cfg.PatchLo[1], cfg.PatchHi[1], box.Dy, box.Ny)
	if cfg.IncludeGhostCells {
		gw := box.GhostWidth
		if ixLo == 0 {
			ixLo = -gw
		}
		if ixHi == box.Nx {
			ixHi = box.Nx + gw
		}
		if iyLo == 0 {
			iyLo = -gw
		}
		if iyHi == box.Ny {
			iyHi = box.Ny + gw
		}
	}

	r := &Resampler{
		cfg: cfg, box: box, numSlices: numSlices,
		buffers: make(map[string]*Buffer, len(cfg.FieldData)),
		ixLo: ixLo, ixHi: ixHi, iyLo: iyLo, iyHi: iyHi,
		coarseX: cx, coarseY: cy, coarseZ: cz,
	}
	for _, comp := range cfg.FieldData {
		r.buffers[comp] = r.allocBuffer(comp)
	}
	return r
}

func patchRange(lo, hi, d float64, n int) (int, int) {
	ilo := clampi(int(lo/d), 0, n)
	ihi := clampi(int(hi/d), ilo, n)
	if hi == 0 && lo == 0 {
		return 0, n // patch_lo==patch_hi==0 means "whole box" (spec §6 default)
	}
	return ilo, ihi
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// allocBuffer sizes a Buffer for this component, collapsing the axis not
// named by diag_type (spec §6: "collapsed-axis removal for slice
// outputs").
func (r *Resampler) allocBuffer(component string) *Buffer {
	nx := (r.ixHi - r.ixLo) / r.coarseX
	ny := (r.iyHi - r.iyLo) / r.coarseY
	nz := r.numSlices / r.coarseZ
	if nx <= 0 {
		nx = 1
	}
	if ny <= 0 {
		ny = 1
	}
	if nz <= 0 {
		nz = 1
	}
	switch r.cfg.DiagType {
	case "xz":
		ny = 1
	case "yz":
		nx = 1
	case "xyz", "":
		// full 3-D, keep nx,ny,nz
	default:
		chk.Panic("diag: unknown diag_type %q", r.cfg.DiagType)
	}
	data := make([][][]float64, nx)
	for i := range data {
		data[i] = make([][]float64, ny)
		for j := range data[i] {
			data[i][j] = make([]float64, nz)
		}
	}
	return &Buffer{Component: component, DiagType: r.cfg.DiagType, Nx: nx, Ny: ny, Nz: nz, Data: data}
}

// DepositSlice interpolates store's (This,component) onto the resampled
// transverse patch at slice index sliceIdx, counted from this rank's first
// slice (0 <= sliceIdx < numSlices), for every configured
// field component. Ghost cells are included in the source sum when
// cfg.IncludeGhostCells is set (spec §6 diagnostic.include_ghost_cells).
func (r *Resampler) DepositSlice(store *fields.Store, sliceIdx int) {
	kz := (sliceIdx / r.coarseZ)
	for comp, buf := range r.buffers {
		if !store.HasComponent(comp) {
			continue
		}
		arr := store.Get(fields.This, comp)
		r.depositComponent(arr, buf, kz)
	}
}

func (r *Resampler) depositComponent(arr [][]float64, buf *Buffer, kz int) {
	gw := r.box.GhostWidth
	for bi := 0; bi < buf.Nx; bi++ {
		for bj := 0; bj < buf.Ny; bj++ {
			var sum float64
			var count int
			ixStart := r.ixLo + bi*r.coarseX
			iyStart := r.iyLo + bj*r.coarseY
			lo, hi := 0, 0
			if r.cfg.IncludeGhostCells {
				lo, hi = -gw, gw
			}
			for dx := 0; dx < r.coarseX; dx++ {
				for dy := 0; dy < r.coarseY; dy++ {
					ix, iy := ixStart+dx, iyStart+dy
					if ix < lo || iy < lo || ix >= r.box.Nx+hi || iy >= r.box.Ny+hi {
						continue
					}
					sum += arr[ix+gw][iy+gw]
					count++
				}
			}
			if count == 0 {
				continue
			}
			avg := sum / float64(count)
			switch buf.DiagType {
			case "xz":
				if kz < buf.Nz {
					buf.Data[bi][0][kz] += avg
				}
			case "yz":
				if kz < buf.Nz {
					buf.Data[0][bj][kz] += avg
				}
			default:
				if kz < buf.Nz {
					buf.Data[bi][bj][kz] += avg
				}
			}
		}
	}
}

// Buffers returns the accumulated per-component buffers, ready for a
// Backend to serialize.
func (r *Resampler) Buffers() map[string]*Buffer { return r.buffers }
