// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid describes the transverse box and the longitudinal
// domain decomposition (spec.md §3 "Geometry"). x and y are never
// decomposed; z is split one contiguous slab per rank.
package grid

import "github.com/cpmech/gosl/chk"

// Box is the transverse grid of one slice, shared by every (role,component)
// array in the field store (spec §3, §4.1 invariant ii).
type Box struct {
	Nx, Ny     int     // number of interior transverse cells
	Lx, Ly     float64 // physical extents
	Dx, Dy     float64 // cell sizes, derived
	GhostWidth int     // ceil((depos_order+1)/2) + 1
}

// NewBox builds a Box and derives Dx, Dy and GhostWidth from the
// deposition order (spec §3 invariant ii).
func NewBox(nx, ny int, lx, ly float64, deposOrder int) *Box {
	if nx <= 0 || ny <= 0 {
		chk.Panic("grid: box dimensions must be positive, got (%d,%d)", nx, ny)
	}
	gw := (deposOrder+1+1)/2 + 1
	return &Box{
		Nx: nx, Ny: ny,
		Lx: lx, Ly: ly,
		Dx: lx / float64(nx), Dy: ly / float64(ny),
		GhostWidth: gw,
	}
}

// NxGhost and NyGhost are the full per-row/column extents including ghosts
// on both sides.
func (b *Box) NxGhost() int { return b.Nx + 2*b.GhostWidth }
func (b *Box) NyGhost() int { return b.Ny + 2*b.GhostWidth }

// Decomposition partitions the global z range into one contiguous slab of
// GridSizeZ slices per z-rank (spec §3 "Geometry", §6 hipace.grid_size_z).
type Decomposition struct {
	NumProcsX, NumProcsY, NumProcsZ int
	GridSizeZ                      int // cells (slices) per rank
	RankXY, RankZ                  int // this rank's coordinates
}

// NewDecomposition builds the decomposition for this rank given its world
// rank and the process-grid shape; worldRank = rankZ*numXY + rankXY matches
// the xy-major layout used by pipeline.Split.
func NewDecomposition(numProcsX, numProcsY, numProcsZ, gridSizeZ, worldRank int) *Decomposition {
	numXY := numProcsX * numProcsY
	return &Decomposition{
		NumProcsX: numProcsX, NumProcsY: numProcsY, NumProcsZ: numProcsZ,
		GridSizeZ: gridSizeZ,
		RankXY:    worldRank % numXY,
		RankZ:     worldRank / numXY,
	}
}

// SliceRange returns the half-open [lo,hi) global slice-index range this
// rank owns.
func (d *Decomposition) SliceRange() (lo, hi int) {
	lo = d.RankZ * d.GridSizeZ
	hi = lo + d.GridSizeZ
	return
}

// IsTop is true for the rank that owns the highest (most forward, processed
// first) z-slab -- it never receives on the pipeline (spec §5).
func (d *Decomposition) IsTop() bool { return d.RankZ == d.NumProcsZ-1 }

// IsBottom is true for the rank that owns the lowest z-slab -- it never
// sends on the pipeline (spec §5).
func (d *Decomposition) IsBottom() bool { return d.RankZ == 0 }
