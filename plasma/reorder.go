// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plasma

import "github.com/EyaDammak/Hipace2/grid"

// Reorder bins live particles into per-transverse-cell order (spec §4.4
// step 3: "critical for cache locality and conserved-field deposition
// determinism"), and compacts out particles marked invalid (status<0,
// spec §3 lifecycle: "compacted during reorder"). It returns a new
// Particles in cell order; the caller swaps it in for the old container.
func Reorder(p *Particles, box *grid.Box) *Particles {
	n := p.Len()
	cellOf := make([]int, n)
	ncells := box.Nx * box.Ny
	counts := make([]int, ncells+1)

	for i := 0; i < n; i++ {
		if !p.IsLive(i) {
			cellOf[i] = -1
			continue
		}
		ci := cellIndex(p.X[i], p.Y[i], box)
		cellOf[i] = ci
		counts[ci+1]++
	}
	// prefix sum -> offsets
	for c := 1; c <= ncells; c++ {
		counts[c] += counts[c-1]
	}
	nLive := counts[ncells]

	out := New(nLive)
	cursor := make([]int, ncells)
	copy(cursor, counts[:ncells])

	for i := 0; i < n; i++ {
		ci := cellOf[i]
		if ci < 0 {
			continue
		}
		dst := cursor[ci]
		cursor[ci]++
		copyParticle(p, i, out, dst)
	}
	return out
}

func cellIndex(x, y float64, box *grid.Box) int {
	i := clamp(int(x/box.Dx), 0, box.Nx-1)
	j := clamp(int(y/box.Dy), 0, box.Ny-1)
	return i*box.Ny + j
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func copyParticle(src *Particles, i int, dst *Particles, j int) {
	dst.X[j] = src.X[i]
	dst.Y[j] = src.Y[i]
	dst.Ux[j] = src.Ux[i]
	dst.Uy[j] = src.Uy[i]
	dst.Psi[j] = src.Psi[i]
	dst.UxHalf[j] = src.UxHalf[i]
	dst.UyHalf[j] = src.UyHalf[i]
	dst.PsiHalf[j] = src.PsiHalf[i]
	dst.Weight[j] = src.Weight[i]
	dst.Ionization[j] = src.Ionization[i]
	dst.Status[j] = src.Status[i]
	for c := 0; c < int(numForceComponents); c++ {
		for s := 0; s < HistorySlots; s++ {
			dst.History[c][s][j] = src.History[c][s][i]
		}
	}
}

// MarkOutOfDomain flags every particle outside [0,lx]x[0,ly] as invalid
// (spec §3: "marked invalid (status<0) when leaving the transverse
// domain").
func MarkOutOfDomain(p *Particles, lx, ly float64) {
	for i := 0; i < p.Len(); i++ {
		if !p.IsLive(i) {
			continue
		}
		if p.X[i] < 0 || p.X[i] > lx || p.Y[i] < 0 || p.Y[i] > ly {
			p.MarkInvalid(i)
		}
	}
}
