// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package beam

import "math"

// BoxArray is the spatial grid assignor used by the per-box sort (spec
// §4.8): it maps a transverse (x,y) position to the owning box index, or
// numBoxes when the particle is out of domain.
type BoxArray struct {
	NumBoxesX, NumBoxesY int
	Lx, Ly               float64
}

// NumBoxes is the total number of boxes; the index NumBoxes() itself is the
// "out of domain" sentinel (spec §4.8: "num_boxes if id<0 or transversely
// out-of-domain").
func (b *BoxArray) NumBoxes() int { return b.NumBoxesX * b.NumBoxesY }

// Assign returns the destination box index for particle i, or NumBoxes()
// if the particle is invalid or outside the transverse domain.
func (b *BoxArray) Assign(p *Particles, i int) int {
	if p.Status[i] < 0 {
		return b.NumBoxes()
	}
	x, y := p.X[i]+b.Lx/2, p.Y[i]+b.Ly/2
	if x < 0 || x >= b.Lx || y < 0 || y >= b.Ly {
		return b.NumBoxes()
	}
	bx := int(x / (b.Lx / float64(b.NumBoxesX)))
	by := int(y / (b.Ly / float64(b.NumBoxesY)))
	if bx >= b.NumBoxesX {
		bx = b.NumBoxesX - 1
	}
	if by >= b.NumBoxesY {
		by = b.NumBoxesY - 1
	}
	return bx*b.NumBoxesY + by
}

// BoxSortResult mirrors the per-box counts/offsets computed by the scan,
// with a host-mirrored copy for downstream iteration (spec §4.8).
type BoxSortResult struct {
	Counts      []int // [numBoxes+1]
	Offsets     []int // [numBoxes+1], prefix sum of Counts
	Permutation []int // old index -> new index
}

// SortByBox computes, for each particle, its destination box via ba, then
// scatter-copies particles into box order (spec §4.8 "Per box sort").
func SortByBox(p *Particles, ba *BoxArray) (*Particles, *BoxSortResult) {
	n := p.Len()
	nb := ba.NumBoxes() + 1
	dest := make([]int, n)
	counts := make([]int, nb+1)
	for i := 0; i < n; i++ {
		b := ba.Assign(p, i)
		dest[i] = b
		counts[b+1]++
	}
	for b := 1; b <= nb; b++ {
		counts[b] += counts[b-1]
	}
	cursor := make([]int, nb)
	copy(cursor, counts[:nb])

	out := New(p.Species, n)
	perm := make([]int, n)
	for i := 0; i < n; i++ {
		b := dest[i]
		j := cursor[b]
		cursor[b]++
		copyBeamParticle(p, i, out, j)
		perm[i] = j
	}
	boxCounts := make([]int, nb)
	for b := 0; b < nb; b++ {
		boxCounts[b] = counts[b+1] - counts[b]
	}
	return out, &BoxSortResult{Counts: boxCounts, Offsets: counts[:nb], Permutation: perm}
}

func copyBeamParticle(src *Particles, i int, dst *Particles, j int) {
	dst.X[j], dst.Y[j], dst.Z[j] = src.X[i], src.Y[i], src.Z[i]
	dst.Ux[j], dst.Uy[j], dst.Uz[j] = src.Ux[i], src.Uy[i], src.Uz[i]
	dst.Weight[j] = src.Weight[i]
	dst.Status[j] = src.Status[i]
}

// DenseBins maps each particle in a beam tile to its z-cell (slice) index,
// and exposes a queryable permutation/offset per slice (spec §4.8 "Per
// slice sort").
type DenseBins struct {
	NumSlices int
	ZLo, Dz   float64
	Offsets   []int // [NumSlices+1]
	Perm      []int // old index -> position within sorted-by-slice order
}

// BuildDenseBins bins p's particles by their z-cell index within
// [zLo, zLo+numSlices*dz).
func BuildDenseBins(p *Particles, numSlices int, zLo, dz float64) *DenseBins {
	n := p.Len()
	sliceOf := make([]int, n)
	counts := make([]int, numSlices+2) // +1 for out-of-range sentinel
	for i := 0; i < n; i++ {
		s := sliceOf4(p.Z[i], zLo, dz, numSlices)
		sliceOf[i] = s
		counts[s+1]++
	}
	for s := 1; s <= numSlices+1; s++ {
		counts[s] += counts[s-1]
	}
	cursor := make([]int, numSlices+1)
	copy(cursor, counts[:numSlices+1])
	perm := make([]int, n)
	for i := 0; i < n; i++ {
		s := sliceOf[i]
		perm[i] = cursor[s]
		cursor[s]++
	}
	return &DenseBins{NumSlices: numSlices, ZLo: zLo, Dz: dz, Offsets: counts[:numSlices+1], Perm: perm}
}

func sliceOf4(z, zLo, dz float64, numSlices int) int {
	s := int(math.Floor((z - zLo) / dz))
	if s < 0 || s >= numSlices {
		return numSlices // sentinel bucket
	}
	return s
}

// IndicesForSlice returns the original particle indices binned into
// slice k, by inverting Perm over the [Offsets[k],Offsets[k+1]) range.
func (d *DenseBins) IndicesForSlice(k int) []int {
	lo, hi := d.Offsets[k], d.Offsets[k+1]
	out := make([]int, 0, hi-lo)
	inv := make([]int, len(d.Perm))
	for i, pos := range d.Perm {
		inv[pos] = i
	}
	for pos := lo; pos < hi; pos++ {
		out = append(out, inv[pos])
	}
	return out
}

// ShiftSlipped moves every particle whose new z falls into a slice before
// the current slice from the This-slice tile into the Next-slice tile
// using a two-pass prefix-sum compact (spec §4.8 "Slipped-particle
// shift").
func ShiftSlipped(thisTile, nextTile *Particles, currentSlice int, zLo, dz float64) (newThis, newNext *Particles) {
	n := thisTile.Len()
	slipped := make([]bool, n)
	nSlipped := 0
	for i := 0; i < n; i++ {
		if !thisTile.IsLive(i) {
			continue
		}
		s := int(math.Floor((thisTile.Z[i] - zLo) / dz))
		if s < currentSlice {
			slipped[i] = true
			nSlipped++
		}
	}

	newThis = New(thisTile.Species, n-nSlipped)
	newNext = New(nextTile.Species, nextTile.Len()+nSlipped)
	ti, ni := 0, nextTile.Len()
	for i := 0; i < n; i++ {
		if slipped[i] {
			copyBeamParticle(thisTile, i, newNext, ni)
			ni++
			continue
		}
		copyBeamParticle(thisTile, i, newThis, ti)
		ti++
	}
	for i := 0; i < nextTile.Len(); i++ {
		copyBeamParticle(nextTile, i, newNext, i)
	}
	return
}
