// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_grid01_box(tst *testing.T) {

	chk.PrintTitle("grid01: box geometry and ghost width")

	b := NewBox(16, 8, 2.0, 1.0, 2)
	if b.Dx != 2.0/16.0 || b.Dy != 1.0/8.0 {
		tst.Fatalf("Dx,Dy = %v,%v, want %v,%v", b.Dx, b.Dy, 2.0/16.0, 1.0/8.0)
	}
	if b.GhostWidth != 3 { // (2+1+1)/2 + 1 = 3
		tst.Fatalf("GhostWidth = %d, want 3", b.GhostWidth)
	}
	if b.NxGhost() != 16+6 || b.NyGhost() != 8+6 {
		tst.Fatalf("NxGhost,NyGhost = %d,%d, want %d,%d", b.NxGhost(), b.NyGhost(), 22, 14)
	}
}

func Test_grid02_boxPanicsOnBadSize(tst *testing.T) {

	chk.PrintTitle("grid02: box panics on non-positive cell counts")

	defer func() {
		if r := recover(); r == nil {
			tst.Fatalf("expected panic for nx=0")
		}
	}()
	NewBox(0, 8, 1, 1, 2)
}

func Test_grid03_decomposition(tst *testing.T) {

	chk.PrintTitle("grid03: decomposition splits world rank into (xy,z) and a contiguous slice range")

	// 2x2 transverse ranks, 3 z-ranks, 4 slices per rank, world rank 9
	// (xy-major layout: worldRank = rankZ*numXY + rankXY).
	d := NewDecomposition(2, 2, 3, 4, 9)
	if d.RankXY != 1 || d.RankZ != 2 {
		tst.Fatalf("RankXY,RankZ = %d,%d, want 1,2", d.RankXY, d.RankZ)
	}
	lo, hi := d.SliceRange()
	if lo != 8 || hi != 12 {
		tst.Fatalf("SliceRange = [%d,%d), want [8,12)", lo, hi)
	}
	if !d.IsTop() {
		tst.Fatalf("rankZ=2 of 3 should be top")
	}
	if d.IsBottom() {
		tst.Fatalf("rankZ=2 of 3 should not be bottom")
	}

	bottom := NewDecomposition(2, 2, 3, 4, 1)
	if !bottom.IsBottom() || bottom.IsTop() {
		tst.Fatalf("rankZ=0 should be bottom, not top")
	}
}
