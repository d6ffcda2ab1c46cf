// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package beam

import "testing"

func testSpecies() Species { return Species{Name: "e-", Charge: -1, Mass: 1} }

func TestInitGaussianLiveCount(t *testing.T) {
	p := InitGaussian(testSpecies(), 100, 1.0, 1.41, 0, 1.0)
	live := 0
	for i := 0; i < p.Len(); i++ {
		if p.IsLive(i) {
			live++
		}
	}
	if live != 100 {
		t.Fatalf("live = %d, want 100", live)
	}
}

func TestBoxArrayOutOfDomainGoesToSentinel(t *testing.T) {
	ba := &BoxArray{NumBoxesX: 2, NumBoxesY: 2, Lx: 1, Ly: 1}
	p := New(testSpecies(), 1)
	p.X[0], p.Y[0] = 10, 10
	if got := ba.Assign(p, 0); got != ba.NumBoxes() {
		t.Fatalf("Assign = %d, want sentinel %d", got, ba.NumBoxes())
	}
}

func TestDenseBinsOffsetsMonotonic(t *testing.T) {
	p := New(testSpecies(), 10)
	for i := range p.Z {
		p.Z[i] = float64(i) * 0.1
		p.Status[i] = 0
	}
	bins := BuildDenseBins(p, 5, 0, 0.2)
	for i := 1; i < len(bins.Offsets); i++ {
		if bins.Offsets[i] < bins.Offsets[i-1] {
			t.Fatalf("offsets not monotonic at %d", i)
		}
	}
}

func TestShiftSlippedMovesEarlierSlices(t *testing.T) {
	thisTile := New(testSpecies(), 3)
	for i := range thisTile.Z {
		thisTile.Status[i] = 0
	}
	thisTile.Z[0], thisTile.Z[1], thisTile.Z[2] = -0.5, 0.5, 1.5
	nextTile := New(testSpecies(), 0)

	newThis, newNext := ShiftSlipped(thisTile, nextTile, 2, 0, 1.0)
	// z = -0.5, 0.5, 1.5 fall in slices -1, 0, 1, all before slice 2.
	if newThis.Len() != 0 {
		t.Fatalf("newThis.Len() = %d, want 0", newThis.Len())
	}
	if newNext.Len() != 3 {
		t.Fatalf("newNext.Len() = %d, want 3", newNext.Len())
	}
}
