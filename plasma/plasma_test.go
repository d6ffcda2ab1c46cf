// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plasma

import (
	"testing"

	"github.com/EyaDammak/Hipace2/grid"
)

func TestInitRegularGridCount(t *testing.T) {
	p := InitRegularGrid(4, 4, 2, 2, 1, 1, 1.0)
	if p.Len() != 4*4*2*2 {
		t.Fatalf("got %d particles, want %d", p.Len(), 4*4*2*2)
	}
	for i := 0; i < p.Len(); i++ {
		if !p.IsLive(i) {
			t.Fatalf("particle %d should be live at init", i)
		}
	}
}

func TestMarkInvalidAndReorderCompacts(t *testing.T) {
	p := InitRegularGrid(2, 2, 1, 1, 1, 1, 1.0)
	p.MarkInvalid(0)
	box := grid.NewBox(2, 2, 1, 1, 2)
	out := Reorder(p, box)
	if out.Len() != p.Len()-1 {
		t.Fatalf("reorder kept %d particles, want %d", out.Len(), p.Len()-1)
	}
}

func TestRotateHistoryWraps(t *testing.T) {
	p := New(1)
	for i := 0; i < HistorySlots+1; i++ {
		p.RotateHistory()
	}
	if p.HistoryHead != 1 {
		t.Fatalf("HistoryHead = %d, want 1 after wrapping", p.HistoryHead)
	}
}

func TestShapeOrder1WeightsSumToOne(t *testing.T) {
	s := Build(Order1, 3.25)
	sum := 0.0
	for _, w := range s.Weights {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("weights sum = %v, want ~1", sum)
	}
}
