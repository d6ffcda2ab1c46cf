// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fields

import (
	"testing"

	"github.com/EyaDammak/Hipace2/grid"
)

func TestShiftRotatesRoles(t *testing.T) {
	box := grid.NewBox(4, 4, 1, 1, 2)
	s := NewStore(box, ModePredictorCorrector)

	this := s.Get(This, Bx)
	this[2][2] = 7.0

	s.Shift([]string{Bx})

	if got := s.Get(Previous1, Bx)[2][2]; got != 7.0 {
		t.Fatalf("Previous1[Bx] = %v, want 7.0", got)
	}
}

func TestGetUnregisteredComponentPanics(t *testing.T) {
	box := grid.NewBox(4, 4, 1, 1, 2)
	s := NewStore(box, ModePredictorCorrector)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for unregistered component")
		}
	}()
	s.Get(This, Sx)
}

func TestDuplicateCopiesValues(t *testing.T) {
	box := grid.NewBox(4, 4, 1, 1, 2)
	s := NewStore(box, ModePredictorCorrector)

	src := s.Get(This, Psi)
	src[1][1] = 3.5

	s.Duplicate(This, []string{Psi}, Next, []string{Psi})

	if got := s.Get(Next, Psi)[1][1]; got != 3.5 {
		t.Fatalf("Next[Psi] = %v, want 3.5", got)
	}
}
