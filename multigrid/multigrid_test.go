// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multigrid

import "testing"

func TestLevelsShrinkToBottomBlock(t *testing.T) {
	s := New(128, 128, 1, 1, 0, RealScalar, CellCentered, 1e-8, 1e-8, 20)
	last := s.Levels[len(s.Levels)-1]
	if last.Nx > 32 || last.Ny > 32 {
		t.Fatalf("coarsest level too large: %dx%d", last.Nx, last.Ny)
	}
}

func TestSolveConvergesOnZeroRHS(t *testing.T) {
	s := New(64, 64, 1, 1, 0, RealScalar, CellCentered, 1e-10, 1e-10, 10)
	rhs := allocComplex(64, 64)
	phi := s.Solve(rhs)
	for i := range phi {
		for j := range phi[i] {
			if cmplxAbs(phi[i][j]) > 1e-8 {
				t.Fatalf("phi[%d][%d] = %v, want ~0 for zero rhs", i, j, phi[i][j])
			}
		}
	}
}
