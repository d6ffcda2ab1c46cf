// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poisson

import (
	"math"
	"testing"
)

func TestNewRejectsMultipleBoxes(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for localBoxes != 1")
		}
	}()
	New(Periodic, 8, 8, 1, 1, 2)
}

func TestEigenZeroModeIsZero(t *testing.T) {
	eig := buildEigen(16, 16, 1, 1)
	if eig[0][0] != 0 {
		t.Fatalf("eigen[0][0] = %v, want 0", eig[0][0])
	}
}

func TestMultipoleMonopoleZeroedForEz(t *testing.T) {
	s := make([][]float64, 16)
	for i := range s {
		s[i] = make([]float64, 16)
		for j := range s[i] {
			s[i][j] = 1.0
		}
	}
	m := ComputeMultipole(s, 0.1, 0.1, 0.8, 0.8, true)
	if m.Coeffs[0] != 0 {
		t.Fatalf("monopole = %v, want 0 when zeroMonopole", m.Coeffs[0])
	}
}

func TestAntisymmetricExpandIsOdd(t *testing.T) {
	v := []float64{1, 2, 3}
	ext := antisymmetricExpand(v, 8)
	for i := 1; i <= 3; i++ {
		if math.Abs(ext[i]+ext[8-i]) > 1e-12 {
			t.Fatalf("expansion not antisymmetric at i=%d: %v vs %v", i, ext[i], ext[8-i])
		}
	}
}
