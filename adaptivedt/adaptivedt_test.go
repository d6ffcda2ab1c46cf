// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adaptivedt

import "testing"

func TestAccumulatorsReduceTracksMin(t *testing.T) {
	a := NewAccumulators()
	a.Reduce([]float64{1, 1, 1}, []float64{5, 2, 9}, []float64{0, 0, 0})
	if a.MinUz != 2 {
		t.Fatalf("MinUz = %v, want 2", a.MinUz)
	}
}

func TestFinalDtCapsAtMax(t *testing.T) {
	got := FinalDt([]float64{10, 5, 20}, 8)
	if got != 5 {
		t.Fatalf("FinalDt = %v, want 5 (min, under cap)", got)
	}
	got2 := FinalDt([]float64{10, 20}, 8)
	if got2 != 8 {
		t.Fatalf("FinalDt = %v, want 8 (capped)", got2)
	}
}

func TestPredictMonotonicityForIncreasingDensity(t *testing.T) {
	constants := PhysicalConstants{E: 1.602176634e-19, Eps0: 8.8541878128e-12, Me: 9.1093837015e-31}
	acc := NewAccumulators()
	acc.Reduce([]float64{1}, []float64{1956.9}, []float64{0})

	density := func(ct float64) float64 { return 1e24 * (1 + ct) }

	var prev float64
	for step := 0; step < 4; step++ {
		ct := float64(step)
		dt := Predict(acc, ct, density, 4, 20, 1e9, 0, constants)
		if step > 0 && dt > prev {
			t.Fatalf("dt sequence not non-increasing: step %d dt=%v prev=%v", step, dt, prev)
		}
		prev = dt
	}
}
