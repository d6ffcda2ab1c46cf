// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package predcorr

import "testing"

func grid2(v float64) [][]float64 {
	return [][]float64{{v, v}, {v, v}}
}

func TestIdempotenceAtConvergedGuess(t *testing.T) {
	cfg := DefaultConfig
	bx, by := grid2(1.0), grid2(1.0)

	steps := StepFuncs{
		AdvanceAndDeposit: func(bx, by [][]float64) {},
		SolveB: func() ([][]float64, [][]float64) {
			return grid2(1.0), grid2(1.0)
		},
		ResetAndExchange: func(bx, by [][]float64) {},
	}

	_, _, iters, err := Iterate(bx, by, cfg, steps)
	if err != nil {
		t.Fatalf("unexpected divergence: %v", err)
	}
	if iters != 1 {
		t.Fatalf("iterations = %d, want 1 at the converged guess", iters)
	}
}

func TestDivergenceAborts(t *testing.T) {
	cfg := DefaultConfig
	bx, by := grid2(1.0), grid2(1.0)

	call := 0
	steps := StepFuncs{
		AdvanceAndDeposit: func(bx, by [][]float64) {},
		SolveB: func() ([][]float64, [][]float64) {
			call++
			return grid2(1.0 + 100*float64(call)), grid2(1.0 + 100*float64(call))
		},
		ResetAndExchange: func(bx, by [][]float64) {},
	}

	_, _, _, err := Iterate(bx, by, cfg, steps)
	if err == nil {
		t.Fatalf("expected divergence error")
	}
}
