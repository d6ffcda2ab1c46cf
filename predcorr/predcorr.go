// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package predcorr implements the predictor-corrector iteration for
// (Bx,By) described in spec.md §4.5. It has no direct teacher analog
// beyond the general shape of fem/solver.go's nonlinear loop (iterate,
// compute relative error, compare to tolerance, abort on divergence).
package predcorr

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Config holds the tunables from spec §6 (defaults per spec §4.5).
type Config struct {
	Tolerance    float64 // default 4e-2
	MaxIter      int     // default 5
	MixingFactor float64 // default 0.1
}

// DefaultConfig matches spec §4.5's stated defaults.
var DefaultConfig = Config{Tolerance: 4e-2, MaxIter: 5, MixingFactor: 0.1}

// InitialGuess computes B_this = (1+mu)*Bprev1 - mu*Bprev2, with
// mu = exp(-0.5*((eps/(2.5*tol))^2)) where eps is the error between B on
// the two previous slices (spec §4.5).
func InitialGuess(bPrev1, bPrev2 [][]float64, tol float64) [][]float64 {
	nx, ny := len(bPrev1), len(bPrev1[0])
	eps := relativeDiff(bPrev1, bPrev2)
	mu := math.Exp(-0.5 * math.Pow(eps/(2.5*tol), 2))
	out := make([][]float64, nx)
	for i := 0; i < nx; i++ {
		out[i] = make([]float64, ny)
		for j := 0; j < ny; j++ {
			out[i][j] = (1+mu)*bPrev1[i][j] - mu*bPrev2[i][j]
		}
	}
	return out
}

func relativeDiff(a, b [][]float64) float64 {
	var num, den float64
	for i := range a {
		for j := range a[i] {
			d := a[i][j] - b[i][j]
			num += d * d
			den += a[i][j]*a[i][j] + 1e-300
		}
	}
	return math.Sqrt(num / den)
}

// RelativeError computes the interior relative_error between the new and
// old (Bx,By) pair, per spec §4.5 step 5:
//
//	relative_error = ||(Bx_new-Bx)^2 + (By_new-By)^2|| / ||Bx^2+By^2||
func RelativeError(bxNew, byNew, bx, by [][]float64) float64 {
	var num, den float64
	for i := range bx {
		for j := range bx[i] {
			dx := bxNew[i][j] - bx[i][j]
			dy := byNew[i][j] - by[i][j]
			num += dx*dx + dy*dy
			den += bx[i][j]*bx[i][j] + by[i][j]*by[i][j]
		}
	}
	if den == 0 {
		return 0
	}
	return math.Sqrt(num / den)
}

// Mix applies spec §4.5 step 6:
//
//	B <- (1-lambda)*B + lambda*[a*B_new + (1-a)*B_prev_iter]
//
// with a = errPrev/(err+errPrev) when errors are nonzero, else a=0.5.
func Mix(b, bNew, bPrevIter [][]float64, lambda, err, errPrev float64) [][]float64 {
	a := 0.5
	if err+errPrev != 0 {
		a = errPrev / (err + errPrev)
	}
	out := make([][]float64, len(b))
	for i := range b {
		out[i] = make([]float64, len(b[i]))
		for j := range b[i] {
			blend := a*bNew[i][j] + (1-a)*bPrevIter[i][j]
			out[i][j] = (1-lambda)*b[i][j] + lambda*blend
		}
	}
	return out
}

// StepFuncs holds the callbacks Iterate uses for the steps that depend on
// the driver's particle/field state (spec §4.5 steps 1-7).
type StepFuncs struct {
	// AdvanceAndDeposit advances plasma to Next under the current (bx,by)
	// guess, deposits currents, and boundary-sums them (spec §4.5 steps
	// 1-3).
	AdvanceAndDeposit func(bx, by [][]float64)
	// SolveB solves the two elliptic equations for the new (Bx,By) guess
	// from the deposited currents (spec §4.5 step 4).
	SolveB func() (bxNew, byNew [][]float64)
	// ResetAndExchange zeroes jx,jy on Next, boundary-exchanges Bx,By, and
	// advances plasma forces only under the new B (spec §4.5 step 7).
	ResetAndExchange func(bx, by [][]float64)
}

// Iterate is one full predictor-corrector loop for a (Bx,By) pair, driven
// through steps. It returns the converged (Bx,By), the number of
// iterations actually run, and an error if the iteration diverged.
func Iterate(bxGuess, byGuess [][]float64, cfg Config, steps StepFuncs) (bx, by [][]float64, iterations int, err error) {
	bx, by = bxGuess, byGuess
	bxPrevIter, byPrevIter := bxGuess, byGuess
	errPrev := 0.0

	for i := 1; i <= cfg.MaxIter; i++ {
		steps.AdvanceAndDeposit(bx, by)
		bxNew, byNew := steps.SolveB()

		relErr := RelativeError(bxNew, byNew, bx, by)
		if relErr > 10 {
			return nil, nil, i, chk.Err(
				"predcorr: relative error %.3e exceeded 10 at iteration %d; "+
					"tune predcorr_B_mixing_factor, predcorr_max_iterations, or the time step", relErr, i)
		}

		bxMixed := Mix(bx, bxNew, bxPrevIter, cfg.MixingFactor, relErr, errPrev)
		byMixed := Mix(by, byNew, byPrevIter, cfg.MixingFactor, relErr, errPrev)

		bxPrevIter, byPrevIter = bxNew, byNew
		errPrev = relErr
		bx, by = bxMixed, byMixed
		iterations = i

		if relErr <= cfg.Tolerance {
			steps.ResetAndExchange(bx, by)
			return bx, by, iterations, nil
		}
		steps.ResetAndExchange(bx, by)
	}
	return bx, by, iterations, nil
}
