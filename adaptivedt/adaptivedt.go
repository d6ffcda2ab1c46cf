// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package adaptivedt implements the adaptive time step described in
// spec.md §4.9: per-beam statistics accumulation, the numprocs_z-iterated
// Delta-t prediction, and the optional phase-advance controller.
package adaptivedt

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Accumulators holds the five per-beam reductions of spec §4.9: {min_uz,
// min_acc, sum_w, sum_w_uz, sum_w_uz2}.
type Accumulators struct {
	MinUz   float64
	MinAcc  float64
	SumW    float64
	SumWUz  float64
	SumWUz2 float64
}

// NewAccumulators returns a zeroed accumulator set with MinUz and MinAcc
// at +Inf so the first reduction always lowers them.
func NewAccumulators() *Accumulators {
	return &Accumulators{MinUz: math.Inf(1), MinAcc: math.Inf(1)}
}

// Reduce updates the accumulators over one beam's particles, given their
// weight, longitudinal momentum and longitudinal acceleration (spec §4.9
// "a reduction over the beam's particles updates the accumulators").
func (a *Accumulators) Reduce(weight, uz, acc []float64) {
	for i := range weight {
		w := weight[i]
		a.SumW += w
		a.SumWUz += w * uz[i]
		a.SumWUz2 += w * uz[i] * uz[i]
		if uz[i] < a.MinUz {
			a.MinUz = uz[i]
		}
		if acc[i] < a.MinAcc {
			a.MinAcc = acc[i]
		}
	}
}

// MeanStdev computes the weighted mean and stdev of uz from the streamed
// sum_w/sum_w_uz/sum_w_uz2 accumulators (spec §4.9 step 1). This is a
// hand-rolled weighted moment computation rather than a gonum/stat call:
// stat.Mean/stat.Variance need the full per-particle sample arrays, which
// the accumulator design in spec §4.9 specifically avoids retaining.
func (a *Accumulators) MeanStdev() (mean, stdev float64) {
	if a.SumW == 0 {
		return 0, 0
	}
	mean = a.SumWUz / a.SumW
	variance := a.SumWUz2/a.SumW - mean*mean
	if variance < 0 {
		variance = 0
	}
	stdev = math.Sqrt(variance)
	return
}

// PlasmaDensity evaluates n_e(ct), the plasma density profile at the
// current co-moving position; supplied by the caller (spec §1: particle
// initialization / plasma profile is an external collaborator).
type PlasmaDensity func(ct float64) float64

// Predict runs spec §4.9 steps 2-4: candidate minimum uz, the
// numprocs_z-iterated Delta-t prediction with gamma_min incrementing by
// min_acc*dt_new each iteration, and the final cap at dtMax.
func Predict(acc *Accumulators, ct float64, density PlasmaDensity, numProcsZ int,
	nPerBetatron, dtMax, thresholdUz float64, constants PhysicalConstants) float64 {

	mean, stdev := acc.MeanStdev()
	candidateMinUz := math.Max(math.Min(mean-4*stdev, acc.MinUz), thresholdUz)
	gammaMin := math.Sqrt(1 + candidateMinUz*candidateMinUz)

	dtNew := 0.0
	for it := 0; it < numProcsZ; it++ {
		ne := density(ct)
		omegaP2 := ne * constants.E * constants.E / (constants.Eps0 * constants.Me)
		omegaB := math.Sqrt(omegaP2/(2*gammaMin)) // omega_b = omega_p/sqrt(2*gamma_min)
		if omegaB <= 0 {
			chk.Panic("adaptivedt: non-positive betatron frequency while predicting dt")
		}
		dtNew = 2 * math.Pi / (omegaB * nPerBetatron)
		gammaMin += acc.MinAcc * dtNew
	}
	if dtNew > dtMax {
		dtNew = dtMax
	}
	return dtNew
}

// PhysicalConstants is the minimal constant set Predict needs; callers
// thread in units.Table's SI fields.
type PhysicalConstants struct {
	E, Eps0, Me float64
}

// PhaseController truncates the candidate dt if the betatron phase advance
// over the candidate step exceeds 2*pi*tol/nPerBetatron (spec §4.9 step 5,
// optional).
type PhaseController struct {
	Substeps     int
	Tolerance    float64
	NPerBetatron float64
}

// Apply substeps the betatron phase advance over candidateDt using
// omegaBFunc(t), and truncates candidateDt if the accumulated phase
// mismatch exceeds the configured tolerance.
func (c *PhaseController) Apply(candidateDt float64, omegaBFunc func(t float64) float64) float64 {
	if c.Substeps <= 0 {
		return candidateDt
	}
	h := candidateDt / float64(c.Substeps)
	limit := 2 * math.Pi * c.Tolerance / c.NPerBetatron
	phase, phase0 := 0.0, 0.0
	t := 0.0
	for s := 0; s < c.Substeps; s++ {
		phase += omegaBFunc(t) * h
		t += h
		if math.Abs(phase-phase0) > limit {
			if s == 0 {
				// spec §7.5: "phase controller exiting at first substep" is
				// a numerical warning, not a hard failure.
				return candidateDt
			}
			return float64(s) * h
		}
	}
	return candidateDt
}

// FinalDt returns the minimum candidate across beams, capped at dtMax
// (spec §4.9 step 4, restated for the multi-beam reduction).
func FinalDt(candidates []float64, dtMax float64) float64 {
	if len(candidates) == 0 {
		return dtMax
	}
	min := candidates[0]
	for _, c := range candidates[1:] {
		if c < min {
			min = c
		}
	}
	if min > dtMax {
		min = dtMax
	}
	return min
}
