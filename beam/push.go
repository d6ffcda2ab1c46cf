// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package beam

// FieldAt is the field sample gathered at a beam particle's 3-D position,
// used by the Boris push (spec §4.7).
type FieldAt struct {
	Ex, Ey, Ez float64
	Bx, By, Bz float64
}

// GatherFunc interpolates fields at (x,y,z) for the push; supplied by the
// driver so this package stays independent of the field-store layout.
type GatherFunc func(x, y, z float64) FieldAt

// Push advances every live particle once per global time step (spec §4.7,
// "not per slice") using a second-order Boris-style scheme with
// nSubcycles halving dt: half-x push, field gather, transverse momentum
// update, mid-step longitudinal momentum, full position update.
func (p *Particles) Push(dt float64, nSubcycles int, gather GatherFunc, charge, mass float64, lx, ly float64) {
	h := dt / float64(nSubcycles)
	for i := 0; i < p.Len(); i++ {
		if !p.IsLive(i) {
			continue
		}
		for s := 0; s < nSubcycles; s++ {
			p.borisSubstep(i, h, gather, charge, mass)
		}
		p.SetPositionEnforceBC(i, lx, ly)
	}
}

func (p *Particles) borisSubstep(i int, h float64, gather GatherFunc, q, m float64) {
	// half-x push
	gamma := gammaOf(p.Ux[i], p.Uy[i], p.Uz[i])
	p.X[i] += 0.5 * h * p.Ux[i] / gamma
	p.Y[i] += 0.5 * h * p.Uy[i] / gamma
	p.Z[i] += 0.5 * h * p.Uz[i] / gamma

	// field gather
	f := gather(p.X[i], p.Y[i], p.Z[i])

	qmh := q * h / (2 * m)

	// transverse momentum update (half electric push + full magnetic
	// rotation + half electric push, the standard Boris rotation)
	uxm := p.Ux[i] + qmh*f.Ex
	uym := p.Uy[i] + qmh*f.Ey
	uzm := p.Uz[i] + qmh*f.Ez

	gammaM := gammaOf(uxm, uym, uzm)
	tx, ty, tz := qmh*f.Bx/gammaM, qmh*f.By/gammaM, qmh*f.Bz/gammaM
	tSq := tx*tx + ty*ty + tz*tz
	sx, sy, sz := 2*tx/(1+tSq), 2*ty/(1+tSq), 2*tz/(1+tSq)

	vpx := uxm + (uym*tz - uzm*ty)
	vpy := uym + (uzm*tx - uxm*tz)
	vpz := uzm + (uxm*ty - uym*tx)

	uxPlus := uxm + (vpy*sz - vpz*sy)
	uyPlus := uym + (vpz*sx - vpx*sz)
	uzPlus := uzm + (vpx*sy - vpy*sx)

	// mid-step longitudinal momentum update
	p.Ux[i] = uxPlus + qmh*f.Ex
	p.Uy[i] = uyPlus + qmh*f.Ey
	p.Uz[i] = uzPlus + qmh*f.Ez

	// full position update with the new momentum
	gamma2 := gammaOf(p.Ux[i], p.Uy[i], p.Uz[i])
	p.X[i] += 0.5 * h * p.Ux[i] / gamma2
	p.Y[i] += 0.5 * h * p.Uy[i] / gamma2
	p.Z[i] += 0.5 * h * p.Uz[i] / gamma2
}
