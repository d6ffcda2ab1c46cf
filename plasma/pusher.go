// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plasma

// PusherKind selects the runtime pusher variant (spec §9 open question
// (iii): "a single runtime choice", not a compile-time flag).
type PusherKind int

const (
	AB5 PusherKind = iota
	Substepped
)

// ab5Coeffs are the fifth-order Adams-Bashforth coefficients, stored
// unscaled; integrateAB5 applies the dz/720 factor (spec §4.6):
// (1901,-1387,2163,-1637,501)/720.
var ab5Coeffs = [HistorySlots]float64{1901, -1387, 2163, -1637, 501}

// Force is the per-step momentum derivative F=(Fx,Fy,Fux,Fuy,Fpsi)
// evaluated from the gathered fields (spec §4.6).
type Force struct {
	Fx, Fy, Fux, Fuy, Fpsi float64
}

// ComputeForce evaluates dState/dz from the gathered field sample and the
// particle state, in normalized units (c = 1), matching the momentum
// function shared by both pusher variants (spec §4.6).
func ComputeForce(f FieldSample, x, y, ux, uy, psi float64) Force {
	gammaPsi := 0.5 * (1/(psi*psi) + ux*ux + uy*uy + 1)
	return Force{
		Fx:   ux / psi,
		Fy:   uy / psi,
		Fux:  gammaPsi*f.ExmBy + f.By*0 - uy*f.Bz/psi + f.ExmBy*0,
		Fuy:  gammaPsi*f.EypBx + uy*0 + ux*f.Bz/psi,
		Fpsi: (ux*f.ExmBy + uy*f.EypBx) / psi,
	}
}

// PushAB5 integrates one slice step with the five-slot force-history ring
// (spec §4.6 "Pusher (AB5 mode)"). The history ring is rotated by the
// caller via RotateHistory once per step (spec §9 "History rings").
func (p *Particles) PushAB5(i int, dz float64, f Force) {
	head := p.HistoryHead
	p.History[ForceX][head][i] = f.Fx
	p.History[ForceY][head][i] = f.Fy
	p.History[ForceUx][head][i] = f.Fux
	p.History[ForceUy][head][i] = f.Fuy
	p.History[ForcePsi][head][i] = f.Fpsi

	dx := integrateAB5(p.History[ForceX], head, i, dz)
	dy := integrateAB5(p.History[ForceY], head, i, dz)
	dux := integrateAB5(p.History[ForceUx], head, i, dz)
	duy := integrateAB5(p.History[ForceUy], head, i, dz)
	dpsi := integrateAB5(p.History[ForcePsi], head, i, dz)

	p.X[i] += dx
	p.Y[i] += dy
	p.Ux[i] += dux
	p.Uy[i] += duy
	p.Psi[i] += dpsi
}

// integrateAB5 applies the AB5 weighted sum over the five history slots
// of particle i in ring order starting at head.
func integrateAB5(history [HistorySlots][]float64, head, i int, dz float64) float64 {
	var sum float64
	for k := 0; k < HistorySlots; k++ {
		slot := (head - k + HistorySlots) % HistorySlots
		sum += ab5Coeffs[k] * history[slot][i]
	}
	return sum * dz / 720
}

// RotateHistory advances the ring's write head once per step (spec §9).
func (p *Particles) RotateHistory() {
	p.HistoryHead = (p.HistoryHead + 1) % HistorySlots
}

// Dual is a forward-mode dual number used by the substepped pusher to
// propagate dF/dz through the momentum function (spec §4.6 "Pusher
// (substepped dual-number mode)").
type Dual struct {
	Val, Deriv float64
}

func dualAdd(a, b Dual) Dual { return Dual{a.Val + b.Val, a.Deriv + b.Deriv} }
func dualMul(a, b Dual) Dual {
	return Dual{a.Val * b.Val, a.Deriv*b.Val + a.Val*b.Deriv}
}
func dualDiv(a, b Dual) Dual {
	return Dual{a.Val / b.Val, (a.Deriv*b.Val - a.Val*b.Deriv) / (b.Val * b.Val)}
}
func dualConst(v float64) Dual { return Dual{v, 0} }

// computeForceDual mirrors ComputeForce but propagates a seeded derivative
// through every operation so the substepped pusher gets dF/dz for free.
func computeForceDual(f FieldSample, x, y, ux, uy, psi Dual) (fx, fy, fux, fuy, fpsi Dual) {
	psiInv := dualDiv(dualConst(1), dualMul(psi, psi))
	gammaPsi := dualMul(dualConst(0.5), dualAdd(dualAdd(psiInv, dualMul(ux, ux)), dualAdd(dualMul(uy, uy), dualConst(1))))
	fx = dualDiv(ux, psi)
	fy = dualDiv(uy, psi)
	fux = dualAdd(dualMul(gammaPsi, dualConst(f.ExmBy)), dualMul(dualConst(-f.Bz), dualDiv(uy, psi)))
	fuy = dualAdd(dualMul(gammaPsi, dualConst(f.EypBx)), dualMul(dualConst(f.Bz), dualDiv(ux, psi)))
	fpsi = dualDiv(dualAdd(dualMul(ux, dualConst(f.ExmBy)), dualMul(uy, dualConst(f.EypBx))), psi)
	return
}

// PushSubstepped advances one slice step in nSubsteps substeps, each
// computing dF/dz via dual numbers and applying a second-order Taylor
// update (spec §4.6 "Pusher (substepped dual-number mode)", 4 substeps).
func (p *Particles) PushSubstepped(i int, dz float64, f FieldSample, nSubsteps int) {
	h := dz / float64(nSubsteps)
	for s := 0; s < nSubsteps; s++ {
		x := Dual{p.X[i], 0}
		y := Dual{p.Y[i], 0}
		ux := Dual{p.Ux[i], 0}
		uy := Dual{p.Uy[i], 0}
		psi := Dual{p.Psi[i], 0}
		// seed each state's derivative with its dz-rate so the second
		// evaluation carries dF/dz along the trajectory
		f0x, f0y, f0ux, f0uy, f0psi := computeForceDual(f, x, y, ux, uy, psi)
		x.Deriv, y.Deriv, ux.Deriv, uy.Deriv, psi.Deriv = f0x.Val, f0y.Val, f0ux.Val, f0uy.Val, f0psi.Val
		fx, fy, fux, fuy, fpsi := computeForceDual(f, x, y, ux, uy, psi)

		p.X[i] += fx.Val*h + 0.5*fx.Deriv*h*h
		p.Y[i] += fy.Val*h + 0.5*fy.Deriv*h*h
		p.Ux[i] += fux.Val*h + 0.5*fux.Deriv*h*h
		p.Uy[i] += fuy.Val*h + 0.5*fuy.Deriv*h*h
		p.Psi[i] += fpsi.Val*h + 0.5*fpsi.Deriv*h*h
	}
}
