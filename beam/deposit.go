// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package beam

import (
	"math"

	"github.com/EyaDammak/Hipace2/fields"
	"github.com/EyaDammak/Hipace2/grid"
	"github.com/EyaDammak/Hipace2/plasma"
)

// DepositCurrentSlice scatters the particles of a single slice bin (the
// particle indices selected by the caller via DenseBins) into jx_beam,
// jy_beam, jz_beam, rho_beam on This (spec §4.7).
func DepositCurrentSlice(store *fields.Store, box *grid.Box, order plasma.ShapeOrder, p *Particles, indices []int) {
	jx := store.Get(fields.This, fields.JxBeam)
	jy := store.Get(fields.This, fields.JyBeam)
	jz := store.Get(fields.This, fields.JzBeam)
	rho := store.Get(fields.This, fields.RhoBeam)

	for _, i := range indices {
		if !p.IsLive(i) {
			continue
		}
		q := p.Species.Charge * p.Weight[i]
		gamma := gammaOf(p.Ux[i], p.Uy[i], p.Uz[i])
		vx, vy, vz := p.Ux[i]/gamma, p.Uy[i]/gamma, p.Uz[i]/gamma

		depositOne(jx, box, order, p.X[i], p.Y[i], q*vx)
		depositOne(jy, box, order, p.X[i], p.Y[i], q*vy)
		depositOne(jz, box, order, p.X[i], p.Y[i], q*vz)
		depositOne(rho, box, order, p.X[i], p.Y[i], q)
	}
}

func depositOne(arr [][]float64, box *grid.Box, order plasma.ShapeOrder, x, y, amount float64) {
	xi := x/box.Dx + float64(box.GhostWidth)
	yi := y/box.Dy + float64(box.GhostWidth)
	sx := plasma.Build(order, xi)
	sy := plasma.Build(order, yi)
	cellArea := box.Dx * box.Dy
	for a, wx := range sx.Weights {
		i := sx.Base + a
		if i < 0 || i >= len(arr) {
			continue
		}
		for b, wy := range sy.Weights {
			j := sy.Base + b
			if j < 0 || j >= len(arr[i]) {
				continue
			}
			arr[i][j] += wx * wy * amount / cellArea
		}
	}
}

func gammaOf(ux, uy, uz float64) float64 {
	g := ux*ux + uy*uy + uz*uz + 1
	if g <= 0 {
		return 1
	}
	return math.Sqrt(g)
}
