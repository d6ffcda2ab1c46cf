// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plasma

import (
	"github.com/EyaDammak/Hipace2/fields"
	"github.com/EyaDammak/Hipace2/grid"
)

// FieldSample holds the fields gathered at one particle's position,
// needed both for the push and for the explicit-mode source deposition
// (spec §4.6).
type FieldSample struct {
	ExmBy, EypBx, Ez, Bx, By, Bz, Psi float64
}

// Gather interpolates the (role,component) fields at particle i's
// position using the configured shape order (spec §4.1 "force gather uses
// it too").
func Gather(store *fields.Store, box *grid.Box, order ShapeOrder, role fields.Role, x, y float64) FieldSample {
	var s FieldSample
	s.ExmBy = sampleComponent(store, box, order, role, fields.ExmBy, x, y)
	s.EypBx = sampleComponent(store, box, order, role, fields.EypBx, x, y)
	s.Ez = sampleComponent(store, box, order, role, fields.Ez, x, y)
	s.Bx = sampleComponent(store, box, order, role, fields.Bx, x, y)
	s.By = sampleComponent(store, box, order, role, fields.By, x, y)
	s.Bz = sampleComponent(store, box, order, role, fields.Bz, x, y)
	s.Psi = sampleComponent(store, box, order, role, fields.Psi, x, y)
	return s
}

func sampleComponent(store *fields.Store, box *grid.Box, order ShapeOrder, role fields.Role, component string, x, y float64) float64 {
	if !store.HasComponent(component) {
		return 0
	}
	arr := store.Get(role, component)
	xi := x/box.Dx + float64(box.GhostWidth)
	yi := y/box.Dy + float64(box.GhostWidth)
	sx := Build(order, xi)
	sy := Build(order, yi)
	var v float64
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
			v += wx * wy * arr[i][j]
		}
	}
	return v
}

// DepositCurrents scatters particle i's current and charge contribution
// onto jx,jy,jz,rho on the given role (spec §4.4 step 4).
func DepositCurrents(store *fields.Store, box *grid.Box, order ShapeOrder, role fields.Role, x, y, vx, vy, vz, q float64) {
	depositScaled(store, box, order, role, fields.Jx, x, y, q*vx)
	depositScaled(store, box, order, role, fields.Jy, x, y, q*vy)
	depositScaled(store, box, order, role, fields.Jz, x, y, q*vz)
	depositScaled(store, box, order, role, fields.Rho, x, y, q)
}

func depositScaled(store *fields.Store, box *grid.Box, order ShapeOrder, role fields.Role, component string, x, y, amount float64) {
	arr := store.Get(role, component)
	xi := x/box.Dx + float64(box.GhostWidth)
	yi := y/box.Dy + float64(box.GhostWidth)
	sx := Build(order, xi)
	sy := Build(order, yi)
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

// DepositExplicitSources accumulates Sx,Sy, the source terms for the
// explicit Bx/By solve (spec §4.6 "Explicit deposition"):
//
//	Sx += wq/(psi*m) [ gammaPsi*shape*(By*vy + (Ez*vx + ExmBy*(gammaPsi-vx^2) + EypBx*(-vx*vy))/c)
//	                   + shape_dx*(gammaPsi - vx^2 - 1) + shape_x*shape_dy*(-vx*vy) ]
//
// and symmetrically for Sy. m is the normalized electron mass, 1, so the
// code divides by psi only.
func DepositExplicitSources(store *fields.Store, box *grid.Box, order ShapeOrder, role fields.Role,
	x, y, vx, vy, wq, psi, c float64, f FieldSample) {

	gammaPsi := 0.5*(1/(psi*psi)+vx*vx+vy*vy+1)

	xi := x/box.Dx + float64(box.GhostWidth)
	yi := y/box.Dy + float64(box.GhostWidth)
	sx := Build(order, xi)
	sy := Build(order, yi)
	cellArea := box.Dx * box.Dy

	sxArr := store.Get(role, fields.Sx)
	syArr := store.Get(role, fields.Sy)

	for a, wx := range sx.Weights {
		i := sx.Base + a
		if i < 0 || i >= len(sxArr) {
			continue
		}
		dwx := sx.DWeights[a] / box.Dx
		for b, wy := range sy.Weights {
			j := sy.Base + b
			if j < 0 || j >= len(sxArr[i]) {
				continue
			}
			dwy := sy.DWeights[b] / box.Dy
			shape := wx * wy

			sxTerm := gammaPsi*shape*(f.By*vy+(f.Ez*vx+f.ExmBy*(gammaPsi-vx*vx)+f.EypBx*(-vx*vy))/c) +
				dwx*wy*(gammaPsi-vx*vx-1) + wx*dwy*(-vx*vy)
			syTerm := gammaPsi*shape*(-f.Bx*vx+(f.Ez*vy+f.EypBx*(gammaPsi-vy*vy)+f.ExmBy*(-vx*vy))/c) +
				dwy*wx*(gammaPsi-vy*vy-1) + wy*dwx*(-vx*vy)

			sxArr[i][j] += wq / (psi) * sxTerm / cellArea
			syArr[i][j] += wq / (psi) * syTerm / cellArea
		}
	}
}
