// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plasma

import "math"

// ShapeOrder is the polynomial order of the transverse shape factor used
// for both deposition and gather (spec §4.6, order 0..3 in x,y; order 0 in
// z since plasma deposition is per-slice).
type ShapeOrder int

const (
	Order0 ShapeOrder = 0
	Order1 ShapeOrder = 1
	Order2 ShapeOrder = 2
	Order3 ShapeOrder = 3
)

// Stencil is the set of (cellOffset, weight) pairs for one axis at a given
// shape order, centered on the particle's fractional cell position.
type Stencil struct {
	Base    int // lowest cell index touched
	Weights []float64
	DWeights []float64 // centered-difference shape factors (spec §4.6 "shape_d*")
}

// Build computes the 1-D shape-factor stencil for a particle at fractional
// cell coordinate xi (0<=frac<1 within cell Base+len/2).
func Build(order ShapeOrder, xi float64) Stencil {
	switch order {
	case Order0:
		return stencilOrder0(xi)
	case Order1:
		return stencilOrder1(xi)
	case Order2:
		return stencilOrder2(xi)
	case Order3:
		return stencilOrder3(xi)
	}
	return stencilOrder0(xi)
}

func stencilOrder0(xi float64) Stencil {
	i := int(math.Floor(xi + 0.5))
	return Stencil{Base: i, Weights: []float64{1}, DWeights: []float64{0}}
}

func stencilOrder1(xi float64) Stencil {
	i := int(math.Floor(xi))
	f := xi - float64(i)
	return Stencil{
		Base:     i,
		Weights:  []float64{1 - f, f},
		DWeights: []float64{-1, 1},
	}
}

func stencilOrder2(xi float64) Stencil {
	i := int(math.Floor(xi + 0.5))
	f := xi - float64(i)
	return Stencil{
		Base: i - 1,
		Weights: []float64{
			0.5 * (0.5 - f) * (0.5 - f),
			0.75 - f*f,
			0.5 * (0.5 + f) * (0.5 + f),
		},
		DWeights: []float64{
			f - 0.5,
			-2 * f,
			f + 0.5,
		},
	}
}

func stencilOrder3(xi float64) Stencil {
	i := int(math.Floor(xi))
	f := xi - float64(i)
	w0 := (1 - f) * (1 - f) * (1 - f) / 6
	w1 := (4 - 6*f*f + 3*f*f*f) / 6
	w2 := (4 - 6*(1-f)*(1-f) + 3*(1-f)*(1-f)*(1-f)) / 6
	w3 := f * f * f / 6
	d0 := -(1 - f) * (1 - f) / 2
	d1 := (-4*f + 3*f*f) / 2
	d2 := (4*(1-f) - 3*(1-f)*(1-f)) / 2
	d3 := f * f / 2
	return Stencil{Base: i - 1, Weights: []float64{w0, w1, w2, w3}, DWeights: []float64{d0, d1, d2, d3}}
}
