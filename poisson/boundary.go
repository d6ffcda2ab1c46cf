// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poisson

import "math"

// NumMultipoleCoeffs is the number of tracked multipole coefficients
// (monopole through octupole-level terms, spec §4.2).
const NumMultipoleCoeffs = 36

// MultipoleExpansion holds the reduction over interior cells used by the
// open-boundary condition (spec §4.2, mode 1).
type MultipoleExpansion struct {
	Coeffs [NumMultipoleCoeffs]float64
	Cx, Cy float64 // expansion center, box center
}

// ComputeMultipole reduces the source s over interior cells within 95% of
// the minimum half-box radius and accumulates the monopole-through-octupole
// coefficients of its Green's-function expansion (spec §4.2).
func ComputeMultipole(s [][]float64, dx, dy float64, cx, cy float64, zeroMonopole bool) *MultipoleExpansion {
	nx, ny := len(s), len(s[0])
	halfX, halfY := float64(nx)*dx/2, float64(ny)*dy/2
	rmax := 0.95 * math.Min(halfX, halfY)

	m := &MultipoleExpansion{Cx: cx, Cy: cy}
	for i := 0; i < nx; i++ {
		x := (float64(i)+0.5)*dx - cx
		for j := 0; j < ny; j++ {
			y := (float64(j)+0.5)*dy - cy
			r := math.Hypot(x, y)
			if r > rmax {
				continue
			}
			q := s[i][j] * dx * dy
			theta := math.Atan2(y, x)
			for l := 0; l < NumMultipoleCoeffs; l++ {
				order := l / 4
				harmonic := l % 4
				rl := math.Pow(r, float64(order))
				var ang float64
				switch harmonic {
				case 0:
					ang = 1
				case 1:
					ang = math.Cos(float64(order) * theta)
				case 2:
					ang = math.Sin(float64(order) * theta)
				case 3:
					ang = math.Cos(2 * float64(order) * theta)
				}
				m.Coeffs[l] += q * rl * ang
			}
		}
	}
	if zeroMonopole {
		// Ez/Bz sources are transverse divergences: the monopole term is
		// zeroed (spec §4.2).
		m.Coeffs[0] = 0
	}
	return m
}

// EvaluateAt evaluates the truncated Green's-function expansion at a
// boundary point (x,y), per spec §4.2.
func (m *MultipoleExpansion) EvaluateAt(x, y float64) float64 {
	dx, dy := x-m.Cx, y-m.Cy
	r := math.Hypot(dx, dy)
	if r == 0 {
		return 0
	}
	theta := math.Atan2(dy, dx)
	phi := 0.0
	for l := 0; l < NumMultipoleCoeffs; l++ {
		order := l / 4
		harmonic := l % 4
		rInv := math.Pow(r, -float64(order+1))
		var ang float64
		switch harmonic {
		case 0:
			ang = 1
		case 1:
			ang = math.Cos(float64(order) * theta)
		case 2:
			ang = math.Sin(float64(order) * theta)
		case 3:
			ang = math.Cos(2 * float64(order) * theta)
		}
		phi += m.Coeffs[l] * rInv * ang / (4 * math.Pi)
	}
	return phi
}

// SetBoundaryCondition writes a non-zero Dirichlet boundary value into the
// source s by modifying the outermost grid points, subtracting
// boundary_value/dx^2 (x edges) or /dy^2 (y edges), per spec §4.2.
func SetBoundaryCondition(s [][]float64, dx, dy float64, boundary func(edge string, i, j int) float64) {
	nx, ny := len(s), len(s[0])
	for j := 0; j < ny; j++ {
		s[0][j] -= boundary("xlo", 0, j) / (dx * dx)
		s[nx-1][j] -= boundary("xhi", nx-1, j) / (dx * dx)
	}
	for i := 0; i < nx; i++ {
		s[i][0] -= boundary("ylo", i, 0) / (dy * dy)
		s[i][ny-1] -= boundary("yhi", i, ny-1) / (dy * dy)
	}
}

// OpenBoundary builds the boundary evaluator for the coarsest level's open
// boundary condition (spec §4.2 mode 1).
func OpenBoundary(m *MultipoleExpansion, dx, dy float64) func(edge string, i, j int) float64 {
	return func(edge string, i, j int) float64 {
		x, y := (float64(i)+0.5)*dx, (float64(j)+0.5)*dy
		return m.EvaluateAt(x, y)
	}
}

// NestedBoundary builds the boundary evaluator for a nested refinement
// level by bilinear interpolation of the coarse level's already-solved
// field onto the fine-level boundary (spec §4.2 mode 2).
func NestedBoundary(coarse [][]float64, coarseDx, coarseDy float64, fineOriginX, fineOriginY float64) func(edge string, i, j int) float64 {
	return func(edge string, i, j int) float64 {
		return bilinear(coarse, coarseDx, coarseDy, fineOriginX, fineOriginY, i, j)
	}
}

func bilinear(coarse [][]float64, dx, dy, ox, oy float64, i, j int) float64 {
	x := ox + float64(i)*dx
	y := oy + float64(j)*dy
	nx, ny := len(coarse), len(coarse[0])
	fi := x / dx
	fj := y / dy
	i0 := clampInt(int(math.Floor(fi)), 0, nx-2)
	j0 := clampInt(int(math.Floor(fj)), 0, ny-2)
	tx, ty := fi-float64(i0), fj-float64(j0)
	v00, v10 := coarse[i0][j0], coarse[i0+1][j0]
	v01, v11 := coarse[i0][j0+1], coarse[i0+1][j0+1]
	a := v00*(1-tx) + v10*tx
	b := v01*(1-tx) + v11*tx
	return a*(1-ty) + b*ty
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
