// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package poisson implements the transverse 2-D Poisson solve described in
// spec.md §4.2: a periodic real-to-complex FFT variant and a Dirichlet
// variant built from a type-I discrete sine transform realized as an
// antisymmetric-extension real-to-complex FFT. Dispatch between the two is
// by a stored sum-type Variant value (spec §9 "Polymorphism"), never by
// virtual call. The real transform primitive is gonum's dsp/fourier.FFT,
// the one real-FFT library present anywhere in the retrieval pack.
package poisson

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Kind selects the Poisson solver variant, built once at startup.
type Kind int

const (
	Periodic Kind = iota
	Dirichlet
)

// Solver solves Laplacian_perp(phi) = s on one slice. Its buffer layout
// and FFT plan are built once in New and reused for every slice solved
// (spec §4.2 "built once, reused per slice"). It fails if asked to solve a
// slice spanning more than one local box (spec §4.2, §7.3).
type Solver struct {
	Kind   Kind
	Nx, Ny int
	Dx, Dy float64

	// periodic path
	rowFFT *fourier.FFT // real-to-complex, along y (row length Ny)
	// the column pass operates on the generically complex spectrum the row
	// pass produces, so it runs a genuine complex DFT (dftForward/
	// dftInverse below) rather than gonum's real-only fourier.FFT.

	// Dirichlet (DST-I via antisymmetric R2C expansion) path
	expNx, expNy int // 2*Nx+2, 2*Ny+2
	expRowFFT    *fourier.FFT
	expColFFT    *fourier.FFT
	eigen        [][]float64 // precomputed lambda(i,j), see spec §4.2
}

// New builds a Solver for a slice of nx*ny interior cells with spacing
// dx,dy. localBoxes must be 1 (spec: "parallel FFT across ranks is not
// supported by the core").
func New(kind Kind, nx, ny int, dx, dy float64, localBoxes int) *Solver {
	if localBoxes != 1 {
		chk.Panic("poisson: slice has %d local boxes; the FFT core only supports one", localBoxes)
	}
	s := &Solver{Kind: kind, Nx: nx, Ny: ny, Dx: dx, Dy: dy}
	switch kind {
	case Periodic:
		s.rowFFT = fourier.NewFFT(ny)
	case Dirichlet:
		s.expNx, s.expNy = 2*nx+2, 2*ny+2
		s.expRowFFT = fourier.NewFFT(s.expNy)
		s.expColFFT = fourier.NewFFT(s.expNx)
		s.eigen = buildEigen(nx, ny, dx, dy)
	default:
		chk.Panic("poisson: unknown solver kind %v", kind)
	}
	return s
}

// buildEigen precomputes lambda(i,j) from spec §4.2:
//
//	lambda(i,j) = norm / [-4(sin^2(pi*i/(2(nx+1)))/dx^2 + sin^2(pi*j/(2(ny+1)))/dy^2)]
//
// with lambda = 0 at i=j=0 and norm = 0.5/(2(nx+1)(ny+1)).
func buildEigen(nx, ny int, dx, dy float64) [][]float64 {
	norm := 0.5 / float64(2*(nx+1)*(ny+1))
	eig := make([][]float64, nx+1)
	for i := 0; i <= nx; i++ {
		eig[i] = make([]float64, ny+1)
		for j := 0; j <= ny; j++ {
			if i == 0 && j == 0 {
				eig[i][j] = 0
				continue
			}
			sx := math.Sin(math.Pi * float64(i) / (2 * float64(nx+1)))
			sy := math.Sin(math.Pi * float64(j) / (2 * float64(ny+1)))
			denom := -4 * (sx*sx/(dx*dx) + sy*sy/(dy*dy))
			eig[i][j] = norm / denom
		}
	}
	return eig
}

// Solve solves Laplacian_perp(phi) = s for the interior [Nx][Ny] source s,
// returning phi over the same interior extent.
func (slv *Solver) Solve(s [][]float64) [][]float64 {
	switch slv.Kind {
	case Periodic:
		return slv.solvePeriodic(s)
	case Dirichlet:
		return slv.solveDirichlet(s)
	}
	chk.Panic("poisson: unknown solver kind %v", slv.Kind)
	return nil
}

// solvePeriodic: real-to-complex FFT, divide by -(kx^2+ky^2) with the zero
// mode set to zero, inverse transform (spec §4.2 "Periodic").
func (slv *Solver) solvePeriodic(s [][]float64) [][]float64 {
	nx, ny := slv.Nx, slv.Ny
	// transform each row (along y), then each column (along x), in place on
	// a complex buffer.
	buf := make([][]complex128, nx)
	for i := 0; i < nx; i++ {
		buf[i] = slv.rowFFT.Coefficients(nil, s[i])
		// Coefficients returns ny/2+1 complex entries; expand to full ny via
		// conjugate symmetry for the subsequent column FFT.
		buf[i] = expandHermitian(buf[i], ny)
	}
	// column transform
	colBuf := make([]complex128, nx)
	full := make([][]complex128, nx)
	for i := range full {
		full[i] = make([]complex128, ny)
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			colBuf[i] = buf[i][j]
		}
		out := dftForward(colBuf)
		for i := 0; i < nx; i++ {
			full[i][j] = out[i]
		}
	}
	// divide by -(kx^2+ky^2), zero mode -> 0
	for i := 0; i < nx; i++ {
		kx := waveNumber(i, nx, slv.Dx)
		for j := 0; j < ny; j++ {
			ky := waveNumber(j, ny, slv.Dy)
			if i == 0 && j == 0 {
				full[i][j] = 0
				continue
			}
			full[i][j] /= complex(-(kx*kx + ky*ky), 0)
		}
	}
	// inverse: column then row
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			colBuf[i] = full[i][j]
		}
		out := dftInverse(colBuf)
		for i := 0; i < nx; i++ {
			full[i][j] = out[i]
		}
	}
	phi := make([][]float64, nx)
	for i := 0; i < nx; i++ {
		row := slv.rowFFT.Sequence(nil, full[i][:ny/2+1])
		phi[i] = row
	}
	return phi
}

func waveNumber(i, n int, d float64) float64 {
	k := i
	if k > n/2 {
		k -= n
	}
	return 2 * math.Pi * float64(k) / (float64(n) * d)
}

// solveDirichlet implements the DST-I-via-antisymmetric-expansion path
// described in spec §4.2: embed, forward R2C expand, multiply by the
// precomputed eigenvalues, embed again, inverse R2C expand.
func (slv *Solver) solveDirichlet(s [][]float64) [][]float64 {
	nx, ny := slv.Nx, slv.Ny
	coeffs := slv.forwardDSTI(s)
	for i := 0; i <= nx; i++ {
		for j := 0; j <= ny; j++ {
			coeffs[i][j] *= slv.eigen[i][j]
		}
	}
	return slv.inverseDSTI(coeffs)
}

// forwardDSTI builds the antisymmetric expansion of s, one axis at a time,
// and returns the purely-imaginary-equivalent DST-I coefficients as reals.
func (slv *Solver) forwardDSTI(s [][]float64) [][]float64 {
	nx, ny := slv.Nx, slv.Ny
	// expand along y for each row: odd antisymmetric extension of length 2ny+2
	rowCoef := make([][]float64, nx)
	for i := 0; i < nx; i++ {
		ext := antisymmetricExpand(s[i], slv.expNy)
		c := slv.expRowFFT.Coefficients(nil, ext)
		rowCoef[i] = imagParts(c, ny+1)
	}
	// expand along x for each column
	out := make([][]float64, nx+1)
	for i := range out {
		out[i] = make([]float64, ny+1)
	}
	colBuf := make([]float64, nx)
	for j := 0; j <= ny; j++ {
		for i := 0; i < nx; i++ {
			colBuf[i] = rowCoef[i][j]
		}
		ext := antisymmetricExpand(colBuf, slv.expNx)
		c := slv.expColFFT.Coefficients(nil, ext)
		im := imagParts(c, nx+1)
		for i := 0; i <= nx; i++ {
			out[i][j] = im[i]
		}
	}
	return out
}

// inverseDSTI performs the same antisymmetric-expansion FFT forward, which
// is its own inverse up to the normalization folded into the eigenvalues
// (spec §4.2: "A second expansion+FFT round returns to real space").
func (slv *Solver) inverseDSTI(c [][]float64) [][]float64 {
	nx, ny := slv.Nx, slv.Ny
	// inverse along x
	rowCoef := make([][]float64, nx)
	for i := range rowCoef {
		rowCoef[i] = make([]float64, ny+1)
	}
	colBuf := make([]float64, nx+1)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			colBuf[i] = c[i][j]
		}
		ext := antisymmetricExpand(colBuf, slv.expNx)
		coef := slv.expColFFT.Coefficients(nil, ext)
		im := imagParts(coef, nx)
		for i := 0; i < nx; i++ {
			rowCoef[i][j] = im[i]
		}
	}
	// inverse along y
	phi := make([][]float64, nx)
	for i := 0; i < nx; i++ {
		ext := antisymmetricExpand(rowCoef[i][:ny+1], slv.expNy)
		coef := slv.expRowFFT.Coefficients(nil, ext)
		phi[i] = imagParts(coef, ny)
	}
	return phi
}

// antisymmetricExpand builds the length-n odd extension (ext[i+1] = v[i],
// ext[n-1-i] = -v[i]) used to realize a DST-I as a real-to-complex FFT
// (spec §4.2). forwardDSTI calls it with n = 2*len(v)+2.
func antisymmetricExpand(v []float64, n int) []float64 {
	ext := make([]float64, n)
	m := len(v)
	for i := 0; i < m; i++ {
		ext[i+1] = v[i]
		ext[n-i-1] = -v[i]
	}
	return ext
}

// imagParts returns the imaginary part of the first k coefficients,
// negated so the convention matches a standard DST-I (sign is absorbed
// into the eigenvalue normalization in buildEigen).
func imagParts(c []complex128, k int) []float64 {
	out := make([]float64, k)
	for i := 0; i < k && i < len(c); i++ {
		out[i] = -imag(c[i])
	}
	return out
}

// expandHermitian reconstructs the full-length complex spectrum from the
// n/2+1 non-redundant coefficients FFT.Coefficients returns, via conjugate
// symmetry, so it can feed a subsequent complex column transform.
func expandHermitian(half []complex128, n int) []complex128 {
	full := make([]complex128, n)
	copy(full, half)
	for i := len(half); i < n; i++ {
		full[i] = conj(full[n-i])
	}
	return full
}

func conj(z complex128) complex128 { return complex(real(z), -imag(z)) }

// dftForward is a direct (O(n^2)) complex-to-complex DFT, unnormalized to
// match gonum's fourier.FFT.Coefficients convention:
//
//	X[k] = sum_j src[j] * exp(-2*pi*i*k*j/n)
//
// The column pass of solvePeriodic feeds it a generically complex spectrum
// (the row pass's output for any ky != 0), so it cannot be realized as a
// real-to-complex transform the way the row pass is.
func dftForward(src []complex128) []complex128 {
	n := len(src)
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var sumRe, sumIm float64
		for j, z := range src {
			angle := -2 * math.Pi * float64(k*j) / float64(n)
			c, s := math.Cos(angle), math.Sin(angle)
			re, im := real(z), imag(z)
			sumRe += re*c - im*s
			sumIm += re*s + im*c
		}
		out[k] = complex(sumRe, sumIm)
	}
	return out
}

// dftInverse is the normalized inverse of dftForward:
//
//	x[j] = (1/n) * sum_k src[k] * exp(+2*pi*i*k*j/n)
func dftInverse(src []complex128) []complex128 {
	n := len(src)
	out := make([]complex128, n)
	for j := 0; j < n; j++ {
		var sumRe, sumIm float64
		for k, z := range src {
			angle := 2 * math.Pi * float64(k*j) / float64(n)
			c, s := math.Cos(angle), math.Sin(angle)
			re, im := real(z), imag(z)
			sumRe += re*c - im*s
			sumIm += re*s + im*c
		}
		out[j] = complex(sumRe/float64(n), sumIm/float64(n))
	}
	return out
}
