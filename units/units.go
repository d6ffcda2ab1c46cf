// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package units holds the physical constants table and the SI / normalized
// unit conversion factors shared by every slice kernel.
package units

import "math"

// SI holds the physical constants in SI units.
type SI struct {
	C   float64 // speed of light [m/s]
	E   float64 // elementary charge [C]
	Eps0 float64 // vacuum permittivity [F/m]
	Me  float64 // electron mass [kg]
	Mp  float64 // proton mass [kg]
}

// DefaultSI are the CODATA values used throughout the solver.
var DefaultSI = SI{
	C:    2.99792458e8,
	E:    1.602176634e-19,
	Eps0: 8.8541878128e-12,
	Me:   9.1093837015e-31,
	Mp:   1.67262192369e-27,
}

// Table is a stateless conversion table selected once at startup by
// Constants and passed by const reference into every kernel; it is never
// re-resolved per slice or per particle.
type Table struct {
	SI         SI
	Normalized bool    // true => lengths in k_p^-1, fields in m_e*c*omega_p/e, c=1
	N0         float64 // reference plasma density [m^-3], used to derive omega_p, k_p
	OmegaP     float64 // plasma frequency at n0 [rad/s]
	Kp         float64 // plasma wavenumber at n0 [1/m]
	E0         float64 // wave-breaking field m_e*c*omega_p/e [V/m]
}

// Constants builds the constants table for the given unit convention.
// OmegaP, Kp and E0 are derived from n0 whenever n0 > 0, whatever
// normalized is; with n0 <= 0 they stay zero.
func Constants(normalized bool, n0 float64) *Table {
	t := &Table{SI: DefaultSI, Normalized: normalized, N0: n0}
	if n0 > 0 {
		t.OmegaP = math.Sqrt(n0 * t.SI.E * t.SI.E / (t.SI.Eps0 * t.SI.Me))
		t.Kp = t.OmegaP / t.SI.C
		t.E0 = t.SI.Me * t.SI.C * t.OmegaP / t.SI.E
	}
	return t
}

// ToSI converts a value of the named field component from the table's
// working units into SI units; it is the identity when the table is
// already SI (Normalized == false).
func (t *Table) ToSI(component string, value float64) float64 {
	if !t.Normalized {
		return value
	}
	switch component {
	case "Ex", "Ey", "Ez", "ExmBy", "EypBx", "Bx", "By", "Bz":
		return value * t.E0
	case "rho", "rho_beam":
		return value * t.SI.Eps0 * t.Kp * t.E0
	case "jx", "jy", "jz", "jx_beam", "jy_beam", "jz_beam":
		return value * t.SI.Eps0 * t.Kp * t.E0 * t.SI.C
	case "x", "y", "z":
		return value / t.Kp
	default:
		return value
	}
}

// FromSI is the inverse of ToSI.
func (t *Table) FromSI(component string, value float64) float64 {
	if !t.Normalized {
		return value
	}
	converted := t.ToSI(component, 1)
	if converted == 0 {
		return value
	}
	return value / converted
}
