// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package units

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_units01_siIsIdentity(tst *testing.T) {

	chk.PrintTitle("units01: SI table is the identity conversion")

	table := Constants(false, 0)
	if table.OmegaP != 0 || table.Kp != 0 {
		tst.Fatalf("SI table should leave OmegaP,Kp at zero, got %v,%v", table.OmegaP, table.Kp)
	}
	if v := table.ToSI("Ez", 3.5); v != 3.5 {
		tst.Fatalf("ToSI on an SI table should be the identity, got %v", v)
	}
	if v := table.FromSI("Ez", 3.5); v != 3.5 {
		tst.Fatalf("FromSI on an SI table should be the identity, got %v", v)
	}
}

func Test_units02_normalizedDerivesPlasmaScales(tst *testing.T) {

	chk.PrintTitle("units02: normalized table derives omega_p, k_p, E0 from n0")

	n0 := 1e24 // m^-3
	table := Constants(true, n0)

	wantOmegaP := math.Sqrt(n0 * table.SI.E * table.SI.E / (table.SI.Eps0 * table.SI.Me))
	if math.Abs(table.OmegaP-wantOmegaP) > 1e-6*wantOmegaP {
		tst.Fatalf("OmegaP = %v, want %v", table.OmegaP, wantOmegaP)
	}
	if math.Abs(table.Kp-table.OmegaP/table.SI.C) > 1e-12*table.Kp {
		tst.Fatalf("Kp inconsistent with OmegaP/c")
	}

	// a field component scales by E0, a length component scales by 1/Kp.
	ez := table.ToSI("Ez", 2.0)
	if math.Abs(ez-2.0*table.E0) > 1e-9*math.Abs(ez) {
		tst.Fatalf("ToSI(Ez) = %v, want %v", ez, 2.0*table.E0)
	}
	x := table.ToSI("x", 2.0)
	if math.Abs(x-2.0/table.Kp) > 1e-9*math.Abs(x) {
		tst.Fatalf("ToSI(x) = %v, want %v", x, 2.0/table.Kp)
	}

	// FromSI inverts ToSI for any component.
	back := table.FromSI("Ez", ez)
	if math.Abs(back-2.0) > 1e-9 {
		tst.Fatalf("FromSI(ToSI(v)) = %v, want 2.0", back)
	}
}

func Test_units03_unknownComponentPassesThrough(tst *testing.T) {

	chk.PrintTitle("units03: unknown component names pass through unconverted")

	table := Constants(true, 1e24)
	if v := table.ToSI("bogus", 7.0); v != 7.0 {
		tst.Fatalf("ToSI on an unknown component should pass through, got %v", v)
	}
}
