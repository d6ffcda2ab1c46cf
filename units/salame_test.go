// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package units

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

func Test_salame01_noneIsAlwaysZero(tst *testing.T) {

	chk.PrintTitle("salame01: \"none\" profile evaluates to zero everywhere")

	p, err := NewSalameProfile("none", nil)
	if err != nil {
		tst.Fatalf("NewSalameProfile failed: %v", err)
	}
	if v := p.Value(0); v != 0 {
		tst.Fatalf("Value(0) = %v, want 0", v)
	}
	if v := p.Value(123.4); v != 0 {
		tst.Fatalf("Value(123.4) = %v, want 0", v)
	}
}

func Test_salame02_cteProfileIsConstant(tst *testing.T) {

	chk.PrintTitle("salame02: a \"cte\" profile evaluates to its configured value at any t")

	p, err := NewSalameProfile("cte", dbf.Params{&dbf.P{N: "c", V: 3.0}})
	if err != nil {
		tst.Fatalf("NewSalameProfile failed: %v", err)
	}
	if v := p.Value(0); v != 3.0 {
		tst.Fatalf("Value(0) = %v, want 3.0", v)
	}
	if v := p.Value(99); v != 3.0 {
		tst.Fatalf("Value(99) = %v, want 3.0", v)
	}
}
