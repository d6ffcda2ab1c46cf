// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package units

import (
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/fun/dbf"
)

// SalameProfile is the runtime current profile for the SALAME slice role:
// spec.md names the role in its data model but leaves the function that
// populates it unspecified. It wraps a gosl fun.TimeSpace evaluator the
// way inp.FuncsData.Get wraps one for a boundary condition, so the profile
// shape ("cte", "rmp", ...) and its parameters come from the input file
// rather than from a hand-rolled switch here.
type SalameProfile struct {
	fcn fun.TimeSpace
}

// NewSalameProfile dispatches typeName/prms to fun.New. typeName "" or
// "none" yields the always-zero profile, matching FuncsData.Get's
// "zero"/"none" shortcut.
func NewSalameProfile(typeName string, prms dbf.Params) (*SalameProfile, error) {
	if typeName == "" || typeName == "none" {
		return &SalameProfile{fcn: &fun.Zero}, nil
	}
	fcn, err := fun.New(typeName, prms)
	if err != nil {
		return nil, err
	}
	return &SalameProfile{fcn: fcn}, nil
}

// Value evaluates the profile at the co-moving position ct. None of the
// profile shapes this solver configures use the spatial argument, so it is
// always passed as nil, the same convention inp's FaceBc.Funcs callers use
// for purely time-dependent functions.
func (p *SalameProfile) Value(ct float64) float64 {
	if p == nil || p.fcn == nil {
		return 0
	}
	return p.fcn.F(ct, nil)
}
