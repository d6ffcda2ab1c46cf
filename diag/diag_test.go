// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diag

import (
	"testing"

	"github.com/EyaDammak/Hipace2/config"
	"github.com/EyaDammak/Hipace2/fields"
	"github.com/EyaDammak/Hipace2/grid"
)

func TestResamplerCollapsesAxisForXZ(t *testing.T) {
	box := grid.NewBox(4, 4, 1, 1, 2)
	cfg := config.Diagnostic{
		DiagType:   "xz",
		Coarsening: [3]int{1, 1, 1},
		FieldData:  []string{fields.Ez},
	}
	r := New(cfg, box, 8)
	buf := r.Buffers()[fields.Ez]
	if buf.Ny != 1 {
		t.Fatalf("xz diag_type should collapse y, got Ny=%d", buf.Ny)
	}
}

func TestResamplerDepositSliceAccumulates(t *testing.T) {
	box := grid.NewBox(2, 2, 1, 1, 2)
	store := fields.NewStore(box, fields.ModePredictorCorrector)
	arr := store.Get(fields.This, fields.Ez)
	arr[box.GhostWidth][box.GhostWidth] = 3.0

	cfg := config.Diagnostic{
		DiagType:   "xyz",
		Coarsening: [3]int{1, 1, 1},
		FieldData:  []string{fields.Ez},
	}
	r := New(cfg, box, 1)
	r.DepositSlice(store, 0)
	buf := r.Buffers()[fields.Ez]
	if buf.Data[0][0][0] == 0 {
		t.Fatalf("expected nonzero accumulated value at (0,0,0)")
	}
}

func TestJSONBackendWantsSpeciesWhitelist(t *testing.T) {
	b := NewJSONBackend("diags", "test")
	if !b.wantsSpecies("beam") {
		t.Fatalf("empty BeamData should accept every species")
	}
	b.BeamData = []string{"witness"}
	if b.wantsSpecies("driver") {
		t.Fatalf("BeamData whitelist should reject names not listed")
	}
	if !b.wantsSpecies("witness") {
		t.Fatalf("BeamData whitelist should accept listed names")
	}
}

func TestResamplerRejectsUnknownDiagType(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on unknown diag_type")
		}
	}()
	box := grid.NewBox(2, 2, 1, 1, 2)
	cfg := config.Diagnostic{DiagType: "bogus", Coarsening: [3]int{1, 1, 1}, FieldData: []string{fields.Ez}}
	New(cfg, box, 1)
}
