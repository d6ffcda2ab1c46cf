// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.hipace")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("cannot write temp config: %v", err)
	}
	return path
}

func TestReadParsesBasicKeys(t *testing.T) {
	path := writeTempConfig(t, `
max_step = 10
hipace.numprocs_x = 2
hipace.numprocs_y = 2
hipace.grid_size_z = 16
hipace.nx = 64
hipace.ny = 64
hipace.lx = 10
hipace.ly = 10
diagnostic.diag_type = xz
diagnostic.field_data = Ez Bx By
`)
	cfg := Read(path, 8)
	if cfg.Hipace.MaxStep != 10 {
		t.Fatalf("MaxStep = %d, want 10", cfg.Hipace.MaxStep)
	}
	if cfg.Hipace.NumProcsZ != 2 {
		t.Fatalf("NumProcsZ = %d, want 2 (8 / (2*2))", cfg.Hipace.NumProcsZ)
	}
	if cfg.Diagnostic.DiagType != "xz" {
		t.Fatalf("DiagType = %q, want xz", cfg.Diagnostic.DiagType)
	}
	if len(cfg.Diagnostic.FieldData) != 3 {
		t.Fatalf("FieldData = %v, want 3 entries", cfg.Diagnostic.FieldData)
	}
}

func TestReadPanicsOnIndivisibleProcessGrid(t *testing.T) {
	path := writeTempConfig(t, `
hipace.numprocs_x = 3
hipace.numprocs_y = 1
hipace.grid_size_z = 16
hipace.nx = 8
hipace.ny = 8
hipace.lx = 1
hipace.ly = 1
`)
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for numprocs_world not divisible by numprocs_x*numprocs_y")
		}
	}()
	Read(path, 8)
}

func TestReadPanicsOnUnknownKey(t *testing.T) {
	path := writeTempConfig(t, "bogus.key = 1\n")
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for unknown key")
		}
	}()
	Read(path, 1)
}
