// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the flat "section.key = value" input file described
// in spec.md §6 and turns it into a Config struct. The wire format is not
// JSON (unlike gofem's inp.Simulation) so the scanner is hand-rolled, but
// the entry point mirrors inp.ReadSim: one call, a populated struct or a
// panic.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Hipace holds the top-level hipace.* keys.
type Hipace struct {
	MaxStep               int
	NormalizedUnits        bool
	NumProcsX, NumProcsY   int
	NumProcsZ              int // derived: NumProcsWorld / (NumProcsX*NumProcsY)
	GridSizeZ              int
	DeposOrderXY            int
	PredcorrBErrorTolerance float64
	PredcorrMaxIterations   int
	PredcorrBMixingFactor   float64
	SliceDeposition         bool
	Pusher                  string // "ab5" or "substepped" -- spec §9 open question (iii)

	Nx, Ny     int     // transverse cell counts (spec §6 lists the process grid and depos order but not the box size itself, which every run needs)
	Lx, Ly     float64 // transverse physical extents
	BoundaryXY string  // "periodic" or "dirichlet"

	// adaptive time step, active when Dt == "adaptive"
	DtIsAdaptive              bool
	Dt                        float64
	NtPerBetatron             float64
	DtMax                     float64
	AdaptiveThresholdUz       float64
	AdaptivePredictStep       bool
	AdaptivePhaseSubsteps     int
	AdaptivePhaseTolerance    float64
	AdaptiveControlPhaseAdvance bool
	AdaptiveGatherEz          bool // spec §9 open question (i): cmd/hipace warns when set; nothing else reads it

	SalameProfileType   string // fun.New type name, "" / "none" for no SALAME loading
	SalameProfileParams dbf.Params
}

// Diagnostic holds the diagnostic.* keys.
type Diagnostic struct {
	DiagType          string // "xyz", "xz", "yz"
	PatchLo, PatchHi  [3]float64
	Coarsening        [3]int
	IncludeGhostCells bool
	FieldData         []string
	BeamData          []string
}

// Fields holds the fields.* keys.
type Fields struct {
	DoDirichletPoisson bool
	ExtendedSolve      bool
	OpenBoundary       bool
}

// Config is the fully parsed input file.
type Config struct {
	Hipace     Hipace
	Diagnostic Diagnostic
	Fields     Fields

	NumProcsWorld int // supplied by the caller (mpi.Size()), not a file key
}

// Read parses the input file at path and validates the process-grid and
// cell-count invariants described in spec.md §7.1. It panics (spec §7.1:
// configuration errors are fatal at startup) on any invalid value.
func Read(path string, numProcsWorld int) (cfg *Config) {
	cfg = &Config{NumProcsWorld: numProcsWorld}

	// sane defaults
	cfg.Hipace.Pusher = "ab5"
	cfg.Hipace.PredcorrBErrorTolerance = 4e-2
	cfg.Hipace.PredcorrMaxIterations = 5
	cfg.Hipace.PredcorrBMixingFactor = 0.1
	cfg.Hipace.DeposOrderXY = 2
	cfg.Hipace.BoundaryXY = "dirichlet"
	cfg.Diagnostic.DiagType = "xyz"

	f, err := os.Open(path)
	if err != nil {
		chk.Panic("config: cannot open input file %q:\n%v", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			chk.Panic("config: %s:%d: expected 'key = value', got %q", path, lineno, line)
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if err := cfg.set(key, val); err != nil {
			chk.Panic("config: %s:%d: %v", path, lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		chk.Panic("config: cannot read input file %q:\n%v", path, err)
	}

	cfg.validate()
	return
}

func (cfg *Config) set(key, val string) error {
	switch key {
	case "max_step":
		return assignInt(&cfg.Hipace.MaxStep, val)
	case "hipace.normalized_units":
		return assignBool(&cfg.Hipace.NormalizedUnits, val)
	case "hipace.numprocs_x":
		return assignInt(&cfg.Hipace.NumProcsX, val)
	case "hipace.numprocs_y":
		return assignInt(&cfg.Hipace.NumProcsY, val)
	case "hipace.grid_size_z":
		return assignInt(&cfg.Hipace.GridSizeZ, val)
	case "hipace.depos_order_xy":
		return assignInt(&cfg.Hipace.DeposOrderXY, val)
	case "hipace.predcorr_B_error_tolerance":
		return assignFloat(&cfg.Hipace.PredcorrBErrorTolerance, val)
	case "hipace.predcorr_max_iterations":
		return assignInt(&cfg.Hipace.PredcorrMaxIterations, val)
	case "hipace.predcorr_B_mixing_factor":
		return assignFloat(&cfg.Hipace.PredcorrBMixingFactor, val)
	case "hipace.slice_deposition":
		return assignBool(&cfg.Hipace.SliceDeposition, val)
	case "hipace.nx":
		return assignInt(&cfg.Hipace.Nx, val)
	case "hipace.ny":
		return assignInt(&cfg.Hipace.Ny, val)
	case "hipace.lx":
		return assignFloat(&cfg.Hipace.Lx, val)
	case "hipace.ly":
		return assignFloat(&cfg.Hipace.Ly, val)
	case "hipace.boundary_xy":
		cfg.Hipace.BoundaryXY = val
		return nil
	case "hipace.pusher":
		cfg.Hipace.Pusher = val
		return nil
	case "hipace.dt":
		if val == "adaptive" {
			cfg.Hipace.DtIsAdaptive = true
			return nil
		}
		return assignFloat(&cfg.Hipace.Dt, val)
	case "hipace.nt_per_betatron":
		return assignFloat(&cfg.Hipace.NtPerBetatron, val)
	case "hipace.dt_max":
		return assignFloat(&cfg.Hipace.DtMax, val)
	case "hipace.adaptive_threshold_uz":
		return assignFloat(&cfg.Hipace.AdaptiveThresholdUz, val)
	case "hipace.adaptive_predict_step":
		return assignBool(&cfg.Hipace.AdaptivePredictStep, val)
	case "hipace.adaptive_phase_substeps":
		return assignInt(&cfg.Hipace.AdaptivePhaseSubsteps, val)
	case "hipace.adaptive_phase_tolerance":
		return assignFloat(&cfg.Hipace.AdaptivePhaseTolerance, val)
	case "hipace.adaptive_control_phase_advance":
		return assignBool(&cfg.Hipace.AdaptiveControlPhaseAdvance, val)
	case "hipace.adaptive_gather_ez":
		return assignBool(&cfg.Hipace.AdaptiveGatherEz, val)
	case "hipace.salame_profile_type":
		cfg.Hipace.SalameProfileType = val
		return nil
	case "hipace.salame_profile_params":
		prms, err := assignDbfParams(val)
		if err != nil {
			return err
		}
		cfg.Hipace.SalameProfileParams = prms
		return nil
	case "diagnostic.diag_type":
		cfg.Diagnostic.DiagType = val
		return nil
	case "diagnostic.patch_lo":
		return assignFloat3(&cfg.Diagnostic.PatchLo, val)
	case "diagnostic.patch_hi":
		return assignFloat3(&cfg.Diagnostic.PatchHi, val)
	case "diagnostic.coarsening":
		return assignInt3(&cfg.Diagnostic.Coarsening, val)
	case "diagnostic.include_ghost_cells":
		return assignBool(&cfg.Diagnostic.IncludeGhostCells, val)
	case "diagnostic.field_data":
		cfg.Diagnostic.FieldData = strings.Fields(val)
		return nil
	case "diagnostic.beam_data":
		cfg.Diagnostic.BeamData = strings.Fields(val)
		return nil
	case "fields.do_dirichlet_poisson":
		return assignBool(&cfg.Fields.DoDirichletPoisson, val)
	case "fields.extended_solve":
		return assignBool(&cfg.Fields.ExtendedSolve, val)
	case "fields.open_boundary":
		return assignBool(&cfg.Fields.OpenBoundary, val)
	}
	return chk.Err("unknown configuration key %q", key)
}

// validate checks the process-grid and cell-count invariants (spec §7.1).
func (cfg *Config) validate() {
	if cfg.Hipace.NumProcsX <= 0 {
		cfg.Hipace.NumProcsX = 1
	}
	if cfg.Hipace.NumProcsY <= 0 {
		cfg.Hipace.NumProcsY = 1
	}
	xy := cfg.Hipace.NumProcsX * cfg.Hipace.NumProcsY
	if cfg.NumProcsWorld%xy != 0 {
		chk.Panic("config: numprocs_world=%d is not divisible by numprocs_x*numprocs_y=%d",
			cfg.NumProcsWorld, xy)
	}
	cfg.Hipace.NumProcsZ = cfg.NumProcsWorld / xy
	if cfg.Hipace.GridSizeZ <= 0 {
		chk.Panic("config: hipace.grid_size_z must be positive")
	}
	if cfg.Hipace.DeposOrderXY < 0 || cfg.Hipace.DeposOrderXY > 3 {
		chk.Panic("config: hipace.depos_order_xy must be in [0,3], got %d", cfg.Hipace.DeposOrderXY)
	}
	if cfg.Hipace.Nx <= 0 || cfg.Hipace.Ny <= 0 {
		chk.Panic("config: hipace.nx and hipace.ny must be positive")
	}
	if cfg.Hipace.Lx <= 0 || cfg.Hipace.Ly <= 0 {
		chk.Panic("config: hipace.lx and hipace.ly must be positive")
	}
	switch cfg.Hipace.BoundaryXY {
	case "periodic", "dirichlet":
	default:
		chk.Panic("config: unknown hipace.boundary_xy %q", cfg.Hipace.BoundaryXY)
	}
	switch cfg.Diagnostic.DiagType {
	case "xyz", "xz", "yz":
	default:
		chk.Panic("config: unknown diagnostic.diag_type %q", cfg.Diagnostic.DiagType)
	}
	switch cfg.Hipace.Pusher {
	case "ab5", "substepped":
	default:
		chk.Panic("config: unknown hipace.pusher %q (want \"ab5\" or \"substepped\")", cfg.Hipace.Pusher)
	}
}

func assignInt(dst *int, val string) error {
	v, err := strconv.Atoi(val)
	if err != nil {
		return chk.Err("expected integer, got %q", val)
	}
	*dst = v
	return nil
}

func assignFloat(dst *float64, val string) error {
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return chk.Err("expected float, got %q", val)
	}
	*dst = v
	return nil
}

func assignBool(dst *bool, val string) error {
	switch val {
	case "0":
		*dst = false
	case "1":
		*dst = true
	default:
		v, err := strconv.ParseBool(val)
		if err != nil {
			return chk.Err("expected 0/1/bool, got %q", val)
		}
		*dst = v
	}
	return nil
}

func assignFloat3(dst *[3]float64, val string) error {
	fields := strings.Fields(val)
	if len(fields) != 3 {
		return chk.Err("expected 3 floats, got %q", val)
	}
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return chk.Err("expected float, got %q", s)
		}
		dst[i] = v
	}
	return nil
}

func assignInt3(dst *[3]int, val string) error {
	fields := strings.Fields(val)
	if len(fields) != 3 {
		return chk.Err("expected 3 ints, got %q", val)
	}
	for i, s := range fields {
		v, err := strconv.Atoi(s)
		if err != nil {
			return chk.Err("expected integer, got %q", s)
		}
		dst[i] = v
	}
	return nil
}

// assignDbfParams parses "name=value name2=value2 ..." into dbf.Params, the
// literal shape fun.New's constructors expect (mirrors inp's own
// name/value function-parameter records).
func assignDbfParams(val string) (dbf.Params, error) {
	fields := strings.Fields(val)
	prms := make(dbf.Params, 0, len(fields))
	for _, f := range fields {
		name, v, ok := strings.Cut(f, "=")
		if !ok {
			return nil, chk.Err("expected name=value, got %q", f)
		}
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, chk.Err("expected float for %q, got %q", name, v)
		}
		prms = append(prms, &dbf.P{N: name, V: value})
	}
	return prms, nil
}
