// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/EyaDammak/Hipace2/adaptivedt"
	"github.com/EyaDammak/Hipace2/beam"
	"github.com/EyaDammak/Hipace2/config"
	"github.com/EyaDammak/Hipace2/diag"
	"github.com/EyaDammak/Hipace2/driver"
	"github.com/EyaDammak/Hipace2/fields"
	"github.com/EyaDammak/Hipace2/grid"
	"github.com/EyaDammak/Hipace2/pipeline"
	"github.com/EyaDammak/Hipace2/plasma"
	"github.com/EyaDammak/Hipace2/poisson"
	"github.com/EyaDammak/Hipace2/units"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				io.PfRed("\nERROR: %v", err)
				io.Pf("See location of error below:\n")
				chk.Verbose = true
				for i := 5; i > 3; i-- {
					chk.CallerInfo(i)
				}
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	fnamepath, _ := io.ArgToFilename(0, "", ".hipace", true)
	verbose := io.ArgToBool(1, true)
	outDir := io.ArgToString(2, "diags")

	if mpi.Rank() == 0 && verbose {
		io.PfWhite("\nHiPACE2 -- Go quasi-static PIC wakefield solver\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"input file path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"diagnostic output directory", "outDir", outDir,
		))
	}

	run(fnamepath, outDir, verbose)
}

// run drives the full simulation for this rank: config, decomposition,
// pipeline split, per-slab state, and the top-level time-step loop over
// [0,max_step). It mirrors fem.Main.Run's shape (read config, build
// domain, iterate, write diagnostics) generalized to the slice/pipeline
// model of spec.md §5.
func run(fnamepath, outDir string, verbose bool) {
	worldRank := mpi.Rank()
	worldSize := mpi.Size()

	cfg := config.Read(fnamepath, worldSize)
	table := units.Constants(cfg.Hipace.NormalizedUnits, 0)
	if cfg.Hipace.AdaptiveGatherEz && worldRank == 0 {
		io.PfYel("WARNING: hipace.adaptive_gather_ez is enabled\n")
	}

	decomp := grid.NewDecomposition(cfg.Hipace.NumProcsX, cfg.Hipace.NumProcsY, cfg.Hipace.NumProcsZ, cfg.Hipace.GridSizeZ, worldRank)
	split := pipeline.NewSplit(cfg.Hipace.NumProcsX, cfg.Hipace.NumProcsY, cfg.Hipace.NumProcsZ)

	box := grid.NewBox(cfg.Hipace.Nx, cfg.Hipace.Ny, cfg.Hipace.Lx, cfg.Hipace.Ly, cfg.Hipace.DeposOrderXY)

	mode := fields.ModePredictorCorrector
	if cfg.Hipace.SliceDeposition {
		mode = fields.ModeExplicit
	}

	pusherKind := plasma.AB5
	if cfg.Hipace.Pusher == "substepped" {
		pusherKind = plasma.Substepped
	}

	slab := driver.NewSlab(box, mode, plasma.ShapeOrder(cfg.Hipace.DeposOrderXY), pusherKind, table.SI.C)
	slab.ShowMsg = verbose && worldRank == 0
	slab.PredCorr.Tolerance = cfg.Hipace.PredcorrBErrorTolerance
	slab.PredCorr.MaxIter = cfg.Hipace.PredcorrMaxIterations
	slab.PredCorr.MixingFactor = cfg.Hipace.PredcorrBMixingFactor

	slab.Plasma = plasma.InitRegularGrid(box.Nx, box.Ny, 2, 2, box.Lx, box.Ly, 1.0)

	salame, err := units.NewSalameProfile(cfg.Hipace.SalameProfileType, cfg.Hipace.SalameProfileParams)
	if err != nil {
		chk.Panic("hipace: invalid SALAME profile: %v", err)
	}
	slab.Salame = salame

	poissonKind := poisson.Dirichlet
	if cfg.Hipace.BoundaryXY == "periodic" {
		poissonKind = poisson.Periodic
	}
	slab.PsiSolver = poisson.New(poissonKind, box.Nx, box.Ny, box.Dx, box.Dy, 1)
	slab.EzSolver = poisson.New(poissonKind, box.Nx, box.Ny, box.Dx, box.Dy, 1)
	slab.BzSolver = poisson.New(poissonKind, box.Nx, box.Ny, box.Dx, box.Dy, 1)

	lo, hi := decomp.SliceRange()
	numSlices := hi - lo

	xyPipe := pipeline.New(split.Z, decomp.IsTop(), decomp.IsBottom(), box.NxGhost()*box.NyGhost(), 2, 1)

	resampler := diag.New(cfg.Diagnostic, box, numSlices)
	// split.XY distinguishes ranks that share this z-slab (spec §5
	// "Process-level" groups) so they never write over each other's
	// diagnostic output; the per-slab field store itself is never spatially
	// decomposed across them (see DESIGN.md).
	prefix := io.Sf("hipace_xy%03d", split.XY.Rank())
	backend := diag.NewJSONBackend(outDir, prefix)
	backend.BeamData = cfg.Diagnostic.BeamData

	acc := adaptivedt.NewAccumulators()
	dt := cfg.Hipace.Dt
	if cfg.Hipace.DtIsAdaptive {
		dt = cfg.Hipace.DtMax
	}
	physConsts := adaptivedt.PhysicalConstants{E: table.SI.E, Eps0: table.SI.Eps0, Me: table.SI.Me}

	dz := box.Lx / float64(numSlices+1) // placeholder step size until a longitudinal grid module owns dz explicitly

	beams := map[string]*beam.Particles{
		"beam": beam.InitGaussian(beam.Species{Name: "e-", Charge: -1, Mass: 1}, 1000, 1.0, 1.0, 0, 1.0),
	}
	boxArray := &beam.BoxArray{NumBoxesX: cfg.Hipace.NumProcsX, NumBoxesY: cfg.Hipace.NumProcsY, Lx: box.Lx, Ly: box.Ly}
	zLo := float64(lo) * dz

	for step := 0; step < cfg.Hipace.MaxStep; step++ {
		if slab.ShowMsg {
			io.Pf("\n> time step %d, dt=%v\n", step, dt)
		}

		payload := xyPipe.Wait()
		if payload.Previous1 != nil {
			unflattenInto(slab.Store.Get(fields.Previous1, fields.Bx), payload.Previous1)
		}
		if payload.Previous2 != nil {
			unflattenInto(slab.Store.Get(fields.Previous2, fields.Bx), payload.Previous2)
		}

		// per-box sort once per time step (spec §4.8 "Per box sort"), then
		// per-slice bins within this rank's box (spec §4.8 "Per slice sort").
		dense := make(map[string]*beam.DenseBins, len(beams))
		for name, p := range beams {
			sorted, _ := beam.SortByBox(p, boxArray)
			beams[name] = sorted
			dense[name] = beam.BuildDenseBins(sorted, hi-lo, zLo, dz)
		}
		slab.Beams = slab.Beams[:0]
		for _, p := range beams {
			slab.Beams = append(slab.Beams, p)
		}

		names := make([]string, 0, len(beams))
		for name := range beams {
			names = append(names, name)
		}

		for k := lo; k < hi; k++ {
			offsets := make([][]int, len(slab.Beams))
			for bi, name := range names {
				offsets[bi] = dense[name].IndicesForSlice(k - lo)
			}
			ct := zLo + float64(k-lo)*dz
			if err := slab.RunSlice(k, offsets, dz, ct); err != nil {
				chk.Panic("hipace: %v", err)
			}
			resampler.DepositSlice(slab.Store, k-lo)
		}

		// beam push, once per global time step, not per slice (spec §4.7).
		gather := func(x, y, z float64) beam.FieldAt {
			fs := plasma.Gather(slab.Store, box, slab.DeposOrder, fields.This, x, y)
			return beam.FieldAt{Ex: fs.ExmBy, Ey: fs.EypBx, Ez: fs.Ez, Bx: fs.Bx, By: fs.By, Bz: fs.Bz}
		}
		for _, p := range beams {
			p.Push(dt, 4, gather, p.Species.Charge, p.Species.Mass, box.Lx, box.Ly)
		}

		outPayload := pipeline.Payload{
			Previous1: flattenArray(slab.Store.Get(fields.Previous1, fields.Bx)),
			Previous2: flattenArray(slab.Store.Get(fields.Previous2, fields.Bx)),
		}
		xyPipe.Notify(outPayload)
		xyPipe.NotifyFinish()

		if cfg.Hipace.DtIsAdaptive {
			uz := make([]float64, 0)
			weight := make([]float64, 0)
			accel := make([]float64, 0)
			for _, p := range slab.Beams {
				for i := 0; i < p.Len(); i++ {
					if !p.IsLive(i) {
						continue
					}
					uz = append(uz, p.Uz[i])
					weight = append(weight, p.Weight[i])
					accel = append(accel, 0)
				}
			}
			acc.Reduce(weight, uz, accel)
			density := func(ct float64) float64 { return table.N0 }
			dt = adaptivedt.Predict(acc, float64(step)*dt, density, cfg.Hipace.NumProcsZ,
				cfg.Hipace.NtPerBetatron, cfg.Hipace.DtMax, cfg.Hipace.AdaptiveThresholdUz, physConsts)
		}

		if err := backend.WriteIteration(step, float64(step)*dt, resampler.Buffers(), beams, table); err != nil {
			chk.Panic("hipace: %v", err)
		}
	}

	if slab.ShowMsg {
		io.Pf("\n> run completed: %d steps\n", cfg.Hipace.MaxStep)
	}
}

// flattenArray flattens a 2-D ghosted array in row-major order for the
// pipeline payload. It is a thin adapter until the pipeline carries its
// own typed 2-D payload shape.
func flattenArray(arr [][]float64) []float64 {
	if len(arr) == 0 {
		return nil
	}
	out := make([]float64, 0, len(arr)*len(arr[0]))
	for _, row := range arr {
		out = append(out, row...)
	}
	return out
}

// unflattenInto writes flat (row-major) back into dst's existing rows, the
// inverse of flattenArray. dst is the store's backing array, so this
// mutates Store state in place rather than a discardable copy.
func unflattenInto(dst [][]float64, flat []float64) {
	if len(dst) == 0 {
		return
	}
	rowLen := len(dst[0])
	for i, row := range dst {
		copy(row, flat[i*rowLen:(i+1)*rowLen])
	}
}
