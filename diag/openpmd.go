// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diag

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/EyaDammak/Hipace2/beam"
	"github.com/EyaDammak/Hipace2/units"
)

// Backend writes one iteration's resampled mesh buffers and beam particle
// datasets to a series. openPMD's own HDF5/ADIOS2 backends are external
// collaborators outside this module's scope (spec.md §1); JSONBackend is
// the only implementation shipped here, matching the openPMD-api's own
// JSON backend contract closely enough to validate against it offline.
type Backend interface {
	WriteIteration(step int, time float64, meshes map[string]*Buffer, beams map[string]*beam.Particles, table *units.Table) error
}

// MeshRecord is one openPMD mesh record: grid spacing/offset/unit
// conversion attributes plus the flattened data, C order (spec §6 "mesh
// records with grid spacing/offset and unit-conversion attributes ...
// C data order").
type MeshRecord struct {
	GridSpacing      []float64 `json:"gridSpacing"`
	GridGlobalOffset []float64 `json:"gridGlobalOffset"`
	UnitSI           float64   `json:"unitSI"`
	Shape            []int     `json:"shape"`
	Data             []float64 `json:"data"` // C order: outermost index varies slowest
}

// ParticleSpecies is one openPMD particle species record (spec §6:
// "position/{x,y,z}, positionOffset, id, charge, mass, momentum/{x,y,z},
// weighting").
type ParticleSpecies struct {
	Position       map[string][]float64 `json:"position"`
	PositionOffset map[string][]float64 `json:"positionOffset"`
	ID             []int                `json:"id"`
	Charge         float64              `json:"charge"`
	Mass           float64              `json:"mass"`
	Momentum       map[string][]float64 `json:"momentum"`
	Weighting      []float64            `json:"weighting"`
}

// Iteration is the top-level JSON document for one output step.
type Iteration struct {
	Step     int                        `json:"step"`
	Time     float64                    `json:"time"`
	Meshes   map[string]*MeshRecord     `json:"meshes"`
	Particle map[string]*ParticleSpecies `json:"particles"`
}

// JSONBackend writes each iteration as <Prefix>_<step>.json under Dir,
// mirroring the teacher's io.Pf-style "write once per call" output
// discipline rather than buffering a whole run in memory.
type JSONBackend struct {
	Dir    string
	Prefix string

	// BeamData whitelists species names to write (diagnostic.beam_data);
	// empty means "write every species", matching FieldData's absence of
	// a separate "all" sentinel.
	BeamData []string
}

// NewJSONBackend builds a backend rooted at dir with the given file
// prefix (e.g. "diags" -> diags_000042.json).
func NewJSONBackend(dir, prefix string) *JSONBackend {
	return &JSONBackend{Dir: dir, Prefix: prefix}
}

// wantsSpecies reports whether name should be written, honoring BeamData
// as a whitelist (gosl's utl.StrIndexSmall is the small-slice membership
// check the teacher's own inp.FuncsData.Skip list uses).
func (b *JSONBackend) wantsSpecies(name string) bool {
	if len(b.BeamData) == 0 {
		return true
	}
	return utl.StrIndexSmall(b.BeamData, name) >= 0
}

func (b *JSONBackend) WriteIteration(step int, time float64, meshes map[string]*Buffer, beams map[string]*beam.Particles, table *units.Table) error {
	it := Iteration{
		Step:     step,
		Time:     time,
		Meshes:   make(map[string]*MeshRecord, len(meshes)),
		Particle: make(map[string]*ParticleSpecies, len(beams)),
	}
	for name, buf := range meshes {
		it.Meshes[name] = bufferToMesh(buf, table)
	}
	for name, p := range beams {
		if !b.wantsSpecies(name) {
			continue
		}
		it.Particle[name] = speciesToRecord(p)
	}

	path := fmt.Sprintf("%s/%s_%06d.json", b.Dir, b.Prefix, step)
	f, err := os.Create(path)
	if err != nil {
		return chk.Err("diag: cannot create %q: %v", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&it); err != nil {
		return chk.Err("diag: cannot encode iteration %d: %v", step, err)
	}
	io.Pf("> wrote diagnostic iteration %d to %s\n", step, path)
	return nil
}

// bufferToMesh flattens buf.Data in C order and converts to SI using
// table, if non-nil (spec §6 "unit-conversion attributes"). GridSpacing is
// written as 1 and GridGlobalOffset as 0 on every axis; they do not carry
// the box's physical cell size or position.
func bufferToMesh(buf *Buffer, table *units.Table) *MeshRecord {
	m := &MeshRecord{
		GridSpacing:      []float64{1, 1, 1},
		GridGlobalOffset: []float64{0, 0, 0},
		UnitSI:           1,
		Shape:            []int{buf.Nx, buf.Ny, buf.Nz},
	}
	m.Data = make([]float64, 0, buf.Nx*buf.Ny*buf.Nz)
	for i := 0; i < buf.Nx; i++ {
		for j := 0; j < buf.Ny; j++ {
			for k := 0; k < buf.Nz; k++ {
				v := buf.Data[i][j][k]
				if table != nil {
					v = table.ToSI(buf.Component, v)
				}
				m.Data = append(m.Data, v)
			}
		}
	}
	return m
}

func speciesToRecord(p *beam.Particles) *ParticleSpecies {
	n := p.Len()
	rec := &ParticleSpecies{
		Position:       map[string][]float64{"x": make([]float64, 0, n), "y": make([]float64, 0, n), "z": make([]float64, 0, n)},
		PositionOffset: map[string][]float64{"x": {0}, "y": {0}, "z": {0}},
		Momentum:       map[string][]float64{"x": make([]float64, 0, n), "y": make([]float64, 0, n), "z": make([]float64, 0, n)},
		Weighting:      make([]float64, 0, n),
		ID:             make([]int, 0, n),
		Charge:         p.Species.Charge,
		Mass:           p.Species.Mass,
	}
	for i := 0; i < n; i++ {
		if !p.IsLive(i) {
			continue
		}
		rec.Position["x"] = append(rec.Position["x"], p.X[i])
		rec.Position["y"] = append(rec.Position["y"], p.Y[i])
		rec.Position["z"] = append(rec.Position["z"], p.Z[i])
		rec.Momentum["x"] = append(rec.Momentum["x"], p.Ux[i])
		rec.Momentum["y"] = append(rec.Momentum["y"], p.Uy[i])
		rec.Momentum["z"] = append(rec.Momentum["z"], p.Uz[i])
		rec.Weighting = append(rec.Weighting, p.Weight[i])
		rec.ID = append(rec.ID, i)
	}
	return rec
}
